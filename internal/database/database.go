// Package database handles PostgreSQL connection management and migration
// execution using goose. The order API connects lazily: the pool is opened
// and the schema migrated the first time a request needs the database.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var embedMigrations embed.FS

// maxOpenConns keeps the pool small; managed Postgres plans cap connections.
const maxOpenConns = 3

// ErrNotConfigured is returned when no database URL was supplied.
var ErrNotConfigured = errors.New("DATABASE_URL/NEON_DATABASE_URL no configurado")

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}

// Lazy opens and migrates the database on first use. A failed attempt is
// not cached, so the next call retries. Safe for concurrent use.
type Lazy struct {
	dsn string

	mu sync.Mutex
	db *sql.DB
}

// NewLazy creates a Lazy connector for dsn. An empty dsn is allowed; DB
// then returns ErrNotConfigured.
func NewLazy(dsn string) *Lazy {
	return &Lazy{dsn: dsn}
}

// DB returns the pool, connecting and migrating on the first call.
func (l *Lazy) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db, nil
	}
	if l.dsn == "" {
		return nil, ErrNotConfigured
	}

	db, err := Connect(ctx, l.dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	l.db = db
	return db, nil
}

// Close closes the pool if it was opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
