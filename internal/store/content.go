// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"edukoder/internal/models"
)

// dateLayout is the ISO-8601 form records store their date in.
const dateLayout = "2006-01-02T15:04:05.000Z"

// Repository loads and saves a whole content collection. Implementations
// may add locking or atomic writes without the pipeline noticing.
type Repository interface {
	Load() ([]models.ContentRecord, error)
	Save(records []models.ContentRecord) error
}

// FileStore keeps one content collection in a JSON file shaped
// {"<kind>": [records...]}. It does no locking: concurrent writers race and
// the last one wins.
type FileStore struct {
	path string
	kind models.ContentKind
}

// NewFileStore creates a FileStore for the collection of kind at path.
func NewFileStore(path string, kind models.ContentKind) *FileStore {
	return &FileStore{path: path, kind: kind}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection. A missing or unparseable file is an empty
// collection, not an error; other read failures are returned.
func (s *FileStore) Load() ([]models.ContentRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.ContentRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content store: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("content store unreadable, starting fresh", "path", s.path, "error", err)
		return []models.ContentRecord{}, nil
	}

	var items []json.RawMessage
	if raw, ok := doc[string(s.kind)]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			slog.Warn("content store collection is not a list, starting fresh",
				"path", s.path, "kind", s.kind, "error", err)
			return []models.ContentRecord{}, nil
		}
	}

	records := make([]models.ContentRecord, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			slog.Warn("skipping unreadable content record", "path", s.path, "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord decodes one stored record. Records written by other tools
// may carry tags as a comma-separated string, a numeric (epoch millis)
// date, or numbers where strings are expected; those are coerced instead
// of failing the whole collection.
func decodeRecord(raw json.RawMessage) (models.ContentRecord, error) {
	var rec models.ContentRecord
	if err := json.Unmarshal(raw, &rec); err == nil {
		if rec.Tags == nil {
			rec.Tags = []string{}
		}
		return rec, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.ContentRecord{}, fmt.Errorf("decode content record: %w", err)
	}
	str := func(key string) string { return scalarString(fields[key]) }

	rec = models.ContentRecord{
		Slug:     str("slug"),
		Title:    str("title"),
		Excerpt:  str("excerpt"),
		Explain:  str("explain"),
		Content:  str("content"),
		Language: models.Language(str("language")),
		Tags:     looseTags(fields["tags"]),
		Date:     str("date"),
		ImageURL: str("imageUrl"),
		ImageAlt: str("imageAlt"),
		Author:   str("author"),
		Link:     str("link"),
	}
	if ms, ok := fields["date"].(float64); ok {
		rec.Date = time.UnixMilli(int64(ms)).UTC().Format(dateLayout)
	}
	slog.Warn("content record coerced", "slug", rec.Slug)
	return rec, nil
}

// scalarString renders a JSON scalar as text; objects, lists and null are "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// looseTags accepts a list of scalars or a comma-separated string.
func looseTags(v any) []string {
	tags := []string{}
	switch t := v.(type) {
	case []any:
		for _, tag := range t {
			if s := strings.TrimSpace(scalarString(tag)); s != "" {
				tags = append(tags, s)
			}
		}
	case string:
		for _, tag := range strings.Split(t, ",") {
			if s := strings.TrimSpace(tag); s != "" {
				tags = append(tags, s)
			}
		}
	}
	return tags
}

// Save sorts records by date descending and writes the whole collection as
// two-space indented JSON, creating parent directories as needed.
func (s *FileStore) Save(records []models.ContentRecord) error {
	sorted := make([]models.ContentRecord, len(records))
	copy(sorted, records)
	SortByDate(sorted)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string][]models.ContentRecord{string(s.kind): sorted}); err != nil {
		return fmt.Errorf("encode content store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create content store dir: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write content store: %w", err)
	}
	return nil
}

// SortByDate orders records by Date descending, comparing the strings
// lexicographically. Equal dates keep their relative order.
func SortByDate(records []models.ContentRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// Upsert merges records into the collection held by repo, replacing any
// existing record with the same slug entirely, and saves the result. It
// returns the number of records written.
func Upsert(repo Repository, records []models.ContentRecord) (int, error) {
	existing, err := repo.Load()
	if err != nil {
		return 0, err
	}

	merged := make([]models.ContentRecord, 0, len(existing)+len(records))
	index := make(map[string]int, len(existing)+len(records))
	put := func(r models.ContentRecord) {
		if i, ok := index[r.Slug]; ok {
			merged[i] = r
			return
		}
		index[r.Slug] = len(merged)
		merged = append(merged, r)
	}

	for _, r := range existing {
		put(r)
	}
	for _, r := range records {
		put(r)
	}

	if err := repo.Save(merged); err != nil {
		return 0, err
	}
	return len(merged), nil
}
