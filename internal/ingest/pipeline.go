// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"edukoder/internal/models"
	"edukoder/internal/store"
)

// ImageFinder looks up a photo for an article topic. It must never fail;
// *images.Finder implements it.
type ImageFinder interface {
	Find(ctx context.Context, topic string) models.Image
}

// Exporter receives every record written by a run, after the upsert.
// The blog Markdown writer implements it.
type Exporter interface {
	Export(rec models.ContentRecord) error
}

// Report summarizes one pipeline run.
type Report struct {
	Kind     models.ContentKind
	Skipped  bool
	Reason   string
	Mode     string
	Strategy Strategy
	Fetched  int
	Upserted int
	Total    int
	Records  []models.ContentRecord
}

// Pipeline runs one ingestion pass for a single content kind.
type Pipeline struct {
	cfg      Config
	repo     store.Repository
	client   *http.Client
	source   Source
	images   ImageFinder
	exporter Exporter
	now      func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient sets the client used for provider requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) { p.client = c }
}

// WithSource bypasses provider selection and fetches from src.
func WithSource(src Source) Option {
	return func(p *Pipeline) { p.source = src }
}

// WithImageFinder enables image enrichment for articles.
func WithImageFinder(f ImageFinder) Option {
	return func(p *Pipeline) { p.images = f }
}

// WithExporter registers a hook called for every written record.
func WithExporter(e Exporter) Option {
	return func(p *Pipeline) { p.exporter = e }
}

// WithClock replaces time.Now for dates and slug suffixes.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline writing to repo.
func New(cfg Config, repo store.Repository, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg.withDefaults(),
		repo:   repo,
		client: http.DefaultClient,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches, extracts, normalizes and upserts one batch. Provider and
// parsing failures never surface as errors: the run is reported as skipped
// and the store is left untouched. Only a failure to write the store is
// returned.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	kind := p.cfg.Kind
	report := Report{Kind: kind}
	log := slog.With("kind", kind)

	items, err := p.fetchItems(ctx, &report)
	if err != nil {
		if !p.useLocalFallback() {
			report.Skipped = true
			report.Reason = err.Error()
			log.Warn("ingestion skipped", "reason", report.Reason, "mode", report.Mode)
			return report, nil
		}
		log.Info("using local article template", "reason", err.Error())
		items = []RawItem{LocalArticle(p.now())}
		report.Mode = "local"
		report.Strategy = StrategyLocalTemplate
	}

	if len(items) > p.cfg.ItemLimit {
		items = items[:p.cfg.ItemLimit]
	}
	report.Fetched = len(items)

	normalizer := NewNormalizer(kind, p.cfg.SlugPolicy, p.now)
	records := make([]models.ContentRecord, 0, len(items))
	for _, item := range items {
		rec := normalizer.Normalize(item)
		if kind == models.KindArticles {
			p.enrich(ctx, &rec)
		}
		records = append(records, rec)
	}
	records = collapseBySlug(records)

	total, err := store.Upsert(p.repo, records)
	if err != nil {
		return report, fmt.Errorf("upsert %s: %w", kind, err)
	}
	report.Upserted = len(records)
	report.Total = total
	report.Records = records

	if p.exporter != nil {
		for _, rec := range records {
			if err := p.exporter.Export(rec); err != nil {
				log.Warn("export failed", "slug", rec.Slug, "error", err)
			}
		}
	}

	log.Info("ingestion complete",
		"mode", report.Mode,
		"strategy", report.Strategy,
		"upserted", report.Upserted,
		"total", report.Total,
	)
	return report, nil
}

// collapseBySlug keeps one record per slug, the last one wins, at the
// position of the first occurrence. This is what Upsert stores, so the
// report and the exporter see exactly the stored records.
func collapseBySlug(records []models.ContentRecord) []models.ContentRecord {
	pos := make(map[string]int, len(records))
	out := records[:0:0]
	for _, rec := range records {
		if i, ok := pos[rec.Slug]; ok {
			out[i] = rec
			continue
		}
		pos[rec.Slug] = len(out)
		out = append(out, rec)
	}
	return out
}

// fetchItems returns the extracted items or the reason there are none.
func (p *Pipeline) fetchItems(ctx context.Context, report *Report) ([]RawItem, error) {
	src := p.source
	if src == nil {
		var err error
		src, err = NewSource(p.cfg, p.client)
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				return nil, errors.New("no provider configured")
			}
			return nil, err
		}
	}
	report.Mode = src.Mode()

	text, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", src.Mode(), err)
	}

	ext := Extract(text, p.cfg.Kind)
	report.Strategy = ext.Strategy
	if ext.Empty() {
		return nil, errors.New("provider returned no items")
	}
	return ext.Items, nil
}

func (p *Pipeline) useLocalFallback() bool {
	return p.cfg.LocalFallback && p.cfg.Kind == models.KindArticles
}

// enrich fills a missing article image from the image finder.
func (p *Pipeline) enrich(ctx context.Context, rec *models.ContentRecord) {
	if rec.ImageURL != "" || p.images == nil {
		return
	}
	img := p.images.Find(ctx, imageTopic(*rec))
	rec.ImageURL = img.URL
	if rec.ImageAlt == "" {
		rec.ImageAlt = img.Alt
	}
}

// imageTopic picks the search topic for an article: its first tag when
// present, otherwise its title.
func imageTopic(rec models.ContentRecord) string {
	if len(rec.Tags) > 0 && rec.Tags[0] != "general" {
		return rec.Tags[0]
	}
	return strings.TrimSpace(rec.Title)
}
