// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"edukoder/internal/models"
	"edukoder/internal/store"
)

// IndexFile is the name of the blog index inside the blog directory.
const IndexFile = "index.json"

const indexExcerptLimit = 160

// BuildIndex reads every Markdown file in dir and writes dir/index.json as
// {"articles": [...]}, newest first. Missing front matter fields fall back
// to the file name, now, no tags, and the start of the body. Unreadable
// files are skipped with a warning. It returns the number of entries.
func BuildIndex(dir string, now time.Time) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create blog dir: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return 0, fmt.Errorf("list markdown: %w", err)
	}
	sort.Strings(files)

	fallbackDate := now.UTC().Format("2006-01-02T15:04:05.000Z")
	entries := make([]models.ContentRecord, 0, len(files))
	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			slog.Warn("skipping unreadable article", "path", file, "error", err)
			continue
		}

		fm, body, err := ParseFrontMatter(raw)
		if err != nil && err != errNoFrontMatter {
			slog.Warn("article front matter invalid, using defaults", "path", file, "error", err)
		}

		slug := strings.TrimSuffix(filepath.Base(file), ".md")
		entry := models.ContentRecord{
			Slug:    slug,
			Title:   firstNonEmpty(fm.Title, slug),
			Date:    firstNonEmpty(fm.Date, fallbackDate),
			Tags:    fm.Tags,
			Excerpt: fm.Excerpt,
		}
		if entry.Tags == nil {
			entry.Tags = []string{}
		}
		if entry.Excerpt == "" {
			entry.Excerpt = truncateRunes(string(body), indexExcerptLimit)
		}
		entries = append(entries, entry)
	}

	idx := store.NewFileStore(filepath.Join(dir, IndexFile), models.KindArticles)
	if err := idx.Save(entries); err != nil {
		return 0, err
	}

	slog.Info("blog index written", "path", idx.Path(), "articles", len(entries))
	return len(entries), nil
}

func firstNonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
