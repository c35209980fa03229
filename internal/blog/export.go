// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"edukoder/internal/models"
)

// WriteMarkdown writes rec to <dir>/<slug>.md with a YAML front matter
// header followed by the article body. It returns the written path.
func WriteMarkdown(dir string, rec models.ContentRecord) (string, error) {
	if rec.Slug == "" {
		return "", fmt.Errorf("write markdown: empty slug")
	}
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	header, err := renderFrontMatter(FrontMatter{
		Title:   rec.Title,
		Date:    rec.Date,
		Tags:    tags,
		Excerpt: rec.Excerpt,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create blog dir: %w", err)
	}

	path := filepath.Join(dir, rec.Slug+".md")
	data := append(header, '\n')
	data = append(data, rec.Content...)
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}

	slog.Debug("article exported", "path", path)
	return path, nil
}

// Exporter writes every article it receives as Markdown into Dir.
type Exporter struct {
	Dir string
}

// Export implements ingest.Exporter.
func (e Exporter) Export(rec models.ContentRecord) error {
	_, err := WriteMarkdown(e.Dir, rec)
	return err
}
