// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog maintains the static blog directory: Markdown exports of
// generated articles, the JSON index the site reads, cleanup, and head-tag
// retrofits of published HTML pages.
package blog

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	errNoFrontMatter      = errors.New("no front matter found")
	errInvalidFrontMatter = errors.New("invalid front matter")
)

// FrontMatter is the YAML header of an exported article.
type FrontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags,flow"`
	Excerpt string   `yaml:"excerpt"`
}

// looseFrontMatter accepts hand-edited headers where tags may be a scalar.
type looseFrontMatter struct {
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Tags    any    `yaml:"tags"`
	Excerpt string `yaml:"excerpt"`
}

// ParseFrontMatter splits raw into its front matter and body. Non-list tags
// are dropped.
func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.TrimLeft(norm, "\n")

	const (
		sepLine  = "---\n"
		closeMid = "\n---\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, bytes.TrimSpace(norm), errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, body []byte
	switch {
	case bytes.HasPrefix(rest, []byte(sepLine)):
		body = rest[len(sepLine):]
	default:
		parts := bytes.SplitN(rest, []byte(closeMid), 2)
		switch {
		case len(parts) == 2:
			yamlPart, body = parts[0], parts[1]
		case bytes.HasSuffix(rest, []byte("\n---")):
			yamlPart = rest[:len(rest)-len("\n---")]
		default:
			return FrontMatter{}, norm, errInvalidFrontMatter
		}
	}

	var loose looseFrontMatter
	if len(bytes.TrimSpace(yamlPart)) > 0 {
		if err := yaml.Unmarshal(yamlPart, &loose); err != nil {
			return FrontMatter{}, norm, fmt.Errorf("%w: %v", errInvalidFrontMatter, err)
		}
	}

	fm := FrontMatter{
		Title:   loose.Title,
		Date:    loose.Date,
		Excerpt: loose.Excerpt,
		Tags:    []string{},
	}
	if list, ok := loose.Tags.([]any); ok {
		for _, t := range list {
			if t != nil {
				fm.Tags = append(fm.Tags, fmt.Sprint(t))
			}
		}
	}
	return fm, bytes.TrimSpace(body), nil
}

// renderFrontMatter encodes fm between --- fences.
func renderFrontMatter(fm FrontMatter) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}
