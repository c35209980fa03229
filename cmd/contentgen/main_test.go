// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// isolate points the CLI at a temporary public directory and clears every
// provider, image, cache and storage setting.
func isolate(t *testing.T) string {
	t.Helper()
	public := t.TempDir()
	for _, key := range []string{
		"GM_APY", "AI_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "CLAUDE_API_KEY",
		"ANTHROPIC_API_KEY", "MISTRAL_API_KEY", "PEXELS_API_KEY", "PEXELS_API", "PEXELS",
		"NEXT_PUBLIC_PEXELS_API_KEY", "VALKEY_HOST", "S3_ENDPOINT", "S3_ACCESS_KEY",
		"S3_SECRET_KEY", "S3_BUCKET", "ITEM_LIMIT", "AI_TIMEOUT_SECONDS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("PUBLIC_DIR", public)
	t.Setenv("SITE_URL", "https://edukoder.test")
	return public
}

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	if err := Execute(context.Background()); err != nil {
		t.Fatalf("contentgen %s: %v", strings.Join(args, " "), err)
	}
}

func TestTutorialsWithoutProviderIsNoop(t *testing.T) {
	public := isolate(t)

	run(t, "tutorials")

	if _, err := os.Stat(filepath.Join(public, "data", "tutorials.json")); !os.IsNotExist(err) {
		t.Errorf("tutorial store should not be created, stat err = %v", err)
	}
}

func TestInvalidSettingsDoNotFailCommand(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"ITEM_LIMIT", "abc"},
		{"AI_TIMEOUT_SECONDS", "soon"},
		{"LOG_LEVEL", "verbose"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			run(t, "tutorials")

			if cfg == nil || cfg.ItemLimit != 0 || cfg.Timeout != 0 {
				t.Errorf("expected defaults after invalid %s, got %+v", tt.key, cfg)
			}
		})
	}
}

func TestArticlesWithoutProviderIsNoop(t *testing.T) {
	public := isolate(t)

	run(t, "articles", "--local=false")

	if _, err := os.Stat(filepath.Join(public, "data", "articles.json")); !os.IsNotExist(err) {
		t.Errorf("article store should not be created, stat err = %v", err)
	}
}

func TestReseedUsesLocalTemplate(t *testing.T) {
	public := isolate(t)
	blogDir := filepath.Join(public, "blog")
	if err := os.MkdirAll(blogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	page := filepath.Join(blogDir, "old.html")
	if err := os.WriteFile(page, []byte("<html><head><title>x</title></head></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	run(t, "reseed", "--clean=false", "--count=1", "--retrofit=false")

	raw, err := os.ReadFile(filepath.Join(public, "data", "articles.json"))
	if err != nil {
		t.Fatalf("article store: %v", err)
	}
	var store struct {
		Articles []struct {
			Slug     string `json:"slug"`
			ImageURL string `json:"imageUrl"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(raw, &store); err != nil {
		t.Fatalf("decode store: %v", err)
	}
	if len(store.Articles) != 1 {
		t.Fatalf("articles: got %d, want 1", len(store.Articles))
	}
	if store.Articles[0].ImageURL != "/placeholder.svg" {
		t.Errorf("imageUrl: got %q", store.Articles[0].ImageURL)
	}

	if _, err := os.Stat(filepath.Join(blogDir, store.Articles[0].Slug+".md")); err != nil {
		t.Errorf("markdown not exported: %v", err)
	}
	idx, err := os.ReadFile(filepath.Join(blogDir, "index.json"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !strings.Contains(string(idx), store.Articles[0].Slug) {
		t.Errorf("index does not list the new article: %s", idx)
	}

	html, _ := os.ReadFile(page)
	if strings.Contains(string(html), "favicon") {
		t.Error("retrofit should only run with --retrofit or --count=0")
	}
}

func TestReseedCountZeroCleansAndRetrofits(t *testing.T) {
	public := isolate(t)
	blogDir := filepath.Join(public, "blog")
	if err := os.MkdirAll(blogDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(blogDir, "stale.md")
	os.WriteFile(stale, []byte("---\ntitle: Stale\n---\nbody"), 0o644)

	run(t, "reseed", "--clean=true", "--count=0", "--retrofit=false")

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("--clean should remove Markdown files")
	}
	idx, err := os.ReadFile(filepath.Join(blogDir, "index.json"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if strings.TrimSpace(string(idx)) != "{\n  \"articles\": []\n}" {
		t.Errorf("index: got %s", idx)
	}
	if _, err := os.Stat(filepath.Join(public, "data", "articles.json")); !os.IsNotExist(err) {
		t.Error("count=0 must not touch the article store")
	}
}

func TestSitemapCommand(t *testing.T) {
	public := isolate(t)
	os.WriteFile(filepath.Join(public, "index.html"), []byte("<html></html>"), 0o644)

	run(t, "sitemap")

	raw, err := os.ReadFile(filepath.Join(public, "sitemap.xml"))
	if err != nil {
		t.Fatalf("sitemap: %v", err)
	}
	if !strings.Contains(string(raw), "<loc>https://edukoder.test/</loc>") {
		t.Errorf("sitemap: %s", raw)
	}
}

func TestPublishWithoutStorage(t *testing.T) {
	isolate(t)
	run(t, "publish")
}

func TestNeverFail(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	tests := []struct {
		name string
		run  func(*cobra.Command, []string) error
	}{
		{"error", func(*cobra.Command, []string) error { return errors.New("provider down") }},
		{"panic", func(*cobra.Command, []string) error { panic("nil map") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := neverFail(tt.run)(cmd, nil); err != nil {
				t.Errorf("got %v, want nil", err)
			}
		})
	}
}
