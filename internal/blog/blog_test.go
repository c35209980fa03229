package blog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"edukoder/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWriteMarkdownRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog")
	rec := models.ContentRecord{
		Slug:    "guia-de-go",
		Title:   "Guía de Go: primeros pasos",
		Date:    "2025-03-14T09:26:53.589Z",
		Tags:    []string{"go", "backend"},
		Excerpt: "Aprende Go: rápido y simple",
		Content: "<p>Hola</p>",
	}

	path, err := WriteMarkdown(dir, rec)
	if err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if filepath.Base(path) != "guia-de-go.md" {
		t.Errorf("path: got %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fm, body, err := ParseFrontMatter(raw)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != rec.Title || fm.Date != rec.Date || fm.Excerpt != rec.Excerpt {
		t.Errorf("front matter: got %+v", fm)
	}
	if strings.Join(fm.Tags, ",") != "go,backend" {
		t.Errorf("tags: got %v", fm.Tags)
	}
	if string(body) != "<p>Hola</p>" {
		t.Errorf("body: got %q", body)
	}
}

func TestWriteMarkdownEmptySlug(t *testing.T) {
	if _, err := WriteMarkdown(t.TempDir(), models.ContentRecord{Title: "x"}); err == nil {
		t.Error("expected error for empty slug")
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTitle string
		wantTags  []string
		wantBody  string
		wantErr   bool
	}{
		{
			name:      "inline tag list",
			raw:       "---\ntitle: Hola\ntags: [\"a\", \"b\"]\n---\n\ncuerpo\n",
			wantTitle: "Hola",
			wantTags:  []string{"a", "b"},
			wantBody:  "cuerpo",
		},
		{
			name:     "scalar tags dropped",
			raw:      "---\ntags: uno, dos\n---\ntexto",
			wantTags: []string{},
			wantBody: "texto",
		},
		{
			name:     "empty header",
			raw:      "---\n---\nsolo cuerpo",
			wantTags: []string{},
			wantBody: "solo cuerpo",
		},
		{
			name:      "crlf line endings",
			raw:       "---\r\ntitle: Win\r\n---\r\nx",
			wantTitle: "Win",
			wantTags:  []string{},
			wantBody:  "x",
		},
		{
			name:     "no front matter",
			raw:      "# Solo markdown",
			wantBody: "# Solo markdown",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := ParseFrontMatter([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if fm.Title != tt.wantTitle {
				t.Errorf("title: got %q, want %q", fm.Title, tt.wantTitle)
			}
			if !tt.wantErr && strings.Join(fm.Tags, ",") != strings.Join(tt.wantTags, ",") {
				t.Errorf("tags: got %v, want %v", fm.Tags, tt.wantTags)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body: got %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "viejo.md"), "---\ntitle: Viejo\ndate: 2024-01-01T00:00:00.000Z\ntags: [\"css\"]\nexcerpt: Resumen viejo\n---\n\ncuerpo")
	writeFile(t, filepath.Join(dir, "nuevo.md"), "---\ntitle: Nuevo\ndate: 2024-06-01T00:00:00.000Z\n---\n\n"+strings.Repeat("x", 200))
	writeFile(t, filepath.Join(dir, "sin-cabecera.md"), "texto libre")
	writeFile(t, filepath.Join(dir, "ignorado.html"), "<html></html>")

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	n, err := BuildIndex(dir, now)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if n != 3 {
		t.Errorf("count: got %d, want 3", n)
	}

	raw, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Articles []struct {
			Slug    string   `json:"slug"`
			Title   string   `json:"title"`
			Date    string   `json:"date"`
			Tags    []string `json:"tags"`
			Excerpt string   `json:"excerpt"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("index is not valid JSON: %v", err)
	}

	got := doc.Articles
	if len(got) != 3 {
		t.Fatalf("entries: got %d", len(got))
	}
	if got[0].Slug != "sin-cabecera" || got[1].Slug != "nuevo" || got[2].Slug != "viejo" {
		t.Errorf("order: %s, %s, %s", got[0].Slug, got[1].Slug, got[2].Slug)
	}
	if got[0].Title != "sin-cabecera" || got[0].Date != "2025-01-02T03:04:05.000Z" || got[0].Excerpt != "texto libre" {
		t.Errorf("defaults: %+v", got[0])
	}
	if len([]rune(got[1].Excerpt)) != 160 {
		t.Errorf("derived excerpt length: %d", len([]rune(got[1].Excerpt)))
	}
	if got[1].Tags == nil || len(got[1].Tags) != 0 {
		t.Errorf("missing tags should be []: %v", got[1].Tags)
	}
	if got[2].Excerpt != "Resumen viejo" || got[2].Tags[0] != "css" {
		t.Errorf("front matter fields: %+v", got[2])
	}
	if strings.Contains(string(raw), `"author"`) {
		t.Error("index entries should not carry article-only fields")
	}
}

func TestClean(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.html", "C.HTML", IndexFile, "keep.txt"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}
	if err := os.Mkdir(filepath.Join(dir, "img"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := Clean(dir)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if n != 4 {
		t.Errorf("removed: got %d, want 4", n)
	}

	left, _ := os.ReadDir(dir)
	var names []string
	for _, e := range left {
		names = append(names, e.Name())
	}
	if strings.Join(names, ",") != "img,keep.txt" {
		t.Errorf("remaining: %v", names)
	}
}

func TestCleanMissingDir(t *testing.T) {
	n, err := Clean(filepath.Join(t.TempDir(), "nope"))
	if err != nil || n != 0 {
		t.Errorf("got %d, %v", n, err)
	}
}

func TestHeadTagsApply(t *testing.T) {
	h := HeadTags{}

	t.Run("injects all missing tags", func(t *testing.T) {
		doc := "<html><head><title>x</title></head><body><header>h</header></body></html>"
		out := h.Apply(doc)
		for _, want := range []string{
			`rel="icon" type="image/svg+xml"`,
			`rel="shortcut icon"`,
			`content="ca-pub-5704376838710588"`,
			`adsbygoogle.js?client=ca-pub-5704376838710588`,
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %s", want)
			}
		}
		if !strings.Contains(out, "</script>\n</head>") {
			t.Error("tags must be inserted right before </head>")
		}
		if h.Apply(out) != out {
			t.Error("Apply is not idempotent")
		}
	})

	t.Run("keeps existing tags", func(t *testing.T) {
		doc := `<head><link rel='shortcut icon' href='/x.ico'><meta name="google-adsense-account" content="ca-pub-1"></head>`
		out := h.Apply(doc)
		if strings.Count(out, "shortcut icon") != 1 || strings.Count(out, "google-adsense-account") != 1 {
			t.Errorf("duplicated tags: %s", out)
		}
	})

	t.Run("no head is untouched", func(t *testing.T) {
		doc := "<body><header>solo</header></body>"
		if h.Apply(doc) != doc {
			t.Error("document without <head> was modified")
		}
	})

	t.Run("custom client", func(t *testing.T) {
		out := HeadTags{AdsenseClient: "ca-pub-42"}.Apply("<head></head>")
		if !strings.Contains(out, "client=ca-pub-42") {
			t.Errorf("custom client not used: %s", out)
		}
	})
}

func TestRetrofit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.html"), "<html><head></head></html>")
	writeFile(t, filepath.Join(dir, "b.html"), "<p>fragmento</p>")
	writeFile(t, filepath.Join(dir, "c.md"), "<head></head>")

	n, err := Retrofit(dir, HeadTags{})
	if err != nil {
		t.Fatalf("Retrofit: %v", err)
	}
	if n != 1 {
		t.Errorf("updated: got %d, want 1", n)
	}

	n, err = Retrofit(dir, HeadTags{})
	if err != nil || n != 0 {
		t.Errorf("second run: got %d, %v", n, err)
	}
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	if err := (Exporter{Dir: dir}).Export(models.ContentRecord{Slug: "x", Title: "X"}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.md")); err != nil {
		t.Errorf("expected x.md: %v", err)
	}
}
