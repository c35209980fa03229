// Package sitemap generates sitemap.xml for the static public directory.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSiteURL is used when no site URL is configured.
const DefaultSiteURL = "https://edukoder.com"

// FileName is the sitemap written into the public directory.
const FileName = "sitemap.xml"

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URL is one <url> entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Collect walks publicDir for HTML files and returns their entries in
// path order. index.html at the root maps to the site root.
func Collect(publicDir, siteURL string) ([]URL, error) {
	site := strings.TrimRight(siteURL, "/")
	if site == "" {
		site = DefaultSiteURL
	}

	var files []string
	err := filepath.WalkDir(publicDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk public dir: %w", err)
	}
	sort.Strings(files)

	urls := make([]URL, 0, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", f, err)
		}
		rel, err := filepath.Rel(publicDir, f)
		if err != nil {
			return nil, fmt.Errorf("relative path: %w", err)
		}
		rel = filepath.ToSlash(rel)

		loc := site + "/" + rel
		if rel == "index.html" {
			loc = site + "/"
		}
		urls = append(urls, URL{
			Loc:        loc,
			LastMod:    info.ModTime().UTC().Format("2006-01-02T15:04:05.000Z"),
			ChangeFreq: "weekly",
		})
	}
	return urls, nil
}

// Encode renders urls as a sitemap document.
func Encode(urls []URL) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(urlSet{Xmlns: xmlns, URLs: urls}); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Generate writes publicDir/sitemap.xml and returns the number of URLs.
func Generate(publicDir, siteURL string) (int, error) {
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return 0, fmt.Errorf("create public dir: %w", err)
	}
	urls, err := Collect(publicDir, siteURL)
	if err != nil {
		return 0, err
	}
	data, err := Encode(urls)
	if err != nil {
		return 0, err
	}

	out := filepath.Join(publicDir, FileName)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("write sitemap: %w", err)
	}
	slog.Info("sitemap written", "path", out, "urls", len(urls))
	return len(urls), nil
}
