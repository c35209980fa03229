// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultAdsenseClient is the publisher ID used when none is configured.
const DefaultAdsenseClient = "ca-pub-5704376838710588"

const faviconSVG = `<link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 64 64'%3E%3Crect width='64' height='64' rx='12' fill='%23ffffff'/%3E%3Ctext x='16' y='46' font-family='Segoe UI,Inter,Arial,sans-serif' font-weight='800' font-size='36' fill='%230ea5e9'%3EE%3C/text%3E%3Ctext x='34' y='46' font-family='Segoe UI,Inter,Arial,sans-serif' font-weight='800' font-size='36' fill='%23111827'%3EK%3C/text%3E%3C/svg%3E" />`

const faviconICO = `<link rel="shortcut icon" href="/favicon.ico" />`

var (
	headOpen  = regexp.MustCompile(`(?i)<head(?:\s[^>]*)?>`)
	headClose = regexp.MustCompile(`(?i)</head>`)

	hasFaviconSVG = regexp.MustCompile(`(?i)rel=["']icon["'][^>]*image/svg\+xml`)
	hasFaviconICO = regexp.MustCompile(`(?i)rel=["']shortcut icon["']`)
	hasAdsMeta    = regexp.MustCompile(`(?i)name=["']google-adsense-account["']`)
	hasAdsScript  = regexp.MustCompile(`(?i)pagead2\.googlesyndication\.com/pagead/js/adsbygoogle\.js`)
)

// HeadTags are the tags every published page must carry in its <head>.
type HeadTags struct {
	AdsenseClient string
}

func (h HeadTags) client() string {
	if h.AdsenseClient == "" {
		return DefaultAdsenseClient
	}
	return h.AdsenseClient
}

// Apply inserts whichever tags are missing just before </head>. Documents
// without a <head> element are returned unchanged.
func (h HeadTags) Apply(doc string) string {
	open := headOpen.FindStringIndex(doc)
	end := headClose.FindStringIndex(doc)
	if open == nil || end == nil || end[0] < open[1] {
		return doc
	}
	head := doc[open[0]:end[0]]

	var inject []string
	if !hasFaviconSVG.MatchString(head) {
		inject = append(inject, faviconSVG)
	}
	if !hasFaviconICO.MatchString(head) {
		inject = append(inject, faviconICO)
	}
	if !hasAdsMeta.MatchString(head) {
		inject = append(inject, fmt.Sprintf(`<meta name="google-adsense-account" content="%s" />`, h.client()))
	}
	if !hasAdsScript.MatchString(head) {
		inject = append(inject, fmt.Sprintf(
			`<script async src="https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js?client=%s" crossorigin="anonymous"></script>`,
			h.client()))
	}
	if len(inject) == 0 {
		return doc
	}

	return doc[:end[0]] + strings.Join(inject, "\n") + "\n" + doc[end[0]:]
}

// Retrofit applies h to every HTML file in dir and rewrites the ones that
// changed. It returns the number of files updated.
func Retrofit(dir string, h HeadTags) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create blog dir: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read blog dir: %w", err)
	}

	touched := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".html") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		original, err := os.ReadFile(path)
		if err != nil {
			return touched, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		updated := h.Apply(string(original))
		if updated == string(original) {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return touched, fmt.Errorf("write %s: %w", e.Name(), err)
		}
		touched++
	}

	slog.Info("retrofit complete", "dir", dir, "updated", touched)
	return touched, nil
}
