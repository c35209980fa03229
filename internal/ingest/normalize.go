// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"edukoder/internal/markdown"
	"edukoder/internal/models"
	"edukoder/internal/slug"
)

const (
	// excerptLimit caps a derived excerpt, in runes.
	excerptLimit = 180
	// articleTextExcerpt caps the excerpt of a free-text article segment.
	articleTextExcerpt = 160

	// DefaultAuthor signs generated articles that carry no author.
	DefaultAuthor = "Equipo EduKoder"

	// isoMillis matches JavaScript's Date.toISOString output.
	isoMillis = "2006-01-02T15:04:05.000Z"
)

// languageAliases maps lowercased spellings to the canonical language.
var languageAliases = map[string]models.Language{
	"js":         models.LanguageJavaScript,
	"javascript": models.LanguageJavaScript,
	"ecmascript": models.LanguageJavaScript,
	"ts":         models.LanguageTS,
	"typescript": models.LanguageTS,
	"py":         models.LanguagePython,
	"python":     models.LanguagePython,
	"html":       models.LanguageHTML,
	"html-css":   models.LanguageHTML,
	"html5":      models.LanguageHTML,
	"css":        models.LanguageCSS,
	"tailwind":   models.LanguageCSS,
	"node":       models.LanguageNode,
	"nodejs":     models.LanguageNode,
	"node.js":    models.LanguageNode,
}

// CanonicalLanguage maps a free-form language name to one of the six
// canonical values. Unrecognised names map to javascript with ok=false.
func CanonicalLanguage(s string) (lang models.Language, ok bool) {
	if l, found := languageAliases[strings.ToLower(strings.TrimSpace(s))]; found {
		return l, true
	}
	return models.LanguageJavaScript, false
}

var (
	htmlTag     = regexp.MustCompile(`(?i)<(p|h[1-6]|div|ul|ol|li|pre|code|section|article|br|img|a)\b`)
	stripPolicy = bluemonday.StrictPolicy()
)

// Normalizer maps raw provider items to ContentRecords of one kind. It
// remembers the time-suffixed slugs it has issued so that items of one
// batch never share a slug. Not safe for concurrent use.
type Normalizer struct {
	kind   models.ContentKind
	policy SlugPolicy
	now    func() time.Time
	issued map[string]int
}

// NewNormalizer creates a Normalizer. A nil now uses time.Now.
func NewNormalizer(kind models.ContentKind, policy SlugPolicy, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	if policy == "" {
		policy = DefaultSlugPolicy(kind)
	}
	return &Normalizer{kind: kind, policy: policy, now: now, issued: make(map[string]int)}
}

// Normalize fills a ContentRecord from item, taking the first present key
// for each field and defaulting the rest. It never rejects an item.
func (n *Normalizer) Normalize(item RawItem) models.ContentRecord {
	now := n.now().UTC()
	defaultTitle := "Minitutorial"
	if n.kind == models.KindArticles {
		defaultTitle = "Artículo"
	}

	rec := models.ContentRecord{
		Title:   firstString(item, "title", "heading"),
		Excerpt: firstString(item, "excerpt", "summary"),
		Content: firstString(item, "content", "code", "body"),
		Tags:    toTags(item["tags"]),
		Date:    firstString(item, "date"),
	}
	if rec.Title == "" {
		rec.Title = defaultTitle
	}
	if rec.Date == "" {
		rec.Date = now.Format(isoMillis)
	}

	base := slug.Generate(firstOr(firstString(item, "slug"), rec.Title))
	if base == "" {
		base = slug.Generate(defaultTitle)
	}
	rec.Slug = base
	if n.policy == SlugTimeSuffix {
		rec.Slug = n.uniqueSuffixed(base, now)
	}

	switch n.kind {
	case models.KindArticles:
		if rec.Content != "" && !htmlTag.MatchString(rec.Content) {
			if out, err := markdown.ToHTML(rec.Content); err == nil {
				rec.Content = out
			}
		}
		rec.ImageURL = firstString(item, "imageUrl", "image")
		rec.ImageAlt = firstString(item, "imageAlt")
		rec.Author = firstOr(firstString(item, "author"), DefaultAuthor)
		rec.Link = firstOr(firstString(item, "link"), "/blog/"+rec.Slug)
	default:
		rec.Explain = firstString(item, "explain", "explanation")
		raw := firstString(item, "language", "lang")
		lang, ok := CanonicalLanguage(raw)
		if !ok && raw != "" {
			slog.Warn("unrecognised tutorial language, defaulting to javascript",
				"language", raw, "slug", rec.Slug)
		}
		rec.Language = lang
	}

	if rec.Excerpt == "" {
		rec.Excerpt = truncateRunes(StripHTML(rec.Content), excerptLimit)
	}
	return rec
}

// uniqueSuffixed appends a base-36 millisecond timestamp to base. Items
// normalized within the same millisecond get a further -2, -3, ... counter.
func (n *Normalizer) uniqueSuffixed(base string, now time.Time) string {
	candidate := base + "-" + strconv.FormatInt(now.UnixMilli(), 36)
	n.issued[candidate]++
	if seen := n.issued[candidate]; seen > 1 {
		return candidate + "-" + strconv.Itoa(seen)
	}
	return candidate
}

// StripHTML removes every tag from s and collapses whitespace.
func StripHTML(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// firstString returns the first non-empty value among keys, as a trimmed
// string. Numbers and booleans are formatted; lists and objects are skipped.
func firstString(item RawItem, keys ...string) string {
	for _, k := range keys {
		switch v := item[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64, bool:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func firstOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// toTags accepts a list, a comma-separated string, or an object (its keys,
// sorted) and returns the trimmed, non-empty entries. The result is never
// nil so it encodes as [].
func toTags(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []any:
		for _, el := range t {
			if el != nil {
				raw = append(raw, fmt.Sprint(el))
			}
		}
	case []string:
		raw = t
	case string:
		raw = strings.Split(t, ",")
	case map[string]any:
		for k := range t {
			raw = append(raw, k)
		}
		sort.Strings(raw)
	}

	tags := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// truncateRunes cuts s to at most limit runes.
func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
