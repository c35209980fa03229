// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images finds stock photos for articles and the site hero. The
// lookup never fails: any missing key, error, timeout or empty result
// degrades to a local placeholder.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edukoder/internal/models"
)

const (
	// DefaultBaseURL is the Pexels search endpoint.
	DefaultBaseURL = "https://api.pexels.com/v1/search"

	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 7 * time.Second

	// DefaultHeroQuery is used when the hero endpoint gets no query.
	DefaultHeroQuery = "programming code developer software computer laptop terminal"

	queryPrefix   = "programming"
	maxQueryRunes = 100
	perPage       = 30

	placeholderURL = "/placeholder.svg"
	placeholderAlt = "Imagen de programación"
	defaultAlt     = "Imagen relacionada con programación"
)

// Placeholder is returned whenever no real photo can be found.
func Placeholder() models.Image {
	return models.Image{URL: placeholderURL, Alt: placeholderAlt, Credit: ""}
}

// Cache stores candidate images per query. *cache.PhotoCache implements it.
type Cache interface {
	Get(ctx context.Context, query string) ([]models.Image, bool)
	Set(ctx context.Context, query string, images []models.Image)
}

// Finder searches the Pexels API.
type Finder struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	cache   Cache
	pick    func(n int) int
}

// Option customizes a Finder.
type Option func(*Finder)

// WithBaseURL points the finder at another search endpoint (tests).
func WithBaseURL(u string) Option {
	return func(f *Finder) { f.baseURL = u }
}

// WithCache enables caching of search results.
func WithCache(c Cache) Option {
	return func(f *Finder) { f.cache = c }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Finder) { f.timeout = d }
}

// WithPicker replaces the random candidate choice. pick receives the
// number of candidates and returns an index.
func WithPicker(pick func(n int) int) Option {
	return func(f *Finder) { f.pick = pick }
}

// NewFinder creates a Finder. An empty apiKey yields a finder that always
// returns the placeholder without touching the network.
func NewFinder(apiKey string, client *http.Client, opts ...Option) *Finder {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Finder{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		client:  client,
		pick:    rand.Intn,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Enabled reports whether an API key is configured.
func (f *Finder) Enabled() bool {
	return f.apiKey != ""
}

// Find returns a random landscape photo for a topic, or the placeholder.
// The topic is prefixed with a domain qualifier to keep results on subject.
func (f *Finder) Find(ctx context.Context, topic string) models.Image {
	return f.lookup(ctx, searchQuery(topic))
}

// FindRaw is like Find but sends query without the domain prefix. The hero
// endpoint uses it for caller supplied queries.
func (f *Finder) FindRaw(ctx context.Context, query string) models.Image {
	q := truncate(strings.TrimSpace(query))
	if q == "" {
		q = DefaultHeroQuery
	}
	return f.lookup(ctx, q)
}

func (f *Finder) lookup(ctx context.Context, q string) models.Image {
	if !f.Enabled() {
		return Placeholder()
	}

	var candidates []models.Image
	if f.cache != nil {
		candidates, _ = f.cache.Get(ctx, q)
	}
	if len(candidates) == 0 {
		var err error
		candidates, err = f.search(ctx, q)
		if err != nil {
			slog.Warn("image search failed", "query", q, "error", err)
			return Placeholder()
		}
		if f.cache != nil {
			f.cache.Set(ctx, q, candidates)
		}
	}
	if len(candidates) == 0 {
		return Placeholder()
	}
	return candidates[f.pick(len(candidates))]
}

type searchResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
			Large     string `json:"large"`
			Original  string `json:"original"`
		} `json:"src"`
		Alt          string `json:"alt"`
		Photographer string `json:"photographer"`
	} `json:"photos"`
}

func (f *Finder) search(ctx context.Context, q string) ([]models.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := u.Query()
	params.Set("query", q)
	params.Set("per_page", fmt.Sprint(perPage))
	params.Set("orientation", "landscape")
	params.Set("size", "medium")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	images := make([]models.Image, 0, len(result.Photos))
	for _, p := range result.Photos {
		img := models.Image{
			URL: firstNonEmpty(p.Src.Landscape, p.Src.Large, p.Src.Original, placeholderURL),
			Alt: firstNonEmpty(p.Alt, defaultAlt),
		}
		if p.Photographer != "" {
			img.Credit = "Foto de " + p.Photographer + " en Pexels"
		}
		images = append(images, img)
	}
	return images, nil
}

// searchQuery prefixes the topic with the domain qualifier and caps it.
func searchQuery(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return queryPrefix
	}
	return truncate(queryPrefix + " " + topic)
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > maxQueryRunes {
		return string(r[:maxQueryRunes])
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
