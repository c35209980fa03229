// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ingest implements the content-generation pipeline that fills the
// tutorial and article JSON stores: fetch from a provider, extract items,
// normalize them into ContentRecords, enrich articles with an image, and
// upsert the result by slug.
//
// Every external dependency is treated as unreliable. Run never fails
// because a provider is missing, slow, or returns garbage; it reports a
// skipped run instead so scheduled jobs are never blocked.
package ingest

import (
	"time"

	"edukoder/internal/models"
)

// SlugPolicy decides how record slugs are derived from titles.
type SlugPolicy string

const (
	// SlugPlain uses slug.Generate(slug or title) as is.
	SlugPlain SlugPolicy = "plain"
	// SlugTimeSuffix appends a base-36 timestamp so that similarly titled
	// records from separate runs do not replace each other.
	SlugTimeSuffix SlugPolicy = "time-suffix"
)

const (
	DefaultTutorialLimit = 50
	DefaultArticleLimit  = 10

	// DefaultEndpointTimeout bounds each URL-mode request.
	DefaultEndpointTimeout = 12 * time.Second
	// DefaultGenerativeTimeout bounds a generative API call.
	DefaultGenerativeTimeout = 20 * time.Second
)

// Config is everything a pipeline run needs. It is built by the caller
// (see config.Config.Ingest) so the pipeline never reads the environment.
type Config struct {
	Kind models.ContentKind

	// ProviderEndpoint selects URL mode when non-empty.
	ProviderEndpoint string
	// ProviderAPIKey selects API-key mode when ProviderEndpoint is empty.
	ProviderAPIKey string
	// ProviderName forces a generative provider instead of detecting it
	// from the key shape.
	ProviderName string
	// Model overrides the provider's default model.
	Model string
	// ProviderBaseURL overrides the generative API base URL (tests, proxies).
	ProviderBaseURL string

	ImageAPIKey    string
	ItemLimit      int
	PromptOverride string

	// Timeout bounds each provider request. Zero selects the mode default.
	Timeout time.Duration

	// LocalFallback synthesizes one article from the built-in templates when
	// no provider content is available. Ignored for tutorials.
	LocalFallback bool

	// SlugPolicy defaults to SlugPlain for tutorials and SlugTimeSuffix for
	// articles.
	SlugPolicy SlugPolicy
}

// withDefaults fills the zero values of c according to its Kind.
func (c Config) withDefaults() Config {
	if c.ItemLimit <= 0 {
		c.ItemLimit = DefaultTutorialLimit
		if c.Kind == models.KindArticles {
			c.ItemLimit = DefaultArticleLimit
		}
	}
	if c.SlugPolicy == "" {
		c.SlugPolicy = DefaultSlugPolicy(c.Kind)
	}
	return c
}

// DefaultSlugPolicy returns the slug policy used for kind when none is set.
func DefaultSlugPolicy(kind models.ContentKind) SlugPolicy {
	if kind == models.KindArticles {
		return SlugTimeSuffix
	}
	return SlugPlain
}
