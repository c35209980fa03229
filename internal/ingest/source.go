// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"edukoder/internal/ai"
	"edukoder/internal/models"
)

var (
	// ErrNotConfigured means no usable provider value was supplied.
	ErrNotConfigured = errors.New("provider not configured")
	// ErrInvalidEndpoint means the endpoint is not a usable URL.
	ErrInvalidEndpoint = errors.New("provider endpoint is not a valid URL")
	// ErrUnrecognizedKey means the API key matches no known provider shape.
	ErrUnrecognizedKey = errors.New("provider API key not recognised")
)

// Source fetches one raw text payload from a content provider.
type Source interface {
	Fetch(ctx context.Context) (string, error)
	// Mode names the provider mode for logs ("endpoint", "gemini", ...).
	Mode() string
}

// Generator produces text from a pair of prompts. *ai.Registry implements it.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewSource selects the provider mode from cfg. A non-empty endpoint selects
// URL mode; otherwise a recognised API key selects API-key mode. Masked
// placeholder values ("***") count as absent. The returned error wraps one
// of ErrNotConfigured, ErrInvalidEndpoint, or ErrUnrecognizedKey.
func NewSource(cfg Config, client *http.Client) (Source, error) {
	cfg = cfg.withDefaults()
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := strings.TrimSpace(cfg.ProviderEndpoint)
	key := strings.TrimSpace(cfg.ProviderAPIKey)

	if endpoint != "" && !isMasked(endpoint) {
		u, err := ParseEndpoint(endpoint)
		if err != nil {
			return nil, err
		}
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultEndpointTimeout
		}
		return &EndpointSource{
			url:     u.String(),
			kind:    cfg.Kind,
			limit:   cfg.ItemLimit,
			client:  client,
			timeout: timeout,
		}, nil
	}

	if key == "" || isMasked(key) {
		return nil, ErrNotConfigured
	}

	name := cfg.ProviderName
	if name == "" {
		name = ai.DetectProvider(key)
	}
	if name == "" {
		return nil, ErrUnrecognizedKey
	}

	registry := ai.NewRegistry(name, map[string]ai.ProviderConfig{
		name: {APIKey: key, Model: cfg.Model, BaseURL: cfg.ProviderBaseURL},
	})
	if !registry.HasProvider(name) {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrUnrecognizedKey, name)
	}
	slog.Debug("ai provider selected", "provider", registry.ActiveName(), "available", registry.Available())

	system, user := buildPrompts(cfg.Kind, cfg.ItemLimit, cfg.PromptOverride)
	return NewGenerativeSource(name, registry, system, user, cfg.Timeout), nil
}

// isMasked reports whether v is a CI secret placeholder such as "***".
func isMasked(v string) bool {
	return strings.Trim(v, "*") == ""
}

var (
	schemePrefix = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	dottedIPv4   = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3}){3}$`)
)

// ParseEndpoint validates a provider endpoint. Values without a scheme, or
// schema-relative ("//host/path"), default to https. The hostname must be
// localhost, a dotted IPv4 address, or contain a dot.
func ParseEndpoint(raw string) (*url.URL, error) {
	candidate := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(candidate, "//"):
		candidate = "https:" + candidate
	case !schemePrefix.MatchString(candidate):
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, u.Scheme)
	}

	host := u.Hostname()
	if host != "localhost" && !dottedIPv4.MatchString(host) && !strings.Contains(host, ".") {
		return nil, fmt.Errorf("%w: hostname %q looks invalid", ErrInvalidEndpoint, host)
	}
	return u, nil
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Method     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider %s returned status %d", e.Method, e.StatusCode)
}

// EndpointSource is the URL-mode provider: a generic HTTP endpoint that
// returns items as JSON or plain text.
type EndpointSource struct {
	url     string
	kind    models.ContentKind
	limit   int
	client  *http.Client
	timeout time.Duration
}

// endpointRequest is the POST body sent to a URL-mode provider.
type endpointRequest struct {
	Type  models.ContentKind `json:"type"`
	Limit int                `json:"limit"`
}

func (s *EndpointSource) Mode() string { return "endpoint" }

// Fetch POSTs {"type","limit"} to the endpoint. When the POST fails or
// answers non-2xx it retries once with a bare GET.
func (s *EndpointSource) Fetch(ctx context.Context) (string, error) {
	body, err := json.Marshal(endpointRequest{Type: s.kind, Limit: s.limit})
	if err != nil {
		return "", fmt.Errorf("provider marshal: %w", err)
	}

	text, err := s.do(ctx, http.MethodPost, body)
	if err == nil {
		return text, nil
	}
	slog.Warn("provider POST failed, retrying with GET", "error", err)

	return s.do(ctx, http.MethodGet, nil)
}

func (s *EndpointSource) do(ctx context.Context, method string, body []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.url, reader)
	if err != nil {
		return "", fmt.Errorf("provider request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("provider read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Method: method, StatusCode: resp.StatusCode}
	}
	return string(data), nil
}

// GenerativeSource is the API-key-mode provider: a generative-language API
// prompted to return items as JSON.
type GenerativeSource struct {
	name    string
	gen     Generator
	system  string
	user    string
	timeout time.Duration
}

// NewGenerativeSource wraps gen with the prompts of one run. A zero timeout
// selects DefaultGenerativeTimeout.
func NewGenerativeSource(name string, gen Generator, systemPrompt, userPrompt string, timeout time.Duration) *GenerativeSource {
	if timeout <= 0 {
		timeout = DefaultGenerativeTimeout
	}
	return &GenerativeSource{name: name, gen: gen, system: systemPrompt, user: userPrompt, timeout: timeout}
}

func (s *GenerativeSource) Mode() string { return s.name }

// Fetch asks the generator for the batch and returns the generated text.
func (s *GenerativeSource) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, s.system, s.user)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", s.name, err)
	}
	return text, nil
}
