// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"edukoder/internal/models"
)

// HeroImageFinder looks up a stock photo for a raw query and never fails.
// *images.Finder implements it.
type HeroImageFinder interface {
	FindRaw(ctx context.Context, query string) models.Image
}

// Site groups the small read-only endpoints used by the front end.
type Site struct {
	ping   string
	images HeroImageFinder
}

// NewSite creates the site handler group. ping is the /api/ping message.
func NewSite(ping string, images HeroImageFinder) *Site {
	if ping == "" {
		ping = "pong"
	}
	return &Site{ping: ping, images: images}
}

// Ping handles GET /api/ping.
func (s *Site) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": s.ping})
}

// HeroImage handles GET /api/hero-image?q=. It proxies the photo search so
// the API key never reaches the browser, and always answers 200.
func (s *Site) HeroImage(w http.ResponseWriter, r *http.Request) {
	img := s.images.FindRaw(r.Context(), r.URL.Query().Get("q"))
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, img)
}

// Health handles GET /health.
func (s *Site) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
