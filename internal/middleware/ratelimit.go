// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// clientWindow holds the request times of one client inside the window.
type clientWindow struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits at or before cutoff and returns how many remain.
func (cw *clientWindow) prune(cutoff time.Time) int {
	kept := cw.hits[:0]
	for _, ts := range cw.hits {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	cw.hits = kept
	return len(kept)
}

// RateLimiter is a per-IP sliding-window limiter. It guards the order
// endpoint against form spam.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewRateLimiter allows limit requests per window for each client IP and
// starts a janitor goroutine that forgets idle clients. Call Stop to end it.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(max(window, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the janitor goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// allow records a hit for key and reports whether it fits the limit. When
// it does not, retryAfter is the time until the oldest hit leaves the window.
func (rl *RateLimiter) allow(key string) (ok bool, retryAfter time.Duration) {
	rl.mu.Lock()
	cw, found := rl.clients[key]
	if !found {
		cw = &clientWindow{}
		rl.clients[key] = cw
	}
	rl.mu.Unlock()

	now := rl.now()
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if n := cw.prune(now.Add(-rl.window)); n >= rl.limit {
		if n == 0 {
			return false, rl.window
		}
		return false, cw.hits[0].Add(rl.window).Sub(now)
	}
	cw.hits = append(cw.hits, now)
	return true, 0
}

// cleanup forgets clients with no hit inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cw := range rl.clients {
		cw.mu.Lock()
		idle := cw.prune(cutoff) == 0
		cw.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware rejects over-limit requests with 429, a Retry-After header and
// the API's JSON error body.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := rl.allow(ClientIP(r))
		if !ok {
			secs := int(math.Ceil(retry.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
			writeError(w, http.StatusTooManyRequests, "Demasiadas solicitudes, inténtalo más tarde")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the caller's IP. The leftmost X-Forwarded-For entry wins,
// then X-Real-IP, then the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
