// Package router wires the EduKoder HTTP API: global middleware, the public
// read endpoints and the rate-limited order endpoints.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"edukoder/internal/handlers"
	"edukoder/internal/middleware"
)

// Order creation is limited per client IP to keep the form from being
// used as a spam relay.
const (
	OrderRateLimit  = 5
	OrderRateWindow = time.Minute
)

// Deps are the handler groups and settings the router needs.
type Deps struct {
	Site        *handlers.Site
	Orders      *handlers.Orders
	OrderLimit  *middleware.RateLimiter
	CORSOrigins []string
}

// New creates the chi router with every route and middleware wired up.
// When deps.OrderLimit is nil a limiter with the default budget is created;
// the caller owns stopping a limiter it passes in.
func New(deps Deps) chi.Router {
	limiter := deps.OrderLimit
	if limiter == nil {
		limiter = middleware.NewRateLimiter(OrderRateLimit, OrderRateWindow)
	}

	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.Get("/health", deps.Site.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", deps.Site.Ping)
		r.Get("/hero-image", deps.Site.HeroImage)

		r.Route("/orders", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/", deps.Orders.Create)
			r.Get("/{id}", deps.Orders.Get)
		})
	})

	return r
}
