package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/immodirect7-wq/immodirect/internal/auth"
	redisadapter "github.com/immodirect7-wq/immodirect/internal/adapter/redis"
	"github.com/immodirect7-wq/immodirect/internal/platform/logger"
	"github.com/immodirect7-wq/immodirect/internal/port/http/handlers"
	"github.com/immodirect7-wq/immodirect/internal/port/http/middleware"
)

type RouterDeps struct {
	Auth      *handlers.AuthHandler
	Listings  *handlers.ListingHandler
	Payments  *handlers.PaymentHandler
	Webhook   *handlers.WebhookHandler
	Settings  *handlers.SettingsHandler
	Admin     *handlers.AdminHandler
	Favorites *handlers.FavoriteHandler
	Alerts    *handlers.AlertHandler
	Analytics *handlers.AnalyticsHandler
	Health    *handlers.HealthHandler

	Tokens      *auth.TokenManager
	RateLimiter redisadapter.RateLimiter
	Registry    *prometheus.Registry
	Logger      logger.Logger
}

// NewRouter assembles the full route table. Auth requirements vary per
// group: public routes, optional-identity routes, bearer-only routes, and
// the unauthenticated webhook the gateway calls back on.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", deps.Health.Healthz)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(deps.RateLimiter, deps.Logger))
			r.Post("/register", deps.Auth.Register)
			r.Post("/pageview", deps.Analytics.RecordPageView)
		})
		r.Post("/login", deps.Auth.Login)

		// The gateway retries on 5xx, so the webhook stays outside the
		// rate limiter.
		r.Post("/payment/webhook", deps.Webhook.HandleNotification)

		r.Get("/settings", deps.Settings.GetPricing)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalJWTAuth(deps.Tokens))
			r.Get("/listings", deps.Listings.Search)
			r.Get("/listings/{id}", deps.Listings.GetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(deps.Tokens))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(deps.RateLimiter, deps.Logger))
				r.Post("/payment/init", deps.Payments.Initiate)
			})

			r.Get("/payment/transactions", deps.Payments.ListTransactions)
			r.Get("/listings/{id}/contact", deps.Listings.Contact)

			r.Post("/listings", deps.Listings.Create)
			r.Put("/listings/{id}", deps.Listings.Update)
			r.Patch("/listings/{id}/status", deps.Listings.UpdateStatus)
			r.Delete("/listings/{id}", deps.Listings.Delete)

			r.Post("/favorites", deps.Favorites.Toggle)

			r.Post("/alerts", deps.Alerts.Create)
			r.Get("/alerts", deps.Alerts.List)
			r.Delete("/alerts/{id}", deps.Alerts.Delete)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/settings", deps.Settings.UpdatePricing)
				r.Post("/users/{id}/ban", deps.Admin.SetBanned)
				r.Post("/users/{id}/trust-score", deps.Admin.SetTrustScore)
				r.Get("/transactions", deps.Payments.ListTransactions)
			})
		})
	})

	return r
}
