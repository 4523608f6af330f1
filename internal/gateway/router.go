package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microshop/internal/mw"
	"microshop/internal/registry"
)

type RouterOptions struct {
	Resolver Resolver
	Limiter  Limiter // nil disables rate limiting

	// Admin auth; empty JWTSecret leaves every route open.
	JWTSecret         string
	AdminLogin        string
	AdminPasswordHash string
}

func NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.Limiter != nil {
		r.Use(RateLimit(opts.Limiter))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	if opts.JWTSecret != "" {
		r.Post("/api/auth/login", LoginHandler(opts.AdminLogin, opts.AdminPasswordHash, opts.JWTSecret))
	}

	proxy := NewProxy(opts.Resolver)

	// Catalog data is managed by admins; order placement stays open to
	// regular clients.
	users := guardWrites(opts.JWTSecret, proxy.Handler(registry.ServiceUsers))
	products := guardWrites(opts.JWTSecret, proxy.Handler(registry.ServiceProducts))
	orders := proxy.Handler(registry.ServiceOrders)

	r.Handle("/api/users", users)
	r.Handle("/api/users/*", users)
	r.Handle("/api/products", products)
	r.Handle("/api/products/*", products)
	r.Handle("/api/orders", orders)
	r.Handle("/api/orders/*", orders)

	return r
}

// guardWrites requires an admin token for mutating verbs when auth is
// configured; reads pass through either way.
func guardWrites(jwtSecret string, next http.Handler) http.Handler {
	if jwtSecret == "" {
		return next
	}
	authed := mw.Auth(jwtSecret)(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			authed.ServeHTTP(w, r)
		}
	})
}
