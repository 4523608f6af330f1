package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// Resolver turns a logical service name into a base URL.
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// Proxy forwards requests to a downstream service, resolving the target
// per request so instances can come and go.
type Proxy struct {
	resolver Resolver
}

func NewProxy(resolver Resolver) *Proxy {
	return &Proxy{resolver: resolver}
}

func (p *Proxy) Handler(serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base, err := p.resolver.Resolve(r.Context(), serviceName)
		if err != nil {
			slog.Warn("resolve failed", "downstream", serviceName, "error", err)
			http.Error(w, serviceName+" is unavailable", http.StatusServiceUnavailable)
			return
		}

		target, err := url.Parse(base)
		if err != nil {
			slog.Error("bad downstream base URL", "downstream", serviceName, "base_url", base, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Warn("proxy request failed", "downstream", serviceName, "error", err)
			http.Error(w, serviceName+" is unavailable", http.StatusBadGateway)
		}
		proxy.ServeHTTP(w, r)
	}
}
