package registry

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Registration keeps one service instance registered: it registers on
// start, heartbeats on a ticker, re-registers if the registry forgot
// the instance, and deregisters on shutdown.
type Registration struct {
	client   *Client
	service  string
	baseURL  string
	interval time.Duration

	instanceID string
}

func NewRegistration(client *Client, service, baseURL string, interval time.Duration) *Registration {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Registration{
		client:   client,
		service:  service,
		baseURL:  baseURL,
		interval: interval,
	}
}

func (r *Registration) Start(ctx context.Context) {
	slog.Info("starting registry heartbeat", "registered_as", r.service)
	r.register(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.instanceID != "" {
				dctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = r.client.Deregister(dctx, r.service, r.instanceID)
				cancel()
			}
			slog.Info("registry heartbeat stopped", "registered_as", r.service)
			return
		case <-ticker.C:
			r.beat(ctx)
		}
	}
}

func (r *Registration) register(ctx context.Context) {
	id, err := r.client.Register(ctx, r.service, r.baseURL)
	if err != nil {
		slog.Error("registry registration failed", "registered_as", r.service, "error", err)
		return
	}
	r.instanceID = id
}

func (r *Registration) beat(ctx context.Context) {
	if r.instanceID == "" {
		r.register(ctx)
		return
	}

	err := r.client.Heartbeat(ctx, r.service, r.instanceID)
	switch {
	case err == nil:
	case errors.Is(err, ErrInstanceNotFound):
		// The registry expired us; start over with a fresh instance.
		r.instanceID = ""
		r.register(ctx)
	default:
		slog.Warn("registry heartbeat failed", "registered_as", r.service, "error", err)
	}
}
