// Package registry provides a minimal service registry: instances
// register a base URL under a logical name, keep themselves alive with
// heartbeats, and expire after a TTL without one.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logical service names the rest of the system registers and resolves.
const (
	ServiceUsers    = "user-service"
	ServiceProducts = "product-service"
	ServiceOrders   = "order-service"
)

var ErrInstanceNotFound = errors.New("instance not found")

type Instance struct {
	ID         string    `json:"id"`
	Service    string    `json:"service"`
	BaseURL    string    `json:"baseUrl"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type Store struct {
	mu        sync.RWMutex
	ttl       time.Duration
	instances map[string]map[string]Instance

	now func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Store{
		ttl:       ttl,
		instances: make(map[string]map[string]Instance),
		now:       time.Now,
	}
}

func (s *Store) Register(service, baseURL string) Instance {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst := Instance{
		ID:         uuid.NewString(),
		Service:    service,
		BaseURL:    baseURL,
		LastSeenAt: s.now(),
	}
	if s.instances[service] == nil {
		s.instances[service] = make(map[string]Instance)
	}
	s.instances[service][inst.ID] = inst
	slog.Info("instance registered", "service", service, "instance", inst.ID, "base_url", baseURL)
	return inst
}

func (s *Store) Heartbeat(service, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[service][id]
	if !ok {
		return ErrInstanceNotFound
	}
	inst.LastSeenAt = s.now()
	s.instances[service][id] = inst
	return nil
}

func (s *Store) Deregister(service, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[service][id]; ok {
		delete(s.instances[service], id)
		slog.Info("instance deregistered", "service", service, "instance", id)
	}
}

// Instances returns the live instances of a service; entries past the
// TTL are filtered out even before the sweeper removes them.
func (s *Store) Instances(service string) []Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deadline := s.now().Add(-s.ttl)
	live := make([]Instance, 0, len(s.instances[service]))
	for _, inst := range s.instances[service] {
		if inst.LastSeenAt.After(deadline) {
			live = append(live, inst)
		}
	}
	return live
}

// Sweep drops expired instances and reports how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.ttl)
	removed := 0
	for service, byID := range s.instances {
		for id, inst := range byID {
			if !inst.LastSeenAt.After(deadline) {
				delete(byID, id)
				removed++
				slog.Info("instance expired", "service", service, "instance", id)
			}
		}
	}
	return removed
}

// StartSweeper runs Sweep on a ticker until the context is cancelled.
func (s *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("registry sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
