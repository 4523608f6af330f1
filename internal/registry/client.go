package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

var ErrNoInstances = errors.New("no live instances")

// Client talks to the registry service and doubles as a Resolver for
// downstream calls. Resolutions are cached briefly so every request
// does not hit the registry.
type Client struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	cache map[string]cachedResolution
}

type cachedResolution struct {
	baseURL string
	expires time.Time
}

const resolveCacheTTL = 5 * time.Second

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   make(map[string]cachedResolution),
	}
}

func (c *Client) Register(ctx context.Context, service, baseURL string) (string, error) {
	payload, _ := json.Marshal(registerRequest{Service: service, BaseURL: baseURL})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/registry/services", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var inst Instance
	if err := json.NewDecoder(resp.Body).Decode(&inst); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return inst.ID, nil
}

func (c *Client) Heartbeat(ctx context.Context, service, id string) error {
	url := fmt.Sprintf("%s/registry/services/%s/%s/heartbeat", c.baseURL, service, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrInstanceNotFound
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
}

func (c *Client) Deregister(ctx context.Context, service, id string) error {
	url := fmt.Sprintf("%s/registry/services/%s/%s", c.baseURL, service, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	resp.Body.Close()
	return nil
}

// Resolve picks a random live instance of the service.
func (c *Client) Resolve(ctx context.Context, service string) (string, error) {
	c.mu.Lock()
	if cached, ok := c.cache[service]; ok && time.Now().Before(cached.expires) {
		c.mu.Unlock()
		return cached.baseURL, nil
	}
	c.mu.Unlock()

	url := fmt.Sprintf("%s/registry/services/%s", c.baseURL, service)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var instances []Instance
	if err := json.NewDecoder(resp.Body).Decode(&instances); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(instances) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoInstances, service)
	}

	base := instances[rand.Intn(len(instances))].BaseURL

	c.mu.Lock()
	c.cache[service] = cachedResolution{baseURL: base, expires: time.Now().Add(resolveCacheTTL)}
	c.mu.Unlock()
	return base, nil
}

// Static resolves fixed base URLs and is used when no registry is
// deployed.
type Static map[string]string

func (s Static) Resolve(_ context.Context, service string) (string, error) {
	base, ok := s[service]
	if !ok || base == "" {
		return "", fmt.Errorf("%w: %s", ErrNoInstances, service)
	}
	return base, nil
}
