package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"microshop/internal/model"
)

var (
	ErrProductUnavailable    = errors.New("product service is temporarily unavailable")
	ErrInvalidProductPayload = errors.New("invalid product service response")
)

// ProductInfo is the slice of the product payload the order service
// needs: the price observed at creation time and the display name.
type ProductInfo struct {
	PriceCents int64
	Name       string
}

type ProductClient struct {
	resolver Resolver
	service  string
	client   *http.Client
}

func NewProductClient(resolver Resolver, service string) *ProductClient {
	return &ProductClient{
		resolver: resolver,
		service:  service,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the product for pricing. Transport failures, timeouts
// and unexpected statuses map to ErrProductUnavailable; a well-formed
// 404 maps to model.ErrProductNotFound; a 200 without a numeric price
// maps to ErrInvalidProductPayload.
func (c *ProductClient) Fetch(ctx context.Context, productID string) (ProductInfo, error) {
	base, err := c.resolver.Resolve(ctx, c.service)
	if err != nil {
		return ProductInfo{}, fmt.Errorf("%w: resolve: %v", ErrProductUnavailable, err)
	}

	resp, err := doGet(ctx, c.client, fmt.Sprintf("%s/api/products/%s", base, productID))
	if err != nil {
		return ProductInfo{}, fmt.Errorf("%w: %v", ErrProductUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return ProductInfo{}, fmt.Errorf("%w: decode: %v", ErrInvalidProductPayload, err)
		}
		price, ok := payload["price"].(float64)
		if !ok {
			return ProductInfo{}, fmt.Errorf("%w: missing numeric price", ErrInvalidProductPayload)
		}
		name, _ := payload["name"].(string)
		return ProductInfo{PriceCents: model.CentsFromDecimal(price), Name: name}, nil
	case http.StatusNotFound:
		return ProductInfo{}, model.ErrProductNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ProductInfo{}, fmt.Errorf("%w: unexpected status %d: %s", ErrProductUnavailable, resp.StatusCode, body)
	}
}

// LookupName fetches the product display name for enrichment. Callers
// substitute the Unknown sentinel on any error.
func (c *ProductClient) LookupName(ctx context.Context, productID string) (string, error) {
	base, err := c.resolver.Resolve(ctx, c.service)
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	return fetchName(ctx, c.client, fmt.Sprintf("%s/api/products/%s", base, productID))
}

type UserClient struct {
	resolver Resolver
	service  string
	client   *http.Client
}

func NewUserClient(resolver Resolver, service string) *UserClient {
	return &UserClient{
		resolver: resolver,
		service:  service,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// LookupName fetches the user display name for enrichment. Callers
// substitute the Unknown sentinel on any error.
func (c *UserClient) LookupName(ctx context.Context, userID string) (string, error) {
	base, err := c.resolver.Resolve(ctx, c.service)
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	return fetchName(ctx, c.client, fmt.Sprintf("%s/api/users/%s", base, userID))
}

func doGet(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// fetchName accepts only a 200 response carrying an object with a
// string-typed name field; everything else is an error.
func fetchName(ctx context.Context, client *http.Client, url string) (string, error) {
	resp, err := doGet(ctx, client, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	name, ok := payload["name"].(string)
	if !ok {
		return "", errors.New("missing string name field")
	}
	return name, nil
}
