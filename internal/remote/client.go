// Package remote implements the HTTP client for the hosted retail backend.
// The backend is reachable only through a generic JSON-over-HTTP contract:
// collection listings and single entities under /{collection} and
// /{collection}/{id}, bearer authorization on every request, non-2xx treated
// as failure.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mesh-intelligence/tillsync/pkg/types"
)

// HTTPError reports a non-2xx response from the remote service.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("remote: HTTP %d: %s", e.Status, e.Body)
}

// Client talks to the remote service. Timeouts surface as ordinary request
// errors; callers treat them the same as any other connectivity failure.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for baseURL carrying token as the bearer
// credential. A zero timeout falls back to the config default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = types.DefaultRemoteTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches every document in a collection.
func (c *Client) List(ctx context.Context, collection string) ([]types.Document, error) {
	var docs []types.Document
	if err := c.do(ctx, http.MethodGet, c.url(collection, ""), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Get fetches a single document by ID.
func (c *Client) Get(ctx context.Context, collection, id string) (types.Document, error) {
	var doc types.Document
	if err := c.do(ctx, http.MethodGet, c.url(collection, id), nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Create POSTs a document and returns the persisted entity as echoed by the
// service.
func (c *Client) Create(ctx context.Context, collection string, doc types.Document) (types.Document, error) {
	var out types.Document
	if err := c.do(ctx, http.MethodPost, c.url(collection, ""), doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update PUTs a document by ID and returns the persisted entity.
func (c *Client) Update(ctx context.Context, collection, id string, doc types.Document) (types.Document, error) {
	var out types.Document
	if err := c.do(ctx, http.MethodPut, c.url(collection, id), doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a document by ID. The service's acknowledgement body is
// discarded.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.url(collection, id), nil, nil)
}

func (c *Client) url(collection, id string) string {
	if id == "" {
		return fmt.Sprintf("%s/%s", c.baseURL, collection)
	}
	return fmt.Sprintf("%s/%s/%s", c.baseURL, collection, id)
}

// do performs one request. out may be nil for callers that ignore the body;
// an empty or non-JSON success body with a non-nil out is not an error when
// the response carries no JSON content type.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("remote: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}
