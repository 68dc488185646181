// Package remote is the SDK's REST client: plain GET/mutate calls plus a
// read cache keyed by endpoint path, so list views refetch only after an
// explicit invalidation.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrFetchDisabled is returned when the enabled precondition does not hold.
// No network traffic happens in that case.
var ErrFetchDisabled = errors.New("remote: fetch disabled")

// UploadError is a non-success server response. Message carries the
// server's "message" field verbatim when present.
type UploadError struct {
	StatusCode int
	Message    string
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client issues REST calls against one base URL. Session cookies ride in
// the jar automatically, so authenticated calls need no extra setup after
// login.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	cache   map[string][]byte
	gens    map[string]uint64
	enabled func() bool

	group singleflight.Group
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client (tests, custom jars).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout overrides the default 15s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func NewClient(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
		cache: make(map[string][]byte),
		gens:  make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEnabled installs the precondition checked before every Fetch.
// A nil gate means always enabled.
func (c *Client) SetEnabled(fn func() bool) {
	c.mu.Lock()
	c.enabled = fn
	c.mu.Unlock()
}

func (c *Client) fetchEnabled() bool {
	c.mu.Lock()
	fn := c.enabled
	c.mu.Unlock()
	return fn == nil || fn()
}

// Fetch returns the cached body for path, or issues a GET and caches the
// result. Concurrent fetches for the same path are collapsed into one
// network call; list views mounting simultaneously must not double-hit
// the server.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !c.fetchEnabled() {
		return nil, ErrFetchDisabled
	}

	c.mu.Lock()
	if body, ok := c.cache[path]; ok {
		c.mu.Unlock()
		return body, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(path, func() (interface{}, error) {
		// another caller may have filled the cache while we queued
		c.mu.Lock()
		if body, ok := c.cache[path]; ok {
			c.mu.Unlock()
			return body, nil
		}
		gen := c.gens[path]
		c.mu.Unlock()

		body, err := c.get(ctx, path)
		if err != nil {
			return nil, err
		}

		// an Invalidate that landed during the GET bumped the
		// generation; its caller must refetch, so the stale body
		// must not re-enter the cache
		c.mu.Lock()
		if c.gens[path] == gen {
			c.cache[path] = body
		}
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Mutate issues a state-changing request and returns the response body.
// Non-success statuses come back as *UploadError.
func (c *Client) Mutate(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UploadError{StatusCode: res.StatusCode, Message: serverMessage(data)}
	}
	return data, nil
}

// Invalidate marks the cached data under path stale. The next Fetch
// re-issues the network call, even when a fetch for the same path is
// already in flight. Calling it twice is the same as once.
func (c *Client) Invalidate(path string) {
	c.mu.Lock()
	delete(c.cache, path)
	c.gens[path]++
	c.mu.Unlock()

	// later fetches must not join a call started before the invalidation
	c.group.Forget(path)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UploadError{StatusCode: res.StatusCode, Message: serverMessage(data)}
	}
	return data, nil
}

func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
