// Package openrouter fetches the model catalog from an OpenRouter-compatible
// listing endpoint
package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sonemaro/ormf/internal/catalog"
)

const (
	// DefaultEndpoint is the public OpenRouter API base
	DefaultEndpoint = "https://openrouter.ai/api/v1/"

	// DefaultModelPath is the listing path below the endpoint
	DefaultModelPath = "/models"

	// DefaultTimeout bounds the listing request
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is kept in the error
	maxErrorBody = 512
)

// StatusError is returned for a non-2xx response
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("openrouter API error: %s for %s - %s", e.Status, e.URL, e.Body)
	}
	return fmt.Sprintf("openrouter API error: %s for %s", e.Status, e.URL)
}

// listResponse is the listing body. Data is a pointer so a missing field is
// told apart from an empty list.
type listResponse struct {
	Data *[]catalog.Entry `json:"data"`
}

// Client performs the single listing request
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a listing client
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: "ormf",
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch GETs url and returns the entries of its data field
func (c *Client) Fetch(ctx context.Context, url string) ([]catalog.Entry, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)

	log := c.logger.With().Str("request_id", requestID).Str("url", url).Logger()
	log.Debug().Msg("fetching model catalog")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("catalog response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if list.Data == nil {
		return nil, fmt.Errorf("response body: %w %q", catalog.ErrMissingField, "data")
	}

	log.Debug().Int("entries", len(*list.Data)).Msg("catalog decoded")
	return *list.Data, nil
}
