// Package gateway calls the rental platform's services through the API
// gateway and the external identity service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rentalhub/internal/endpoints"
)

// maxErrorBody caps how much of a failed response is kept for logging
const maxErrorBody = 4 << 10

// StatusError is the one failure the gateway reports for a completed
// exchange: the upstream answered with a non-2xx status.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// Client represents an HTTP client for the gateway
type Client struct {
	endpoints  *endpoints.Registry
	httpClient *http.Client
	logger     zerolog.Logger
	validate   *validator.Validate
}

// New creates a gateway client for the given registry
func New(reg *endpoints.Registry, log zerolog.Logger) *Client {
	return &Client{
		endpoints: reg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   log,
		validate: validator.New(),
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Endpoints returns the registry the client resolves URLs from
func (c *Client) Endpoints() *endpoints.Registry {
	return c.endpoints
}

// Request sends body (if any) as JSON to url and decodes the JSON response
// into out (if non-nil). Failures are logged and returned unchanged; nothing
// is retried.
func (c *Client) Request(ctx context.Context, method, url string, body, out any) error {
	err := c.do(ctx, method, url, body, out)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("url", url).
			Msg("API request error")
	}
	return err
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        url,
			Body:       string(snippet),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// check validates a typed request before anything goes on the wire
func (c *Client) check(ctx context.Context, op string, req any) error {
	if err := c.validate.StructCtx(ctx, req); err != nil {
		return fmt.Errorf("invalid %s request: %w", op, err)
	}
	return nil
}
