package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"brief-portal/internal/ctxutil"
	"brief-portal/internal/logger"
	"brief-portal/internal/metrics"
)

// Client is the single choke point for calls to the brief backend: it owns
// the base URL and the bearer header injection.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// RequestOptions tunes a single call. RequiredAuth attaches the bearer token
// found in the request context; a missing token silently omits the header.
type RequestOptions struct {
	RequiredAuth bool
	Headers      map[string]string
}

// Auth is the common option set for authenticated calls.
var Auth = RequestOptions{RequiredAuth: true}

func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("component", "apiclient"),
	}
}

func (c *Client) Get(ctx context.Context, endpoint string, out interface{}, opts RequestOptions) error {
	return c.request(ctx, http.MethodGet, endpoint, nil, out, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out interface{}, opts RequestOptions) error {
	return c.request(ctx, http.MethodPost, endpoint, body, out, opts)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out interface{}, opts RequestOptions) error {
	return c.request(ctx, http.MethodPut, endpoint, body, out, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out interface{}, opts RequestOptions) error {
	return c.request(ctx, http.MethodDelete, endpoint, nil, out, opts)
}

// PutRaw uploads raw bytes to an absolute (signed) URL. No auth header is
// ever attached since the URL carries its own credentials.
func (c *Client) PutRaw(ctx context.Context, url, contentType string, body io.Reader, size int64) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if size >= 0 {
		req.ContentLength = size
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(http.MethodPut, "transport_error", start)
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observe(http.MethodPut, "http_error", start)
		return errorFromResponse(resp.StatusCode, raw)
	}
	observe(http.MethodPut, "ok", start)
	return nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, body, out interface{}, opts RequestOptions) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.RequiredAuth {
		if token := ctxutil.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observe(method, "transport_error", start)
		c.log.Warn("backend request failed", "method", method, "endpoint", endpoint, "error", err)
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observe(method, "transport_error", start)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observe(method, "http_error", start)
		apiErr := errorFromResponse(resp.StatusCode, raw)
		c.log.Debug("backend returned error", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}
	observe(method, "ok", start)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, endpoint, err)
	}
	return nil
}

func observe(method, outcome string, start time.Time) {
	metrics.BackendRequestDuration.WithLabelValues(method, outcome).Observe(time.Since(start).Seconds())
}
