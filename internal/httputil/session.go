// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP session shared by the E-utilities clients.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// MaxBodySize bounds how much of a response body is read into memory.
const MaxBodySize = 64 << 20

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
}

// Session is a long-lived HTTP client reused across requests for connection
// reuse. Requests are paced by a token bucket and never retried.
type Session struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewSession builds a Session from cfg. A nil client gets a fresh
// *http.Client with cfg.Timeout; pass one to share transports in tests.
func NewSession(cfg types.HTTPConfig, client *http.Client) *Session {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &Session{
		client:    client,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
	}
}

// Get issues a GET request for rawURL and returns the full response body.
// A non-2xx response yields a *StatusError; the body is discarded.
func (s *Session) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, MaxBodySize))
		u := *req.URL
		u.RawQuery = ""
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}
