// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed implements the E-utilities search and detail clients.
//
// Both clients share one httputil.Session, so requests reuse connections
// and are paced by a single rate limiter. Neither client retries: any
// transport or response-format failure is returned as a *FetchError.
package pubmed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pubmed-fetcher/internal/httputil"
	"github.com/pdiddy/pubmed-fetcher/internal/observability"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// Endpoint names, also used as the metrics endpoint label.
const (
	EndpointSearch = "esearch"
	EndpointFetch  = "efetch"
)

// Option configures a SearchClient or DetailClient.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *observability.Metrics
	pause   func(context.Context, time.Duration) error
}

func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
		pause:  sleep,
	}
}

// WithLogger sets the logger for debug tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the metrics sink. A nil value disables metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithPause replaces the inter-batch pause of a DetailClient.
func WithPause(pause func(context.Context, time.Duration) error) Option {
	return func(o *options) { o.pause = pause }
}

// eutils holds what both clients need to issue a request.
type eutils struct {
	session *httputil.Session
	baseURL string
	apiKey  string
	tool    string
	email   string
	options
}

func newEutils(cfg types.FetchConfig, session *httputil.Session, opts []Option) eutils {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if session == nil {
		session = httputil.NewSession(cfg.HTTPConfig, nil)
	}
	base := cfg.BaseURL
	if base == "" {
		base = types.DefaultBaseURL
	}
	return eutils{
		session: session,
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  cfg.APIKey,
		tool:    cfg.Tool,
		email:   cfg.Email,
		options: o,
	}
}

// get requests {base}/{endpoint}.fcgi with params plus the fixed db and
// retmode values and the configured NCBI etiquette parameters.
func (e *eutils) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(e.baseURL + "/" + endpoint + ".fcgi")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	params.Set("db", "pubmed")
	params.Set("retmode", "xml")
	if e.apiKey != "" {
		params.Set("api_key", e.apiKey)
	}
	if e.tool != "" {
		params.Set("tool", e.tool)
	}
	if e.email != "" {
		params.Set("email", e.email)
	}
	u.RawQuery = params.Encode()

	body, err := e.session.Get(ctx, u.String())
	e.metrics.ObserveRequest(endpoint, statusLabel(err))
	return body, err
}

func statusLabel(err error) string {
	if err == nil {
		return "200"
	}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		return strconv.Itoa(se.StatusCode)
	}
	return "error"
}

// newDecoder returns a decoder that accepts the HTML character entities
// PubMed uses in titles and affiliations.
func newDecoder(body []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Entity = xml.HTMLEntity
	return dec
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
