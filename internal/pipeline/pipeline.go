// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes search, detail fetch, and parsing into the
// end-to-end paper fetch.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pubmed-fetcher/internal/observability"
	"github.com/pdiddy/pubmed-fetcher/internal/parse"
	"github.com/pdiddy/pubmed-fetcher/internal/pubmed"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// Searcher resolves a query to ordered identifiers.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// DetailFetcher retrieves raw records for identifiers.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, ids []string) ([]pubmed.RawArticle, error)
}

// Parser converts one raw record. A nil paper with a nil error means the
// record was filtered out.
type Parser interface {
	Parse(raw pubmed.RawArticle) (*types.Paper, error)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(raw pubmed.RawArticle) (*types.Paper, error)

// Parse calls f(raw).
func (f ParserFunc) Parse(raw pubmed.RawArticle) (*types.Paper, error) { return f(raw) }

// Output is the result of one Fetch.
type Output struct {
	// Papers are the kept papers in record order.
	Papers []types.Paper

	// IDs are the identifiers returned by the search.
	IDs []string

	// Records is the number of raw records received.
	Records int

	// Filtered counts records dropped for having no industry author.
	Filtered int

	// Skipped counts records dropped because they could not be parsed.
	Skipped int
}

// Pipeline runs search, fetch, and parse in sequence.
type Pipeline struct {
	searcher Searcher
	fetcher  DetailFetcher
	parser   Parser
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-record tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithParser replaces parse.Parse.
func WithParser(parser Parser) Option {
	return func(p *Pipeline) { p.parser = parser }
}

// New creates a Pipeline over searcher and fetcher.
func New(searcher Searcher, fetcher DetailFetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher: searcher,
		fetcher:  fetcher,
		parser:   ParserFunc(parse.Parse),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch searches for query, fetches the matching records, and returns the
// papers with at least one industry author. An empty search result returns
// immediately. Unparseable records are skipped; search and fetch failures
// are returned as is.
func (p *Pipeline) Fetch(ctx context.Context, query string, limit int) (Output, error) {
	var out Output

	ids, err := p.searcher.Search(ctx, query, limit)
	if err != nil {
		return out, err
	}
	out.IDs = ids
	if len(ids) == 0 {
		p.metrics.SetPapersKept(0)
		return out, nil
	}

	records, err := p.fetcher.FetchDetails(ctx, ids)
	if err != nil {
		return out, err
	}
	out.Records = len(records)

	for _, raw := range records {
		paper, err := p.parser.Parse(raw)
		switch {
		case err != nil:
			out.Skipped++
			p.metrics.ObserveRecord(observability.OutcomeSkipped)
			p.logger.Debug().Err(err).Str("pmid", raw.MedlineCitation.PMID).Msg("Error parsing article")
		case paper == nil:
			out.Filtered++
			p.metrics.ObserveRecord(observability.OutcomeFiltered)
		default:
			out.Papers = append(out.Papers, *paper)
			p.metrics.ObserveRecord(observability.OutcomeKept)
		}
	}

	p.metrics.SetPapersKept(len(out.Papers))
	p.logger.Debug().
		Int("records", out.Records).
		Int("kept", len(out.Papers)).
		Int("filtered", out.Filtered).
		Int("skipped", out.Skipped).
		Msg("Parsed records")
	return out, nil
}
