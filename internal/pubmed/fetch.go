// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"iter"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-fetcher/internal/httputil"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

var errEmptyDocument = errors.New("empty response document")

// DetailClient fetches article records for PMIDs in fixed-size batches.
type DetailClient struct {
	eutils
	batchSize int
	delay     time.Duration
}

// NewDetailClient creates a DetailClient using cfg.BatchSize and cfg.BatchDelay.
func NewDetailClient(cfg types.FetchConfig, session *httputil.Session, opts ...Option) *DetailClient {
	size := cfg.BatchSize
	if size < 1 {
		size = types.DefaultBatchSize
	}
	return &DetailClient{
		eutils:    newEutils(cfg, session, opts),
		batchSize: size,
		delay:     cfg.BatchDelay,
	}
}

// Batches splits ids into consecutive groups of at most size ids. The
// sequence is lazy and the last group may be short.
func Batches(ids []string, size int) iter.Seq[[]string] {
	if size < 1 {
		size = types.DefaultBatchSize
	}
	return slices.Chunk(ids, size)
}

// FetchDetails returns the raw records for ids, batch by batch, pausing
// between batches but not after the last one. Records keep the order the
// service returns within each batch. Any batch failure aborts the call.
func (c *DetailClient) FetchDetails(ctx context.Context, ids []string) ([]RawArticle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	c.logger.Debug().Int("count", len(ids)).Msg("Fetching details for papers")

	var records []RawArticle
	first := true
	for batch := range Batches(ids, c.batchSize) {
		if !first {
			if err := c.pause(ctx, c.delay); err != nil {
				return nil, transportError("fetching paper details", err)
			}
		}
		first = false

		start := time.Now()
		recs, err := c.fetchBatch(ctx, batch)
		c.metrics.ObserveBatch(time.Since(start))
		if err != nil {
			return nil, err
		}
		c.logger.Debug().Int("requested", len(batch)).Int("received", len(recs)).Msg("Fetched batch")
		records = append(records, recs...)
	}
	return records, nil
}

func (c *DetailClient) fetchBatch(ctx context.Context, batch []string) ([]RawArticle, error) {
	params := url.Values{}
	params.Set("id", strings.Join(batch, ","))

	body, err := c.get(ctx, EndpointFetch, params)
	if err != nil {
		return nil, transportError("fetching paper details", err)
	}

	records, err := decodeArticles(body)
	if err != nil {
		return nil, formatError("parsing paper details", err)
	}
	return records, nil
}

// decodeArticles walks the token stream and decodes every PubmedArticle
// element, at whatever depth it appears, in document order.
func decodeArticles(body []byte) ([]RawArticle, error) {
	dec := newDecoder(body)
	var (
		records []RawArticle
		sawRoot bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if se.Name.Local != "PubmedArticle" {
			continue
		}

		var rec RawArticle
		if err := dec.DecodeElement(&rec, &se); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if !sawRoot {
		return nil, errEmptyDocument
	}
	return records, nil
}
