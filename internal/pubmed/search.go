// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/pubmed-fetcher/internal/httputil"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// SearchClient resolves a query to an ordered list of PMIDs.
type SearchClient struct {
	eutils
}

// NewSearchClient creates a SearchClient. A nil session gets one built from cfg.
func NewSearchClient(cfg types.FetchConfig, session *httputil.Session, opts ...Option) *SearchClient {
	return &SearchClient{eutils: newEutils(cfg, session, opts)}
}

// Search returns up to limit PMIDs for query in the order the service
// ranks them. A limit of zero or less means types.DefaultMaxResults. A
// response without ids yields an empty slice and no error.
func (c *SearchClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = types.DefaultMaxResults
	}
	c.logger.Debug().Str("query", query).Int("limit", limit).Msg("Searching for papers")

	params := url.Values{}
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(limit))

	body, err := c.get(ctx, EndpointSearch, params)
	if err != nil {
		return nil, transportError("searching PubMed", err)
	}

	var result ESearchResult
	if err := newDecoder(body).Decode(&result); err != nil {
		return nil, formatError("parsing search results", err)
	}
	if result.Error != "" {
		c.logger.Debug().Str("error", strings.TrimSpace(result.Error)).Msg("Search reported an error")
	}

	if result.IDList == nil {
		c.logger.Debug().Msg("No papers found")
		return []string{}, nil
	}

	ids := make([]string, 0, len(result.IDList.IDs))
	for _, id := range result.IDList.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	c.logger.Debug().Int("count", len(ids)).Msg("Found papers")
	return ids, nil
}
