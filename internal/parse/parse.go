// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse converts raw PubMed article records into types.Paper values
// and keeps only papers with at least one industry-affiliated author.
package parse

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubmed-fetcher/internal/affiliation"
	"github.com/pdiddy/pubmed-fetcher/internal/pubmed"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// NoTitle replaces a missing or empty article title.
const NoTitle = "No title"

// ErrMissingID is wrapped by a RecordError when a record has no PMID.
var ErrMissingID = errors.New("record has no PMID")

// RecordError reports a single unusable record. Callers skip the record
// and continue with the rest of the batch.
type RecordError struct {
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("parsing article: %v", e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// IsRecordError reports whether err is a recoverable per-record failure.
func IsRecordError(err error) bool {
	var re *RecordError
	return errors.As(err, &re)
}

// Parse builds a Paper from raw. It returns (nil, nil) when no author has
// an industry affiliation and a *RecordError when the record is unusable.
func Parse(raw pubmed.RawArticle) (*types.Paper, error) {
	mc := raw.MedlineCitation

	id := strings.TrimSpace(mc.PMID)
	if id == "" {
		return nil, &RecordError{Err: ErrMissingID}
	}

	title := flatten(mc.Article.ArticleTitle)
	if title == "" {
		title = NoTitle
	}

	paper := &types.Paper{
		ID:              id,
		Title:           title,
		PublicationDate: publicationDate(mc),
		Authors:         authors(mc.Article.AuthorList),
	}

	for _, a := range paper.Authors {
		if a.Affiliation != "" && affiliation.IsIndustry(a.Affiliation) {
			paper.IndustryAuthors = appendUnique(paper.IndustryAuthors, a.Name)
			paper.IndustryAffiliations = appendUnique(paper.IndustryAffiliations, a.Affiliation)
		}
		// Last corresponding author wins.
		if a.IsCorresponding && a.Email != "" {
			paper.CorrespondingEmail = a.Email
		}
	}

	if len(paper.IndustryAuthors) == 0 {
		return nil, nil
	}
	return paper, nil
}

func authors(list *pubmed.AuthorList) []types.Author {
	if list == nil {
		return nil
	}

	var out []types.Author
	for _, a := range list.Authors {
		name := authorName(a)
		if name == "" {
			continue
		}
		aff := firstAffiliation(a)
		email := affiliation.ExtractEmail(aff)
		out = append(out, types.Author{
			Name:            name,
			Affiliation:     aff,
			Email:           email,
			IsCorresponding: email != "",
		})
	}
	return out
}

// authorName prefers "ForeName LastName", then the collective name.
func authorName(a pubmed.Author) string {
	last := strings.TrimSpace(a.LastName)
	if last == "" {
		return strings.TrimSpace(a.CollectiveName)
	}
	if fore := strings.TrimSpace(a.ForeName); fore != "" {
		return fore + " " + last
	}
	return last
}

func firstAffiliation(a pubmed.Author) string {
	for _, info := range a.AffiliationInfo {
		if info.Affiliation != nil {
			return flatten(info.Affiliation)
		}
	}
	return ""
}

// flatten returns the text content of an element that may carry inline
// markup, with runs of whitespace collapsed.
func flatten(m *pubmed.Markup) string {
	if m == nil {
		return ""
	}
	text := m.Inner
	if strings.ContainsAny(text, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
