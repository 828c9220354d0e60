// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-fetcher pipeline.
package types

import "time"

// DateLayout is the layout used when a publication date is rendered in reports.
const DateLayout = "2006-01-02"

// Author is one entry of a paper's author list.
type Author struct {
	// Name is "ForeName LastName", or the collective name for group authors.
	Name string `json:"name" yaml:"name"`

	// Affiliation is the raw, unparsed affiliation text. Empty when absent.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// Email is the first address found in the affiliation text.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// IsCorresponding is true iff an email was extracted. PubMed records reached
	// through efetch carry no explicit corresponding-author flag.
	IsCorresponding bool `json:"is_corresponding" yaml:"is_corresponding"`
}

// Paper is a parsed article that has at least one industry-affiliated author.
// It is built once per record and never mutated afterwards.
type Paper struct {
	// ID is the PubMed identifier (PMID).
	ID string `json:"pubmed_id" yaml:"pubmed_id"`

	// Title is the article title, or a placeholder when the record has none.
	Title string `json:"title" yaml:"title"`

	// PublicationDate is nil when no usable year was found.
	PublicationDate *time.Time `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`

	// Authors is the full author list in record order, including academic authors.
	Authors []Author `json:"authors" yaml:"authors"`

	// IndustryAuthors holds the names of authors whose affiliation classified as industry.
	IndustryAuthors []string `json:"industry_authors" yaml:"industry_authors"`

	// IndustryAffiliations holds the distinct affiliation strings behind IndustryAuthors.
	IndustryAffiliations []string `json:"industry_affiliations" yaml:"industry_affiliations"`

	// CorrespondingEmail is the email of the last author marked corresponding.
	CorrespondingEmail string `json:"corresponding_email,omitempty" yaml:"corresponding_email,omitempty"`
}

// FormattedDate returns the publication date as YYYY-MM-DD, or "" when unknown.
func (p Paper) FormattedDate() string {
	if p.PublicationDate == nil {
		return ""
	}
	return p.PublicationDate.Format(DateLayout)
}
