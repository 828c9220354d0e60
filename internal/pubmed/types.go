// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import "strings"

// ESearchResult is the esearch.fcgi response. Only the id list and the
// service's error message are consumed.
type ESearchResult struct {
	Count  string  `xml:"Count"`
	IDList *IDList `xml:"IdList"`
	Error  string  `xml:"ERROR"`
}

// IDList holds the PMIDs of a search, in service order.
type IDList struct {
	IDs []string `xml:"Id"`
}

// RawArticle is one PubmedArticle element from an efetch.fcgi response,
// reduced to the fields the parser reads.
type RawArticle struct {
	MedlineCitation MedlineCitation `xml:"MedlineCitation"`
}

// MedlineCitation carries the identifier, record dates, and article body.
type MedlineCitation struct {
	PMID          string      `xml:"PMID"`
	DateCompleted *RecordDate `xml:"DateCompleted"`
	DateRevised   *RecordDate `xml:"DateRevised"`
	Article       Article     `xml:"Article"`
}

// Article holds the title, journal issue, and authors.
type Article struct {
	Journal      Journal     `xml:"Journal"`
	ArticleTitle *Markup     `xml:"ArticleTitle"`
	AuthorList   *AuthorList `xml:"AuthorList"`
}

// Journal wraps the journal issue.
type Journal struct {
	JournalIssue JournalIssue `xml:"JournalIssue"`
}

// JournalIssue carries the primary publication date.
type JournalIssue struct {
	PubDate *RecordDate `xml:"PubDate"`
}

// RecordDate is any of the PubDate, DateRevised, or DateCompleted elements.
// Values are kept as text; normalization happens in the parser.
type RecordDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	Season      string `xml:"Season"`
	MedlineDate string `xml:"MedlineDate"`
}

// Present reports whether the element exists and carries at least one value.
func (d *RecordDate) Present() bool {
	if d == nil {
		return false
	}
	for _, v := range []string{d.Year, d.Month, d.Day, d.Season, d.MedlineDate} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Markup is an element whose text may contain inline formatting such as
// <i>, <sup>, or character entities. Inner holds the raw content.
type Markup struct {
	Inner string `xml:",innerxml"`
}

// AuthorList is the ordered author sequence of an article.
type AuthorList struct {
	Authors []Author `xml:"Author"`
}

// Author is one AuthorList entry.
type Author struct {
	LastName        string            `xml:"LastName"`
	ForeName        string            `xml:"ForeName"`
	CollectiveName  string            `xml:"CollectiveName"`
	AffiliationInfo []AffiliationInfo `xml:"AffiliationInfo"`
}

// AffiliationInfo is one affiliation block of an author.
type AffiliationInfo struct {
	Affiliation *Markup `xml:"Affiliation"`
}
