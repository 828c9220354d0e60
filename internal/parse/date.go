// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/pubmed-fetcher/internal/pubmed"
)

var monthNames = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// publicationDate uses the first present of PubDate, DateRevised, and
// DateCompleted. A source without a usable year yields nil even if a later
// source has one.
func publicationDate(mc pubmed.MedlineCitation) *time.Time {
	for _, d := range []*pubmed.RecordDate{
		mc.Article.Journal.JournalIssue.PubDate,
		mc.DateRevised,
		mc.DateCompleted,
	} {
		if d.Present() {
			return ParseDate(d.Year, d.Month, d.Day)
		}
	}
	return nil
}

// ParseDate builds a UTC date from PubMed date parts. The year is required.
// The month may be a number or a name (only the first three letters count)
// and defaults to January; an unparseable day defaults to 1. Out-of-range
// values, such as month 13 or February 30, yield nil.
func ParseDate(year, month, day string) *time.Time {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 || y > 9999 {
		return nil
	}

	m, ok := parseMonth(month)
	if !ok {
		return nil
	}

	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		d = 1
	}
	if d < 1 || d > daysIn(m, y) {
		return nil
	}

	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// parseMonth returns false only for a numeric month outside 1..12.
func parseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.January, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, false
		}
		return time.Month(n), true
	}

	key := strings.ToLower(s)
	if len(key) > 3 {
		key = key[:3]
	}
	if m, ok := monthNames[key]; ok {
		return m, true
	}
	return time.January, true
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
