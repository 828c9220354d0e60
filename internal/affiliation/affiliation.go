// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation classifies free-text author affiliations as academic or
// industry (pharmaceutical/biotech) using ordered keyword rules, and extracts
// email addresses embedded in affiliation text.
//
// The rules are heuristic substring matches. Academic keywords are checked
// first and always win, so "University-Pfizer Collaboration" is academic.
package affiliation

import (
	"regexp"
	"slices"
	"strings"
)

// Class is the outcome of classifying one affiliation string.
type Class int

const (
	// Unknown means neither keyword set matched, or the text was empty.
	Unknown Class = iota
	// Academic means an academic keyword matched.
	Academic
	// Industry means no academic keyword matched and an industry keyword did.
	Industry
)

// String returns the lowercase class name.
func (c Class) String() string {
	switch c {
	case Academic:
		return "academic"
	case Industry:
		return "industry"
	default:
		return "unknown"
	}
}

var academicKeywords = []string{
	"university", "college", "institute", "school", "hospital", "medical center",
	"research center", "laboratory", "lab", "department", "faculty", "academia",
}

// Generic terms and corporate suffixes first, then named companies. The broad
// words ("research", "development", "medicine", "clinical", "ag") over-match
// and are kept for compatibility with existing reports.
var industryKeywords = []string{
	"pharmaceutical", "pharma", "biotech", "biotechnology", "biopharmaceutical",
	"drug", "therapeutics", "medicine", "clinical", "research", "development",
	"inc", "corp", "corporation", "company", "ltd", "llc", "ag", "gmbh",
	"novartis", "pfizer", "roche", "merck", "johnson", "bristol", "abbvie",
	"gilead", "amgen", "biogen", "celgene", "regeneron", "vertex", "alexion",
	"moderna", "biontech", "illumina", "thermo", "agilent", "waters",
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// AcademicKeywords returns a copy of the academic keyword set.
func AcademicKeywords() []string { return slices.Clone(academicKeywords) }

// IndustryKeywords returns a copy of the industry keyword set.
func IndustryKeywords() []string { return slices.Clone(industryKeywords) }

// Classify applies the academic rules, then the industry rules, to text.
func Classify(text string) Class {
	if text == "" {
		return Unknown
	}
	lower := strings.ToLower(text)

	if containsAny(lower, academicKeywords) {
		return Academic
	}
	if containsAny(lower, industryKeywords) {
		return Industry
	}
	return Unknown
}

// IsIndustry reports whether text classifies as an industry affiliation.
func IsIndustry(text string) bool {
	return Classify(text) == Industry
}

// ExtractEmail returns the first email address in text, or "" if there is none.
func ExtractEmail(text string) string {
	if text == "" {
		return ""
	}
	return emailPattern.FindString(text)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
