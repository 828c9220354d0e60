// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-fetcher/internal/pubmed"
)

func markup(s string) *pubmed.Markup { return &pubmed.Markup{Inner: s} }

func author(fore, last, aff string) pubmed.Author {
	a := pubmed.Author{ForeName: fore, LastName: last}
	if aff != "" {
		a.AffiliationInfo = []pubmed.AffiliationInfo{{Affiliation: markup(aff)}}
	}
	return a
}

func record(pmid string, authors ...pubmed.Author) pubmed.RawArticle {
	var raw pubmed.RawArticle
	raw.MedlineCitation.PMID = pmid
	raw.MedlineCitation.Article.ArticleTitle = markup("A study")
	raw.MedlineCitation.Article.Journal.JournalIssue.PubDate = &pubmed.RecordDate{Year: "2023", Month: "Mar", Day: "7"}
	raw.MedlineCitation.Article.AuthorList = &pubmed.AuthorList{Authors: authors}
	return raw
}

func TestParse_KeepsPaperWithIndustryAuthor(t *testing.T) {
	raw := record("111",
		author("Jane", "Doe", "Pfizer Inc., New York, NY. jane.doe@pfizer.com"),
		author("John", "Smith", "Harvard University, Boston, MA"),
	)

	p, err := Parse(raw)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "111", p.ID)
	assert.Equal(t, "A study", p.Title)
	assert.Equal(t, "2023-03-07", p.FormattedDate())
	assert.Equal(t, []string{"Jane Doe"}, p.IndustryAuthors)
	assert.Equal(t, []string{"Pfizer Inc., New York, NY. jane.doe@pfizer.com"}, p.IndustryAffiliations)
	assert.Equal(t, "jane.doe@pfizer.com", p.CorrespondingEmail)

	require.Len(t, p.Authors, 2)
	assert.True(t, p.Authors[0].IsCorresponding)
	assert.False(t, p.Authors[1].IsCorresponding)
	assert.Equal(t, "Harvard University, Boston, MA", p.Authors[1].Affiliation)
}

func TestParse_NoIndustryAuthorIsFiltered(t *testing.T) {
	raw := record("222",
		author("A", "One", "Harvard University"),
		author("B", "Two", "Mayo Clinic"),
		author("C", "Three", ""),
	)

	p, err := Parse(raw)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestParse_DeduplicatesAffiliations(t *testing.T) {
	raw := record("333",
		author("A", "One", "Novartis Pharmaceuticals, Basel"),
		author("B", "Two", "Novartis Pharmaceuticals, Basel"),
		author("C", "Three", "Genentech Inc."),
	)

	p, err := Parse(raw)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, []string{"A One", "B Two", "C Three"}, p.IndustryAuthors)
	assert.Equal(t, []string{"Novartis Pharmaceuticals, Basel", "Genentech Inc."}, p.IndustryAffiliations)
}

func TestParse_CorrespondingEmailLastWriteWins(t *testing.T) {
	raw := record("444",
		author("A", "One", "Pfizer Inc. a@pfizer.com"),
		author("B", "Two", "Stanford University. b@stanford.edu"),
	)

	p, err := Parse(raw)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "b@stanford.edu", p.CorrespondingEmail)
}

func TestParse_MissingPMIDIsRecordError(t *testing.T) {
	raw := record("  ", author("A", "One", "Pfizer Inc."))

	p, err := Parse(raw)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.True(t, IsRecordError(err))
	assert.True(t, errors.Is(err, ErrMissingID))
}

func TestParse_TitlePlaceholderAndMarkup(t *testing.T) {
	raw := record("555", author("A", "One", "Roche AG"))

	raw.MedlineCitation.Article.ArticleTitle = nil
	p, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, NoTitle, p.Title)

	raw.MedlineCitation.Article.ArticleTitle = markup("   ")
	p, err = Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, NoTitle, p.Title)

	raw.MedlineCitation.Article.ArticleTitle = markup("Effects of <i>E. coli</i> on CO<sub>2</sub>&nbsp;uptake &amp; growth.")
	p, err = Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Effects of E. coli on CO2 uptake & growth.", p.Title)
}

func TestParse_AuthorNames(t *testing.T) {
	raw := record("666",
		pubmed.Author{LastName: "Solo", AffiliationInfo: []pubmed.AffiliationInfo{{Affiliation: markup("Amgen Inc.")}}},
		pubmed.Author{CollectiveName: "Moderna Study Group", AffiliationInfo: []pubmed.AffiliationInfo{{Affiliation: markup("Moderna Inc.")}}},
		pubmed.Author{ForeName: "Nobody", AffiliationInfo: []pubmed.AffiliationInfo{{Affiliation: markup("Pfizer Inc.")}}},
	)

	p, err := Parse(raw)
	require.NoError(t, err)
	require.NotNil(t, p)

	require.Len(t, p.Authors, 2)
	assert.Equal(t, "Solo", p.Authors[0].Name)
	assert.Equal(t, "Moderna Study Group", p.Authors[1].Name)
	assert.Equal(t, []string{"Solo", "Moderna Study Group"}, p.IndustryAuthors)
}

func TestParse_FirstAffiliationOnly(t *testing.T) {
	a := pubmed.Author{
		ForeName: "A",
		LastName: "One",
		AffiliationInfo: []pubmed.AffiliationInfo{
			{},
			{Affiliation: markup("Gilead Sciences Inc.")},
			{Affiliation: markup("Harvard University")},
		},
	}

	p, err := Parse(record("777", a))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Gilead Sciences Inc.", p.Authors[0].Affiliation)
}

func TestParse_NoAuthorList(t *testing.T) {
	raw := record("888")
	raw.MedlineCitation.Article.AuthorList = nil

	p, err := Parse(raw)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
		want             string
	}{
		{"full numeric", "2023", "05", "15", "2023-05-15"},
		{"month name", "2023", "Dec", "", "2023-12-01"},
		{"long month name", "2021", "September", "3", "2021-09-03"},
		{"lowercase month", "2021", "feb", "28", "2021-02-28"},
		{"unknown month name", "2020", "Spring", "4", "2020-01-04"},
		{"missing month and day", "2019", "", "", "2019-01-01"},
		{"bad day defaults", "2019", "7", "x", "2019-07-01"},
		{"padded", " 2018 ", " 3 ", " 9 ", "2018-03-09"},
		{"leap day", "2024", "2", "29", "2024-02-29"},
		{"missing year", "", "1", "1", ""},
		{"bad year", "20x3", "1", "1", ""},
		{"month out of range", "2023", "13", "1", ""},
		{"month zero", "2023", "0", "1", ""},
		{"day out of range", "2023", "2", "30", ""},
		{"non-leap day", "2023", "2", "29", ""},
		{"day zero", "2023", "1", "0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.year, tt.month, tt.day)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
		})
	}
}

func TestPublicationDate_SourcePriority(t *testing.T) {
	var mc pubmed.MedlineCitation
	assert.Nil(t, publicationDate(mc))

	mc.DateCompleted = &pubmed.RecordDate{Year: "2020", Month: "1", Day: "2"}
	assert.Equal(t, "2020-01-02", publicationDate(mc).Format(time.DateOnly))

	mc.DateRevised = &pubmed.RecordDate{Year: "2021", Month: "3", Day: "4"}
	assert.Equal(t, "2021-03-04", publicationDate(mc).Format(time.DateOnly))

	mc.Article.Journal.JournalIssue.PubDate = &pubmed.RecordDate{Year: "2022", Month: "Jun"}
	assert.Equal(t, "2022-06-01", publicationDate(mc).Format(time.DateOnly))

	// A present source without a year does not fall through.
	mc.Article.Journal.JournalIssue.PubDate = &pubmed.RecordDate{MedlineDate: "2019 Nov-Dec"}
	assert.Nil(t, publicationDate(mc))

	// An empty element is not present.
	mc.Article.Journal.JournalIssue.PubDate = &pubmed.RecordDate{}
	assert.Equal(t, "2021-03-04", publicationDate(mc).Format(time.DateOnly))
}
