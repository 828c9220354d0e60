// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders fetched papers as CSV, JSON, YAML, or a SQLite file.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatCSV, FormatJSON, FormatYAML, FormatSQLite}

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatYAML, FormatSQLite:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv, json, yaml, or sqlite)", s)
}

// Header is the CSV column row.
var Header = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// MultiValueSeparator joins multi-valued CSV fields.
const MultiValueSeparator = "; "

// Row renders p as one CSV record in Header order.
func Row(p types.Paper) []string {
	return []string{
		p.ID,
		p.Title,
		p.FormattedDate(),
		strings.Join(p.IndustryAuthors, MultiValueSeparator),
		strings.Join(p.IndustryAffiliations, MultiValueSeparator),
		p.CorrespondingEmail,
	}
}

// WriteCSV writes a header and one row per paper. Rows end in CRLF.
func WriteCSV(w io.Writer, papers []types.Paper) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, p := range papers {
		if err := writer.Write(Row(p)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes papers as an indented JSON array.
func WriteJSON(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

// WriteYAML writes papers as a YAML sequence.
func WriteYAML(w io.Writer, papers []types.Paper) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// Write dispatches to the stream writer for f. FormatSQLite is not a
// stream format; use ExportSQLite.
func Write(w io.Writer, f Format, papers []types.Paper) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, papers)
	case FormatJSON:
		return WriteJSON(w, papers)
	case FormatYAML:
		return WriteYAML(w, papers)
	}
	return fmt.Errorf("format %q cannot be written to a stream", f)
}
