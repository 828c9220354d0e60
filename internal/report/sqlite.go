// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubmed-fetcher/internal/affiliation"
	"github.com/pdiddy/pubmed-fetcher/pkg/types"
)

var schema = []string{
	`CREATE TABLE papers (
		pubmed_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		publication_date TEXT,
		corresponding_email TEXT
	)`,
	`CREATE TABLE authors (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		pubmed_id TEXT NOT NULL REFERENCES papers(pubmed_id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		affiliation TEXT,
		email TEXT,
		is_corresponding INTEGER NOT NULL,
		is_industry INTEGER NOT NULL
	)`,
	`CREATE TABLE industry_affiliations (
		pubmed_id TEXT NOT NULL REFERENCES papers(pubmed_id),
		affiliation TEXT NOT NULL,
		PRIMARY KEY (pubmed_id, affiliation)
	)`,
	`CREATE INDEX idx_authors_pubmed_id ON authors(pubmed_id)`,
}

// ExportSQLite writes papers to a new SQLite database at path, replacing
// any existing file. The file is an output artifact and is never read back.
func ExportSQLite(ctx context.Context, path string, papers []types.Paper) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range papers {
		if err := insertPaper(ctx, tx, p); err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertPaper(ctx context.Context, tx *sql.Tx, p types.Paper) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO papers (pubmed_id, title, publication_date, corresponding_email) VALUES (?, ?, ?, ?)`,
		p.ID, p.Title, nullString(p.FormattedDate()), nullString(p.CorrespondingEmail),
	)
	if err != nil {
		return err
	}

	for i, a := range p.Authors {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO authors (pubmed_id, position, name, affiliation, email, is_corresponding, is_industry)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i+1, a.Name, nullString(a.Affiliation), nullString(a.Email),
			a.IsCorresponding, a.Affiliation != "" && affiliation.IsIndustry(a.Affiliation),
		)
		if err != nil {
			return err
		}
	}

	for _, aff := range p.IndustryAffiliations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO industry_affiliations (pubmed_id, affiliation) VALUES (?, ?)`, p.ID, aff,
		); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
