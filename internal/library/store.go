// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists an index of converted MassBank records in a
// SQLite database so runs can be inspected without re-reading the output
// directory.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the record index database.
type Store struct {
	db *sql.DB
}

// Entry is one converted record in the index.
type Entry struct {
	Accession            string
	CompoundName         string
	InChIKey             string
	SMILES               string
	ClassificationSource string
	DirectParent         string
	PeakCount            int
	FilePath             string
	ConvertedAt          time.Time
}

// Open opens or creates the index database at path and ensures the schema
// exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			accession TEXT PRIMARY KEY,
			compound_name TEXT,
			inchikey TEXT,
			smiles TEXT,
			classification_source TEXT,
			direct_parent TEXT,
			peak_count INTEGER,
			file_path TEXT,
			converted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_inchikey ON records(inchikey)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces the entry keyed by accession.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (accession, compound_name, inchikey, smiles,
			classification_source, direct_parent, peak_count, file_path, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession) DO UPDATE SET
			compound_name=excluded.compound_name, inchikey=excluded.inchikey,
			smiles=excluded.smiles, classification_source=excluded.classification_source,
			direct_parent=excluded.direct_parent, peak_count=excluded.peak_count,
			file_path=excluded.file_path, converted_at=excluded.converted_at`,
		e.Accession, e.CompoundName, e.InChIKey, e.SMILES,
		e.ClassificationSource, e.DirectParent, e.PeakCount, e.FilePath,
		e.ConvertedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting record %s: %w", e.Accession, err)
	}
	return nil
}

// List returns all entries in accession order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT accession, compound_name, inchikey, smiles,
			classification_source, direct_parent, peak_count, file_path, converted_at
		 FROM records ORDER BY accession`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var convertedAt string
		if err := rows.Scan(&e.Accession, &e.CompoundName, &e.InChIKey, &e.SMILES,
			&e.ClassificationSource, &e.DirectParent, &e.PeakCount, &e.FilePath,
			&convertedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, convertedAt); parseErr == nil {
			e.ConvertedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
