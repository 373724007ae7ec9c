// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package glossary writes definition entries to output sinks: the plain
// text rendering and a SQLite glossary database with full-text search and
// YAML/JSON export.
package glossary

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/termex/pkg/types"
)

const dbFile = "glossary.db"

// Store manages the glossary SQLite database. Entries keep their insertion
// order; nothing is deduplicated.
type Store struct {
	db         *sql.DB
	outDir     string
	maxResults int
	fts        bool
	now        func() time.Time
}

// NewStore opens or creates outDir/glossary.db and its schema.
func NewStore(cfg types.GlossaryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	dbPath := filepath.Join(cfg.OutDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		outDir:     cfg.OutDir,
		maxResults: maxResults,
		now:        time.Now,
	}

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

// FullText reports whether the FTS5 index is available. Without it,
// searches fall back to substring matching.
func (s *Store) FullText() bool { return s.fts }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			term TEXT NOT NULL,
			description TEXT NOT NULL,
			document TEXT NOT NULL,
			dialect TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			extracted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_term ON entries(term COLLATE NOCASE)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE entries_fts USING fts5(term, description, content=entries, content_rowid=id)`,
	); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			// Built without the sqlite_fts5 tag.
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, term, description) VALUES (new.id, new.term, new.description);
		END`,
		`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, term, description) VALUES('delete', old.id, old.term, old.description);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

// Write appends one entry.
func (s *Store) Write(ctx context.Context, e types.DefinitionEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (term, description, document, dialect, source, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Term, e.Description, e.DocumentID, string(e.Dialect), e.Source,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting entry %q: %w", e.Term, err)
	}
	return nil
}

// ResetSource deletes every entry previously extracted from source, so a
// re-run replaces rather than accumulates that source's entries.
func (s *Store) ResetSource(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE source = ?`, source)
	if err != nil {
		return 0, fmt.Errorf("clearing entries for source %s: %w", source, err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}
