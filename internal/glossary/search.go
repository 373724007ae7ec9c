// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package glossary

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/termex/pkg/types"
)

// QueryOptions holds parameters for glossary searches.
type QueryOptions struct {
	// Query is a full-text search over terms and descriptions. Without
	// FTS5 it is matched as a substring.
	Query string

	// Term filters by exact term, case-insensitively.
	Term string

	// Source filters by configured source name.
	Source string

	// Dialect filters by document dialect.
	Dialect types.Dialect

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Term == "" && q.Source == "" && q.Dialect == ""
}

// Result is a stored entry with its position in extraction order.
type Result struct {
	types.DefinitionEntry `yaml:",inline"`

	ID          int64  `json:"id" yaml:"id"`
	ExtractedAt string `json:"extracted_at" yaml:"extracted_at"`
}

// likeEscaper makes LIKE wildcards in a query match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Search queries the glossary. Full-text results are ranked by relevance;
// filter-only results keep extraction order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.id, e.term, e.description, e.document, e.dialect, e.source, e.extracted_at
			FROM entries_fts
			JOIN entries e ON e.id = entries_fts.rowid
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.id, e.term, e.description, e.document, e.dialect, e.source, e.extracted_at
			FROM entries e
			WHERE 1=1`)
		if opts.Query != "" {
			qb.WriteString(` AND (e.term LIKE ? ESCAPE '\' OR e.description LIKE ? ESCAPE '\')`)
			like := "%" + likeEscaper.Replace(opts.Query) + "%"
			args = append(args, like, like)
		}
	}

	if opts.Term != "" {
		qb.WriteString(` AND e.term = ? COLLATE NOCASE`)
		args = append(args, opts.Term)
	}
	if opts.Source != "" {
		qb.WriteString(` AND e.source = ?`)
		args = append(args, opts.Source)
	}
	if opts.Dialect != "" {
		qb.WriteString(` AND e.dialect = ?`)
		args = append(args, string(opts.Dialect))
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.id`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying glossary: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r       Result
			dialect string
		)
		if err := rows.Scan(
			&r.ID, &r.Term, &r.Description, &r.DocumentID, &dialect, &r.Source, &r.ExtractedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Dialect = types.Dialect(dialect)
		results = append(results, r)
	}

	return results, rows.Err()
}
