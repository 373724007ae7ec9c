// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the termex pipeline:
// documents and their dialects, term markers and contexts, definition
// entries, and the configuration structs each stage consumes.
package types

import (
	"fmt"
	"strings"
)

// Dialect identifies the markup style of a document.
type Dialect string

const (
	// DialectMarkdown is the lightweight-text dialect where a term is set
	// off by doubled emphasis delimiters (__Term__).
	DialectMarkdown Dialect = "markdown"

	// DialectRespec is the tag-based dialect used by specification
	// documents, where a term is wrapped in a <dfn> element.
	DialectRespec Dialect = "respec"
)

// Dialects lists every supported dialect in processing order.
var Dialects = []Dialect{DialectMarkdown, DialectRespec}

// ParseDialect converts a user-supplied name into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case DialectMarkdown:
		return DialectMarkdown, nil
	case DialectRespec:
		return DialectRespec, nil
	}
	return "", fmt.Errorf("unknown dialect %q: use markdown or respec", s)
}

// DialectFromPath infers the dialect of a local file from its name.
// Files ending in .md are markdown; everything else is treated as respec.
func DialectFromPath(path string) Dialect {
	if strings.HasSuffix(path, ".md") {
		return DialectMarkdown
	}
	return DialectRespec
}

// Document is an immutable snapshot of one document's text.
type Document struct {
	// ID is the originating identity: a path relative to a walked root,
	// a local file path, or a fetched URI.
	ID string `json:"id" yaml:"id"`

	// Dialect selects the marker patterns and context resolver.
	Dialect Dialect `json:"dialect" yaml:"dialect"`

	// Text is the full document content.
	Text string `json:"-" yaml:"-"`
}

// Span is a half-open byte range [Begin, End) into a document's text.
type Span struct {
	Begin int `json:"begin" yaml:"begin"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Begin }

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Begin <= o.Begin && s.End >= o.End
}

// TermMarker is one located occurrence of a term-definition pattern.
type TermMarker struct {
	Span

	// Term is the captured term name, verbatim.
	Term string
}

// Context is the block of text chosen to explain a marker. Its span always
// contains the marker's span.
type Context struct {
	Span

	// Text is the document text covered by Span, with surrounding
	// whitespace already excluded.
	Text string
}
