// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract locates term markers in markdown and respec documents,
// resolves the block of prose around each marker, and turns it into a
// definition entry.
//
// Context resolution is heuristic scanning over raw text. No parse tree is
// built, so partial or non-validating documents are handled the same way
// as complete ones.
package extract

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/termex/pkg/types"
)

// Sink receives entries in the order they are produced.
type Sink interface {
	Write(ctx context.Context, e types.DefinitionEntry) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, e types.DefinitionEntry) error

// Write calls f.
func (f SinkFunc) Write(ctx context.Context, e types.DefinitionEntry) error { return f(ctx, e) }

// Options configures an Extractor.
type Options struct {
	// Markers overrides the marker patterns per dialect. Dialects without
	// an entry use DefaultMarkers.
	Markers map[types.Dialect][]string

	// DedupeMarkers skips a marker whose span was already emitted for the
	// same document by an earlier pattern.
	DedupeMarkers bool

	// Logger receives per-marker diagnostics. The zero value discards.
	Logger zerolog.Logger
}

// Extractor turns documents into definition entries. It is not safe for
// concurrent use; documents are processed one at a time.
type Extractor struct {
	markers map[types.Dialect][]*Locator
	dedupe  bool
	log     zerolog.Logger
}

// New compiles the marker patterns in opts. A pattern that fails to compile
// returns an error wrapping ErrMalformedPattern.
func New(opts Options) (*Extractor, error) {
	x := &Extractor{
		markers: make(map[types.Dialect][]*Locator, len(types.Dialects)),
		dedupe:  opts.DedupeMarkers,
		log:     opts.Logger,
	}
	for _, d := range types.Dialects {
		locs, err := CompileMarkers(d, opts.Markers[d])
		if err != nil {
			return nil, fmt.Errorf("compiling %s markers: %w", d, err)
		}
		x.markers[d] = locs
	}
	return x, nil
}

// DocumentResult holds counts from extracting one document.
type DocumentResult struct {
	Markers int
	Entries int
	Failed  int
}

// resolver maps a marker to its context within one document.
type resolver func(m types.TermMarker) types.Context

func newResolver(doc types.Document) resolver {
	if doc.Dialect == types.DialectMarkdown {
		return func(m types.TermMarker) types.Context {
			return MarkdownContext(doc.Text, m)
		}
	}
	return NewRespecResolver(doc.Text).Context
}

// ExtractDocument runs every marker pattern of doc's dialect over doc and
// writes one entry per marker to sink, in marker order. A marker whose
// context cannot be resolved is logged and skipped; entries already written
// are unaffected. A sink error stops the document.
func (x *Extractor) ExtractDocument(ctx context.Context, doc types.Document, source string, sink Sink) (DocumentResult, error) {
	var res DocumentResult

	locs, ok := x.markers[doc.Dialect]
	if !ok {
		return res, fmt.Errorf("document %s: unsupported dialect %q", doc.ID, doc.Dialect)
	}

	resolve := newResolver(doc)
	var seen map[types.Span]bool
	if x.dedupe {
		seen = make(map[types.Span]bool)
	}

	for _, loc := range locs {
		for m := range loc.Markers(doc.Text) {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if seen != nil {
				if seen[m.Span] {
					continue
				}
				seen[m.Span] = true
			}
			res.Markers++

			c, err := safeResolve(resolve, m)
			if err != nil {
				x.log.Warn().Err(err).
					Str("document", doc.ID).
					Str("term", m.Term).
					Int("offset", m.Begin).
					Msg("context resolution failed")
				res.Failed++
				continue
			}

			entry := types.DefinitionEntry{
				Term:        m.Term,
				Description: Normalize(c.Text),
				DocumentID:  doc.ID,
				Dialect:     doc.Dialect,
				Source:      source,
			}
			if err := sink.Write(ctx, entry); err != nil {
				return res, fmt.Errorf("writing entry %q from %s: %w", m.Term, doc.ID, err)
			}
			res.Entries++
		}
	}

	x.log.Debug().
		Str("document", doc.ID).
		Int("markers", res.Markers).
		Int("entries", res.Entries).
		Msg("document extracted")
	return res, nil
}

// Entries extracts doc into a slice, in marker order.
func (x *Extractor) Entries(doc types.Document) ([]types.DefinitionEntry, error) {
	var entries []types.DefinitionEntry
	collect := SinkFunc(func(_ context.Context, e types.DefinitionEntry) error {
		entries = append(entries, e)
		return nil
	})
	if _, err := x.ExtractDocument(context.Background(), doc, "", collect); err != nil {
		return nil, err
	}
	return entries, nil
}

// Resolve returns the context for a single marker in doc.
func Resolve(doc types.Document, m types.TermMarker) (types.Context, error) {
	return safeResolve(newResolver(doc), m)
}

// safeResolve converts a panic in the scanning code into an error and
// checks that the context covers the marker.
func safeResolve(r resolver, m types.TermMarker) (c types.Context, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("resolving context at offset %d: %v", m.Begin, p)
		}
	}()

	c = r(m)
	if !c.Contains(m.Span) {
		return c, fmt.Errorf("context [%d,%d) does not cover marker [%d,%d)",
			c.Begin, c.End, m.Begin, m.End)
	}
	return c, nil
}
