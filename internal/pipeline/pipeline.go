// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs extraction over every configured source: classify
// the source, fetch or walk its documents, and write each document's
// entries to a sink. A failing source is reported and skipped; the run
// continues with the next one.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/termex/internal/extract"
	"github.com/pdiddy/termex/internal/source"
	"github.com/pdiddy/termex/pkg/types"
)

// ErrMissingURI reports a configured source without a URI.
var ErrMissingURI = errors.New("source has no uri")

// ErrUnsupported indicates a source kind the runner has no fetcher for.
var ErrUnsupported = errors.New("unsupported source")

// RepoFetcher makes a git repository available locally and returns its root.
type RepoFetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// DocumentFetcher downloads a single web document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, uri string) (types.Document, error)
}

// SourceResetter clears entries previously stored for a source.
type SourceResetter interface {
	ResetSource(ctx context.Context, source string) (int64, error)
}

// Runner executes extraction runs. Git and Web may be nil when no source
// of that kind is configured.
type Runner struct {
	Git  RepoFetcher
	Web  DocumentFetcher
	Sink extract.Sink

	// Reset, when set, is called for each source once its documents are
	// reachable and before its first entry is written.
	Reset SourceResetter

	// Log receives structured diagnostics.
	Log zerolog.Logger

	// Out receives one progress line per source and the run summary. Nil
	// discards them.
	Out io.Writer
}

// Summary holds counts from an extraction run.
type Summary struct {
	Sources   int
	Documents int
	Entries   int

	// Unreadable counts documents that could not be read. They are skipped
	// without failing their source.
	Unreadable int

	// Failed counts sources that could not be processed.
	Failed int
}

// Run processes cfg.Sources in order. Relative local sources resolve
// against baseDir. Per-source failures are logged and counted in
// Summary.Failed. If ctx is cancelled the run stops at once and returns
// ctx.Err().
func (r *Runner) Run(ctx context.Context, baseDir string, cfg types.ExtractionConfig) (Summary, error) {
	out := r.output()

	var sum Summary
	for _, src := range cfg.Sources {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Sources++
		fmt.Fprintf(out, "extracting: %s\n", src.Name)

		stats, err := r.runSource(ctx, baseDir, src, cfg.DedupeMarkers)
		sum.Documents += stats.Documents
		sum.Entries += stats.Entries
		sum.Unreadable += stats.Unreadable

		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		if err != nil {
			sum.Failed++
			r.Log.Error().Err(err).Str("source", src.Name).Str("uri", src.URI).Msg("source failed")
			fmt.Fprintf(out, "failed:  %s (%v)\n", src.Name, err)
			continue
		}
		fmt.Fprintf(out, "done:    %s (%d documents, %d entries)\n", src.Name, stats.Documents, stats.Entries)
	}

	fmt.Fprintf(out, "\nRun summary: %d sources, %d documents, %d entries, %d unreadable, %d failed\n",
		sum.Sources, sum.Documents, sum.Entries, sum.Unreadable, sum.Failed)
	return sum, nil
}

func (r *Runner) output() io.Writer {
	if r.Out == nil {
		return io.Discard
	}
	return r.Out
}

func (r *Runner) runSource(ctx context.Context, baseDir string, src types.SourceConfig, dedupe bool) (Summary, error) {
	var stats Summary
	log := r.Log.With().Str("source", src.Name).Logger()

	if strings.TrimSpace(src.URI) == "" {
		return stats, ErrMissingURI
	}

	x, err := extract.New(extract.Options{
		Markers: map[types.Dialect][]string{
			types.DialectMarkdown: src.MarkdownMarkers,
			types.DialectRespec:   src.RespecMarkers,
		},
		DedupeMarkers: dedupe,
		Logger:        log,
	})
	if err != nil {
		return stats, err
	}
	for _, d := range types.Dialects {
		if _, err := source.CompilePatterns(src.PathPatterns(d)); err != nil {
			return stats, fmt.Errorf("%s path patterns: %w", d, err)
		}
	}

	kind, loc, err := source.Classify(src.URI, baseDir)
	if err != nil {
		return stats, err
	}
	log.Debug().Stringer("kind", kind).Str("location", loc).Msg("source classified")

	each := func(doc types.Document, err error) error {
		if err != nil {
			stats.Unreadable++
			log.Warn().Err(err).Str("document", doc.ID).Msg("skipping unreadable document")
			fmt.Fprintf(r.output(), "skipped: %s (%v)\n", doc.ID, err)
			return nil
		}
		res, err := x.ExtractDocument(ctx, doc, src.Name, r.Sink)
		stats.Documents++
		stats.Entries += res.Entries
		return err
	}

	switch kind {
	case source.KindGit:
		if r.Git == nil {
			return stats, fmt.Errorf("%w: no git fetcher for %s", ErrUnsupported, loc)
		}
		root, err := r.Git.Fetch(ctx, loc)
		if err != nil {
			return stats, err
		}
		if err := r.reset(ctx, src.Name); err != nil {
			return stats, err
		}
		return stats, source.Documents(ctx, root, src, each)

	case source.KindWeb:
		if r.Web == nil {
			return stats, fmt.Errorf("%w: no web fetcher for %s", ErrUnsupported, loc)
		}
		doc, err := r.Web.Fetch(ctx, loc)
		if err != nil {
			return stats, err
		}
		if err := r.reset(ctx, src.Name); err != nil {
			return stats, err
		}
		return stats, each(doc, nil)

	case source.KindDir:
		if err := r.reset(ctx, src.Name); err != nil {
			return stats, err
		}
		return stats, source.Documents(ctx, loc, src, each)

	case source.KindFile:
		doc, err := source.ReadFile(loc)
		if err != nil {
			return stats, err
		}
		if err := r.reset(ctx, src.Name); err != nil {
			return stats, err
		}
		return stats, each(doc, nil)
	}

	return stats, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}

func (r *Runner) reset(ctx context.Context, name string) error {
	if r.Reset == nil {
		return nil
	}
	n, err := r.Reset.ResetSource(ctx, name)
	if err != nil {
		return err
	}
	if n > 0 {
		r.Log.Debug().Str("source", name).Int64("removed", n).Msg("cleared previous entries")
	}
	return nil
}
