// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source discovers the documents a configured source refers to:
// it classifies source URIs, walks local trees with ordered path patterns,
// and reads single files.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/termex/internal/extract"
	"github.com/pdiddy/termex/pkg/types"
)

// ErrUnknownSource reports a source URI that is not a git repo, a web
// URI, or an existing local file or directory.
var ErrUnknownSource = errors.New("unrecognized source")

// readFile is replaced in tests to simulate unreadable documents.
var readFile = os.ReadFile

// Kind classifies a source URI.
type Kind int

const (
	KindUnknown Kind = iota
	KindGit
	KindWeb
	KindDir
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindGit:
		return "git"
	case KindWeb:
		return "web"
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	}
	return "unknown"
}

// Classify determines how to obtain documents for uri. Local paths are
// resolved relative to baseDir (the config file's directory) and returned
// cleaned; git and web URIs are returned unchanged.
func Classify(uri, baseDir string) (Kind, string, error) {
	switch {
	case strings.HasSuffix(uri, ".git"):
		return KindGit, uri, nil
	case strings.Contains(uri, "://"):
		return KindWeb, uri, nil
	}

	path := uri
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	path = filepath.Clean(path)

	info, err := os.Stat(path)
	if err != nil {
		return KindUnknown, path, fmt.Errorf("%w %s: not a git repo, URI, or local file or folder", ErrUnknownSource, uri)
	}
	if info.IsDir() {
		return KindDir, path, nil
	}
	return KindFile, path, nil
}

// CompilePatterns compiles path patterns. Each pattern is anchored at the
// start of the candidate path but may match a prefix of it.
func CompilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(`^(?:` + expr + `)`)
		if err != nil {
			return nil, fmt.Errorf("%w: path %q: %v", extract.ErrMalformedPattern, expr, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// WalkFunc is called by Walk for each matching file. When err is non-nil
// the entry at path could not be read: a subdirectory that cannot be
// listed or a file that cannot be inspected. Returning nil skips that entry
// and continues the walk; returning an error stops it.
type WalkFunc func(path, rel string, err error) error

// Walk calls fn for every regular file under root whose candidate path
// matches re. The candidate path is "/" followed by the slash-separated
// path relative to root; rel passed to fn omits the leading slash. Files
// are visited in lexical order and .git directories are skipped. An
// unreadable root is returned as an error; unreadable entries below it are
// passed to fn.
func Walk(ctx context.Context, root string, re *regexp.Regexp, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			rel, _ := filepath.Rel(root, path)
			if ferr := fn(path, filepath.ToSlash(rel), err); ferr != nil {
				return ferr
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !re.MatchString("/" + rel) {
			return nil
		}
		return fn(path, rel, nil)
	})
}

// DocumentFunc receives each document found by Documents. When err is
// non-nil the document (or a directory above it) could not be read and doc
// carries only its ID and dialect. Returning nil continues with the next
// document.
type DocumentFunc func(doc types.Document, err error) error

// Documents walks root once per configured path pattern, dialect by
// dialect in types.Dialects order, and calls fn with each matching
// document. A file matched by several patterns is visited once per
// pattern. Read failures are passed to fn rather than ending the walk.
func Documents(ctx context.Context, root string, src types.SourceConfig, fn DocumentFunc) error {
	for _, d := range types.Dialects {
		patterns, err := CompilePatterns(src.PathPatterns(d))
		if err != nil {
			return err
		}
		for _, re := range patterns {
			err := Walk(ctx, root, re, func(path, rel string, err error) error {
				if err != nil {
					return fn(types.Document{ID: rel, Dialect: d}, err)
				}
				doc, err := readDocument(path, rel, d)
				if err != nil {
					return fn(types.Document{ID: rel, Dialect: d}, err)
				}
				return fn(doc, nil)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadFile reads a single local document, inferring its dialect from the
// file name.
func ReadFile(path string) (types.Document, error) {
	return readDocument(path, path, types.DialectFromPath(path))
}

func readDocument(path, id string, d types.Dialect) (types.Document, error) {
	data, err := readFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return types.Document{ID: id, Dialect: d, Text: string(data)}, nil
}
