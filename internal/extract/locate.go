// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"iter"
	"regexp"

	"github.com/pdiddy/termex/pkg/types"
)

// ErrMalformedPattern reports a marker or path pattern that does not compile.
var ErrMalformedPattern = errors.New("malformed pattern")

// Default marker patterns. The markdown pattern requires a non-word guard
// character before the opening delimiters; the marker group excludes it so
// the marker span starts at the delimiters themselves.
const (
	DefaultMarkdownMarker = `\W(?P<marker>__(?P<term>[A-Za-z].*?)__)`
	DefaultRespecMarker   = `(?i)<dfn(?:\s[^>]*)?>(?P<term>.*?)</dfn\s*>`
)

// DefaultMarkers returns the built-in marker patterns for a dialect.
func DefaultMarkers(d types.Dialect) []string {
	if d == types.DialectMarkdown {
		return []string{DefaultMarkdownMarker}
	}
	return []string{DefaultRespecMarker}
}

// firstBatch is the number of matches requested by the first scan.
const firstBatch = 16

// Locator finds term markers for one compiled pattern.
type Locator struct {
	re      *regexp.Regexp
	termIdx int
	markIdx int
	expr    string
}

// NewLocator compiles expr. The term is taken from the group named "term",
// else group 1, else the whole match. The marker span is the group named
// "marker" when present, else the whole match.
func NewLocator(expr string) (*Locator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: marker %q: %v", ErrMalformedPattern, expr, err)
	}

	l := &Locator{re: re, expr: expr}
	l.termIdx = re.SubexpIndex("term")
	if l.termIdx < 0 && re.NumSubexp() > 0 {
		l.termIdx = 1
	}
	if l.termIdx < 0 {
		l.termIdx = 0
	}
	l.markIdx = re.SubexpIndex("marker")
	if l.markIdx < 0 {
		l.markIdx = 0
	}
	return l, nil
}

// String returns the source expression.
func (l *Locator) String() string { return l.expr }

// Markers returns a lazy, left-to-right sequence of non-overlapping markers
// in content. Matching always runs over the whole content, so anchors, word
// boundaries and guard characters see the text before each match. Matches
// are found in doubling batches, so stopping early skips the rest of the
// scan. Each range over the sequence restarts it.
func (l *Locator) Markers(content string) iter.Seq[types.TermMarker] {
	return func(yield func(types.TermMarker) bool) {
		emitted := 0
		for n := firstBatch; ; n *= 2 {
			locs := l.re.FindAllStringSubmatchIndex(content, n)
			for _, loc := range locs[emitted:] {
				m, ok := l.marker(content, loc)
				if !ok {
					continue
				}
				if !yield(m) {
					return
				}
			}
			if len(locs) < n {
				return
			}
			emitted = len(locs)
		}
	}
}

func (l *Locator) marker(content string, loc []int) (types.TermMarker, bool) {
	mb, me := loc[2*l.markIdx], loc[2*l.markIdx+1]
	tb, te := loc[2*l.termIdx], loc[2*l.termIdx+1]
	if mb < 0 || tb < 0 {
		return types.TermMarker{}, false
	}
	return types.TermMarker{
		Span: types.Span{Begin: mb, End: me},
		Term: content[tb:te],
	}, true
}

// CompileMarkers compiles a dialect's marker patterns, falling back to the
// defaults when exprs is empty.
func CompileMarkers(d types.Dialect, exprs []string) ([]*Locator, error) {
	if len(exprs) == 0 {
		exprs = DefaultMarkers(d)
	}
	locs := make([]*Locator, 0, len(exprs))
	for _, expr := range exprs {
		l, err := NewLocator(expr)
		if err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, nil
}
