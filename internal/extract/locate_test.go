// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/termex/pkg/types"
)

func mustLocator(t *testing.T, expr string) *Locator {
	t.Helper()
	l, err := NewLocator(expr)
	require.NoError(t, err)
	return l
}

func TestLocatorMarkdown(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTerms []string
	}{
		{"single marker", "A paragraph.\n\n__Widget__ is a thing.\n\nNext.", []string{"Widget"}},
		{"two markers in order", "Intro __Alpha__ and __Beta__ here.", []string{"Alpha", "Beta"}},
		{"start of input is not a marker", "__Start__ text", nil},
		{"term must begin with a letter", "x __1st__ y", nil},
		{"multi-word term", "see __Relying Party__ below", []string{"Relying Party"}},
		{"does not cross lines", "x __open\nclose__ y", nil},
		{"no markers", "plain text only", nil},
	}

	l := mustLocator(t, DefaultMarkdownMarker)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for m := range l.Markers(tt.content) {
				got = append(got, m.Term)
			}
			assert.Equal(t, tt.wantTerms, got)
		})
	}
}

func TestLocatorMarkdownSpanExcludesGuard(t *testing.T) {
	content := "A paragraph.\n\n__Widget__ is a thing.\n\nNext."
	l := mustLocator(t, DefaultMarkdownMarker)

	markers := slices.Collect(l.Markers(content))
	require.Len(t, markers, 1)
	assert.Equal(t, types.Span{Begin: 14, End: 24}, markers[0].Span)
	assert.Equal(t, "__Widget__", content[markers[0].Begin:markers[0].End])
}

func TestLocatorRespec(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantTerms []string
	}{
		{"plain dfn", "<p>intro <dfn>Term</dfn> detail</p>", []string{"Term"}},
		{"attributes and case", `<DFN data-lt="x">Thing</DFN >`, []string{"Thing"}},
		{"several", "<dfn>A</dfn> <dfn id=b>B</dfn>", []string{"A", "B"}},
		{"other tags ignored", "<dfnx>no</dfnx> <def>no</def>", nil},
	}

	l := mustLocator(t, DefaultRespecMarker)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for m := range l.Markers(tt.content) {
				got = append(got, m.Term)
			}
			assert.Equal(t, tt.wantTerms, got)
		})
	}
}

func TestLocatorRespecSpan(t *testing.T) {
	content := "<p>intro <dfn>Term</dfn> detail</p>"
	markers := slices.Collect(mustLocator(t, DefaultRespecMarker).Markers(content))
	require.Len(t, markers, 1)
	assert.Equal(t, types.Span{Begin: 9, End: 24}, markers[0].Span)
}

func TestLocatorRestartable(t *testing.T) {
	content := "x __A__ y __B__ z __C__"
	seq := mustLocator(t, DefaultMarkdownMarker).Markers(content)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)

	// Stopping early must not disturb later iterations.
	for m := range seq {
		assert.Equal(t, "A", m.Term)
		break
	}
	assert.Equal(t, first, slices.Collect(seq))
}

func TestLocatorGroupFallback(t *testing.T) {
	content := "a **Bold** b"
	markers := slices.Collect(mustLocator(t, `\*\*(\w+)\*\*`).Markers(content))
	require.Len(t, markers, 1)
	assert.Equal(t, "Bold", markers[0].Term)
	assert.Equal(t, "**Bold**", content[markers[0].Begin:markers[0].End])
}

func TestLocatorNonOverlapping(t *testing.T) {
	content := "x __A__ __B__"
	markers := slices.Collect(mustLocator(t, DefaultMarkdownMarker).Markers(content))
	require.Len(t, markers, 2)
	assert.LessOrEqual(t, markers[0].End, markers[1].Begin)
}

func TestLocatorEmptyMatchesTerminate(t *testing.T) {
	markers := slices.Collect(mustLocator(t, `x*`).Markers("abc"))
	assert.Len(t, markers, 4)
}

func TestNewLocatorMalformed(t *testing.T) {
	_, err := NewLocator(`(unclosed`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedPattern))
}

func TestCompileMarkersDefaults(t *testing.T) {
	locs, err := CompileMarkers(types.DialectMarkdown, nil)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, DefaultMarkdownMarker, locs[0].String())

	locs, err = CompileMarkers(types.DialectRespec, []string{`<b>(.*?)</b>`, `<i>(.*?)</i>`})
	require.NoError(t, err)
	assert.Len(t, locs, 2)
}

func TestLocatorSeesTextBeforeEachMatch(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		content string
		want    []string
	}{
		{"line anchor after a match", `(?m)^__([A-Z])__`, "__A____B__\n__C__", []string{"A", "C"}},
		{"word boundary after a match", `\bx(\d)`, "x1x2 x3", []string{"1", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for m := range mustLocator(t, tt.expr).Markers(tt.content) {
				got = append(got, m.Term)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocatorManyMarkers(t *testing.T) {
	content := strings.Repeat("x __T__ ", 100)
	markers := slices.Collect(mustLocator(t, DefaultMarkdownMarker).Markers(content))
	require.Len(t, markers, 100)
	for i := 1; i < len(markers); i++ {
		assert.Less(t, markers[i-1].Begin, markers[i].Begin)
	}
}
