// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/termex/pkg/types"
)

// --- test helpers ---

// recordingSink collects entries and optionally fails after failAfter writes.
type recordingSink struct {
	entries   []types.DefinitionEntry
	failAfter int
}

func (s *recordingSink) Write(_ context.Context, e types.DefinitionEntry) error {
	if s.failAfter > 0 && len(s.entries) >= s.failAfter {
		return errors.New("sink full")
	}
	s.entries = append(s.entries, e)
	return nil
}

func newExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	x, err := New(opts)
	require.NoError(t, err)
	return x
}

func markdownDoc(text string) types.Document {
	return types.Document{ID: "doc.md", Dialect: types.DialectMarkdown, Text: text}
}

func respecDoc(text string) types.Document {
	return types.Document{ID: "index.html", Dialect: types.DialectRespec, Text: text}
}

// --- driver tests ---

func TestEntriesMarkdown(t *testing.T) {
	x := newExtractor(t, Options{})

	entries, err := x.Entries(markdownDoc("A paragraph.\n\n__Widget__ is a thing.\n\nNext."))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Widget", entries[0].Term)
	assert.Equal(t, "__Widget__ is a thing.", entries[0].Description)
	assert.Equal(t, "doc.md", entries[0].DocumentID)
	assert.Equal(t, types.DialectMarkdown, entries[0].Dialect)
}

func TestEntriesRespec(t *testing.T) {
	x := newExtractor(t, Options{})

	entries, err := x.Entries(respecDoc("<p>intro <dfn>Term</dfn> detail</p>"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Term", entries[0].Term)
	assert.Equal(t, "intro Term detail", entries[0].Description)
}

func TestEntriesInDocumentOrder(t *testing.T) {
	x := newExtractor(t, Options{})

	entries, err := x.Entries(markdownDoc("Intro __A__ one.\n\n__B__ two."))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Term)
	assert.Equal(t, "Intro __A__ one.", entries[0].Description)
	assert.Equal(t, "B", entries[1].Term)
	assert.Equal(t, "__B__ two.", entries[1].Description)
}

func TestEntriesRepeatedTermsAreKept(t *testing.T) {
	x := newExtractor(t, Options{})

	entries, err := x.Entries(markdownDoc("x __T__ a\n\ny __T__ b"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "x __T__ a", entries[0].Description)
	assert.Equal(t, "y __T__ b", entries[1].Description)
}

func TestEntriesMultiplePatterns(t *testing.T) {
	capitalized := `\W(?P<marker>__(?P<term>[A-Z]\w*)__)`
	markers := map[types.Dialect][]string{
		types.DialectMarkdown: {DefaultMarkdownMarker, capitalized},
	}
	doc := markdownDoc("see __Abc__ d")

	t.Run("no dedup by default", func(t *testing.T) {
		x := newExtractor(t, Options{Markers: markers})
		entries, err := x.Entries(doc)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("dedup skips repeated spans", func(t *testing.T) {
		x := newExtractor(t, Options{Markers: markers, DedupeMarkers: true})
		entries, err := x.Entries(doc)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestEntriesEmptyDescriptionIsNotAnError(t *testing.T) {
	x := newExtractor(t, Options{
		Markers: map[types.Dialect][]string{types.DialectRespec: {`<dfn>(.*?)</dfn>`}},
	})
	entries, err := x.Entries(respecDoc("<p><dfn></dfn></p>"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Description)
}

func TestDescriptionsAreTrimmed(t *testing.T) {
	x := newExtractor(t, Options{})
	docs := []types.Document{
		markdownDoc("  lead __A__ x  \n\n\t__B__ tab\t\n"),
		respecDoc("<div>\n <b> <dfn>C</dfn> </b>\n</div>"),
	}
	for _, doc := range docs {
		entries, err := x.Entries(doc)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Equal(t, strings.TrimSpace(e.Description), e.Description)
		}
	}
}

func TestContextContainsMarker(t *testing.T) {
	docs := []types.Document{
		markdownDoc("# H __A__\nx __B__\n\n- __C__ y\n> __D__\n1. __E__ z"),
		markdownDoc("a\n__F__\n\n\n__G__"),
		respecDoc("<div><p>a <dfn>A</dfn></p><li><dfn>B</dfn><dd>c <dfn>C</dfn>"),
		respecDoc("<dfn>A</dfn> no blocks <dfn>B</dfn>"),
	}
	for _, doc := range docs {
		locs, err := CompileMarkers(doc.Dialect, nil)
		require.NoError(t, err)
		for m := range locs[0].Markers(doc.Text) {
			c, err := Resolve(doc, m)
			require.NoError(t, err, "marker %q in %q", m.Term, doc.Text)
			assert.LessOrEqual(t, c.Begin, m.Begin)
			assert.GreaterOrEqual(t, c.End, m.End)
		}
	}
}

func TestExtractDocumentSinkErrorKeepsEarlierEntries(t *testing.T) {
	x := newExtractor(t, Options{})
	sink := &recordingSink{failAfter: 1}

	res, err := x.ExtractDocument(context.Background(), markdownDoc("x __A__\n\ny __B__"), "src", sink)
	require.Error(t, err)
	assert.Equal(t, 1, res.Entries)
	require.Len(t, sink.entries, 1)
	assert.Equal(t, "A", sink.entries[0].Term)
	assert.Equal(t, "src", sink.entries[0].Source)
}

func TestExtractDocumentCanceled(t *testing.T) {
	x := newExtractor(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := x.ExtractDocument(ctx, markdownDoc("x __A__"), "", &recordingSink{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractDocumentCounts(t *testing.T) {
	x := newExtractor(t, Options{})
	sink := &recordingSink{}

	res, err := x.ExtractDocument(context.Background(), respecDoc("<p><dfn>A</dfn> and <dfn>B</dfn></p>"), "", sink)
	require.NoError(t, err)
	assert.Equal(t, DocumentResult{Markers: 2, Entries: 2}, res)
	assert.Equal(t, []string{"A", "B"}, []string{sink.entries[0].Term, sink.entries[1].Term})
}

func TestExtractDocumentUnsupportedDialect(t *testing.T) {
	x := newExtractor(t, Options{})
	_, err := x.ExtractDocument(context.Background(), types.Document{ID: "x", Dialect: "rst"}, "", &recordingSink{})
	require.Error(t, err)
}

func TestNewMalformedMarker(t *testing.T) {
	_, err := New(Options{Markers: map[types.Dialect][]string{types.DialectRespec: {`<dfn>(`}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedPattern)
}

func TestSafeResolveRecoversPanic(t *testing.T) {
	boom := func(types.TermMarker) types.Context { panic("scan diverged") }
	_, err := safeResolve(boom, types.TermMarker{Term: "T"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan diverged")
}

func TestSafeResolveRejectsUncoveredMarker(t *testing.T) {
	short := func(types.TermMarker) types.Context { return types.Context{} }
	_, err := safeResolve(short, types.TermMarker{Span: types.Span{Begin: 3, End: 5}})
	require.Error(t, err)
}

func TestEntriesNoMarkers(t *testing.T) {
	x := newExtractor(t, Options{})
	entries, err := x.Entries(markdownDoc("nothing to see"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntriesMarkersWithSurroundingWhitespace(t *testing.T) {
	tests := []struct {
		name    string
		dialect types.Dialect
		marker  string
		text    string
		term    string
		want    string
	}{
		{"indented marker after blank line", types.DialectMarkdown, `\W__([A-Za-z].*?)__`, "para\n\n __X__ is y", "X", "__X__ is y"},
		{"marker led by whitespace at document start", types.DialectMarkdown, `\s__(\w+)__`, " __Foo__ is a thing.", "Foo", "__Foo__ is a thing."},
		{"marker ending in whitespace at document end", types.DialectMarkdown, `__(\w+)__\s`, "x __Foo__\n", "Foo", "x __Foo__"},
		{"respec marker ending in whitespace", types.DialectRespec, `<dfn>(.*?)</dfn>\s+`, "<dfn>T</dfn>  ", "T", "T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newExtractor(t, Options{Markers: map[types.Dialect][]string{tt.dialect: {tt.marker}}})
			doc := types.Document{ID: "doc", Dialect: tt.dialect, Text: tt.text}

			sink := &recordingSink{}
			res, err := x.ExtractDocument(context.Background(), doc, "", sink)
			require.NoError(t, err)
			assert.Equal(t, DocumentResult{Markers: 1, Entries: 1}, res)
			require.Len(t, sink.entries, 1)
			assert.Equal(t, tt.term, sink.entries[0].Term)
			assert.Equal(t, tt.want, sink.entries[0].Description)
		})
	}
}

func TestTrimContextKeepsMarker(t *testing.T) {
	content := "  __A__  "
	c := trimContext(content, 0, len(content), types.Span{Begin: 1, End: 8})
	assert.Equal(t, types.Span{Begin: 1, End: 8}, c.Span)
	assert.Equal(t, " __A__ ", c.Text)

	c = trimContext(content, 0, len(content), types.Span{Begin: 2, End: 7})
	assert.Equal(t, "__A__", c.Text)
}
