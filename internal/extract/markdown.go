// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/termex/pkg/types"
)

var (
	// paragraphOpener matches a line break followed by a list item,
	// blockquote, heading, or ordinal-list marker.
	paragraphOpener = regexp.MustCompile(`^\n\s*([-*]\s+|>|#+|\d[.]\s+)`)

	// paragraphCloser matches a blank line or the start of a line that
	// opens a new paragraph.
	paragraphCloser = regexp.MustCompile(`\n\s*(\n|[-*]\s+|>|#+|\d[.]\s+)`)

	headingPattern = regexp.MustCompile(`^#+`)
)

// beginsParagraph reports whether the line following the line break at nl
// starts a new paragraph.
func beginsParagraph(content string, nl int) bool {
	if paragraphOpener.MatchString(content[nl:]) {
		return true
	}

	for i := nl - 1; i >= 0; i-- {
		switch content[i] {
		case '\n':
			// Only whitespace since the previous break: a blank line.
			return true
		case ' ', '\t', '\r':
			continue
		}
		// The previous line has content. A heading stands alone, so the
		// line after it is independent; otherwise it continues a paragraph.
		prevStart := strings.LastIndexByte(content[:i], '\n') + 1
		return headingPattern.MatchString(content[prevStart:])
	}
	return true
}

// paragraphBegin walks back line by line from pos to the first line that
// begins a paragraph.
func paragraphBegin(content string, pos int) int {
	i := pos
	for {
		nl := strings.LastIndexByte(content[:i], '\n')
		if nl < 0 {
			return 0
		}
		if beginsParagraph(content, nl) {
			return nl + 1
		}
		i = nl
	}
}

// paragraphEnd returns the offset of the next paragraph boundary at or
// after pos, or the end of content.
func paragraphEnd(content string, pos int) int {
	loc := paragraphCloser.FindStringIndex(content[pos:])
	if loc == nil {
		return len(content)
	}
	return pos + loc[0]
}

// MarkdownContext resolves the paragraph enclosing m. A paragraph that
// starts with a heading is cut to its first line.
func MarkdownContext(content string, m types.TermMarker) types.Context {
	begin := paragraphBegin(content, m.Begin)

	var end int
	if headingPattern.MatchString(content[begin:]) {
		end = strings.IndexByte(content[begin:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += begin
		}
	} else {
		end = paragraphEnd(content, m.End)
	}
	if end < m.End {
		end = m.End
	}

	return trimContext(content, begin, end, m.Span)
}

// trimContext narrows [begin, end) past surrounding whitespace, but never
// into the marker span: a marker that starts or ends with whitespace keeps
// that whitespace inside the context.
func trimContext(content string, begin, end int, marker types.Span) types.Context {
	raw := content[begin:end]
	lead := len(raw) - len(strings.TrimLeft(raw, " \t\r\n\f\v"))
	trail := len(raw) - len(strings.TrimRight(raw, " \t\r\n\f\v"))
	if lead == len(raw) {
		trail = 0
	}
	lead = min(lead, max(marker.Begin-begin, 0))
	trail = min(trail, max(end-marker.End, 0))

	span := types.Span{Begin: begin + lead, End: end - trail}
	return types.Context{Span: span, Text: content[span.Begin:span.End]}
}
