// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/termex/pkg/types"
)

// BlockTags are the element names treated as paragraph-equivalent
// containers in respec documents.
var BlockTags = []string{"div", "p", "dt", "li", "dd"}

var (
	// reversedOpenTag matches an opening block tag in reversed text:
	// '>', optional attribute text, the reversed tag name, '<'.
	reversedOpenTag = regexp.MustCompile(`(?i)>([^<]*\s*)?(vid|p|td|il|dd)\s*<`)

	// openTag re-matches the same tag read forward.
	openTag = regexp.MustCompile(`(?i)^<\s*(div|p|dt|li|dd)(\s+[^>]*)?>`)
)

// RespecResolver resolves contexts within one respec document. It holds a
// reversed copy of the text so that every marker's backward search for an
// opening tag is a forward regexp search.
type RespecResolver struct {
	content  string
	reversed string
	closers  map[string]*regexp.Regexp
}

// NewRespecResolver prepares content for repeated context resolution.
func NewRespecResolver(content string) *RespecResolver {
	return &RespecResolver{
		content:  content,
		reversed: reverseBytes(content),
		closers:  make(map[string]*regexp.Regexp),
	}
}

// Context returns the content of the nearest block element opened before m
// and closed after it. Without an opening tag the context starts at the
// document start; without a closing tag it runs to the document end.
//
// The first closing tag of the same name after m ends the context, so a
// nested element of the same name truncates it.
func (r *RespecResolver) Context(m types.TermMarker) types.Context {
	begin, name := r.openBefore(m.Begin)

	end := len(r.content)
	if name != "" {
		if loc := r.closer(name).FindStringIndex(r.content[m.End:]); loc != nil {
			end = m.End + loc[0]
		}
	}

	return trimContext(r.content, begin, end, m.Span)
}

// openBefore finds the nearest qualifying opening tag that ends at or
// before pos. It returns the offset just past the tag and the tag name, or
// (0, "") when there is none.
func (r *RespecResolver) openBefore(pos int) (int, string) {
	n := len(r.content)
	from := n - pos
	for from < n {
		loc := r.reversedOpenTag(from)
		if loc == nil {
			return 0, ""
		}

		// loc[1] in reversed text is just past '<'; mirror it back.
		start := n - loc[1]
		if m := openTag.FindStringSubmatchIndex(r.content[start:pos]); m != nil {
			return start + m[1], r.content[start+m[2] : start+m[3]]
		}

		// The reversed match did not read back as a tag; keep looking
		// further back.
		from = loc[0] + 1
	}
	return 0, ""
}

func (r *RespecResolver) reversedOpenTag(from int) []int {
	loc := reversedOpenTag.FindStringIndex(r.reversed[from:])
	if loc == nil {
		return nil
	}
	return []int{from + loc[0], from + loc[1]}
}

func (r *RespecResolver) closer(name string) *regexp.Regexp {
	key := strings.ToLower(name)
	re, ok := r.closers[key]
	if !ok {
		re = regexp.MustCompile(`(?i)</` + regexp.QuoteMeta(key) + `\s*>`)
		r.closers[key] = re
	}
	return re
}

func reverseBytes(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[len(s)-1-i] = s[i]
	}
	return string(b)
}
