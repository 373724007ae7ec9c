// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`</?[-a-zA-Z0-9_]+(\s+[^>]*?)?>`)
	whitespacePattern = regexp.MustCompile(`[ \t\r\n]+`)
)

// StripTags removes every open or close tag from txt. Removal repeats until
// no tag remains, since deleting one tag can join the halves of another.
func StripTags(txt string) string {
	for tagPattern.MatchString(txt) {
		txt = tagPattern.ReplaceAllString(txt, "")
	}
	return txt
}

// Squeeze collapses each run of spaces, tabs, carriage returns, and line
// breaks into a single space.
func Squeeze(txt string) string {
	return whitespacePattern.ReplaceAllString(txt, " ")
}

// Normalize turns raw context text into a description. It is idempotent.
func Normalize(txt string) string {
	return strings.TrimSpace(Squeeze(StripTags(txt)))
}
