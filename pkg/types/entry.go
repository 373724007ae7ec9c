// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefinitionEntry is a finalized (term, description) pair with provenance.
type DefinitionEntry struct {
	// Term is the captured term name, never normalized.
	Term string `json:"term" yaml:"term"`

	// Description is the normalized context text. It may be empty when the
	// context held only markup.
	Description string `json:"description" yaml:"description"`

	// DocumentID identifies the document the entry came from.
	DocumentID string `json:"document" yaml:"document"`

	// Dialect is the dialect of the originating document.
	Dialect Dialect `json:"dialect" yaml:"dialect"`

	// Source is the name of the configured source that produced the
	// document. Empty for ad-hoc extraction.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}
