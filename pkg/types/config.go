// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds settings for fetching web sources.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "termex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on rate-limited or unavailable responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// SourceConfig describes one extraction target. It corresponds to a single
// configuration entry; failures are isolated at this granularity.
type SourceConfig struct {
	// Name labels the source in logs and in stored entries.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// URI is a cloneable git locator (ending in .git), a web URI
	// (containing ://), or a local path relative to the config file.
	URI string `json:"uri" yaml:"uri" mapstructure:"uri"`

	// MarkdownPatterns select markdown documents when walking a directory.
	// Each is matched against "/" + the slash-separated relative path,
	// anchored at the start.
	MarkdownPatterns []string `json:"markdown_patterns" yaml:"markdown_patterns" mapstructure:"markdown_patterns"`

	// RespecPatterns select respec documents when walking a directory.
	RespecPatterns []string `json:"respec_patterns" yaml:"respec_patterns" mapstructure:"respec_patterns"`

	// MarkdownMarkers overrides the default markdown marker patterns.
	MarkdownMarkers []string `json:"markdown_markers,omitempty" yaml:"markdown_markers,omitempty" mapstructure:"markdown_markers"`

	// RespecMarkers overrides the default respec marker patterns.
	RespecMarkers []string `json:"respec_markers,omitempty" yaml:"respec_markers,omitempty" mapstructure:"respec_markers"`
}

// PathPatterns returns the configured path patterns for a dialect.
func (s SourceConfig) PathPatterns(d Dialect) []string {
	if d == DialectMarkdown {
		return s.MarkdownPatterns
	}
	return s.RespecPatterns
}

// MarkerPatterns returns the configured marker overrides for a dialect.
func (s SourceConfig) MarkerPatterns(d Dialect) []string {
	if d == DialectMarkdown {
		return s.MarkdownMarkers
	}
	return s.RespecMarkers
}

// ExtractionConfig holds settings for a full extraction run.
type ExtractionConfig struct {
	HTTP HTTPConfig `json:"http" yaml:"http" mapstructure:"http"`

	// HomeDir is the termex home folder (default ~/.termex). It is the only
	// directory termex creates implicitly.
	HomeDir string `json:"home_dir" yaml:"home_dir" mapstructure:"home_dir"`

	// OutDir receives the glossary database and exports.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`

	// ReposDir is where git sources are cloned.
	ReposDir string `json:"repos_dir" yaml:"repos_dir" mapstructure:"repos_dir"`

	// DedupeMarkers skips markers whose span repeats one already emitted
	// for the same document by an earlier marker pattern. Off by default:
	// every pattern's matches are emitted.
	DedupeMarkers bool `json:"dedupe_markers" yaml:"dedupe_markers" mapstructure:"dedupe_markers"`

	// Sources lists the extraction targets in processing order.
	Sources []SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// GlossaryConfig holds settings for the glossary store.
type GlossaryConfig struct {
	// OutDir is the directory holding glossary.db and exports.
	OutDir string `json:"out_dir" yaml:"out_dir" mapstructure:"out_dir"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}
