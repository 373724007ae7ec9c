// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/ini.v1"

	"github.com/pdiddy/termex/pkg/types"
)

// Legacy INI keys. Pattern keys are numbered from 1; numbering stops at the
// first missing index.
const (
	keySourceURI  = "source uri"
	keyPatternFmt = "%s pat %d"
)

// iniOptions matches the legacy reader: keys are case-insensitive and a
// ';' or '#' inside a value is part of the value, since path patterns may
// contain either.
var iniOptions = ini.LoadOptions{
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
}

// ReadINIFile reads sources from a legacy INI config file.
func ReadINIFile(path string) ([]types.SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening config %s: %w", path, err)
	}
	sources, err := parseINI(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return sources, nil
}

// ReadINI parses legacy INI sections into sources, one per section, in file
// order. Values in the [DEFAULT] section apply to every other section. A
// section without a source uri is still returned, with an empty URI, so it
// fails on its own when run instead of rejecting the whole file.
func ReadINI(r io.Reader) ([]types.SourceConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseINI(data)
}

func parseINI(data []byte) ([]types.SourceConfig, error) {
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}
	defaults := f.Section(ini.DefaultSection)

	var sources []types.SourceConfig
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		lookup := func(k string) (string, bool) {
			if sec.HasKey(k) {
				return sec.Key(k).String(), true
			}
			if defaults.HasKey(k) {
				return defaults.Key(k).String(), true
			}
			return "", false
		}

		uri, _ := lookup(keySourceURI)
		sources = append(sources, types.SourceConfig{
			Name:             sec.Name(),
			URI:              uri,
			MarkdownPatterns: numbered(lookup, types.DialectMarkdown),
			RespecPatterns:   numbered(lookup, types.DialectRespec),
		})
	}
	return sources, nil
}

func numbered(lookup func(string) (string, bool), d types.Dialect) []string {
	var pats []string
	for n := 1; ; n++ {
		v, ok := lookup(fmt.Sprintf(keyPatternFmt, d, n))
		if !ok {
			return pats
		}
		pats = append(pats, v)
	}
}
