// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: web-token-<host> (bearer token sent only when
// fetching web sources on that host).
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// WebTokenPrefix prefixes secrets holding a per-host bearer token for web
// fetches, as in web-token-example.org.
const WebTokenPrefix = "web-token-"

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or "" when it is not set.
func (s Secrets) Get(key string) string {
	return s[key]
}

// WebTokens returns the per-host web tokens keyed by lower-case host name.
func (s Secrets) WebTokens() map[string]string {
	tokens := make(map[string]string)
	for key, value := range s {
		host, ok := strings.CutPrefix(key, WebTokenPrefix)
		if !ok || host == "" {
			continue
		}
		tokens[strings.ToLower(host)] = value
	}
	return tokens
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns an empty set. Unreadable files are logged and skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}
