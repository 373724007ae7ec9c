// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	gitMissing bool
	runErr     error
	calls      []string // "dir: name args..."
	onRun      func(dir string, args []string)
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.gitMissing {
		return "", errors.New("not found: " + file)
	}
	return "/usr/bin/" + file, nil
}

func (m *mockExecutor) Run(_ context.Context, dir string, _ io.Writer, name string, args ...string) error {
	m.calls = append(m.calls, dir+": "+name+" "+strings.Join(args, " "))
	if m.runErr != nil {
		return m.runErr
	}
	if m.onRun != nil {
		m.onRun(dir, args)
	}
	return nil
}

func newTestFetcher(t *testing.T, exec *mockExecutor) *GitFetcher {
	t.Helper()
	return &GitFetcher{ReposDir: filepath.Join(t.TempDir(), "repos"), Logger: zerolog.Nop(), exec: exec}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"https://github.com/w3c/webauthn.git", "webauthn", false},
		{"git@github.com:org/spec-repo.git", "spec-repo", false},
		{"webauthn.git", "", true},
		{"https://github.com/w3c/webauthn", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := RepoName(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFetch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitFetchClones(t *testing.T) {
	exec := &mockExecutor{}
	g := newTestFetcher(t, exec)

	root, err := g.Fetch(context.Background(), "https://github.com/w3c/webauthn.git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(g.ReposDir, "webauthn"), root)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, g.ReposDir+": git clone https://github.com/w3c/webauthn.git webauthn", exec.calls[0])
}

func TestGitFetchPullsExisting(t *testing.T) {
	exec := &mockExecutor{}
	g := newTestFetcher(t, exec)
	root := filepath.Join(g.ReposDir, "webauthn")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	got, err := g.Fetch(context.Background(), "https://github.com/w3c/webauthn.git")
	require.NoError(t, err)
	assert.Equal(t, root, got)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, root+": git pull", exec.calls[0])
}

func TestGitFetchCloneThenPull(t *testing.T) {
	exec := &mockExecutor{}
	exec.onRun = func(dir string, args []string) {
		if args[0] == "clone" {
			os.MkdirAll(filepath.Join(dir, args[2], ".git"), 0o755)
		}
	}
	g := newTestFetcher(t, exec)

	for i := 0; i < 2; i++ {
		_, err := g.Fetch(context.Background(), "https://example.com/r/docs.git")
		require.NoError(t, err)
	}
	require.Len(t, exec.calls, 2)
	assert.Contains(t, exec.calls[0], "git clone")
	assert.Contains(t, exec.calls[1], "git pull")
}

func TestGitFetchErrors(t *testing.T) {
	tests := []struct {
		name string
		exec *mockExecutor
		uri  string
	}{
		{"git missing", &mockExecutor{gitMissing: true}, "https://x/y.git"},
		{"clone fails", &mockExecutor{runErr: errors.New("exit status 128")}, "https://x/y.git"},
		{"bad uri", &mockExecutor{}, "https://x/y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestFetcher(t, tt.exec)
			_, err := g.Fetch(context.Background(), tt.uri)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)
		})
	}
}
