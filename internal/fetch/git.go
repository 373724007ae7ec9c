// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves remote sources: git repositories are cloned or
// updated under a local repos folder, and web documents are downloaded as
// respec text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
)

// ErrFetch marks failures to obtain a remote source.
var ErrFetch = errors.New("fetch failed")

const binGit = "git"

var repoNamePattern = regexp.MustCompile(`/([^/]+)\.git$`)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, dir string, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stdout
	return cmd.Run()
}

// GitFetcher clones or updates git repositories under ReposDir.
type GitFetcher struct {
	// ReposDir holds one working copy per repository name.
	ReposDir string

	// Output receives git's own progress output. Nil discards it.
	Output io.Writer

	Logger zerolog.Logger

	exec executor
}

// NewGitFetcher returns a fetcher that runs the git binary on PATH.
func NewGitFetcher(reposDir string, out io.Writer, logger zerolog.Logger) *GitFetcher {
	return &GitFetcher{ReposDir: reposDir, Output: out, Logger: logger, exec: &osExecutor{}}
}

// RepoName extracts the repository folder name from a cloneable URI.
func RepoName(uri string) (string, error) {
	m := repoNamePattern.FindStringSubmatch(uri)
	if m == nil {
		return "", fmt.Errorf("%w: cannot understand cloneable git URI %s", ErrFetch, uri)
	}
	return m[1], nil
}

// Fetch clones uri into ReposDir, or pulls if a working copy already
// exists, and returns the working copy's root path.
func (g *GitFetcher) Fetch(ctx context.Context, uri string) (string, error) {
	name, err := RepoName(uri)
	if err != nil {
		return "", err
	}

	if _, err := g.exec.LookPath(binGit); err != nil {
		return "", fmt.Errorf("%w: %s not found on PATH: %v", ErrFetch, binGit, err)
	}

	if err := os.MkdirAll(g.ReposDir, 0o755); err != nil {
		return "", fmt.Errorf("creating repos directory %s: %w", g.ReposDir, err)
	}

	out := g.Output
	if out == nil {
		out = io.Discard
	}

	root := filepath.Join(g.ReposDir, name)
	if info, err := os.Stat(filepath.Join(root, ".git")); err == nil && info.IsDir() {
		g.Logger.Info().Str("repo", uri).Str("dir", root).Msg("updating git repo")
		if err := g.exec.Run(ctx, root, out, binGit, "pull"); err != nil {
			return "", fmt.Errorf("%w: git pull in %s: %v", ErrFetch, root, err)
		}
		return root, nil
	}

	g.Logger.Info().Str("repo", uri).Str("dir", root).Msg("cloning git repo")
	if err := g.exec.Run(ctx, g.ReposDir, out, binGit, "clone", uri, name); err != nil {
		return "", fmt.Errorf("%w: git clone %s: %v", ErrFetch, uri, err)
	}
	return root, nil
}
