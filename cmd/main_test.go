package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/jaxxstorm/nexttag"
	"github.com/stretchr/testify/require"
)

func TestOpenClient(t *testing.T) {
	logger := log.New(os.Stderr)

	t.Run("Non-repository falls back to the git binary", func(t *testing.T) {
		client := openClient(t.TempDir(), logger)
		_, ok := client.(*nexttag.ExecGitClient)
		require.True(t, ok)
	})

	t.Run("Repository uses go-git", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "objects"), 0o755))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "refs"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))

		client := openClient(dir, logger)
		_, ok := client.(*nexttag.GoGitClient)
		require.True(t, ok)
	})
}

func TestRunShowVersion(t *testing.T) {
	cli := CLI{ShowVersion: true}
	require.NoError(t, cli.Run())
}

func TestRunMissingVersionFile(t *testing.T) {
	dir := t.TempDir()
	cli := CLI{
		VersionFile: "absent.txt",
		RepoPath:    dir,
	}
	require.Error(t, cli.Run())
}
