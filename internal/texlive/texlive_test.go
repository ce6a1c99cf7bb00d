package texlive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLocateBinDir finds the marker executable at the platform level.
func TestLocateBinDir(t *testing.T) {
	t.Parallel()

	texDir := t.TempDir()
	binDir := filepath.Join(texDir, "bin", "x86_64-linux")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, MarkerExecutable), []byte("#!/bin/sh\n"), 0o755))

	got, err := LocateBinDir(texDir)
	require.NoError(t, err)
	require.Equal(t, binDir, got)
}

// TestLocateBinDirShallow finds a marker placed directly under bin.
func TestLocateBinDirShallow(t *testing.T) {
	t.Parallel()

	texDir := t.TempDir()
	binDir := filepath.Join(texDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, MarkerExecutable), []byte("#!/bin/sh\n"), 0o755))

	got, err := LocateBinDir(texDir)
	require.NoError(t, err)
	require.Equal(t, binDir, got)
}

// TestLocateBinDirTooDeep ignores markers below the search depth.
func TestLocateBinDirTooDeep(t *testing.T) {
	t.Parallel()

	texDir := t.TempDir()
	deep := filepath.Join(texDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, MarkerExecutable), []byte("#!/bin/sh\n"), 0o755))

	_, err := LocateBinDir(texDir)
	require.ErrorIs(t, err, ErrBinDirNotFound)
}

// TestLocateBinDirNonExecutable skips files without an execute bit.
func TestLocateBinDirNonExecutable(t *testing.T) {
	t.Parallel()

	texDir := t.TempDir()
	binDir := filepath.Join(texDir, "bin")
	require.NoError(t, os.MkdirAll(binDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(binDir, MarkerExecutable), []byte("data"), 0o644))

	_, err := LocateBinDir(texDir)
	require.ErrorIs(t, err, ErrBinDirNotFound)
}
