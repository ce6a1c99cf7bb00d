package shellrc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMergeAppend verifies a block is appended to files without one.
func TestMergeAppend(t *testing.T) {
	t.Parallel()

	merged, err := Merge("alias ll='ls -l'\n", "export TEXDIR=/opt/texlive/2023")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(merged, "alias ll='ls -l'\n"))
	require.Contains(t, merged, BeginMarker+"\nexport TEXDIR=/opt/texlive/2023\n"+EndMarker)
}

// TestMergeMissingTrailingNewline ensures existing content is separated
// from the appended block.
func TestMergeMissingTrailingNewline(t *testing.T) {
	t.Parallel()

	merged, err := Merge("alias ll='ls -l'", "export A=1")
	require.NoError(t, err)
	require.Contains(t, merged, "alias ll='ls -l'\n"+BeginMarker)
}

// TestMergeReplace verifies an existing block is replaced in place and the
// surrounding content is untouched.
func TestMergeReplace(t *testing.T) {
	t.Parallel()

	original, err := Merge("# top\n", "export OLD=1")
	require.NoError(t, err)

	original += "# bottom\n"

	merged, err := Merge(original, "export NEW=2")
	require.NoError(t, err)

	require.NotContains(t, merged, "export OLD=1")
	require.Contains(t, merged, "export NEW=2")
	require.Equal(t, 1, strings.Count(merged, BeginMarker))
	require.Equal(t, 1, strings.Count(merged, EndMarker))
	require.True(t, strings.HasPrefix(merged, "# top\n"))
	require.True(t, strings.HasSuffix(merged, "# bottom\n"))
}

// TestMergeIdempotent ensures merging the same body twice changes nothing.
func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	first, err := Merge("", "export A=1")
	require.NoError(t, err)

	second, err := Merge(first, "export A=1")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

// TestMergeUnterminated rejects a corrupt block instead of rewriting it.
func TestMergeUnterminated(t *testing.T) {
	t.Parallel()

	_, err := Merge(BeginMarker+"\nexport A=1\n", "export B=2")
	require.ErrorIs(t, err, ErrUnterminatedBlock)
}

// TestUpdateFile covers creation and in-place replacement on disk.
func TestUpdateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".zshrc")

	require.NoError(t, UpdateFile(path, "export A=1"))
	require.NoError(t, UpdateFile(path, "export A=2"))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(contents), BeginMarker))

	body, ok := ManagedBody(string(contents))
	require.True(t, ok)
	require.Equal(t, "export A=2", body)
}

// TestDetectShell maps $SHELL values to supported shells.
// Not parallel: it mutates process environment.
func TestDetectShell(t *testing.T) {
	t.Setenv("SHELL", "/bin/bash")
	require.Equal(t, "bash", DetectShell())

	t.Setenv("SHELL", "/usr/bin/zsh")
	require.Equal(t, "zsh", DetectShell())

	t.Setenv("SHELL", "/bin/fish")
	require.Equal(t, "zsh", DetectShell())
}

// TestStartupFile maps shells to their dotfiles.
func TestStartupFile(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/home/u/.bashrc", StartupFile("bash", "/home/u"))
	require.Equal(t, "/home/u/.zshrc", StartupFile("zsh", "/home/u"))
}
