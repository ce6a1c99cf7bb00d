package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRenderGrammar verifies the `key value` serialization: one line per key,
// stable order, TEXDIR derived from the release year.
func TestRenderGrammar(t *testing.T) {
	t.Parallel()

	home := "/home/alice"
	p := New("scheme-custom", "2023", filepath.Join(home, "local", "lib", "texlive"), home)

	rendered, err := p.Render()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	require.Len(t, lines, len(p.Entries()))

	seen := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		key, value, found := strings.Cut(line, " ")
		require.True(t, found, "line %q must be `key value`", line)
		require.NotEmpty(t, key)
		require.NotEmpty(t, value)

		_, dup := seen[key]
		require.False(t, dup, "key %q serialized twice", key)
		seen[key] = struct{}{}
	}

	require.Contains(t, rendered, "selected_scheme scheme-custom\n")
	require.Contains(t, rendered, "TEXDIR /home/alice/local/lib/texlive/2023\n")
	require.Equal(t, "/home/alice/local/lib/texlive/2023", p.TexDir())
}

// TestRenderStable ensures repeated renders produce identical output.
func TestRenderStable(t *testing.T) {
	t.Parallel()

	p := New("scheme-custom", "2024", "/opt/texlive", "/home/bob")

	first, err := p.Render()
	require.NoError(t, err)

	second, err := p.Render()
	require.NoError(t, err)

	require.Equal(t, first, second)
}

// TestManifestSize pins the manifest shape: scheme, 7 directory keys,
// the collection toggles and the installer options.
func TestManifestSize(t *testing.T) {
	t.Parallel()

	p := New("scheme-custom", "2023", "/opt/texlive", "/home/carol")

	var collectionCount, optionCount int

	for _, entry := range p.Entries() {
		switch {
		case strings.HasPrefix(entry.Key, "collection-"):
			collectionCount++
		case strings.HasPrefix(entry.Key, "instopt_"), strings.HasPrefix(entry.Key, "tlpdbopt_"):
			optionCount++
		}
	}

	require.Equal(t, 26, collectionCount)
	require.Equal(t, 14, optionCount)

	scheme, ok := p.Lookup("selected_scheme")
	require.True(t, ok)
	require.Equal(t, "scheme-custom", scheme)
}

// TestWrite persists the profile and reads it back verbatim.
func TestWrite(t *testing.T) {
	t.Parallel()

	p := New("scheme-basic", "2023", "/opt/texlive", "/home/dave")
	path := filepath.Join(t.TempDir(), Filename)

	require.NoError(t, p.Write(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	rendered, err := p.Render()
	require.NoError(t, err)
	require.Equal(t, rendered, string(contents))
}
