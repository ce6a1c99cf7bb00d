package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse checks year extraction from installer directory names.
func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dir      string
		wantYear string
		wantErr  error
	}{
		{name: "date stamped", dir: "install-tl-20230312", wantYear: "2023"},
		{name: "trailing suffix", dir: "install-tl-2023abc", wantYear: "2023"},
		{name: "no year", dir: "install-tl-latest", wantErr: ErrNoReleaseYear},
		{name: "pre 2000", dir: "install-tl-1999", wantErr: ErrNoReleaseYear},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rel, err := Parse(tt.dir)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantYear, rel.Year)
		})
	}
}

// TestFind verifies candidate directory selection in a working directory.
func TestFind(t *testing.T) {
	t.Parallel()

	t.Run("single candidate", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "install-tl-2023abc"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "unrelated"), 0o755))

		rel, err := Find(dir)
		require.NoError(t, err)
		require.Equal(t, "2023", rel.Year)
		require.Equal(t, filepath.Join(dir, "install-tl-2023abc"), rel.Dir)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()

		_, err := Find(t.TempDir())
		require.ErrorIs(t, err, ErrInstallerDirNotFound)
	})

	t.Run("ambiguous candidates", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "install-tl-20230312"), 0o755))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "install-tl-20220405"), 0o755))

		_, err := Find(dir)
		require.ErrorIs(t, err, ErrInstallerDirAmbiguous)
	})

	t.Run("files do not count", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "install-tl-2023.tar.gz"), []byte("x"), 0o644))

		_, err := Find(dir)
		require.ErrorIs(t, err, ErrInstallerDirNotFound)
	})
}
