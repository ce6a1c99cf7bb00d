package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks default filling and format validations for settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Defaults fill every empty field.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultMirrorURL, cfg.MirrorURL)
	require.Equal(t, DefaultScheme, cfg.Scheme)
	require.NotEmpty(t, cfg.InstallRoot)
	require.NotEmpty(t, cfg.BinDir)
	require.Equal(t, filepath.Join(cfg.InstallRoot, DefaultStepLogFilename), cfg.StepLog)

	// Bad mirror URL.
	cfg = &Config{MirrorURL: "not a url"}
	require.Error(t, Validate(cfg))

	// Unsupported shell.
	cfg = &Config{Shell: "fish"}
	require.Error(t, Validate(cfg))

	// Nil settings.
	require.Error(t, Validate(nil))
}

// TestLoadMissingFile ensures a missing settings file yields pure defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultMirrorURL, cfg.MirrorURL)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := &Config{
		MirrorURL:   "https://mirror.example.org/texlive/tlnet",
		InstallRoot: "/opt/texlive",
		Scheme:      "scheme-basic",
		Shell:       "bash",
		Timeout:     30 * time.Second,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.MirrorURL, loaded.MirrorURL)
	require.Equal(t, cfg.InstallRoot, loaded.InstallRoot)
	require.Equal(t, cfg.Scheme, loaded.Scheme)
	require.Equal(t, cfg.Shell, loaded.Shell)
	require.Equal(t, cfg.Timeout, loaded.Timeout)
}
