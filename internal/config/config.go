package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Config holds the bootstrap parameters for a TeX Live installation.
type Config struct {
	// MirrorURL is the base CTAN mirror URL where the installer
	// archive and the auxiliary updater script are hosted.
	MirrorURL string `yaml:"mirror_url"`
	// InstallRoot is the user-owned prefix under which a release
	// directory (e.g. 2023) is created.
	InstallRoot string `yaml:"install_root"`
	// Scheme is the installer scheme selected in the generated profile.
	Scheme string `yaml:"scheme"`
	// Shell optionally forces the target shell (bash or zsh).
	// When empty the shell is detected from the environment.
	Shell string `yaml:"shell"`
	// BinDir is the personal bin directory receiving the updater script.
	BinDir string `yaml:"bin_dir"`
	// Timeout bounds the installer archive download. Zero means no
	// timeout; the external installer itself is never subjected to one.
	Timeout time.Duration `yaml:"timeout"`
	// StepLog is the path of the recorded step log used to resume
	// interrupted runs. Defaults to a file under InstallRoot.
	StepLog string `yaml:"step_log"`
}

const (
	// DefaultConfigFilename is the default filename for bootstrap settings.
	DefaultConfigFilename = "tlsetup.yaml"

	// DefaultMirrorURL is the CTAN redirector serving TeX Live network installs.
	DefaultMirrorURL = "https://mirror.ctan.org/systems/texlive/tlnet"

	// DefaultScheme is the installer scheme written to the profile.
	DefaultScheme = "scheme-custom"

	// DefaultStepLogFilename is the default filename for the recorded step log.
	DefaultStepLogFilename = "tlsetup-steps.json"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnsupportedShell is returned for shell overrides other than bash or zsh.
	errUnsupportedShell = errors.New("unsupported shell")
)

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are applied instead, so the tool
// runs without any configuration input at all.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	var cfg Config

	contents, err := os.ReadFile(filepath.Clean(path))
	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Run entirely on defaults.
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling home-relative defaults for anything left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.MirrorURL == "" {
		cfg.MirrorURL = DefaultMirrorURL
	}

	if _, err := url.ParseRequestURI(cfg.MirrorURL); err != nil {
		return fmt.Errorf("invalid mirror URL: %w", err)
	}

	if cfg.Scheme == "" {
		cfg.Scheme = DefaultScheme
	}

	switch cfg.Shell {
	case "", "bash", "zsh":
	default:
		return fmt.Errorf("%w: %s", errUnsupportedShell, cfg.Shell)
	}

	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("resolve home directory: %w", err)
	}

	if cfg.InstallRoot == "" {
		cfg.InstallRoot = filepath.Join(home, "local", "lib", "texlive")
	}

	if cfg.BinDir == "" {
		cfg.BinDir = filepath.Join(home, "bin")
	}

	if cfg.StepLog == "" {
		cfg.StepLog = filepath.Join(cfg.InstallRoot, DefaultStepLogFilename)
	}

	return nil
}
