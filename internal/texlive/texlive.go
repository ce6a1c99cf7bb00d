package texlive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tlsetup/tlsetup/internal/logger"
)

// InstallerName is the executable shipped inside the installer archive.
const InstallerName = "install-tl"

// MarkerExecutable is the binary proving an installation produced a usable
// binary directory.
const MarkerExecutable = "tex"

// binDirSearchDepth bounds the marker search below the installation tree:
// the installer places binaries at bin/<platform>/, two levels down.
const binDirSearchDepth = 2

// ErrBinDirNotFound is returned when no directory within the installation
// tree contains the marker executable.
var ErrBinDirNotFound = errors.New("tex binary directory not found")

// Install invokes the unpacked installer in unattended mode with the
// provided profile. The installer's output is passed through untouched and
// no timeout is applied: this is the long, opaque part of the bootstrap.
func Install(ctx context.Context, installerDir, profilePath string) error {
	logger.InfoKV(ctx, "Running installer, this usually takes a long time",
		"installer", InstallerName, "profile", profilePath)

	//nolint:gosec // The installer path is constructed from the unpacked archive.
	cmd := exec.CommandContext(ctx, "./"+InstallerName, "-profile", profilePath, "--no-interaction")
	cmd.Dir = installerDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", InstallerName, err)
	}

	return nil
}

// LocateBinDir searches the installation tree for the marker executable up
// to two directory levels deep and returns the directory holding it. The
// result becomes the PATH entry of the generated environment.
func LocateBinDir(texDir string) (string, error) {
	dirs := []string{texDir}

	for depth := 0; depth <= binDirSearchDepth; depth++ {
		var next []string

		for _, dir := range dirs {
			candidate := filepath.Join(dir, MarkerExecutable)
			if isExecutable(candidate) {
				return dir, nil
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}

			for _, entry := range entries {
				if entry.IsDir() {
					next = append(next, filepath.Join(dir, entry.Name()))
				}
			}
		}

		dirs = next
	}

	return "", fmt.Errorf("%w under %s", ErrBinDirNotFound, texDir)
}

// isExecutable reports whether path is a regular file with any execute bit.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	return info.Mode().Perm()&0o111 != 0
}
