package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/tlsetup/tlsetup/internal/logger"
)

const (
	// ArchiveName is the installer archive published on CTAN mirrors.
	ArchiveName = "install-tl-unx.tar.gz"

	// MarkerFilename marks that a bootstrap is running right now to avoid
	// two instances working against the same installation root. The file
	// holds the PID of the owning process.
	MarkerFilename = "tlsetup-marker.bin"

	// workDirName is the working directory under the installation root
	// holding the downloaded archive, the unpacked installer and the
	// generated profile.
	workDirName = "work"
)

// Step names recorded in the step log.
const (
	StepFetchArchive   = "fetch-archive"
	StepExtractArchive = "extract-archive"
	StepDeriveRelease  = "derive-release"
	StepWriteProfile   = "write-profile"
	StepRunInstaller   = "run-installer"
	StepLocateBin      = "locate-bin"
	StepWriteEnvScript = "write-env-script"
	StepApplyEnv       = "apply-env"
	StepMergeShellRC   = "merge-shell-rc"
	StepInstallUpdater = "install-updater"
	StepCleanup        = "cleanup"
)

var errBootstrapAlreadyRunning = errors.New("another bootstrap is already running")

// IsBootstrapRunningNow checks the marker file and attempts recovery when
// it was left behind by an aborted run. The marker records the PID of its
// owner, so a marker in one installation root never blocks on an unrelated
// bootstrap running against a different root.
func IsBootstrapRunningNow(ctx context.Context, markerPath string) bool {
	contents, err := os.ReadFile(filepath.Clean(markerPath))
	if errors.Is(err, os.ErrNotExist) {
		return false
	}

	if err != nil {
		logger.Infof(ctx, "Unable to read bootstrap marker: %v", err)
		return false
	}

	// The installer step can legitimately run for an hour, so marker age
	// says nothing. The marker is stale unless its recorded owner is
	// still alive and still is this executable.
	pid, err := strconv.Atoi(strings.TrimSpace(string(contents)))
	if err == nil && markerOwnerAlive(pid) {
		return true
	}

	logger.Info(ctx, "Found a stale bootstrap marker from an aborted run, removing")

	if err = os.Remove(markerPath); err != nil {
		return true
	}

	return false
}

// markerOwnerAlive reports whether the recorded PID belongs to a live
// process running our executable. A recycled PID pointing at some other
// program does not count.
func markerOwnerAlive(pid int) bool {
	executablePath, err := os.Executable()
	if err != nil {
		return false
	}

	process, err := ps.FindProcess(pid)
	if err != nil || process == nil {
		return false
	}

	return process.Executable() == filepath.Base(executablePath)
}

// joinURL appends a filename to the mirror base URL, normalizing slashes.
func joinURL(base, fileName string) (string, error) {
	mirrorURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse mirror URL: %w", err)
	}

	mirrorURL.Path = path.Join(mirrorURL.Path, fileName)

	return mirrorURL.String(), nil
}
