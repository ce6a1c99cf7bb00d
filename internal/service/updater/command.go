package updater

import (
	"bytes"
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/tlsetup/tlsetup/internal/fetch"
	"github.com/tlsetup/tlsetup/internal/logger"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

// ScriptName is the auxiliary updater published next to the installer
// archive on CTAN mirrors. Once installed into the personal bin directory
// it keeps the package manager itself up to date.
const ScriptName = "update-tlmgr-latest.sh"

// DefaultFileMode makes the installed updater executable.
const DefaultFileMode os.FileMode = 0o755

// ChecksumFunction guards the apply step: the payload written into the bin
// directory must be exactly what was downloaded.
const ChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// Options are inputs accepted by the updater-install entry point.
type Options struct {
	// MirrorURL is the base URL hosting ScriptName.
	MirrorURL string
	// BinDir is the personal bin directory receiving the script.
	BinDir string
	// SkipSelfUpdate suppresses the one-shot execution after install.
	SkipSelfUpdate bool
}

// Run downloads the auxiliary updater, installs it into the personal bin
// directory with checksum-verified atomic replacement, and executes it once
// so the fresh installation starts out self-updated.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "tlmgr-updater")

	scriptURL, err := joinURL(opts.MirrorURL, ScriptName)
	if err != nil {
		return err
	}

	temporaryDirectory, err := os.MkdirTemp("", "tlsetup-updater-")
	if err != nil {
		return fmt.Errorf("create temporary directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(temporaryDirectory)
	}()

	downloadPath := filepath.Join(temporaryDirectory, ScriptName)

	logger.InfoKV(ctx, "Downloading updater script", "url", scriptURL)

	if err = fetch.Download(ctx, scriptURL, downloadPath); err != nil {
		return fmt.Errorf("download updater script: %w", err)
	}

	target := filepath.Join(opts.BinDir, ScriptName)
	if err = apply(downloadPath, target); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Installed updater script", "path", target)

	if opts.SkipSelfUpdate {
		return nil
	}

	logger.Info(ctx, "Running updater once to self-update")

	//nolint:gosec // The target path is built from validated configuration.
	cmd := exec.CommandContext(ctx, target)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", ScriptName, err)
	}

	return nil
}

// apply relocates the downloaded script into the bin directory with an
// atomic, checksum-verified replacement (rolled back on failure).
func apply(downloadPath, target string) error {
	data, err := os.ReadFile(filepath.Clean(downloadPath))
	if err != nil {
		return fmt.Errorf("read downloaded script: %w", err)
	}

	checksum, err := payloadChecksum(data)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create bin directory: %w", err)
	}

	// go-update requires an existing target on first install.
	if _, err = os.Stat(target); err != nil && os.IsNotExist(err) {
		if _, err = os.Create(filepath.Clean(target)); err != nil {
			return fmt.Errorf("create target file: %w", err)
		}
	}

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: DefaultFileMode,
		Checksum:   checksum,
		Hash:       ChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("apply updater script: %w", err)
	}

	oldTarget := target + ".old"
	if _, err = os.Stat(oldTarget); err == nil {
		_ = os.Remove(oldTarget)
	}

	return nil
}

// payloadChecksum hashes the downloaded payload with ChecksumFunction.
func payloadChecksum(data []byte) ([]byte, error) {
	if !ChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := ChecksumFunction.New()
	if _, err := hasher.Write(data); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
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
