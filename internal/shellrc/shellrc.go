package shellrc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// BeginMarker delimits the start of the managed block owned by tlsetup.
	BeginMarker = "# >>> tlsetup managed block >>>"
	// EndMarker delimits the end of the managed block.
	EndMarker = "# <<< tlsetup managed block <<<"

	// filePermissions is used when the startup file does not exist yet.
	filePermissions = 0o644
)

// ErrUnterminatedBlock is returned when a begin marker exists without a
// matching end marker. The file is left untouched for manual repair.
var ErrUnterminatedBlock = errors.New("managed block begin marker without end marker")

// DetectShell returns the user's shell derived from $SHELL.
// Only bash and zsh are recognized; zsh is the fallback.
func DetectShell() string {
	shell := os.Getenv("SHELL")

	switch {
	case strings.Contains(shell, "zsh"):
		return "zsh"
	case strings.Contains(shell, "bash"):
		return "bash"
	default:
		return "zsh"
	}
}

// StartupFile maps a shell name to its persistent startup file under home.
func StartupFile(shell, home string) string {
	if shell == "bash" {
		return filepath.Join(home, ".bashrc")
	}

	return filepath.Join(home, ".zshrc")
}

// Merge replaces an existing managed block in content with the provided
// body, or appends a new block when none exists. The body is wrapped in the
// begin/end markers; re-running never duplicates the block.
func Merge(content, body string) (string, error) {
	block := BeginMarker + "\n" + strings.TrimRight(body, "\n") + "\n" + EndMarker

	begin := strings.Index(content, BeginMarker)
	if begin < 0 {
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}

		return content + block + "\n", nil
	}

	end := strings.Index(content[begin:], EndMarker)
	if end < 0 {
		return "", ErrUnterminatedBlock
	}

	end += begin + len(EndMarker)

	return content[:begin] + block + content[end:], nil
}

// UpdateFile merges the managed block into the startup file at path,
// creating the file when absent.
func UpdateFile(path, body string) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read startup file: %w", err)
	}

	merged, err := Merge(string(contents), body)
	if err != nil {
		return fmt.Errorf("merge managed block into %s: %w", path, err)
	}

	if err := os.WriteFile(filepath.Clean(path), []byte(merged), filePermissions); err != nil {
		return fmt.Errorf("write startup file: %w", err)
	}

	return nil
}

// ManagedBody extracts the current body of the managed block, if present.
func ManagedBody(content string) (string, bool) {
	begin := strings.Index(content, BeginMarker)
	if begin < 0 {
		return "", false
	}

	rest := content[begin+len(BeginMarker):]

	end := strings.Index(rest, EndMarker)
	if end < 0 {
		return "", false
	}

	return strings.Trim(rest[:end], "\n"), true
}
