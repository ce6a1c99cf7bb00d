package envscript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the standalone sourceable script written next to the
// installation.
const Filename = "texlive-env.sh"

// filePermissions for the generated script. It is sourced, not executed.
const filePermissions = 0o644

// Var is one exported environment variable.
type Var struct {
	Name  string
	Value string
}

// Set is the fixed environment-variable set of one installation, plus the
// PATH entry pointing at the installer-produced binary directory. The
// standalone script and the shell-startup block are both rendered from the
// same Set, which is the only thing keeping the two copies in sync.
type Set struct {
	vars   []Var
	binDir string
}

// New derives the variable set for a release. All values are literal
// absolute paths; only the PATH line references the previous value.
func New(year, texDir, binDir, installRoot, home string) *Set {
	userTree := filepath.Join(home, ".texlive"+year)

	return &Set{
		binDir: binDir,
		vars: []Var{
			{"TEXDIR", texDir},
			{"TEXLIVE_RELEASE", year},
			{"TEXMFHOME", filepath.Join(home, "texmf")},
			{"TEXMFLOCAL", filepath.Join(installRoot, "texmf-local")},
			{"TEXMFCONFIG", filepath.Join(userTree, "texmf-config")},
			{"TEXMFVAR", filepath.Join(userTree, "texmf-var")},
			{"MANPATH", filepath.Join(texDir, "texmf-dist", "doc", "man")},
			{"INFOPATH", filepath.Join(texDir, "texmf-dist", "doc", "info")},
		},
	}
}

// Vars returns the fixed variables, excluding the PATH mutation.
func (s *Set) Vars() []Var {
	return s.vars
}

// BinDir returns the directory prepended to PATH.
func (s *Set) BinDir() string {
	return s.binDir
}

// Render emits POSIX-shell export statements, one per variable, plus the
// PATH mutation line.
func (s *Set) Render() string {
	var b strings.Builder

	for _, v := range s.vars {
		fmt.Fprintf(&b, "export %s=%s\n", v.Name, v.Value)
	}

	fmt.Fprintf(&b, "export PATH=%s:$PATH\n", s.binDir)

	return b.String()
}

// Write persists the standalone sourceable script.
func (s *Set) Write(path string) error {
	if err := os.WriteFile(filepath.Clean(path), []byte(s.Render()), filePermissions); err != nil {
		return fmt.Errorf("write environment script: %w", err)
	}

	return nil
}

// Apply loads the variable set into the current process so that later
// steps can resolve the freshly installed binaries. It cannot mutate the
// invoking shell; the caller surfaces the manual follow-up command instead.
func (s *Set) Apply() error {
	for _, v := range s.vars {
		if err := os.Setenv(v.Name, v.Value); err != nil {
			return fmt.Errorf("set %s: %w", v.Name, err)
		}
	}

	path := s.binDir
	if current := os.Getenv("PATH"); current != "" {
		path += string(os.PathListSeparator) + current
	}

	if err := os.Setenv("PATH", path); err != nil {
		return fmt.Errorf("set PATH: %w", err)
	}

	return nil
}
