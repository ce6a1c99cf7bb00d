package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the profile filename consumed by install-tl.
const Filename = "texlive.profile"

// filePermissions is used for the generated profile; it is left on disk
// after the run as a record of what was installed.
const filePermissions = 0o644

// ErrDuplicateKey is returned when the manifest would serialize the same
// key twice. The installer grammar allows exactly one line per key.
var ErrDuplicateKey = errors.New("duplicate profile key")

// Entry is a single `key value` pair of the installer profile.
type Entry struct {
	Key   string
	Value string
}

// Profile is the ordered installation profile passed to install-tl in
// unattended mode. Order is insertion order and serialization is stable.
type Profile struct {
	entries []Entry
	index   map[string]int
}

// collections is the literal feature-collection manifest. A value of "1"
// selects the collection, "0" deselects it from the chosen scheme.
var collections = []Entry{
	{"collection-basic", "1"},
	{"collection-bibtexextra", "0"},
	{"collection-binextra", "1"},
	{"collection-context", "0"},
	{"collection-fontsextra", "0"},
	{"collection-fontsrecommended", "1"},
	{"collection-fontutils", "1"},
	{"collection-formatsextra", "0"},
	{"collection-humanities", "0"},
	{"collection-langenglish", "1"},
	{"collection-langeuropean", "0"},
	{"collection-langfrench", "0"},
	{"collection-langgerman", "0"},
	{"collection-langgreek", "0"},
	{"collection-langitalian", "0"},
	{"collection-langother", "0"},
	{"collection-langspanish", "0"},
	{"collection-latex", "1"},
	{"collection-latexextra", "1"},
	{"collection-latexrecommended", "1"},
	{"collection-luatex", "1"},
	{"collection-mathscience", "1"},
	{"collection-metapost", "1"},
	{"collection-pictures", "1"},
	{"collection-plaingeneric", "1"},
	{"collection-xetex", "1"},
}

// options is the literal installer-option manifest. Paths are kept
// user-local: no system symlinks, no docs, no sources.
var options = []Entry{
	{"instopt_adjustpath", "0"},
	{"instopt_adjustrepo", "1"},
	{"instopt_letter", "0"},
	{"instopt_portable", "0"},
	{"instopt_write18_restricted", "1"},
	{"tlpdbopt_autobackup", "1"},
	{"tlpdbopt_backupdir", "tlpkg/backups"},
	{"tlpdbopt_create_formats", "1"},
	{"tlpdbopt_desktop_integration", "0"},
	{"tlpdbopt_file_assocs", "0"},
	{"tlpdbopt_generate_updmap", "0"},
	{"tlpdbopt_install_docfiles", "0"},
	{"tlpdbopt_install_srcfiles", "0"},
	{"tlpdbopt_post_code", "1"},
}

// New builds the installation profile for one release year. The target
// directory layout is derived entirely from the year, the configured
// install root and the user's home directory.
func New(scheme, year, installRoot, home string) *Profile {
	texDir := filepath.Join(installRoot, year)
	userTree := filepath.Join(home, ".texlive"+year)

	p := &Profile{index: make(map[string]int)}

	p.set("selected_scheme", scheme)
	p.set("TEXDIR", texDir)
	p.set("TEXMFCONFIG", filepath.Join(userTree, "texmf-config"))
	p.set("TEXMFHOME", filepath.Join(home, "texmf"))
	p.set("TEXMFLOCAL", filepath.Join(installRoot, "texmf-local"))
	p.set("TEXMFSYSCONFIG", filepath.Join(texDir, "texmf-config"))
	p.set("TEXMFSYSVAR", filepath.Join(texDir, "texmf-var"))
	p.set("TEXMFVAR", filepath.Join(userTree, "texmf-var"))

	for _, entry := range collections {
		p.set(entry.Key, entry.Value)
	}

	for _, entry := range options {
		p.set(entry.Key, entry.Value)
	}

	return p
}

// set inserts a pair, replacing the value in place when the key exists.
func (p *Profile) set(key, value string) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return
	}

	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Value: value})
}

// Lookup returns the value for a key and whether it is present.
func (p *Profile) Lookup(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}

	return p.entries[i].Value, true
}

// TexDir returns the installation target directory recorded in the profile.
func (p *Profile) TexDir() string {
	texDir, _ := p.Lookup("TEXDIR")
	return texDir
}

// Entries returns the ordered pairs of the profile.
func (p *Profile) Entries() []Entry {
	return p.entries
}

// Render serializes the profile in the grammar install-tl consumes:
// one `key value` pair per line, no quoting.
func (p *Profile) Render() (string, error) {
	seen := make(map[string]struct{}, len(p.entries))

	var b strings.Builder

	for _, entry := range p.entries {
		if _, dup := seen[entry.Key]; dup {
			return "", fmt.Errorf("%w: %s", ErrDuplicateKey, entry.Key)
		}

		seen[entry.Key] = struct{}{}

		b.WriteString(entry.Key)
		b.WriteByte(' ')
		b.WriteString(entry.Value)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// Write persists the rendered profile to the provided path.
func (p *Profile) Write(path string) error {
	contents, err := p.Render()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Clean(path), []byte(contents), filePermissions); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}

	return nil
}
