package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// installerDirPrefix is the naming convention of the unpacked installer
// directory, e.g. install-tl-20230312.
const installerDirPrefix = "install-tl-"

// yearPattern matches the 4-digit release year embedded in the directory name.
var yearPattern = regexp.MustCompile(`20[0-9]{2}`)

var (
	// ErrInstallerDirNotFound is returned when no entry in the working
	// directory matches the installer naming convention.
	ErrInstallerDirNotFound = errors.New("installer directory not found")
	// ErrInstallerDirAmbiguous is returned when several entries match, so
	// the release year cannot be derived unambiguously.
	ErrInstallerDirAmbiguous = errors.New("multiple installer directories found")
	// ErrNoReleaseYear is returned when a candidate directory name does not
	// embed a 4-digit release year.
	ErrNoReleaseYear = errors.New("directory name carries no release year")
)

// Release identifies one annual TeX Live distribution.
type Release struct {
	// Year is the 4-digit year tag, e.g. "2023". All installation paths
	// derive from it.
	Year string
	// Dir is the absolute path of the unpacked installer directory.
	Dir string
}

// Find scans workDir for the unpacked installer directory and derives the
// release year from its name. Zero or multiple candidates are rejected with
// typed errors instead of silently producing malformed output.
func Find(workDir string) (Release, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return Release{}, fmt.Errorf("list working directory: %w", err)
	}

	var candidates []string

	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), installerDirPrefix) {
			candidates = append(candidates, entry.Name())
		}
	}

	switch len(candidates) {
	case 0:
		return Release{}, fmt.Errorf("%w in %s", ErrInstallerDirNotFound, workDir)
	case 1:
	default:
		return Release{}, fmt.Errorf("%w in %s: %s",
			ErrInstallerDirAmbiguous, workDir, strings.Join(candidates, ", "))
	}

	rel, err := Parse(candidates[0])
	if err != nil {
		return Release{}, err
	}

	rel.Dir = filepath.Join(workDir, candidates[0])

	return rel, nil
}

// Parse extracts the release year from an installer directory name.
// "install-tl-2023abc" yields "2023".
func Parse(dirName string) (Release, error) {
	year := yearPattern.FindString(dirName)
	if year == "" {
		return Release{}, fmt.Errorf("%w: %s", ErrNoReleaseYear, dirName)
	}

	return Release{Year: year, Dir: dirName}, nil
}
