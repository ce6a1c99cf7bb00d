package version

import "fmt"

// Build metadata, overridden at release time via
// -ldflags "-X github.com/tlsetup/tlsetup/internal/version.Version=...".
var (
	// Version is the semantic version of this build.
	Version = "0.1.0"
	// Commit is the short git revision the build was produced from.
	Commit = "none"
	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version together with the revision and build timestamp.
func Full() string {
	return fmt.Sprintf("tlsetup %s (commit %s, built %s)", Version, Commit, BuildTime)
}
