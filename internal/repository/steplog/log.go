package steplog

import (
	"time"
)

// Entry records one completed bootstrap step.
type Entry struct {
	// Step is the step name, e.g. "fetch-archive".
	Step string `json:"step"`
	// CompletedAt is when the step finished.
	CompletedAt time.Time `json:"completed_at"`
	// Hostname and Username identify who completed the step.
	Hostname string `json:"hostname"`
	Username string `json:"username"`
}

// Log is the recorded progress of a bootstrap run. A re-run consults it to
// resume after the last completed step instead of repeating downloads and
// extraction.
type Log struct {
	// Release is the derived 4-digit release year, recorded so resumed
	// runs can rebuild paths after the extracted directory is gone.
	Release string `json:"release,omitempty"`
	// InstallerDir is the name of the extracted installer directory.
	InstallerDir string `json:"installer_dir,omitempty"`
	// Entries lists completed steps in completion order.
	Entries []Entry `json:"entries"`
}

// Completed reports whether a step has already been recorded.
func (l *Log) Completed(step string) bool {
	for _, entry := range l.Entries {
		if entry.Step == step {
			return true
		}
	}

	return false
}

// MarkCompleted appends a completion record unless one already exists.
func (l *Log) MarkCompleted(step, hostname, username string) {
	if l.Completed(step) {
		return
	}

	l.Entries = append(l.Entries, Entry{
		Step:        step,
		CompletedAt: time.Now().UTC(),
		Hostname:    hostname,
		Username:    username,
	})
}
