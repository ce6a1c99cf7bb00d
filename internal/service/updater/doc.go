// Package updater fetches the auxiliary tlmgr updater script from the
// mirror, installs it into the user's personal bin directory with a
// checksum-verified atomic replacement, and runs it once to self-update.
package updater
