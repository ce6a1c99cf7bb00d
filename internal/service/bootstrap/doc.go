// Package bootstrap orchestrates a user-level TeX Live installation:
// it downloads and unpacks the network installer, derives the release
// year, runs the installer against a generated profile, publishes the
// environment through a script and a managed shell startup block, and
// installs the auxiliary tlmgr updater. Expensive steps are recorded in
// a step log so an interrupted run resumes instead of starting over.
package bootstrap
