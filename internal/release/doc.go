// Package release derives the annual TeX Live release identifier from the
// unpacked installer directory name. The derivation is strict: zero or
// multiple candidate directories fail with typed errors rather than
// proceeding with malformed output.
package release
