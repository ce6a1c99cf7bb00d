// Package fetch downloads files over HTTPS with fail-on-error-status
// semantics and an optional terminal progress bar.
package fetch
