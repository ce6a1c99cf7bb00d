// Package texlive wraps the two interactions with the external installer:
// invoking install-tl in unattended mode and locating the binary directory
// it produced.
package texlive
