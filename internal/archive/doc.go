// Package archive unpacks the downloaded installer archive (tar.gz or
// tar.xz) into a working directory, preserving file modes so the unpacked
// installer stays executable.
package archive
