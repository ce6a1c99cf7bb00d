// Package config defines the bootstrap settings (mirror URL, install prefix,
// scheme, shell, bin directory) and provides helpers to load, validate and
// save them in YAML format. Every field has a usable default, so the tool
// can run with no configuration file at all.
package config
