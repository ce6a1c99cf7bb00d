// Package profile builds the declarative installation profile consumed by
// install-tl in unattended mode: an ordered `key value` mapping of target
// directories, feature-collection toggles and installer options.
package profile
