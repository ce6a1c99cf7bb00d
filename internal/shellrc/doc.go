// Package shellrc maintains a delimited managed block inside the user's
// shell startup file. The block is replaced in place on re-runs instead of
// blindly appended, so the bootstrap stays idempotent for the dotfile.
package shellrc
