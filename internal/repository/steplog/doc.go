// Package steplog persists the progress of a bootstrap run as a JSON file,
// so an interrupted run can resume after the last completed step instead of
// repeating already-completed downloads and extractions.
package steplog
