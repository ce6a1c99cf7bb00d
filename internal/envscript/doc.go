// Package envscript renders the fixed environment-variable set of an
// installation as a sourceable POSIX script, applies it to the current
// process, and feeds the shell-startup managed block so both copies always
// agree.
package envscript
