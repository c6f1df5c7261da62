// Package logs reads the persistent scribe log for the `scribe logs`
// command: the last N lines of the file, optionally followed by lines
// appended later until the caller's context ends.
package logs
