// Package preflight checks that the configured directories are usable and
// the external tools are installed. The `scribe status` command renders its
// results.
package preflight
