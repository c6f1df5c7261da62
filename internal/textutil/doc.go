// Package textutil provides small text helpers for file names and display.
//
// SanitizeFileName makes user-supplied names safe to use as a path segment;
// Title and Truncate shape values for table output.
package textutil
