// Package language normalizes language hints and renders language names.
//
// Hints accepted on the command line ("en", "eng", "English", "ja") are
// reduced to the ISO 639-1 code the speech model expects. Display names come
// from the CLDR data in golang.org/x/text.
package language
