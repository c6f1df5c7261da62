// Package subtitles converts timed transcript segments into SubRip (SRT) and
// WebVTT text and reads back the timing of subtitle files already on disk.
//
// Formatting is pure and deterministic: the same cues always produce
// byte-identical output.
package subtitles
