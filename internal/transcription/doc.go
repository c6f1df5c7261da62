// Package transcription turns a speech-to-text result into transcript files.
//
// A Service invokes the configured Transcriber once per request, records the
// run settings in the active project and writes the requested
// representations (plain text, JSON, SRT, WebVTT) through the project store.
package transcription
