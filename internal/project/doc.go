// Package project owns the on-disk layout of transcription projects.
//
// Each project lives in `{base}/{prefix}_{name}` and holds a metadata.json
// file, a src_audio directory for the source audio and a transcription
// directory for settings.json and the transcript outputs. The Store is the
// only component that writes beneath the base directory.
package project
