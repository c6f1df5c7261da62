// Package whisperx runs WhisperX speech recognition as an external process.
//
// The Service invokes `uvx whisperx` on an audio file, asks for JSON output
// in a scratch directory and converts the segments into a
// transcription.Result. Model, device, and VAD settings come from Config.
package whisperx
