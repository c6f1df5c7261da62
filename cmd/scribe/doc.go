// Command scribe downloads or imports audio into a project directory and
// transcribes it with WhisperX.
//
// Run `scribe audio <file>` for local audio, `scribe youtube <url>` for a
// video URL, and `scribe list` to see existing projects. Configuration is
// read from ~/.config/scribe/config.toml; `scribe config init` writes a
// sample.
package main
