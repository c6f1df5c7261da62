package config

const (
	defaultConfigPath  = "~/.config/scribe/config.toml"
	defaultProjectsDir = "~/.local/share/scribe/projects"
	defaultTempDir     = "~/.local/share/scribe/temp_downloads"
	defaultOutputDir   = "~/.local/share/scribe/transcriptions"
	defaultStateDir    = "~/.local/share/scribe/state"
	defaultModel       = "base"
	defaultFormat      = "all"
	defaultVADMethod   = "silero"
	defaultAudioFormat = "mp3"
	defaultQuality     = "best"
	defaultYtDlpBinary = "yt-dlp"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
	vadMethodPyannote  = "pyannote"
	vadMethodSilero    = "silero"
	qualityWorst       = "worst"
	formatAll          = "all"
	formatText         = "text"
	formatJSON         = "json"
	formatSRT          = "srt"
	formatVTT          = "vtt"
	audioFormatMP3     = "mp3"
	audioFormatM4A     = "m4a"
	audioFormatWAV     = "wav"
	logFormatJSON      = "json"
	logFormatConsole   = "console"
)

// Models lists the accepted speech model identifiers.
var Models = []string{"tiny", "base", "small", "medium", "large", "large-v2", "large-v3", "large-v3-turbo", "turbo"}

// OutputFormats lists the accepted output format selectors.
var OutputFormats = []string{formatText, formatSRT, formatVTT, formatJSON, formatAll}

// AudioFormats lists the accepted download encodings.
var AudioFormats = []string{audioFormatMP3, audioFormatWAV, audioFormatM4A}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			TempDir:     defaultTempDir,
			OutputDir:   defaultOutputDir,
			StateDir:    defaultStateDir,
		},
		Transcription: Transcription{
			Model:             defaultModel,
			Format:            defaultFormat,
			WhisperXVADMethod: defaultVADMethod,
		},
		Download: Download{
			AudioFormat: defaultAudioFormat,
			Quality:     defaultQuality,
			YtDlpBinary: defaultYtDlpBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
