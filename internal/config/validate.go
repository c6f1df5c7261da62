package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return c.validateDownload()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ProjectsDir) == "" {
		return errors.New("paths.projects_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if !slices.Contains(Models, c.Transcription.Model) {
		return fmt.Errorf("transcription.model %q is not supported (choose one of %s)", c.Transcription.Model, strings.Join(Models, ", "))
	}
	if !slices.Contains(OutputFormats, c.Transcription.Format) {
		return fmt.Errorf("transcription.format %q is not supported (choose one of %s)", c.Transcription.Format, strings.Join(OutputFormats, ", "))
	}
	switch c.Transcription.WhisperXVADMethod {
	case vadMethodSilero:
	case vadMethodPyannote:
		if c.Transcription.WhisperXHuggingFace == "" {
			return errors.New("transcription.whisperx_hf_token must be set when whisperx_vad_method is pyannote (or set HF_TOKEN)")
		}
	default:
		return fmt.Errorf("transcription.whisperx_vad_method %q is not supported (use silero or pyannote)", c.Transcription.WhisperXVADMethod)
	}
	return nil
}

func (c *Config) validateDownload() error {
	if !slices.Contains(AudioFormats, c.Download.AudioFormat) {
		return fmt.Errorf("download.audio_format %q is not supported (choose one of %s)", c.Download.AudioFormat, strings.Join(AudioFormats, ", "))
	}
	switch c.Download.Quality {
	case defaultQuality, qualityWorst:
	default:
		return fmt.Errorf("download.quality %q is not supported (use best or worst)", c.Download.Quality)
	}
	if c.Download.YtDlpBinary == "" {
		return errors.New("download.ytdlp_binary must be set")
	}
	return nil
}
