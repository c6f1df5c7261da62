package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"scribe/internal/acquisition"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services/whisperx"
	"scribe/internal/services/ytdlp"
	"scribe/internal/transcription"
)

// collaborators builds the external tool adapters. Tests replace them with
// fakes.
type collaborators struct {
	transcriber func(cfg *config.Config, model string, logger *slog.Logger) transcription.Transcriber
	downloader  func(cfg *config.Config, logger *slog.Logger) acquisition.Downloader
}

func defaultCollaborators() collaborators {
	return collaborators{
		transcriber: func(cfg *config.Config, model string, logger *slog.Logger) transcription.Transcriber {
			return whisperx.NewService(whisperx.Config{
				Model:       model,
				CUDAEnabled: cfg.Transcription.WhisperXCUDAEnabled,
				VADMethod:   cfg.Transcription.WhisperXVADMethod,
				HFToken:     cfg.Transcription.WhisperXHuggingFace,
				WorkDir:     cfg.Paths.TempDir,
			}, logger)
		},
		downloader: func(cfg *config.Config, logger *slog.Logger) acquisition.Downloader {
			return ytdlp.NewService(cfg.Download.YtDlpBinary, logger)
		},
	}
}

type commandContext struct {
	configFlag *string
	verbose    *bool
	deps       collaborators

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool, deps collaborators) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		deps:       deps,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) projectStore() (*project.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return project.NewStore(cfg.Paths.ProjectsDir, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func checkMark(value bool) string {
	if value {
		return "✓"
	}
	return "✗"
}
