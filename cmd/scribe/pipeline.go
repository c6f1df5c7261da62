package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"scribe/internal/config"
	"scribe/internal/history"
	langpkg "scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/textutil"
	"scribe/internal/transcription"
)

const previewChars = 500

// transcribeFlags holds the flags shared by the audio and youtube commands.
type transcribeFlags struct {
	model    string
	language string
	format   string
}

type transcribeSettings struct {
	model    string
	language string
	format   transcription.Format
}

// resolve applies config defaults to unset flags and validates the result.
func (f transcribeFlags) resolve(cfg *config.Config) (transcribeSettings, error) {
	model := strings.TrimSpace(f.model)
	if model == "" {
		model = cfg.Transcription.Model
	}
	if !slices.Contains(config.Models, model) {
		return transcribeSettings{}, services.Wrap(services.ErrValidation, "cli", "model",
			fmt.Sprintf("unsupported model %q (choose from %s)", model, strings.Join(config.Models, ", ")), nil)
	}

	hint := f.language
	if strings.TrimSpace(hint) == "" {
		hint = cfg.Transcription.Language
	}
	lang, err := langpkg.Normalize(hint)
	if err != nil {
		return transcribeSettings{}, services.Wrap(services.ErrValidation, "cli", "language", "", err)
	}

	formatValue := f.format
	if strings.TrimSpace(formatValue) == "" {
		formatValue = cfg.Transcription.Format
	}
	format, err := transcription.ParseFormat(formatValue)
	if err != nil {
		return transcribeSettings{}, err
	}
	return transcribeSettings{model: model, language: lang, format: format}, nil
}

// runRecorder tracks one pipeline run in the history database. A nil
// recorder (history unavailable) ignores every call.
type runRecorder struct {
	store  *history.Store
	id     string
	logger *slog.Logger
}

func (c *commandContext) beginRun(ctx context.Context, logger *slog.Logger, run history.Run) *runRecorder {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logger.Warn("run history unavailable; continuing without it",
			logging.Error(err),
			logging.String(logging.FieldEventType, "history_unavailable"),
		)
		return nil
	}
	started, err := store.Begin(ctx, run)
	if err != nil {
		logger.Warn("run history insert failed", logging.Error(err))
		_ = store.Close()
		return nil
	}
	return &runRecorder{store: store, id: started.ID, logger: logger}
}

func (r *runRecorder) runID() string {
	if r == nil {
		return ""
	}
	return r.id
}

func (r *runRecorder) setProject(ctx context.Context, folder string) {
	if r == nil {
		return
	}
	if err := r.store.SetProject(ctx, r.id, folder); err != nil {
		r.logger.Warn("run history update failed", logging.Error(err))
	}
}

func (r *runRecorder) finish(ctx context.Context, runErr error) {
	if r == nil {
		return
	}
	if err := r.store.Finish(ctx, r.id, runErr); err != nil {
		r.logger.Warn("run history update failed", logging.Error(err))
	}
	_ = r.store.Close()
}

// lockProject takes the per-project lock, turning contention into a
// readable error.
func lockProject(store *project.Store, folder string) (func(), error) {
	release, err := store.Lock(folder)
	if err != nil {
		return nil, err
	}
	return func() { _ = release() }, nil
}

func printOutcome(w io.Writer, title string, outcome transcription.Outcome) {
	fmt.Fprintln(w, "\n=== Transcription Complete ===")
	if title != "" {
		fmt.Fprintf(w, "Video Title: %s\n", title)
	}
	fmt.Fprintf(w, "Detected Language: %s (%s)\n", outcome.Language, langpkg.DisplayName(outcome.Language))
	fmt.Fprintf(w, "Duration: %.2f seconds\n", outcome.Duration)
	fmt.Fprintf(w, "\nTranscription Preview (first %d chars):\n", previewChars)
	fmt.Fprintln(w, textutil.Truncate(strings.TrimSpace(outcome.Text), previewChars))

	if len(outcome.Files) > 0 {
		fmt.Fprintln(w, "\nOutput files saved:")
		for _, format := range project.Formats {
			if path, ok := outcome.Files[format]; ok {
				fmt.Fprintf(w, "  - %s: %s\n", format, path)
			}
		}
	}
}
