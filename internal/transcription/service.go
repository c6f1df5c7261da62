package transcription

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/subtitles"
)

// Request describes one transcription run.
type Request struct {
	AudioPath string
	Language  string
	Format    Format

	// Project is the active project. When nil, outputs are written to
	// FallbackDir under a timestamped name and no settings are recorded.
	Project     *project.Paths
	FallbackDir string
}

// Outcome reports what a run produced.
type Outcome struct {
	Files    project.OutputFileSet
	Language string
	Duration float64
	Text     string
	Segments []Segment
}

// Service coordinates a Transcriber with the project store.
type Service struct {
	store  *project.Store
	engine Transcriber
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a transcription service.
func NewService(store *project.Store, engine Transcriber, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logging.NewComponentLogger(logger, "transcription"),
		now:    time.Now,
	}
}

// Transcribe runs the engine once and writes the requested representations.
func (s *Service) Transcribe(ctx context.Context, req Request) (Outcome, error) {
	if s == nil || s.engine == nil || s.store == nil {
		return Outcome{}, services.Wrap(services.ErrConfiguration, "transcription", "init", "service is not configured", nil)
	}
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return Outcome{}, err
	}

	if _, err := os.Stat(req.AudioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Outcome{}, services.Wrap(services.ErrNotFound, "transcription", "stat audio", "audio file not found: "+req.AudioPath, err)
		}
		return Outcome{}, services.Wrap(services.ErrPersistence, "transcription", "stat audio", req.AudioPath, err)
	}

	paths, baseName, err := s.destination(req)
	if err != nil {
		return Outcome{}, err
	}

	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()
	logger.Info("transcription started",
		logging.String(logging.FieldEventType, "transcription_start"),
		logging.String("audio", filepath.Base(req.AudioPath)),
		logging.String("model", s.engine.Model()),
		logging.String("language", displayLanguage(req.Language)),
		logging.String("format", string(format)),
	)

	result, err := s.engine.Transcribe(ctx, req.AudioPath, strings.TrimSpace(req.Language))
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		return Outcome{}, services.Wrap(services.ErrExternalTool, "transcription", "transcribe", filepath.Base(req.AudioPath), err)
	}

	if req.Project != nil {
		settings := project.Settings{
			Model:        s.engine.Model(),
			Language:     req.Language,
			OutputFormat: string(format),
			AudioFile:    req.AudioPath,
		}
		if err := s.store.SaveTranscriptionSettings(req.Project.Root, settings); err != nil {
			return Outcome{}, err
		}
	}

	files, err := s.store.PersistOutputs(paths, buildOutputs(result, format), baseName)
	if err != nil {
		return Outcome{}, err
	}

	logger.Info("transcription completed",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.String("language", result.Language),
		logging.Float64("audio_seconds", result.Duration),
		logging.Int("segments", len(result.Segments)),
		logging.Int("files", len(files)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Outcome{
		Files:    files,
		Language: result.Language,
		Duration: result.Duration,
		Text:     result.Text,
		Segments: result.Segments,
	}, nil
}

func (s *Service) destination(req Request) (project.Paths, string, error) {
	if req.Project != nil {
		return *req.Project, "", nil
	}
	dir := strings.TrimSpace(req.FallbackDir)
	if dir == "" {
		return project.Paths{}, "", services.Wrap(services.ErrConfiguration, "transcription", "resolve output", "no project and no output directory", nil)
	}
	stem := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	base := fmt.Sprintf("%s_%s", stem, s.now().Format("20060102_150405"))
	return project.Paths{Root: dir, Transcript: dir}, base, nil
}

func buildOutputs(result Result, format Format) map[project.Format]any {
	outputs := make(map[project.Format]any, 4)
	if format.Includes(project.FormatText) {
		outputs[project.FormatText] = result.Text
	}
	if format.Includes(project.FormatJSON) {
		outputs[project.FormatJSON] = result
	}
	if format.Includes(project.FormatSRT) {
		outputs[project.FormatSRT] = subtitles.ToSRT(result.cues())
	}
	if format.Includes(project.FormatVTT) {
		outputs[project.FormatVTT] = subtitles.ToVTT(result.cues())
	}
	return outputs
}

func displayLanguage(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return "auto"
	}
	return lang
}
