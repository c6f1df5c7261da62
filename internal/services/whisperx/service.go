package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/transcription"
)

var _ transcription.Transcriber = (*Service)(nil)

// Service provides WhisperX transcription.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "whisperx"),
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name.
func (s *Service) Model() string {
	return s.cfg.model()
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(strings.TrimSpace(string(output)), 2000))
	}
	return nil
}

// Transcribe runs WhisperX on audioPath and returns its segments. An empty
// language lets the model detect it.
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) (transcription.Result, error) {
	if audioPath == "" {
		return transcription.Result{}, fmt.Errorf("transcribe: source path required")
	}
	workDir := s.cfg.WorkDir
	if workDir != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return transcription.Result{}, fmt.Errorf("transcribe: ensure work dir: %w", err)
		}
	}
	outputDir, err := os.MkdirTemp(workDir, "whisperx-")
	if err != nil {
		return transcription.Result{}, fmt.Errorf("transcribe: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := s.buildArgs(audioPath, outputDir, language)
	s.logger.Debug("running whisperx",
		logging.String("model", s.Model()),
		logging.Bool("cuda", s.cfg.CUDAEnabled),
		logging.String("vad_method", s.cfg.vadMethod()),
	)
	if err := s.run(ctx, Launcher, args...); err != nil {
		return transcription.Result{}, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	payload, err := loadPayload(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return transcription.Result{}, err
	}
	result := payload.toResult()
	if result.Language == "" {
		result.Language = langpkg.ToISO2(language)
	}
	return result, nil
}

// buildArgs assembles the uvx invocation for one source file.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := append(s.cfg.indexArgs(), "whisperx", source, "--model", s.Model(), "--output_dir", outputDir)
	args = append(args, decodeFlags...)
	args = append(args, s.cfg.vadArgs()...)
	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}
	return append(args, s.cfg.deviceArgs()...)
}

// Word represents a single word with timing from WhisperX output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
}

// payload is the JSON structure from WhisperX output.
type payload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

func loadPayload(jsonPath string) (payload, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return payload{}, fmt.Errorf("read whisperx json: %w", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return payload{}, fmt.Errorf("parse whisperx json: %w", err)
	}
	return p, nil
}

// toResult converts WhisperX segments. Duration is the end of the last
// segment; text is the trimmed segment texts joined by single spaces.
func (p payload) toResult() transcription.Result {
	result := transcription.Result{
		Language: strings.TrimSpace(p.Language),
		Segments: make([]transcription.Segment, 0, len(p.Segments)),
	}
	parts := make([]string, 0, len(p.Segments))
	for i, seg := range p.Segments {
		start, end := seg.Start, seg.End
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}
		result.Segments = append(result.Segments, transcription.Segment{ID: i, Start: start, End: end, Text: seg.Text})
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
		if end > result.Duration {
			result.Duration = end
		}
	}
	result.Text = strings.Join(parts, " ")
	return result
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
