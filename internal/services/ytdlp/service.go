package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"scribe/internal/acquisition"
	"scribe/internal/logging"
)

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "yt-dlp"

var _ acquisition.Downloader = (*Service)(nil)

// CommandResult is one finished process execution.
type CommandResult struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
}

// CommandRunner executes a process and captures its output.
type CommandRunner func(ctx context.Context, name string, args ...string) (CommandResult, error)

func execRunner(ctx context.Context, name string, args ...string) (CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// Service runs yt-dlp.
type Service struct {
	binary string
	logger *slog.Logger
	runner CommandRunner
}

// NewService returns a downloader using binary (DefaultBinary when empty).
func NewService(binary string, logger *slog.Logger) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		binary: binary,
		logger: logging.NewComponentLogger(logger, "ytdlp"),
		runner: execRunner,
	}
}

// WithCommandRunner replaces process execution (for testing).
func (s *Service) WithCommandRunner(runner CommandRunner) {
	if runner != nil {
		s.runner = runner
	}
}

// Binary returns the configured executable.
func (s *Service) Binary() string {
	return s.binary
}

// Download fetches the best audio stream for req.URL into
// req.OutputTemplate and extracts it to req.AudioFormat.
func (s *Service) Download(ctx context.Context, req acquisition.DownloadRequest) (acquisition.Download, error) {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", req.AudioFormat,
		"--audio-quality", strconv.Itoa(req.Quality) + "K",
		"--output", req.OutputTemplate,
		"--dump-single-json",
		"--no-simulate",
		req.URL,
	}
	s.logger.Debug("running yt-dlp download",
		logging.String("url", req.URL),
		logging.String("audio_format", req.AudioFormat),
		logging.Int("quality_kbps", req.Quality),
	)
	doc, err := s.runJSON(ctx, args)
	if err != nil {
		return acquisition.Download{}, err
	}
	out := acquisition.Download{Info: doc.videoInfo()}
	for _, d := range doc.RequestedDownloads {
		if d.FilePath != "" {
			out.Path = d.FilePath
			break
		}
	}
	return out, nil
}

// Info reads the video's metadata without downloading it.
func (s *Service) Info(ctx context.Context, url string) (acquisition.VideoInfo, error) {
	doc, err := s.runJSON(ctx, []string{"--no-playlist", "--skip-download", "--dump-single-json", url})
	if err != nil {
		return acquisition.VideoInfo{}, err
	}
	return doc.videoInfo(), nil
}

func (s *Service) runJSON(ctx context.Context, args []string) (document, error) {
	result, err := s.runner(ctx, s.binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return document{}, ctx.Err()
		}
		return document{}, fmt.Errorf("%s exited with code %d: %w: %s", s.binary, result.ExitCode, err, lastLine(result.Stderr))
	}
	var doc document
	if err := json.Unmarshal(bytes.TrimSpace(result.Stdout), &doc); err != nil {
		return document{}, fmt.Errorf("parse %s output: %w", s.binary, err)
	}
	return doc, nil
}

// document is the subset of yt-dlp's info JSON that scribe reads.
type document struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Duration           float64             `json:"duration"`
	Uploader           string              `json:"uploader"`
	UploadDate         string              `json:"upload_date"`
	ViewCount          int64               `json:"view_count"`
	Description        string              `json:"description"`
	WebpageURL         string              `json:"webpage_url"`
	RequestedDownloads []requestedDownload `json:"requested_downloads"`
}

type requestedDownload struct {
	FilePath string `json:"filepath"`
}

func (d document) videoInfo() acquisition.VideoInfo {
	return acquisition.VideoInfo{
		Title:       d.Title,
		Duration:    d.Duration,
		Uploader:    d.Uploader,
		VideoID:     d.ID,
		URL:         d.WebpageURL,
		UploadDate:  d.UploadDate,
		ViewCount:   d.ViewCount,
		Description: d.Description,
	}
}

// lastLine returns the final non-empty line, where yt-dlp puts its ERROR.
func lastLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "no error output"
}
