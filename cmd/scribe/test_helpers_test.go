package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/acquisition"
	"scribe/internal/config"
	"scribe/internal/testsupport"
	"scribe/internal/transcription"
)

const testVideoURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

type fakeTranscriber struct {
	model  string
	result transcription.Result
	err    error
	calls  []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, language string) (transcription.Result, error) {
	f.calls = append(f.calls, audioPath+"|"+language)
	if f.err != nil {
		return transcription.Result{}, f.err
	}
	return f.result, nil
}

func (f *fakeTranscriber) Model() string { return f.model }

type fakeDownloader struct {
	info    acquisition.VideoInfo
	err     error
	infoErr error
}

func (f *fakeDownloader) Download(_ context.Context, req acquisition.DownloadRequest) (acquisition.Download, error) {
	if f.err != nil {
		return acquisition.Download{}, f.err
	}
	path := strings.Replace(req.OutputTemplate, "%(ext)s", req.AudioFormat, 1)
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		return acquisition.Download{}, err
	}
	return acquisition.Download{Path: path, Info: f.info}, nil
}

func (f *fakeDownloader) Info(_ context.Context, _ string) (acquisition.VideoInfo, error) {
	if f.infoErr != nil {
		return acquisition.VideoInfo{}, f.infoErr
	}
	return f.info, nil
}

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	transcriber *fakeTranscriber
	downloader  *fakeDownloader
	models      []string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)...)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		transcriber: &fakeTranscriber{
			result: transcription.Result{
				Text:     " Hello world. Second line.",
				Language: "en",
				Duration: 4.5,
				Segments: []transcription.Segment{
					{ID: 0, Start: 0, End: 2, Text: " Hello world."},
					{ID: 1, Start: 2, End: 4.5, Text: " Second line."},
				},
			},
		},
		downloader: &fakeDownloader{
			info: acquisition.VideoInfo{Title: "Never Gonna", Duration: 212, Uploader: "Rick", UploadDate: "20091025", ViewCount: 42},
		},
	}
}

func (env *cliTestEnv) collaborators() collaborators {
	return collaborators{
		transcriber: func(_ *config.Config, model string, _ *slog.Logger) transcription.Transcriber {
			env.models = append(env.models, model)
			env.transcriber.model = model
			return env.transcriber
		},
		downloader: func(*config.Config, *slog.Logger) acquisition.Downloader {
			return env.downloader
		},
	}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, env.collaborators(), append([]string{"--config", env.configPath}, args...))
}

func runCLI(t *testing.T, deps collaborators, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommandWith(deps)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nprojects_dir = %q\ntemp_dir = %q\noutput_dir = %q\nstate_dir = %q\n\n[transcription]\nmodel = %q\n\n[logging]\nformat = %q\nlevel = \"error\"\n",
		cfg.Paths.ProjectsDir,
		cfg.Paths.TempDir,
		cfg.Paths.OutputDir,
		cfg.Paths.StateDir,
		cfg.Transcription.Model,
		cfg.Logging.Format,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
