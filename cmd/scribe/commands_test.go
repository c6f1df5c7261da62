package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/history"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/testsupport"
)

func TestAudioCommandCreatesProject(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "lecture.mp3")

	out, _, err := env.run(t, "audio", source)
	if err != nil {
		t.Fatalf("audio: %v", err)
	}
	requireContains(t, out, "=== Transcribing Local Audio ===")
	requireContains(t, out, "Detected Language: en (English)")
	requireContains(t, out, "Duration: 4.50 seconds")
	requireContains(t, out, "Hello world. Second line.")
	requireContains(t, out, "Output files saved:")

	root := filepath.Join(env.cfg.Paths.ProjectsDir, "local_lecture")
	for _, name := range []string{"transcript.txt", "transcript.json", "transcript.srt", "transcript.vtt", "settings.json"} {
		if _, err := os.Stat(filepath.Join(root, "transcription", name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "src_audio", "lecture.mp3")); err != nil {
		t.Fatalf("audio not copied: %v", err)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("original must be kept: %v", err)
	}

	var meta map[string]any
	data, err := os.ReadFile(filepath.Join(root, "metadata.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatal(err)
	}
	if meta["source_type"] != "local" || meta["original_filename"] != "lecture.mp3" || meta["project_type"] != "local" {
		t.Fatalf("unexpected metadata %v", meta)
	}
	if len(env.models) != 1 || env.models[0] != "base" {
		t.Fatalf("expected default model, got %v", env.models)
	}
	if len(env.transcriber.calls) != 1 || !strings.HasSuffix(env.transcriber.calls[0], "lecture.mp3|") {
		t.Fatalf("unexpected transcriber calls %v", env.transcriber.calls)
	}

	runs, err := testsupport.MustOpenHistory(t, env.cfg).Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusSucceeded || runs[0].Project != "local_lecture" {
		t.Fatalf("unexpected history %+v", runs)
	}
}

func TestAudioCommandFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "talk.wav")

	if _, _, err := env.run(t, "audio", source, "-m", "small", "-l", "Japanese", "-f", "srt"); err != nil {
		t.Fatalf("audio: %v", err)
	}
	if env.models[0] != "small" {
		t.Fatalf("model = %v", env.models)
	}
	if !strings.HasSuffix(env.transcriber.calls[0], "|ja") {
		t.Fatalf("language hint not normalized: %v", env.transcriber.calls)
	}
	dir := filepath.Join(env.cfg.Paths.ProjectsDir, "local_talk", "transcription")
	if _, err := os.Stat(filepath.Join(dir, "transcript.srt")); err != nil {
		t.Fatalf("srt missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "transcript.vtt")); !os.IsNotExist(err) {
		t.Fatalf("vtt should not be written for -f srt")
	}

	out, _, err := env.run(t, "show", "local_talk")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Language: ja (Japanese, 日本語)")
	requireContains(t, out, "Output Format: srt")
}

func TestAudioCommandUsesConfiguredModel(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithModel("large-v3"))
	source := testsupport.WriteAudio(t, t.TempDir(), "memo.m4a")

	if _, _, err := env.run(t, "audio", source); err != nil {
		t.Fatalf("audio: %v", err)
	}
	if len(env.models) != 1 || env.models[0] != "large-v3" {
		t.Fatalf("expected configured model, got %v", env.models)
	}
	info, ok, err := project.NewStore(env.cfg.Paths.ProjectsDir, nil).GetProjectInfo("local_memo")
	if err != nil || !ok || info.Settings == nil || info.Settings.Model != "large-v3" {
		t.Fatalf("settings not recorded: info=%+v ok=%v err=%v", info, ok, err)
	}
}

func TestAudioCommandWithoutProject(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "memo.mp3")

	if _, _, err := env.run(t, "audio", source, "--no-project", "-f", "text"); err != nil {
		t.Fatalf("audio: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.OutputDir, "memo_*.txt"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one timestamped transcript, got %v (%v)", matches, err)
	}
	if _, err := os.Stat(env.cfg.Paths.ProjectsDir); err == nil {
		entries, _ := os.ReadDir(env.cfg.Paths.ProjectsDir)
		if len(entries) != 0 {
			t.Fatalf("no project expected, found %d entries", len(entries))
		}
	}
}

func TestAudioCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "clip.mp3")

	if _, _, err := env.run(t, "audio", filepath.Join(t.TempDir(), "missing.mp3")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing file: got %v", err)
	}
	if _, _, err := env.run(t, "audio", source, "-m", "enormous"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad model: got %v", err)
	}
	if _, _, err := env.run(t, "audio", source, "-f", "docx"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad format: got %v", err)
	}
	if _, _, err := env.run(t, "audio", source, "-l", "not a language"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad language: got %v", err)
	}
	if len(env.transcriber.calls) != 0 {
		t.Fatalf("transcriber should not run: %v", env.transcriber.calls)
	}
}

func TestAudioCommandRecordsFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.transcriber.err = errors.New("whisperx exploded")
	source := testsupport.WriteAudio(t, t.TempDir(), "clip.mp3")

	_, _, err := env.run(t, "audio", source)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected collaborator failure, got %v", err)
	}
	runs, err := testsupport.MustOpenHistory(t, env.cfg).Recent(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusFailed || runs[0].ErrorKind != "collaborator_failure" {
		t.Fatalf("unexpected history %+v", runs)
	}
}

func TestAudioCommandProjectBusy(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "busy.mp3")

	release, err := project.NewStore(env.cfg.Paths.ProjectsDir, nil).Lock("local_busy")
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if _, _, err := env.run(t, "audio", source); !errors.Is(err, project.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestYouTubeCommandRemovesAudio(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "youtube", testVideoURL)
	if err != nil {
		t.Fatalf("youtube: %v", err)
	}
	requireContains(t, out, "Title: Never Gonna")
	requireContains(t, out, "Duration: 3:32")
	requireContains(t, out, "4. Cleaning up audio file...")
	requireContains(t, out, "Video Title: Never Gonna")

	root := filepath.Join(env.cfg.Paths.ProjectsDir, "youtube_dQw4w9WgXcQ")
	if _, err := os.Stat(filepath.Join(root, "src_audio", "dQw4w9WgXcQ.mp3")); !os.IsNotExist(err) {
		t.Fatalf("audio should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "transcription", "transcript.vtt")); err != nil {
		t.Fatalf("vtt missing: %v", err)
	}
	entries, err := os.ReadDir(env.cfg.Paths.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp downloads not cleaned: %v", entries)
	}
}

func TestYouTubeCommandKeepAudio(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "youtube", testVideoURL, "-k", "-a", "m4a")
	if err != nil {
		t.Fatalf("youtube: %v", err)
	}
	if strings.Contains(out, "Cleaning up") {
		t.Fatalf("cleanup should be skipped with -k")
	}
	path := filepath.Join(env.cfg.Paths.ProjectsDir, "youtube_dQw4w9WgXcQ", "src_audio", "dQw4w9WgXcQ.m4a")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("audio should be kept: %v", err)
	}
}

func TestYouTubeCommandPreviewFailureContinues(t *testing.T) {
	env := setupCLITestEnv(t)
	env.downloader.infoErr = errors.New("rate limited")

	out, _, err := env.run(t, "youtube", testVideoURL)
	if err != nil {
		t.Fatalf("youtube: %v", err)
	}
	requireContains(t, out, "Warning: could not fetch video info")
	requireContains(t, out, "=== Transcription Complete ===")
}

func TestYouTubeCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := env.run(t, "youtube", "https://example.com/nothing"); !errors.Is(err, services.ErrInvalidReference) {
		t.Fatalf("bad url: got %v", err)
	}
	if _, _, err := env.run(t, "youtube", testVideoURL, "-a", "flac"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("bad audio format: got %v", err)
	}

	env.downloader.err = errors.New("HTTP 403")
	if _, _, err := env.run(t, "youtube", testVideoURL); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("download failure: got %v", err)
	}
	if len(env.transcriber.calls) != 0 {
		t.Fatalf("transcriber should not run after failed download")
	}
}

func TestListCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No projects found.")

	if _, _, err := env.run(t, "youtube", testVideoURL, "-k"); err != nil {
		t.Fatalf("youtube: %v", err)
	}
	out, _, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Never Gonna")
	requireContains(t, out, "youtube")
	requireContains(t, out, "3:32")
	requireContains(t, out, "✓")

	out, _, err = env.run(t, "list", "--json")
	if err != nil {
		t.Fatalf("list --json: %v", err)
	}
	var views []projectView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list json: %v\n%s", err, out)
	}
	if len(views) != 1 || views[0].Folder != "youtube_dQw4w9WgXcQ" || !views[0].HasAudio || !views[0].HasTranscription {
		t.Fatalf("unexpected views %+v", views)
	}
}

func TestShowCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	source := testsupport.WriteAudio(t, t.TempDir(), "lecture.mp3")
	if _, _, err := env.run(t, "audio", source); err != nil {
		t.Fatalf("audio: %v", err)
	}

	out, _, err := env.run(t, "show", "local_lecture")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Folder: local_lecture")
	requireContains(t, out, "Original Filename: lecture.mp3")
	requireContains(t, out, "Model: base")
	requireContains(t, out, "Language: auto-detect")
	requireContains(t, out, "SRT: 2 cues, 00:00:00,000 to 00:00:04,500")

	if _, _, err := env.run(t, "show", "local_missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing project: got %v", err)
	}
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No runs recorded.")

	source := testsupport.WriteAudio(t, t.TempDir(), "lecture.mp3")
	if _, _, err := env.run(t, "audio", source); err != nil {
		t.Fatalf("audio: %v", err)
	}
	out, _, err = env.run(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "local_lecture")
	requireContains(t, out, "succeeded")

	out, _, err = env.run(t, "history", "--json")
	if err != nil {
		t.Fatalf("history --json: %v", err)
	}
	var views []runView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode history json: %v", err)
	}
	if len(views) != 1 || views[0].Command != "audio" || views[0].ID == "" {
		t.Fatalf("unexpected views %+v", views)
	}
}

func TestInfoCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "info", testVideoURL)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Title: Never Gonna")
	requireContains(t, out, "Uploader: Rick")
	requireContains(t, out, "Video ID: dQw4w9WgXcQ")

	env.downloader.infoErr = errors.New("offline")
	if _, _, err := env.run(t, "info", testVideoURL); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("info failure: got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "[OK] Ready (command: uvx)")
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, env.cfg.Paths.ProjectsDir+" (read/write ok)")
	requireContains(t, out, env.cfg.Paths.TempDir+" (created on demand)")
}

func TestLogsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	logPath := env.cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(logPath, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := env.run(t, "logs", "-n", "2")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if out != "two\nthree\n" {
		t.Fatalf("unexpected logs output %q", out)
	}
}
