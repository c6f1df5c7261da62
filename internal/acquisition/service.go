package acquisition

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services"
)

const (
	qualityBest    = 192
	qualityDefault = 128
)

// knownAudioExtensions are scanned when the expected file is absent.
var knownAudioExtensions = []string{"mp3", "m4a", "wav", "opus", "webm"}

// Service downloads remote audio into projects.
type Service struct {
	store      *project.Store
	downloader Downloader
	tempDir    string
	logger     *slog.Logger
}

// NewService constructs an acquisition service. Downloads are staged in a
// fresh subdirectory of tempDir that is removed once the audio is moved.
func NewService(store *project.Store, downloader Downloader, tempDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		store:      store,
		downloader: downloader,
		tempDir:    tempDir,
		logger:     logging.NewComponentLogger(logger, "acquisition"),
	}
}

// QualityBitrate maps a quality selector to a target bitrate.
func QualityBitrate(quality string) int {
	if strings.EqualFold(strings.TrimSpace(quality), "best") {
		return qualityBest
	}
	return qualityDefault
}

// Acquire downloads the audio for req.URL and files it into a new youtube
// project named after the video id.
func (s *Service) Acquire(ctx context.Context, req Request) (Acquired, error) {
	if s == nil || s.downloader == nil || s.store == nil {
		return Acquired{}, services.Wrap(services.ErrConfiguration, "acquisition", "init", "service is not configured", nil)
	}
	videoID, err := ExtractVideoID(req.URL)
	if err != nil {
		return Acquired{}, err
	}
	format := strings.ToLower(strings.TrimSpace(req.AudioFormat))
	if format == "" {
		format = "mp3"
	}

	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return Acquired{}, services.Wrap(services.ErrPersistence, "acquisition", "prepare", "create temp directory", err)
	}
	scratch, err := os.MkdirTemp(s.tempDir, "download-"+videoID+"-")
	if err != nil {
		return Acquired{}, services.Wrap(services.ErrPersistence, "acquisition", "prepare", "create scratch directory", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			s.logger.Warn("scratch cleanup failed",
				logging.String("path", scratch),
				logging.Error(err),
				logging.String(logging.FieldEventType, "scratch_cleanup_failed"),
			)
		}
	}()

	logger := logging.WithContext(ctx, s.logger)
	logger.Info("download started",
		logging.String(logging.FieldEventType, "download_start"),
		logging.String("video_id", videoID),
		logging.String("audio_format", format),
	)

	result, err := s.downloader.Download(ctx, DownloadRequest{
		URL:            req.URL,
		OutputTemplate: filepath.Join(scratch, videoID+".%(ext)s"),
		AudioFormat:    format,
		Quality:        QualityBitrate(req.Quality),
	})
	if err != nil {
		if ctx.Err() != nil {
			return Acquired{}, ctx.Err()
		}
		return Acquired{}, services.Wrap(services.ErrExternalTool, "acquisition", "download", videoID, err)
	}

	audioPath, err := locateAudio(scratch, videoID, format, result.Path)
	if err != nil {
		return Acquired{}, err
	}

	info := result.Info
	info.VideoID = videoID
	info.URL = req.URL
	info = info.withDefaults()

	paths, err := s.store.CreateProject(videoID, project.TypeYouTube, info.Metadata())
	if err != nil {
		return Acquired{}, err
	}
	finalPath, err := s.store.PlaceAudio(audioPath, paths, false)
	if err != nil {
		return Acquired{}, err
	}

	logger.Info("download completed",
		logging.String(logging.FieldEventType, "download_complete"),
		logging.String("project", paths.Folder()),
		logging.String("title", info.Title),
		logging.Float64("duration_seconds", info.Duration),
	)
	return Acquired{Info: info, Paths: paths, AudioPath: finalPath, Format: format}, nil
}

// Preview fetches source metadata without downloading audio.
func (s *Service) Preview(ctx context.Context, url string) (VideoInfo, error) {
	if s == nil || s.downloader == nil {
		return VideoInfo{}, services.Wrap(services.ErrConfiguration, "acquisition", "init", "service is not configured", nil)
	}
	info, err := s.downloader.Info(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return VideoInfo{}, ctx.Err()
		}
		return VideoInfo{}, services.Wrap(services.ErrExternalTool, "acquisition", "preview", url, err)
	}
	info.URL = url
	return info.withDefaults(), nil
}

// locateAudio resolves the downloaded file: the path the downloader reported,
// then {id}.{format}, then any {id}.{ext} with a known audio extension.
func locateAudio(dir, videoID, format, reported string) (string, error) {
	if reported != "" && isFile(reported) {
		return reported, nil
	}
	expected := filepath.Join(dir, fmt.Sprintf("%s.%s", videoID, format))
	if isFile(expected) {
		return expected, nil
	}
	for _, ext := range knownAudioExtensions {
		candidate := filepath.Join(dir, videoID+"."+ext)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrNotFound, "acquisition", "locate audio", "downloaded audio not found for "+videoID, nil)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
