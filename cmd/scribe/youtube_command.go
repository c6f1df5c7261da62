package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/acquisition"
	"scribe/internal/config"
	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/transcription"
)

type youtubeFlags struct {
	transcribeFlags
	audioFormat string
	keepAudio   bool
}

func newYouTubeCommand(ctx *commandContext) *cobra.Command {
	var flags youtubeFlags

	cmd := &cobra.Command{
		Use:     "youtube <url>",
		Aliases: []string{"yt"},
		Short:   "Download and transcribe a YouTube video",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runYouTube(cmd.Context(), ctx, cmd, args[0], flags)
		},
	}
	addTranscribeFlags(cmd, &flags.transcribeFlags)
	cmd.Flags().StringVarP(&flags.audioFormat, "audio-format", "a", "", "Audio format for the download: mp3, wav or m4a (default from config: mp3)")
	cmd.Flags().BoolVarP(&flags.keepAudio, "keep-audio", "k", false, "Keep the downloaded audio after transcription")
	return cmd
}

func runYouTube(runCtx context.Context, ctx *commandContext, cmd *cobra.Command, url string, flags youtubeFlags) (err error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	settings, err := flags.resolve(cfg)
	if err != nil {
		return err
	}
	audioFormat := strings.ToLower(strings.TrimSpace(flags.audioFormat))
	if audioFormat == "" {
		audioFormat = cfg.Download.AudioFormat
	}
	if !slices.Contains(config.AudioFormats, audioFormat) {
		return services.Wrap(services.ErrValidation, "cli", "audio format",
			fmt.Sprintf("unsupported audio format %q (choose from %s)", audioFormat, strings.Join(config.AudioFormats, ", ")), nil)
	}
	url = strings.TrimSpace(url)
	videoID, err := acquisition.ExtractVideoID(url)
	if err != nil {
		return err
	}
	store, err := ctx.projectStore()
	if err != nil {
		return err
	}
	folder := project.FolderName(videoID, project.TypeYouTube)

	release, err := lockProject(store, folder)
	if err != nil {
		return err
	}
	defer release()

	recorder := ctx.beginRun(runCtx, logger, history.Run{
		Command:  "youtube",
		Source:   url,
		Project:  folder,
		Model:    settings.model,
		Language: settings.language,
		Format:   string(settings.format),
	})
	defer func() { recorder.finish(runCtx, err) }()
	runCtx = services.WithProject(services.WithRunID(runCtx, recorder.runID()), folder)
	logger = logging.WithContext(runCtx, logger)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Transcribing YouTube Video ===")
	fmt.Fprintf(out, "URL: %s\n", url)

	acquirer := acquisition.NewService(store, ctx.deps.downloader(cfg, logger), cfg.Paths.TempDir, logger)

	fmt.Fprintln(out, "\n1. Getting video information...")
	if info, previewErr := acquirer.Preview(runCtx, url); previewErr != nil {
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
		logger.Warn("video info unavailable; continuing with download",
			logging.Error(previewErr),
			logging.String(logging.FieldEventType, "preview_failed"),
		)
		fmt.Fprintf(out, "Warning: could not fetch video info: %v\n", previewErr)
	} else {
		fmt.Fprintf(out, "Title: %s\n", info.Title)
		fmt.Fprintf(out, "Duration: %s\n", formatSeconds(info.Duration))
		fmt.Fprintf(out, "Uploader: %s\n", info.Uploader)
	}

	fmt.Fprintln(out, "\n2. Downloading audio...")
	acquired, err := acquirer.Acquire(runCtx, acquisition.Request{
		URL:         url,
		AudioFormat: audioFormat,
		Quality:     cfg.Download.Quality,
	})
	if err != nil {
		return err
	}
	recorder.setProject(runCtx, acquired.Paths.Folder())
	fmt.Fprintf(out, "Audio saved to: %s\n", acquired.AudioPath)

	fmt.Fprintln(out, "\n3. Transcribing audio...")
	engine := ctx.deps.transcriber(cfg, settings.model, logger)
	outcome, err := transcription.NewService(store, engine, logger).Transcribe(runCtx, transcription.Request{
		AudioPath: acquired.AudioPath,
		Language:  settings.language,
		Format:    settings.format,
		Project:   &acquired.Paths,
	})
	if err != nil {
		return err
	}

	if !flags.keepAudio {
		fmt.Fprintln(out, "\n4. Cleaning up audio file...")
		if err := store.RemoveAudio(acquired.Paths, acquired.AudioPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted: %s\n", acquired.AudioPath)
	}

	printOutcome(out, acquired.Info.Title, outcome)
	return nil
}
