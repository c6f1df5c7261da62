package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/history"
	"scribe/internal/logging"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/textutil"
	"scribe/internal/transcription"
)

type audioFlags struct {
	transcribeFlags
	noProject bool
}

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var flags audioFlags

	cmd := &cobra.Command{
		Use:   "audio <file>",
		Short: "Transcribe a local audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudio(cmd.Context(), ctx, cmd, args[0], flags)
		},
	}
	addTranscribeFlags(cmd, &flags.transcribeFlags)
	cmd.Flags().BoolVar(&flags.noProject, "no-project", false, "Write timestamped transcripts to the output directory instead of creating a project")
	return cmd
}

func addTranscribeFlags(cmd *cobra.Command, flags *transcribeFlags) {
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Whisper model (default from config: base)")
	cmd.Flags().StringVarP(&flags.language, "language", "l", "", "Language code, e.g. 'ja' or 'en' (default: auto-detect)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: text, srt, vtt, json or all (default from config: all)")
}

func runAudio(runCtx context.Context, ctx *commandContext, cmd *cobra.Command, file string, flags audioFlags) (err error) {
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
	store, err := ctx.projectStore()
	if err != nil {
		return err
	}

	source, err := filepath.Abs(strings.TrimSpace(file))
	if err != nil {
		return fmt.Errorf("resolve audio path: %w", err)
	}
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "cli", "audio", "audio file not found: "+file, err)
		}
		return fmt.Errorf("stat audio: %w", err)
	}
	if flags.noProject {
		return runAudioWithoutProject(runCtx, ctx, cmd, store, source, settings)
	}

	name := textutil.SanitizeFileName(strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)))
	if name == "" || name == "." || name == ".." {
		return services.Wrap(services.ErrValidation, "cli", "audio", "cannot derive a project name from "+file, nil)
	}
	folder := project.FolderName(name, project.TypeLocal)

	release, err := lockProject(store, folder)
	if err != nil {
		return err
	}
	defer release()

	recorder := ctx.beginRun(runCtx, logger, history.Run{
		Command:  "audio",
		Source:   source,
		Project:  folder,
		Model:    settings.model,
		Language: settings.language,
		Format:   string(settings.format),
	})
	defer func() { recorder.finish(runCtx, err) }()
	runCtx = services.WithProject(services.WithRunID(runCtx, recorder.runID()), folder)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Transcribing Local Audio ===")
	fmt.Fprintf(out, "File: %s\n", file)

	paths, err := store.CreateProject(name, project.TypeLocal, project.Metadata{
		"original_filename": filepath.Base(source),
		"file_size":         info.Size(),
		"source_type":       "local",
	})
	if err != nil {
		return err
	}
	audioPath, err := store.PlaceAudio(source, paths, true)
	if err != nil {
		return err
	}

	logging.WithContext(runCtx, logger).Info("local audio imported",
		logging.String(logging.FieldEventType, "audio_imported"),
		logging.String("audio", audioPath),
		logging.Int64("size_bytes", info.Size()),
	)

	engine := ctx.deps.transcriber(cfg, settings.model, logger)
	outcome, err := transcription.NewService(store, engine, logger).Transcribe(runCtx, transcription.Request{
		AudioPath: audioPath,
		Language:  settings.language,
		Format:    settings.format,
		Project:   &paths,
	})
	if err != nil {
		return err
	}

	printOutcome(out, "", outcome)
	return nil
}

// runAudioWithoutProject transcribes source in place and writes timestamped
// outputs to the configured output directory.
func runAudioWithoutProject(runCtx context.Context, ctx *commandContext, cmd *cobra.Command, store *project.Store, source string, settings transcribeSettings) (err error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	recorder := ctx.beginRun(runCtx, logger, history.Run{
		Command:  "audio",
		Source:   source,
		Model:    settings.model,
		Language: settings.language,
		Format:   string(settings.format),
	})
	defer func() { recorder.finish(runCtx, err) }()
	runCtx = services.WithRunID(runCtx, recorder.runID())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n=== Transcribing Local Audio ===")
	fmt.Fprintf(out, "File: %s\n", source)

	engine := ctx.deps.transcriber(cfg, settings.model, logger)
	outcome, err := transcription.NewService(store, engine, logger).Transcribe(runCtx, transcription.Request{
		AudioPath:   source,
		Language:    settings.language,
		Format:      settings.format,
		FallbackDir: cfg.Paths.OutputDir,
	})
	if err != nil {
		return err
	}

	printOutcome(out, "", outcome)
	return nil
}
