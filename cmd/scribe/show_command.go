package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	langpkg "scribe/internal/language"
	"scribe/internal/project"
	"scribe/internal/services"
	"scribe/internal/subtitles"
	"scribe/internal/textutil"
)

type subtitleView struct {
	Format string  `json:"format"`
	Path   string  `json:"path"`
	Cues   int     `json:"cues"`
	First  float64 `json:"first_seconds"`
	Last   float64 `json:"last_seconds"`
}

type projectDetail struct {
	projectView
	Settings  *project.Settings `json:"settings,omitempty"`
	Subtitles []subtitleView    `json:"subtitles,omitempty"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Show details for one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			folder := strings.TrimSpace(args[0])
			info, ok, err := store.GetProjectInfo(folder)
			if err != nil {
				return err
			}
			if !ok {
				return services.Wrap(services.ErrNotFound, "cli", "show", "project not found: "+folder, nil)
			}
			detail, err := buildProjectDetail(info)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, detail)
			}
			printProjectDetail(cmd.OutOrStdout(), detail, shouldColorize(cmd.OutOrStdout()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func buildProjectDetail(info *project.Info) (projectDetail, error) {
	detail := projectDetail{projectView: newProjectView(info), Settings: info.Settings}
	for _, format := range []project.Format{project.FormatSRT, project.FormatVTT} {
		path := info.TranscriptFile(format)
		summary, err := subtitles.Inspect(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return projectDetail{}, services.Wrap(services.ErrPersistence, "cli", "show", path, err)
		}
		detail.Subtitles = append(detail.Subtitles, subtitleView{
			Format: string(format),
			Path:   path,
			Cues:   summary.Cues,
			First:  summary.First,
			Last:   summary.Last,
		})
	}
	return detail, nil
}

func printProjectDetail(out io.Writer, detail projectDetail, colorize bool) {
	printSection(out, "Project", colorize)
	fmt.Fprintf(out, "Folder: %s\n", detail.Folder)
	fmt.Fprintf(out, "Title: %s\n", detail.Title)
	fmt.Fprintf(out, "Type: %s\n", valueOrDash(detail.Type))
	fmt.Fprintf(out, "Path: %s\n", detail.Path)
	fmt.Fprintf(out, "Audio: %s\n", checkMark(detail.HasAudio))
	fmt.Fprintf(out, "Transcription: %s\n", checkMark(detail.HasTranscription))

	if len(detail.Metadata) > 0 {
		printSection(out, "Metadata", colorize)
		keys := make([]string, 0, len(detail.Metadata))
		for key := range detail.Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := textutil.Truncate(fmt.Sprint(detail.Metadata[key]), descriptionPreview)
			fmt.Fprintf(out, "%s: %s\n", textutil.Title(key), value)
		}
	}

	if s := detail.Settings; s != nil {
		printSection(out, "Transcription Settings", colorize)
		fmt.Fprintf(out, "Model: %s\n", s.Model)
		if s.Language != "" {
			name := langpkg.DisplayName(s.Language)
			if native := langpkg.NativeName(s.Language); native != name {
				name += ", " + native
			}
			fmt.Fprintf(out, "Language: %s (%s)\n", s.Language, name)
		} else {
			fmt.Fprintln(out, "Language: auto-detect")
		}
		fmt.Fprintf(out, "Output Format: %s\n", s.OutputFormat)
		fmt.Fprintf(out, "Audio File: %s\n", valueOrDash(s.AudioFile))
		fmt.Fprintf(out, "Processed At: %s\n", valueOrDash(s.ProcessedAt))
	}

	if len(detail.Subtitles) > 0 {
		printSection(out, "Subtitles", colorize)
		for _, sub := range detail.Subtitles {
			fmt.Fprintf(out, "%s: %d cues, %s to %s\n",
				strings.ToUpper(sub.Format),
				sub.Cues,
				subtitles.FormatTimestamp(sub.First, subtitles.StyleSRT),
				subtitles.FormatTimestamp(sub.Last, subtitles.StyleSRT),
			)
		}
	}
}

func printSection(out io.Writer, title string, colorize bool) {
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
}
