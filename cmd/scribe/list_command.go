package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/project"
	"scribe/internal/textutil"
)

const titleWidth = 48

type projectView struct {
	Folder           string           `json:"folder"`
	Title            string           `json:"title"`
	Type             string           `json:"type"`
	Duration         float64          `json:"duration,omitempty"`
	HasAudio         bool             `json:"has_audio"`
	HasTranscription bool             `json:"has_transcription"`
	Path             string           `json:"path"`
	Metadata         project.Metadata `json:"metadata,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transcription projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			views, err := loadProjectViews(store)
			if err != nil {
				return err
			}
			if asJSON {
				if views == nil {
					views = []projectView{}
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					textutil.Truncate(view.Title, titleWidth),
					formatSeconds(view.Duration),
					view.Type,
					checkMark(view.HasAudio),
					checkMark(view.HasTranscription),
					view.Folder,
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Title"},
				{header: "Duration", align: alignRight},
				{header: "Type"},
				{header: "Audio"},
				{header: "Transcript"},
				{header: "Folder"},
			}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func loadProjectViews(store *project.Store) ([]projectView, error) {
	folders, err := store.ListProjects()
	if err != nil {
		return nil, err
	}
	views := make([]projectView, 0, len(folders))
	for _, folder := range folders {
		info, ok, err := store.GetProjectInfo(folder)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		views = append(views, newProjectView(info))
	}
	return views, nil
}

func newProjectView(info *project.Info) projectView {
	view := projectView{
		Folder:           info.Name,
		Title:            projectTitle(info),
		HasAudio:         info.HasAudio,
		HasTranscription: info.HasTranscription,
		Path:             info.Path,
		Metadata:         info.Metadata,
	}
	if typ, ok := project.TypeOfFolder(info.Name); ok {
		view.Type = typ.String()
	}
	if duration, ok := info.Metadata.Float("duration"); ok {
		view.Duration = duration
	}
	return view
}

func projectTitle(info *project.Info) string {
	for _, key := range []string{"title", "original_filename"} {
		if value := info.Metadata.String(key); value != "" {
			return value
		}
	}
	return info.Name
}
