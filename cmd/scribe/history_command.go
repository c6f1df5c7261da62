package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/history"
	"scribe/internal/textutil"
)

const errorColumnWidth = 40

type runView struct {
	ID             string  `json:"id"`
	Command        string  `json:"command"`
	Source         string  `json:"source"`
	Project        string  `json:"project,omitempty"`
	Model          string  `json:"model,omitempty"`
	Language       string  `json:"language,omitempty"`
	Format         string  `json:"format,omitempty"`
	Status         string  `json:"status"`
	ErrorKind      string  `json:"error_kind,omitempty"`
	ErrorMessage   string  `json:"error_message,omitempty"`
	StartedAt      string  `json:"started_at"`
	FinishedAt     string  `json:"finished_at,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds,omitempty"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent transcription runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				problem := run.ErrorKind
				if run.ErrorMessage != "" {
					problem = textutil.Truncate(run.ErrorKind+": "+run.ErrorMessage, errorColumnWidth)
				}
				rows = append(rows, []string{
					formatTime(run.StartedAt),
					run.Command,
					valueOrDash(run.Project),
					string(run.Status),
					formatElapsed(run.Elapsed()),
					valueOrDash(problem),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				{header: "Started"},
				{header: "Command"},
				{header: "Project"},
				{header: "Status"},
				{header: "Elapsed", align: alignRight},
				{header: "Error"},
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newRunView(run history.Run) runView {
	view := runView{
		ID:             run.ID,
		Command:        run.Command,
		Source:         run.Source,
		Project:        run.Project,
		Model:          run.Model,
		Language:       run.Language,
		Format:         run.Format,
		Status:         string(run.Status),
		ErrorKind:      run.ErrorKind,
		ErrorMessage:   run.ErrorMessage,
		StartedAt:      run.StartedAt.UTC().Format(time.RFC3339),
		ElapsedSeconds: run.Elapsed().Seconds(),
	}
	if !run.FinishedAt.IsZero() {
		view.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return view
}
