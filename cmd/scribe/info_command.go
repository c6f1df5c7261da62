package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/acquisition"
	"scribe/internal/textutil"
)

const descriptionPreview = 200

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info <url>",
		Short: "Show video information without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			acquirer := acquisition.NewService(store, ctx.deps.downloader(cfg, logger), cfg.Paths.TempDir, logger)
			info, err := acquirer.Preview(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title: %s\n", info.Title)
			fmt.Fprintf(out, "Duration: %s\n", formatSeconds(info.Duration))
			fmt.Fprintf(out, "Uploader: %s\n", info.Uploader)
			fmt.Fprintf(out, "Upload Date: %s\n", info.UploadDate)
			fmt.Fprintf(out, "Views: %d\n", info.ViewCount)
			if id, err := acquisition.ExtractVideoID(info.URL); err == nil {
				fmt.Fprintf(out, "Video ID: %s\n", id)
			}
			if desc := strings.TrimSpace(info.Description); desc != "" {
				fmt.Fprintf(out, "Description: %s\n", textutil.Truncate(desc, descriptionPreview))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
