package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"clearlogo/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent upload runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return fmt.Errorf("open history database: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					runMode(run),
					strconv.Itoa(run.Scanned),
					strconv.Itoa(run.Matched),
					strconv.Itoa(run.Uploaded),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Mode", "Scanned", "Matched", "Uploaded"},
				rows, 3, 4, 5))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	return cmd
}

func runMode(run history.RunRecord) string {
	switch {
	case run.DryRun && run.UploadAll:
		return "dry-run, all"
	case run.DryRun:
		return "dry-run"
	case run.UploadAll:
		return "all"
	default:
		return "normal"
	}
}
