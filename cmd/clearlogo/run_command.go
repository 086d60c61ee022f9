package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"clearlogo/internal/history"
	"clearlogo/internal/locations"
	"clearlogo/internal/logging"
	"clearlogo/internal/plex"
	"clearlogo/internal/runlock"
	"clearlogo/internal/uploader"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var verbose, uploadAll, dryRun, clearMapping bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan Plex libraries and upload clear logos from the local mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lock, err := runlock.Acquire(cfg.LockFilePath())
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			client := plex.NewHTTPClient(cfg.Plex.URL, cfg.Plex.Token, cfg.PlexTimeout(), nil)

			identity, err := client.Identity(runCtx)
			if err != nil {
				return fmt.Errorf("connect to plex server at %s: %w", cfg.Plex.URL, err)
			}
			fmt.Fprintf(out, "Connected to Plex server: %s (version %s)\n", identity.FriendlyName, identity.Version)

			sections, err := client.Sections(runCtx)
			if err != nil {
				return fmt.Errorf("fetch library sections: %w", err)
			}

			lmap := locations.NewMap(cfg.Paths.MappingFile, logger)
			if clearMapping {
				if err := lmap.Clear(); err != nil {
					return fmt.Errorf("clear mapping: %w", err)
				}
				fmt.Fprintf(out, "Cleared mapping file %s\n", cfg.Paths.MappingFile)
			}

			found, err := lmap.Load()
			if err != nil {
				return err
			}
			if found {
				fmt.Fprintf(out, "Loaded %d location mappings from %s\n", lmap.Len(), cfg.Paths.MappingFile)
			}
			if err := bootstrapMapping(lmap, sections, cmd.InOrStdin(), out); err != nil {
				return err
			}

			opts := uploader.Options{
				Verbose:   verbose,
				UploadAll: uploadAll,
				DryRun:    dryRun,
				Delay:     cfg.UploadDelay(),
			}
			orchestrator := uploader.New(client, lmap, opts, logger)
			orchestrator.SetOutput(out)

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				// History is informational; run without it rather than abort.
				logger.Warn("history database unavailable", logging.Error(err))
			} else {
				defer func() { _ = store.Close() }()
			}

			var runID string
			if store != nil {
				runID, err = store.BeginRun(runCtx, dryRun, uploadAll)
				if err != nil {
					logger.Warn("failed to record run start", logging.Error(err))
					runID = ""
				}
				if runID != "" && !dryRun {
					orchestrator.SetRecorder(&historyRecorder{store: store, runID: runID})
				}
			}

			stats, runErr := orchestrator.Run(runCtx, sections)

			if store != nil && runID != "" {
				if err := store.FinishRun(context.WithoutCancel(runCtx), runID, stats.Scanned, stats.Matched, stats.Uploaded); err != nil {
					logger.Warn("failed to record run end", logging.Error(err))
				}
			}

			printSummary(out, stats, dryRun)
			return runErr
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Per-item diagnostics instead of a progress indicator")
	cmd.Flags().BoolVarP(&uploadAll, "all", "a", false, "Upload for every item, ignoring existing logos")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Perform discovery and matching without uploading")
	cmd.Flags().BoolVar(&clearMapping, "clear-mapping", false, "Delete the persisted mapping file before bootstrapping")

	return cmd
}

// bootstrapMapping asks for a local folder for every unmapped storage
// location across the supported sections. It runs entirely before the batch
// loop, so the upload phase never blocks on input.
func bootstrapMapping(lmap *locations.Map, sections []plex.Section, in io.Reader, out io.Writer) error {
	var prefixes []string
	for _, section := range sections {
		if !section.Type.Supported() {
			continue
		}
		prefixes = append(prefixes, section.Locations...)
	}

	reader := bufio.NewReader(in)
	asked := false
	prompt := func(prefix string) (string, error) {
		if !asked {
			fmt.Fprintln(out, "Enter the local folder corresponding to each Plex library location:")
			asked = true
		}
		fmt.Fprintf(out, "Plex location: %s\n", prefix)
		fmt.Fprint(out, "  local folder path: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	result, err := lmap.Bootstrap(prefixes, prompt)
	if err != nil {
		return fmt.Errorf("bootstrap mapping: %w", err)
	}
	for _, prefix := range result.Unresolved {
		fmt.Fprintf(out, "Skipping %s: invalid local folder (rerun with --clear-mapping to retry)\n", prefix)
	}
	return nil
}

func printSummary(out io.Writer, stats uploader.Statistics, dryRun bool) {
	rows := [][]string{
		{"Items scanned", strconv.Itoa(stats.Scanned)},
		{"Items with a logo file", strconv.Itoa(stats.Matched)},
		{"Logos uploaded", strconv.Itoa(stats.Uploaded)},
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Summary", "Count"}, rows, 2))
	if dryRun {
		fmt.Fprintln(out, "No changes made (dry run)")
	} else {
		fmt.Fprintln(out, "All applicable logos uploaded")
	}
}

// historyRecorder adapts the history store to the orchestrator's Recorder.
type historyRecorder struct {
	store *history.Store
	runID string
}

func (h *historyRecorder) RecordUpload(ctx context.Context, ratingKey, title, logoPath string) error {
	return h.store.RecordUpload(ctx, h.runID, ratingKey, title, logoPath)
}
