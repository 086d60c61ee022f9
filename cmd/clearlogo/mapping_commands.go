package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clearlogo/internal/locations"
)

func newMappingCommand(ctx *commandContext) *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:   "mapping",
		Short: "Inspect or reset the location mapping",
	}

	mappingCmd.AddCommand(newMappingListCommand(ctx))
	mappingCmd.AddCommand(newMappingClearCommand(ctx))

	return mappingCmd
}

func newMappingListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted location mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lmap := locations.NewMap(cfg.Paths.MappingFile, nil)
			found, err := lmap.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !found || lmap.Len() == 0 {
				fmt.Fprintf(out, "No mappings stored at %s\n", cfg.Paths.MappingFile)
				return nil
			}

			rows := make([][]string, 0, lmap.Len())
			for _, entry := range lmap.Entries() {
				rows = append(rows, []string{entry.Prefix, entry.Root})
			}
			fmt.Fprintln(out, renderTable([]string{"Plex Location", "Local Folder"}, rows))
			return nil
		},
	}
}

func newMappingClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted mapping file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lmap := locations.NewMap(cfg.Paths.MappingFile, nil)
			if err := lmap.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s; the next run will prompt for all locations\n", cfg.Paths.MappingFile)
			return nil
		},
	}
}
