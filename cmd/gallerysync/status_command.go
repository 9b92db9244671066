package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gallerysync/internal/catalog"
	"gallerysync/internal/status"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			recorder := status.NewRecorder(cfg.StatusPath())
			doc, ok, err := recorder.Load()
			if err != nil {
				return err
			}
			if asJSON {
				if !ok {
					return writeJSON(cmd, map[string]any{"last_sync": nil})
				}
				return writeJSON(cmd, doc)
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "Never synced (no status document at %s)\n", recorder.Path())
				return nil
			}
			printStatus(out, doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw status document as JSON")
	return cmd
}

func printStatus(out io.Writer, doc status.Document) {
	fmt.Fprintf(out, "Last sync:          %s (%s ago)\n", doc.LastSync.Local().Format(time.DateTime), humanAge(time.Since(doc.LastSync)))
	fmt.Fprintf(out, "Categories synced:  %d\n", doc.CategoriesSynced)
	fmt.Fprintf(out, "Files updated:      %d\n", doc.FilesUpdated)
	fmt.Fprintf(out, "Forced:             %s\n", yesNo(doc.ForceSync))
	if doc.RunID != "" {
		fmt.Fprintf(out, "Run ID:             %s\n", doc.RunID)
	}
	if len(doc.Categories) == 0 {
		return
	}

	names := make([]string, 0, len(doc.Categories))
	for name := range doc.Categories {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		counts := doc.Categories[name]
		rows = append(rows, []string{
			catalog.DisplayName(name),
			strconv.Itoa(counts.Updated),
			strconv.Itoa(counts.Unchanged),
			strconv.Itoa(counts.Failed),
			strconv.Itoa(counts.Removed),
			yesNo(counts.Skipped),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Category", "Updated", "Unchanged", "Failed", "Removed", "Skipped"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
}
