package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gallerysync/internal/catalog"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List category folders found in Drive with their image counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			reader, err := ctx.catalogReader(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			found, err := reader.ListCategories(cmd.Context(), cfg.Drive.RootFolderID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No category folders found under %s\n", cfg.Drive.RootFolderID)
				fmt.Fprintf(out, "Expected folders named: %s\n", joinDisplayNames(cfg.Gallery.Categories))
				return nil
			}

			rows := [][]string{}
			for _, category := range catalog.Sorted(found) {
				count := "error"
				assets, err := reader.ListAssets(cmd.Context(), category.FolderID)
				if err == nil {
					count = strconv.Itoa(len(assets))
				} else if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				rows = append(rows, []string{catalog.DisplayName(category.Name), category.FolderID, count})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Category", "Folder ID", "Images"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
