package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"gallerysync/internal/catalog"
	"gallerysync/internal/gallery"
	"gallerysync/internal/imagenorm"
	"gallerysync/internal/logging"
	"gallerysync/internal/runlock"
	"gallerysync/internal/status"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror Drive category folders into the local gallery",
		Long: "Download images from the recognized category folders, normalize them to JPEG,\n" +
			"write only files whose content changed, and remove local images that no longer\n" +
			"exist remotely. A summary is written to the status document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if force {
				cfg.Gallery.Force = true
			}
			if err := cfg.ValidateRemote(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			lock, err := runlock.Acquire(cfg.LockPath())
			if err != nil {
				if errors.Is(err, runlock.ErrLocked) {
					return fmt.Errorf("another sync is already running against %s", cfg.Gallery.Root)
				}
				return err
			}
			defer lock.Release()

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Logging.Dir, "gallerysync*.log", cfg.LogPath())

			reader, err := ctx.catalogReader(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			engine := gallery.New(reader, status.NewRecorder(cfg.StatusPath()), gallery.Options{
				RootID:      cfg.Drive.RootFolderID,
				GalleryRoot: cfg.Gallery.Root,
				Force:       cfg.Gallery.Force,
				Prune:       cfg.Gallery.Prune,
				Normalize: imagenorm.Options{
					MaxWidth: cfg.Gallery.MaxWidth,
					Quality:  cfg.Gallery.JPEGQuality,
				},
			}, logger)

			run, err := engine.Run(cmd.Context())
			if err != nil {
				return err
			}
			printSyncSummary(cmd.OutOrStdout(), run)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rewrite every image even when its content is unchanged")
	return cmd
}

func printSyncSummary(out io.Writer, run *gallery.Run) {
	if run == nil {
		return
	}
	if len(run.Categories) > 0 {
		rows := make([][]string, 0, len(run.Categories))
		for _, c := range run.Categories {
			state := "synced"
			if c.Skipped {
				state = "skipped"
			}
			rows = append(rows, []string{
				catalog.DisplayName(c.Name),
				strconv.Itoa(c.Updated),
				strconv.Itoa(c.Unchanged),
				strconv.Itoa(c.Failed),
				strconv.Itoa(c.Removed),
				state,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Category", "Updated", "Unchanged", "Failed", "Removed", "State"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
		))
	}
	mode := ""
	if run.Force {
		mode = " (forced)"
	}
	fmt.Fprintf(out, "Synced %d %s, %d %s updated%s\n",
		run.CategoriesFound, plural(run.CategoriesFound, "category", "categories"),
		run.FilesUpdated(), plural(run.FilesUpdated(), "file", "files"),
		mode,
	)
}
