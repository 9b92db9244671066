package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"gallerysync/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify credentials, folder id and gallery directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunLocal(cfg)
			if remote && preflight.AllPassed(results) {
				logger, err := ctx.ensureLogger()
				if err != nil {
					return err
				}
				reader, err := ctx.catalogReader(cmd.Context(), cfg, logger)
				if err != nil {
					results = append(results, preflight.Result{Name: "Drive connection", Detail: err.Error()})
				} else {
					results = preflight.RunAll(cmd.Context(), cfg, reader)
				}
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Setup", colorize) {
				fmt.Fprintln(out, line)
			}
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			if !remote {
				fmt.Fprintln(out, renderStatusLine("Drive connection", statusInfo, "not checked (use --remote)", colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d %s failed", failed, plural(failed, "check", "checks"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "Also connect to Drive and list category folders")
	return cmd
}

// shouldColorize reports whether out is an interactive terminal.
func shouldColorize(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
