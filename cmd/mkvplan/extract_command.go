package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mkvplan/internal/compile"
	"mkvplan/internal/plan"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "extract <plan.json>",
		Short: "Compile an extraction plan and run mkvextract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			xp, err := plan.LoadExtract(args[0])
			if err != nil {
				return err
			}

			provider, cleanup, err := ctx.newProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			argv, err := compile.Extract(cmd.Context(), xp, provider)
			if err != nil {
				return err
			}

			if dryRun || jsonOutput {
				return printArgv(cmd, cfg.Tools.Mkvextract, argv, jsonOutput)
			}
			return ctx.newRunner(cfg, logger).Extract(cmd.Context(), argv)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the compiled arguments instead of running mkvextract")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the compiled arguments as JSON (implies --dry-run)")
	return cmd
}
