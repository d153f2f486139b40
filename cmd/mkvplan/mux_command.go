package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mkvplan/internal/compile"
	"mkvplan/internal/plan"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "mux <plan.json>",
		Short: "Compile a mux plan and run mkvmerge",
		Long: `Compile a declarative mux plan into an mkvmerge invocation and run it.

With --dry-run the compiled argument list is printed instead of executed,
which is useful for inspecting what a plan resolves to.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}

			provider, cleanup, err := ctx.newProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			argv, err := compile.MuxPlan(cmd.Context(), p, provider)
			if err != nil {
				return err
			}

			if dryRun || jsonOutput {
				return printArgv(cmd, cfg.Tools.Mkvmerge, argv, jsonOutput)
			}
			return ctx.newRunner(cfg, logger).Mux(cmd.Context(), argv)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the compiled arguments instead of running mkvmerge")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the compiled arguments as JSON (implies --dry-run)")
	return cmd
}
