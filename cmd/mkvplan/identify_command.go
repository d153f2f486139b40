package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mkvplan/internal/identify"
	"mkvplan/internal/language"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Show container and track metadata for a Matroska file",
		Long: `Identify a media file with mkvmerge and show its container and tracks.

Track ids shown here are the physical ids that plan documents reference.`,
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

			client := identify.NewClient(cfg.Tools.Mkvmerge, logger)
			result, err := client.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:      %s\n", result.FileName)
			fmt.Fprintf(out, "Container: %s (recognized=%t supported=%t)\n",
				result.ContainerType, result.Recognized, result.Supported)
			if result.Attachments > 0 || result.Chapters > 0 {
				fmt.Fprintf(out, "Extras:    %d attachments, %d chapter editions\n",
					result.Attachments, result.Chapters)
			}

			if len(result.Tracks) == 0 {
				fmt.Fprintln(out, "No tracks.")
				return nil
			}

			rows := make([][]string, 0, len(result.Tracks))
			for _, trk := range result.Tracks {
				lang := trk.Language
				if lang == "" {
					lang = "und"
				} else if name := language.DisplayName(lang); !strings.EqualFold(name, lang) {
					lang = fmt.Sprintf("%s (%s)", lang, name)
				}
				rows = append(rows, []string{
					strconv.Itoa(trk.ID), trk.Type, trk.Codec, lang,
				})
			}
			fmt.Fprintln(out, renderTrackTable(
				[]string{"ID", "Type", "Codec", "Language"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the identify result as JSON")
	return cmd
}

// renderTrackTable picks a bordered table on a terminal and plain
// tab-separated lines when output is redirected.
func renderTrackTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	if stdoutIsTerminal() {
		return renderTable(headers, rows, aligns)
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, "\t"))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}
