package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printArgv shows a compiled invocation: as a JSON array including the
// binary, or as a shell-style line with whitespace-bearing tokens quoted.
func printArgv(cmd *cobra.Command, binary string, argv []string, asJSON bool) error {
	full := append([]string{binary}, argv...)
	if asJSON {
		return printJSON(cmd, full)
	}
	quoted := make([]string, len(full))
	for i, tok := range full {
		if strings.ContainsAny(tok, " \t\"") {
			quoted[i] = fmt.Sprintf("%q", tok)
		} else {
			quoted[i] = tok
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(quoted, " "))
	return nil
}
