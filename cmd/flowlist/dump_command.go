package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
)

func newDumpCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the stored folder snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (use json or yaml)", format)
			}
			return ctx.withBoard(cmd.Context(), false, func(b *board.Board) error {
				folders := b.Folders()
				if format == "yaml" {
					return writeYAML(cmd, folders)
				}
				return writeJSON(cmd, folders)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
