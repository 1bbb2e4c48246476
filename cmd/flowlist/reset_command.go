package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every folder and task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset deletes the whole board; pass --yes to confirm")
			}
			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				count := len(b.Names())
				if err := b.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d folder(s)\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
