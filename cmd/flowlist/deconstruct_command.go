package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowlist/internal/archive"
	"flowlist/internal/board"
	"flowlist/internal/deconstruct"
	"flowlist/internal/services/llm"
)

func newDeconstructCommand(ctx *commandContext) *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "deconstruct <folder> <task>",
		Short: "Break a task into milestones and first steps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if maxSteps <= 0 {
				maxSteps = cfg.Deconstruction.MaxSteps
			}

			llmCfg := cfg.DeconstructionLLM()
			client := deconstruct.NewClient(
				llm.FromConfig(llmCfg, logger),
				deconstruct.WithTemperature(llmCfg.Temperature),
				deconstruct.WithLogger(logger),
			)

			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				nodes, err := deconstruct.NewExpander(client, b, maxSteps, logger).Expand(cmd.Context(), args[0], args[1])
				if err != nil {
					return fmt.Errorf("deconstruct: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added %d milestone(s):\n", len(nodes))
				fmt.Fprint(out, archive.FormatTasks(nodes))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Steps kept per milestone (default from config)")
	return cmd
}
