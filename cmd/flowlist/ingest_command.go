package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
	"flowlist/internal/classify"
	"flowlist/internal/ingest"
	"flowlist/internal/orchestrator"
	"flowlist/internal/pipeline"
	"flowlist/internal/services/llm"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var batchSize int
	var parallel int

	cmd := &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Classify a brain dump (text) or import an exported archive (zip)",
		Long: "Reads task lines from a .txt/.md file or stdin (\"-\"), drops lines already on the board\n" +
			"or repeated in the input, and sorts the rest into folders. A .zip export is merged\n" +
			"into the board by folder name instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var in ingest.Input
			if args[0] == "-" {
				in, err = ingest.ReadText("stdin", cmd.InOrStdin())
			} else {
				in, err = ingest.ReadFile(args[0], ingest.ReadOptions{Ignore: cfg.Archive.Ignore, Logger: logger})
			}
			if err != nil {
				return err
			}

			if batchSize <= 0 {
				batchSize = cfg.Classification.BatchSize
			}
			if parallel <= 0 {
				parallel = cfg.Classification.Parallel
			}

			llmCfg := cfg.ClassificationLLM()
			classifier := classify.NewClient(
				llm.FromConfig(llmCfg, logger),
				classify.WithTemperature(llmCfg.Temperature),
				classify.WithLogger(logger),
			)
			orch := orchestrator.New(classifier,
				orchestrator.WithParallel(parallel),
				orchestrator.WithGroupDelay(cfg.GroupDelay()),
				orchestrator.WithLogger(logger),
			)

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out)

			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				p := pipeline.New(b, orch,
					pipeline.WithBatchSize(batchSize),
					pipeline.WithProgress(printer.update),
					pipeline.WithLogger(logger),
				)
				report := p.Ingest(cmd.Context(), in)
				printer.finish()
				printReport(cmd, report)
				if report.Status.Failed() {
					return fmt.Errorf("ingest: %s: %w", report.Status.Message(), report.Err)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Lines per classification request (default from config)")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Requests issued together (default from config)")
	return cmd
}

func printReport(cmd *cobra.Command, report pipeline.Report) {
	out := cmd.OutOrStdout()
	if report.Status == pipeline.StatusImported {
		fmt.Fprintf(out, "Imported archive: %d folder(s) now on the board\n", len(report.Result.Folders))
		if len(report.Created) > 0 {
			fmt.Fprintf(out, "New folders: %s\n", strings.Join(report.Created, ", "))
		}
		return
	}

	split := report.Split
	fmt.Fprintf(out, "Lines: %d new, %d already on the board, %d repeated\n",
		len(split.Lines), split.DroppedExisting, split.DroppedDuplicate)
	if report.Batches > 0 {
		fmt.Fprintf(out, "Batches: %d/%d classified, %d task(s) filed\n",
			report.Result.Completed, report.Batches, report.Result.Assigned)
	}
	if len(report.Result.NewBuckets) > 0 {
		fmt.Fprintf(out, "New folders: %s\n", strings.Join(report.Result.NewBuckets, ", "))
	}
	fmt.Fprintf(out, "Status: %s\n", report.Status.Message())
}
