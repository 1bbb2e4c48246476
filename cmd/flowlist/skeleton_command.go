package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"flowlist/internal/archive"
	"flowlist/internal/board"
)

func newSkeletonCommand(ctx *commandContext) *cobra.Command {
	var output string
	var fromBoard bool

	cmd := &cobra.Command{
		Use:   "skeleton [structure.yaml|-]",
		Short: "Write an empty folder layout as a zip, one placeholder task per folder",
		Long: "Reads a YAML map of tier to folder names, for example:\n\n" +
			"  S: [Taxes]\n  B: [Garden, Reading]\n  unrated: [Someday]\n\n" +
			"With --from-board the layout is taken from the current board instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var structure archive.Structure
			switch {
			case fromBoard && len(args) > 0:
				return fmt.Errorf("pass a structure file or --from-board, not both")
			case fromBoard:
				err = ctx.withBoard(cmd.Context(), false, func(b *board.Board) error {
					structure = archive.StructureOf(b.Folders())
					return nil
				})
			case len(args) == 1:
				structure, err = loadStructure(cmd, args[0])
			default:
				return fmt.Errorf("a structure file is required (or --from-board)")
			}
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := archive.WriteSkeleton(&buf, structure, archiveWriteOptions(cfg)); err != nil {
				return fmt.Errorf("skeleton: %w", err)
			}
			target, err := exportTarget(cfg, output)
			if err != nil {
				return err
			}
			if _, err := writeOutput(cmd, target, buf.Bytes()); err != nil {
				return err
			}
			if target != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote skeleton with %d folder(s) to %s\n", len(structure.Folders()), target)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination zip (\"-\" for stdout; default: export_dir)")
	cmd.Flags().BoolVar(&fromBoard, "from-board", false, "Use the current board's folders and tiers")
	return cmd
}

func loadStructure(cmd *cobra.Command, path string) (archive.Structure, error) {
	var r io.Reader
	if strings.TrimSpace(path) == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open structure: %w", err)
		}
		defer file.Close()
		r = file
	}
	structure, err := archive.LoadStructure(r)
	if err != nil {
		return nil, fmt.Errorf("load structure: %w", err)
	}
	return structure, nil
}
