package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
	"flowlist/internal/tasktree"
	"flowlist/internal/textutil"
)

const defaultSimilarity = 0.5

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var similar bool
	var threshold float64

	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"ls"},
		Short:   "List folders with tier and progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBoard(cmd.Context(), false, func(b *board.Board) error {
				folders := b.Folders()
				if jsonOut {
					return writeJSON(cmd, folders)
				}
				out := cmd.OutOrStdout()
				if len(folders) == 0 {
					fmt.Fprintln(out, "No folders yet. Run `flowlist ingest <file>` to get started.")
					return nil
				}
				fmt.Fprintln(out, renderFolders(folders))
				savedAt, saved, err := b.SavedAt(cmd.Context())
				if err != nil {
					return err
				}
				if saved {
					fmt.Fprintf(out, "Last saved %s\n", savedAt.Local().Format("2006-01-02 15:04:05"))
				}

				if similar {
					pairs := textutil.SimilarPairs(tasktree.Names(folders), threshold)
					if len(pairs) == 0 {
						fmt.Fprintln(out, "No similar folder names.")
						return nil
					}
					rows := make([][]string, 0, len(pairs))
					for _, p := range pairs {
						rows = append(rows, []string{p.A, p.B, strconv.FormatFloat(p.Score, 'f', 2, 64)})
					}
					fmt.Fprintln(out, renderTable([]string{"Folder", "Similar to", "Score"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight}))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print folders as JSON")
	cmd.Flags().BoolVar(&similar, "similar", false, "Also list folder names that look alike")
	cmd.Flags().Float64Var(&threshold, "threshold", defaultSimilarity, "Similarity threshold for --similar (0-1)")
	return cmd
}

func renderFolders(folders []tasktree.Folder) string {
	rows := make([][]string, 0, len(folders))
	var done, total int
	for _, f := range folders {
		d, n := f.Progress()
		done += d
		total += n
		rows = append(rows, []string{
			shortID(f.ID),
			tierLabel(f.Tier),
			truncate(f.Name, 40),
			strconv.Itoa(len(f.Tasks)),
			progressLabel(f),
			yesNo(f.Completed),
		})
	}
	return renderTable(
		[]string{"ID", "Tier", "Name", "Tasks", "Done", "Complete"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		"", "", fmt.Sprintf("%d folders", len(folders)), "", fmt.Sprintf("%d/%d", done, total), "",
	)
}
