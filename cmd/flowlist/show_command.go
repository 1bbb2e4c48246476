package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
	"flowlist/internal/tasktree"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var showNotes bool

	cmd := &cobra.Command{
		Use:   "show <folder>",
		Short: "Print a folder's task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBoard(cmd.Context(), false, func(b *board.Board) error {
				folder, ok := b.Folder(args[0])
				if !ok {
					return fmt.Errorf("folder %q not found", args[0])
				}
				if jsonOut {
					return writeJSON(cmd, folder)
				}
				printFolder(cmd.OutOrStdout(), folder, showNotes)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the folder as JSON")
	cmd.Flags().BoolVar(&showNotes, "notes", true, "Show milestone notes")
	return cmd
}

func printFolder(out io.Writer, f tasktree.Folder, showNotes bool) {
	done, total := f.Progress()
	fmt.Fprintf(out, "%s  [%s]  %d/%d done  (%s)\n", f.Name, tierLabel(f.Tier), done, total, shortID(f.ID))
	if len(f.Tasks) == 0 {
		fmt.Fprintln(out, "  (empty)")
		return
	}
	tasktree.Walk(f.Tasks, func(n tasktree.Node, depth int) bool {
		indent := strings.Repeat("  ", depth+1)
		box := "[ ]"
		if n.Completed {
			box = "[x]"
		}
		fmt.Fprintf(out, "%s%s %s  (%s)\n", indent, box, n.Text, shortID(n.ID))
		if showNotes && n.IsMilestone() && n.Note != "" {
			fmt.Fprintf(out, "%s    why: %s\n", indent, n.Note)
		}
		return true
	})
}
