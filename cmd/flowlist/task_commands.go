package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
	"flowlist/internal/tasktree"
)

var errFolderNotFound = errors.New("folder not found")

func resolveNode(b *board.Board, folderRef, nodeRef string) (tasktree.Folder, tasktree.Node, error) {
	folder, ok := b.Folder(folderRef)
	if !ok {
		return tasktree.Folder{}, tasktree.Node{}, fmt.Errorf("%w: %s", errFolderNotFound, folderRef)
	}
	node, ok := tasktree.ResolveID(folder.Tasks, nodeRef)
	if !ok {
		return tasktree.Folder{}, tasktree.Node{}, fmt.Errorf("task %q not found in %s (use a full id or a unique prefix)", nodeRef, folder.Name)
	}
	return folder, node, nil
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var under string
	var create bool

	cmd := &cobra.Command{
		Use:   "add <folder> <text...>",
		Short: "Add a task to a folder, or a subtask with --under",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				out := cmd.OutOrStdout()
				if under != "" {
					folder, node, err := resolveNode(b, args[0], under)
					if err != nil {
						return err
					}
					if _, err := b.AddSubtask(cmd.Context(), folder.ID, node.ID, text); err != nil {
						return err
					}
					fmt.Fprintf(out, "Added subtask under %q in %s\n", node.Text, folder.Name)
					return nil
				}
				ok, err := b.AddTask(cmd.Context(), args[0], text, create)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s (pass --create to make it)", errFolderNotFound, args[0])
				}
				fmt.Fprintf(out, "Added task to %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&under, "under", "", "Parent task id (or unique prefix)")
	cmd.Flags().BoolVar(&create, "create", false, "Create the folder if it does not exist")
	return cmd
}

func newToggleCommand(ctx *commandContext) *cobra.Command {
	var done bool
	var undone bool

	cmd := &cobra.Command{
		Use:   "toggle <folder> <task>",
		Short: "Flip a task's completion; marking done also completes its subtasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if done && undone {
				return errors.New("--done and --undone are mutually exclusive")
			}
			var explicit *bool
			switch {
			case done:
				explicit = new(true)
			case undone:
				explicit = new(false)
			}
			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				folder, node, err := resolveNode(b, args[0], args[1])
				if err != nil {
					return err
				}
				if _, err := b.Toggle(cmd.Context(), folder.ID, node.ID, explicit); err != nil {
					return err
				}
				updated, _ := b.Folder(folder.ID)
				current, _ := tasktree.Find(updated.Tasks, node.ID)
				state := "open"
				if current.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", current.Text, state, progressLabel(updated))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&done, "done", false, "Mark done instead of flipping")
	cmd.Flags().BoolVar(&undone, "undone", false, "Mark open instead of flipping")
	return cmd
}

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "complete <folder>",
		Short: "Mark every task in a folder done (or open with --undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return folderMutation(ctx, cmd, args[0], func(b *board.Board) (bool, error) {
				return b.SetFolderCompleted(cmd.Context(), args[0], !undo)
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Reopen every task instead")
	return cmd
}

func newTierCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tier <folder> <S|A|B|C|D|F|unrated>",
		Short: "Set a folder's tier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := tasktree.ParseTier(args[1])
			if err != nil {
				return err
			}
			return folderMutation(ctx, cmd, args[0], func(b *board.Board) (bool, error) {
				return b.SetTier(cmd.Context(), args[0], tier)
			})
		},
	}
}

func newExpandCommand(ctx *commandContext) *cobra.Command {
	var collapse bool

	cmd := &cobra.Command{
		Use:   "expand <folder>",
		Short: "Mark a folder expanded (or collapsed) in saved views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return folderMutation(ctx, cmd, args[0], func(b *board.Board) (bool, error) {
				return b.SetExpanded(cmd.Context(), args[0], !collapse)
			})
		},
	}

	cmd.Flags().BoolVar(&collapse, "collapse", false, "Collapse instead")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <folder>",
		Aliases: []string{"rm"},
		Short:   "Delete a folder and all its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
				ok, err := b.RemoveFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%w: %s", errFolderNotFound, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

// folderMutation runs fn under the lock and prints the folder afterwards.
func folderMutation(ctx *commandContext, cmd *cobra.Command, ref string, fn func(*board.Board) (bool, error)) error {
	return ctx.withBoard(cmd.Context(), true, func(b *board.Board) error {
		ok, err := fn(b)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", errFolderNotFound, ref)
		}
		folder, _ := b.Folder(ref)
		fmt.Fprintf(cmd.OutOrStdout(), "%s  tier=%s  complete=%s  expanded=%s  %s done\n",
			folder.Name, tierLabel(folder.Tier), yesNo(folder.Completed), yesNo(folder.Expanded), progressLabel(folder))
		return nil
	})
}
