package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowlist/internal/archive"
	"flowlist/internal/board"
	"flowlist/internal/config"
	"flowlist/internal/fileutil"
	"flowlist/internal/tasktree"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as a zip of per-folder text files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var folders []tasktree.Folder
			if err := ctx.withBoard(cmd.Context(), false, func(b *board.Board) error {
				folders = b.Folders()
				return nil
			}); err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := archive.Write(&buf, folders, archiveWriteOptions(cfg)); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			target, err := exportTarget(cfg, output)
			if err != nil {
				return err
			}
			written, err := writeOutput(cmd, target, buf.Bytes())
			if err != nil {
				return err
			}
			if target != "-" {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Exported %d folder(s) to %s\n", len(folders), target)
				fmt.Fprintf(out, "sha256 %s  (%d bytes)\n", written.SHA256, written.Bytes)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination zip (\"-\" for stdout; default: export_dir)")
	return cmd
}

func archiveWriteOptions(cfg *config.Config) archive.WriteOptions {
	return archive.WriteOptions{
		UnsortedDir:   cfg.Archive.UnsortedDir,
		IncludeCounts: cfg.Archive.IncludeCounts,
	}
}

func exportTarget(cfg *config.Config, output string) (string, error) {
	output = strings.TrimSpace(output)
	if output == "-" {
		return output, nil
	}
	if output == "" {
		name := fmt.Sprintf("flowlist-%s.zip", time.Now().Format("20060102-150405"))
		return filepath.Join(cfg.Paths.ExportDir, name), nil
	}
	expanded, err := config.ExpandPath(output)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return expanded, nil
}

// writeOutput writes data to target, or to stdout when target is "-".
func writeOutput(cmd *cobra.Command, target string, data []byte) (fileutil.Written, error) {
	if target == "-" {
		n, err := io.Copy(cmd.OutOrStdout(), bytes.NewReader(data))
		return fileutil.Written{Path: target, Bytes: n}, err
	}
	return fileutil.WriteAtomic(target, bytes.NewReader(data), 0o644)
}
