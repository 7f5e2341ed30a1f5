package main

import (
	"fmt"
	"os"

	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/walker"
	"github.com/spf13/cobra"
)

var mirrorDry bool

var mirrorCmd = &cobra.Command{
	Use:   "mirror <source> <target>",
	Short: "Write one manifest per file into a mirrored target tree",
	Long: `Mirror walks source and, for every folder holding at least one file,
writes <target>/<relative folder>/<file>.json for each of its files. The
source tree is never modified.

Manifests that already exist in the target are left untouched, so re-running
only fills in what is missing. Changed files are not detected.`,
	Example: `  inventory mirror /mnt/photos /mnt/manifests
  inventory mirror /mnt/photos /mnt/manifests --dry`,
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().BoolVar(&mirrorDry, "dry", false, "print what would be written without writing")
	rootCmd.AddCommand(mirrorCmd)
}

// runMirror is the mirrored command handler.
func runMirror(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		printUsageHint(cmd)
		return nil
	}

	source, err := resolveDir(args[0])
	if err != nil {
		return err
	}
	target, err := resolveDir(args[1])
	if err != nil {
		return err
	}

	if !isDir(source) {
		printError("Source directory does not exist: %s", source)
		printUsageHint(cmd)
		return nil
	}

	if !mirrorDry {
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create target directory: %w", err)
		}
	}

	_, err = runWalk(cmd, journal.OpMirror, walker.Options{
		Root:   source,
		Target: target,
		Dry:    mirrorDry,
	})
	return err
}
