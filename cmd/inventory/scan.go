package main

import (
	"github.com/siudek-family/media-project/pkg/inventory/journal"
	"github.com/siudek-family/media-project/pkg/inventory/walker"
	"github.com/spf13/cobra"
)

var scanDry bool

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Write inventory.json into every media folder",
	Long: `Scan walks directory and writes an inventory.json file into every folder
that does not hold a no_media.json marker. Each inventory lists the folder's
files with their checksums. Existing inventories are replaced.

The marker only exempts its own folder; subfolders are still scanned unless
they carry their own marker.`,
	Example: `  inventory scan ~/Pictures
  inventory scan ~/Pictures --dry`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanDry, "dry", false, "print what would be written without writing")
	rootCmd.AddCommand(scanCmd)
}

// runScan is the single-manifest command handler.
func runScan(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		printUsageHint(cmd)
		return nil
	}

	root, err := resolveDir(args[0])
	if err != nil {
		return err
	}
	if !isDir(root) {
		printError("Directory does not exist: %s", root)
		printUsageHint(cmd)
		return nil
	}

	_, err = runWalk(cmd, journal.OpScan, walker.Options{
		Root: root,
		Dry:  scanDry,
	})
	return err
}
