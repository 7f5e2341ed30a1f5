package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/siudek-family/media-project/pkg/inventory/config"
	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage inventory configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/inventory/config.yaml (if set)
  2. ~/.config/inventory/config.yaml

Command-line flags override the file. Environment variables are not read.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration in effect, after flags are applied.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := currentConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	if configFile := viper.ConfigFileUsed(); configFile != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = logging.DefaultLogPath()
	}

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "algorithm:                %s\n", cfg.Algorithm)
	fmt.Fprintf(out, "chunk_size:               %s\n", cfg.ChunkSize)
	fmt.Fprintf(out, "exclude:                  %s\n", strings.Join(cfg.Exclude, ", "))
	fmt.Fprintf(out, "journal.enabled:          %t\n", cfg.Journal.Enabled)
	fmt.Fprintf(out, "journal.path:             %s\n", cfg.JournalPath())
	fmt.Fprintf(out, "journal.retention_days:   %d\n", cfg.Journal.RetentionDays)
	fmt.Fprintf(out, "logging.level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "logging.path:             %s\n", logPath)
	fmt.Fprintf(out, "logging.rotation:         %s, %d backups\n",
		cfg.Logging.Rotation.MaxSize, cfg.Logging.Rotation.MaxBackups)
	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	path, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !created {
		printInfo("Config file already exists: %s", path)
		return nil
	}
	printInfo("Created default config file: %s", path)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if cfgFile != "" {
		path = cfgFile
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)

	if _, err := os.Stat(path); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}
	return nil
}
