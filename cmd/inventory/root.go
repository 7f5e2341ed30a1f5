package main

import (
	"fmt"

	"github.com/siudek-family/media-project/pkg/inventory/config"
	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "inventory",
		Short: "Write checksum manifests for media folders",
		Long: `Inventory walks a directory tree and records the checksum of every file
in JSON manifests.

Two layouts are supported:
  scan     one inventory.json inside every media folder; folders holding a
           no_media.json marker are skipped
  mirror   one <file>.json per source file, written into a separate target
           tree that mirrors the source layout; existing manifests are kept

Examples:
  inventory scan ~/Pictures              # Write inventory.json files
  inventory scan ~/Pictures --dry        # Preview without writing
  inventory mirror /photos /manifests    # Mirror manifests into /manifests
  inventory history                      # View past runs`,
		SilenceUsage: true,
	}

	// configErr is set by initConfig and reported by initializeLogging,
	// since cobra initializers cannot fail.
	configErr error

	// appConfig is the configuration of the running command.
	appConfig *config.Config
)

func init() {
	cobra.OnInitialize(initConfig)

	// Assigned here: the hooks print through rootCmd.
	rootCmd.PersistentPreRunE = initializeLogging
	rootCmd.PersistentPostRunE = closeLogging

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/inventory/config.yaml)")
	rootCmd.PersistentFlags().StringP("algorithm", "a", "", "digest algorithm: sha256 or blake3")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "directory patterns to skip (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-journal", false, "do not record this run in the history")

	bindFlags()
}

// bindFlags binds the persistent flags to viper keys.
func bindFlags() {
	_ = viper.BindPFlag("algorithm", rootCmd.PersistentFlags().Lookup("algorithm"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_journal", rootCmd.PersistentFlags().Lookup("no-journal"))
}

// initConfig reads in the config file. Environment variables are not a
// configuration source.
func initConfig() {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		config.AddConfigPaths(v)
	}
	config.SetDefaults(v)

	configErr = nil
	if cfgFile != "" {
		if err := v.ReadInConfig(); err != nil {
			configErr = fmt.Errorf("failed to read config file: %w", err)
		}
		return
	}
	configErr = config.Read(v)
}

// initializeLogging decodes the configuration and starts file logging.
// A log file that cannot be opened is reported but does not stop the command.
// Dry runs log to the console only, so they create nothing on disk.
func initializeLogging(cmd *cobra.Command, _ []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	appConfig = cfg

	logCfg, err := cfg.LogConfig()
	if err != nil {
		return err
	}
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}
	logCfg.NoFile = isDryRun(cmd)

	if err := logging.Init(logCfg); err != nil {
		printVerbose("File logging disabled: %v", err)
		return nil
	}
	logging.Get("cli").Debug("configuration loaded", "file", viper.ConfigFileUsed())
	return nil
}

// isDryRun reports whether cmd was invoked with --dry.
func isDryRun(cmd *cobra.Command) bool {
	dry, err := cmd.Flags().GetBool("dry")
	return err == nil && dry
}

func closeLogging(_ *cobra.Command, _ []string) error {
	return logging.Close()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(rootCmd.OutOrStdout(), format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: "+format+"\n", args...)
}

// currentConfig returns the loaded configuration, loading it directly when
// the command ran without the root pre-run hook.
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if cfgFile != "" {
		return config.LoadFile(cfgFile)
	}
	return config.Load()
}
