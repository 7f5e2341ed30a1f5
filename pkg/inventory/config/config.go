package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/siudek-family/media-project/pkg/inventory/checksum"
	"github.com/siudek-family/media-project/pkg/inventory/logging"
	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// JournalConfig configures the run journal.
type JournalConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Algorithm string        `mapstructure:"algorithm"`
	ChunkSize string        `mapstructure:"chunk_size"`
	Exclude   []string      `mapstructure:"exclude"`
	Journal   JournalConfig `mapstructure:"journal"`
	Logging   LoggingConfig `mapstructure:"logging"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("algorithm", DefaultAlgorithm)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("exclude", DefaultExclusions)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.path", "") // Empty means JournalDir()
	v.SetDefault("journal.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "") // Empty means logging.DefaultLogPath()
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
}

// AddConfigPaths points v at config.yaml in the search locations, in order
// of precedence:
//   - $XDG_CONFIG_HOME/inventory/config.yaml
//   - $HOME/.config/inventory/config.yaml
func AddConfigPaths(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))
	}
}

// Read reads the config file v points at. A missing file is not an error.
func Read(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load loads configuration from the default config file locations.
// Environment variables are not consulted.
func Load() (*Config, error) {
	v := viper.New()
	AddConfigPaths(v)
	SetDefaults(v)
	if err := Read(v); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// LoadFile loads configuration from path, which must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	SetDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromViper(v)
}

// FromViper decodes the settings held by v, flags bound to it included,
// and validates them.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Journal.Path, err = ExpandPath(cfg.Journal.Path); err != nil {
		return nil, err
	}
	if cfg.Logging.Path, err = ExpandPath(cfg.Logging.Path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that are parsed later.
func (c *Config) Validate() error {
	if _, err := checksum.ParseAlgorithm(c.Algorithm); err != nil {
		return fmt.Errorf("algorithm: %w", err)
	}
	if _, err := c.ChunkBytes(); err != nil {
		return err
	}
	if c.Logging.Level != "" {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("logging.level: %w", err)
		}
	}
	return nil
}

// ChunkBytes returns the hashing chunk size in bytes.
func (c *Config) ChunkBytes() (int, error) {
	if c.ChunkSize == "" {
		return checksum.DefaultChunkSize, nil
	}
	n, err := types.ParseSize(c.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("chunk_size: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("chunk_size: %w: must be positive", types.ErrInvalidSize)
	}
	return int(n), nil
}

// Engine returns the checksum engine the configuration selects.
func (c *Config) Engine() (*checksum.Engine, error) {
	alg, err := checksum.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	chunk, err := c.ChunkBytes()
	if err != nil {
		return nil, err
	}
	return checksum.New(alg, chunk), nil
}

// JournalPath returns the configured journal directory or the default.
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return JournalDir()
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() (logging.Config, error) {
	rotation := logging.DefaultRotationConfig()
	if c.Logging.Rotation.MaxSize != "" {
		size, err := types.ParseSize(c.Logging.Rotation.MaxSize)
		if err != nil {
			return logging.Config{}, fmt.Errorf("logging.rotation.max_size: %w", err)
		}
		rotation.MaxSize = size
	}
	if c.Logging.Rotation.MaxBackups > 0 {
		rotation.MaxBackups = c.Logging.Rotation.MaxBackups
	}

	level := c.Logging.Level
	if level == "" {
		level = DefaultLogLevel
	}
	return logging.Config{
		Level:      level,
		Path:       c.Logging.Path,
		Rotation:   rotation,
		Components: c.Logging.Components,
	}, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// StateDir returns $XDG_STATE_HOME/inventory/ for the log and the journal.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// JournalDir returns the default journal directory.
func JournalDir() string {
	return filepath.Join(StateDir(), "journal")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}

// WriteDefault writes a commented default config file unless one exists.
// It returns the path and whether the file was created.
func WriteDefault() (string, bool, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	content := fmt.Sprintf(`# Media inventory configuration

# Digest algorithm: sha256 or blake3
algorithm: %s

# Read size used while hashing
chunk_size: %s

# Directory patterns skipped together with their subtrees.
# A pattern matches a directory's name or its path relative to the walk root.
exclude:
  - .git
  - "@eaDir"
  - .Trashes

# Run journal (inventory history)
journal:
  enabled: true
  # Empty means $XDG_STATE_HOME/inventory/journal
  path: ""
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: %s
  # Empty means $XDG_STATE_HOME/inventory/inventory.log
  path: ""
  rotation:
    max_size: %s
    max_backups: %d
`, DefaultAlgorithm, DefaultChunkSize, DefaultRetentionDays, DefaultLogLevel, DefaultLogMaxSize, DefaultLogMaxBackups)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}
	return path, true, nil
}
