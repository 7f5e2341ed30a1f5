// Package config provides configuration management for the inventory tool.
package config

// Default configuration values.
const (
	// AppName names the configuration and state directories.
	AppName = "inventory"

	// DefaultAlgorithm is the digest used when none is configured.
	DefaultAlgorithm = "sha256"

	// DefaultChunkSize is the read size used while hashing.
	DefaultChunkSize = "64KiB"

	// DefaultRetentionDays is the number of days journal records are kept.
	DefaultRetentionDays = 90

	// DefaultLogLevel is the file log level.
	DefaultLogLevel = "info"

	// DefaultLogMaxSize is the size at which the log file rotates.
	DefaultLogMaxSize = "10MiB"

	// DefaultLogMaxBackups is the number of rotated log files kept.
	DefaultLogMaxBackups = 5
)

// DefaultExclusions are directory patterns never worth inventorying.
var DefaultExclusions = []string{
	".git",
	"@eaDir",
	".Trashes",
}
