// Package config carries the service configuration for the query
// server and CLI, loaded from YAML with sensible defaults when no file
// is given.
package config

// Config is the root configuration.
type Config struct {
	// Listen is the HTTP listen address of the query server.
	Listen string `yaml:"listen"`

	// DefaultMode is the operation used when a request names none.
	// One of auto, solve, diff, integrate, simplify.
	DefaultMode string `yaml:"default_mode"`

	// ReservedFunctions are extra names the variable detector must not
	// treat as variables, merged into the standard set.
	ReservedFunctions []string `yaml:"reserved_functions"`

	Journal Journal `yaml:"journal"`
	Logging Logging `yaml:"logging"`
}

// Journal configures the query journal.
type Journal struct {
	// Enabled turns journaling on. Off means no store is opened and
	// nothing is recorded.
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `yaml:"path"`

	// Limit caps how many records history listings return.
	Limit int `yaml:"limit"`
}

// Logging configures the server logger.
type Logging struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `yaml:"level"`

	// Format selects the encoder: console or json.
	Format string `yaml:"format"`

	// File, when set, adds a rotating log file alongside stderr.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Listen:      ":8080",
		DefaultMode: "auto",
		Journal: Journal{
			Enabled: false,
			Path:    "solvetrace.db",
			Limit:   50,
		},
		Logging: Logging{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
