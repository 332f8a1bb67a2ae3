package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/solvetrace/solvetrace/pkg/solvetrace/internalerr"
)

// Load reads the YAML file at path over the defaults. An empty path
// returns Default() as is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("%w: listen must not be empty", internalerr.ErrInvalidConfig)
	}
	switch c.DefaultMode {
	case "auto", "solve", "diff", "integrate", "simplify":
	default:
		return fmt.Errorf("%w: unknown default_mode %q", internalerr.ErrInvalidConfig, c.DefaultMode)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: unknown logging format %q", internalerr.ErrInvalidConfig, c.Logging.Format)
	}
	if c.Journal.Limit <= 0 {
		return fmt.Errorf("%w: journal limit must be positive", internalerr.ErrInvalidConfig)
	}
	return nil
}
