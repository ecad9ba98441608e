// Package config loads configuration for the sar command.
//
// Configuration is read from a single YAML file named by:
//   - the --config flag, or
//   - the SHOKO_CONFIG environment variable.
//
// Without either, the built-in defaults apply. Command-line flags override
// values from the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meigma/shoko"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "SHOKO_CONFIG"

// DefaultEditor is used by "sar write" when neither the config nor $EDITOR
// names an editor.
const DefaultEditor = "nano"

// Config is the sar configuration.
type Config struct {
	// KeyEnv is the environment variable the archive key is read from.
	// Default: SHOKO_KEY
	KeyEnv string `yaml:"key_env"`

	// Algorithm is the AEAD used for new blobs: aes-256-gcm or chacha20-poly1305.
	Algorithm string `yaml:"algorithm"`

	// Level is the default run-length level (0 stores, 1-9 compress).
	Level int `yaml:"level"`

	// StrictOpen refuses archives without a readable footer instead of
	// opening them empty.
	StrictOpen bool `yaml:"strict_open"`

	// Sync flushes the archive to stable storage after every mutation.
	Sync bool `yaml:"sync"`

	// Editor is the command "sar write" runs. Falls back to $EDITOR, then nano.
	Editor string `yaml:"editor"`

	// Workers is the number of files Pack reads concurrently.
	Workers int `yaml:"workers"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ExportCompression is the default framing for "sar export":
	// none, zstd, lz4 or s2.
	ExportCompression string `yaml:"export_compression"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		KeyEnv:            shoko.DefaultKeyEnv,
		Algorithm:         shoko.AES256GCM.String(),
		Level:             int(shoko.LevelDefault),
		Workers:           4,
		LogLevel:          "info",
		ExportCompression: shoko.FramingNone.String(),
	}
}

// Load reads the file named by SHOKO_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate checks that every value can be used.
func (c *Config) Validate() error {
	var errs []error
	if c.KeyEnv == "" {
		errs = append(errs, errors.New("key_env must not be empty"))
	}
	if _, err := shoko.ParseAlgorithm(c.Algorithm); err != nil {
		errs = append(errs, fmt.Errorf("algorithm: %w", err))
	}
	if c.Level < 0 || c.Level > int(shoko.LevelBest) {
		errs = append(errs, fmt.Errorf("level %d out of range 0-%d", c.Level, shoko.LevelBest))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := shoko.ParseFraming(c.ExportCompression); err != nil {
		errs = append(errs, fmt.Errorf("export_compression: %w", err))
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// EditorCommand returns the editor to run for "sar write".
func (c *Config) EditorCommand() string {
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return DefaultEditor
}

// ArchiveOptions translates the archive-level settings into shoko options.
func (c *Config) ArchiveOptions() ([]shoko.Option, error) {
	alg, err := shoko.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return nil, err
	}
	return []shoko.Option{
		shoko.WithKeySource(shoko.EnvKey(c.KeyEnv)),
		shoko.WithAlgorithm(alg),
		shoko.WithStrictOpen(c.StrictOpen),
		shoko.WithSync(c.Sync),
	}, nil
}
