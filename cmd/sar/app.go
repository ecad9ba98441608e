package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
	"github.com/meigma/shoko/internal/config"
	"github.com/meigma/shoko/internal/lockfile"
)

// app holds the process-wide state shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// flag values shared by all commands
	configPath string
	logLevel   string
	keyEnv     string
	algorithm  string
	strict     bool
	sync       bool

	flags  *pflag.FlagSet
	cfg    *config.Config
	logger *slog.Logger

	// newLogger builds the command logger; tests replace it.
	newLogger func(slog.Leveler) *slog.Logger
}

// flagSet returns a flag set carrying the shared flags.
func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfig+")")
	fs.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&a.keyEnv, "key-env", "", "environment variable holding the archive key")
	fs.StringVar(&a.algorithm, "cipher", "", "AEAD for new blobs: aes-256-gcm or chacha20-poly1305")
	fs.BoolVar(&a.strict, "strict", false, "refuse archives without a readable index")
	fs.BoolVar(&a.sync, "sync", false, "fsync the archive after every change")
	a.flags = fs
	return fs
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.LoadFile(a.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.keyEnv != "" {
		cfg.KeyEnv = a.keyEnv
	}
	if a.algorithm != "" {
		cfg.Algorithm = a.algorithm
	}
	if a.flags != nil && a.flags.Changed("strict") {
		cfg.StrictOpen = a.strict
	}
	if a.flags != nil && a.flags.Changed("sync") {
		cfg.Sync = a.sync
	}
	if err := cfg.Validate(); err != nil {
		return cli.Usagef("%v", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	newLogger := a.newLogger
	if newLogger == nil {
		newLogger = cli.NewCommandLogger
	}
	a.cfg = cfg
	a.logger = newLogger(level)
	return nil
}

// withArchive opens (or, when create is set, creates) the archive at path
// under its lock file and runs fn with it.
func (a *app) withArchive(path string, create bool, fn func(*shoko.Archive) error) (err error) {
	lock, err := lockfile.Acquire(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, lock.Release())
	}()

	opts, err := a.cfg.ArchiveOptions()
	if err != nil {
		return err
	}
	opts = append(opts, shoko.WithLogger(a.logger))

	var arc *shoko.Archive
	if create {
		arc, err = shoko.Create(path, opts...)
	} else {
		arc, err = shoko.Open(path, opts...)
	}
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, arc.Close())
	}()

	return fn(arc)
}

// archiveExists reports whether path names an existing regular file.
func archiveExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// clevel converts a --clevel flag value to a level in 1-9.
func clevel(n int) shoko.Level {
	if n < 0 {
		n = 0
	}
	if n > int(shoko.LevelBest) {
		n = int(shoko.LevelBest)
	}
	return shoko.Level(n).Clamp()
}

// level resolves a --clevel flag value; a negative value selects the
// configured default.
func (a *app) level(flagValue int) shoko.Level {
	if flagValue < 0 {
		return shoko.Level(a.cfg.Level) //nolint:gosec // validated to 0-9
	}
	return clevel(flagValue)
}
