package shoko

import "log/slog"

// DefaultMaxFiles is the default limit used when no PackWithMaxFiles option is set.
const DefaultMaxFiles = 200_000

// DefaultMaxFileSize is the default limit on a single packed file (256MB).
const DefaultMaxFileSize = 256 << 20

// packConfig holds configuration for Pack.
type packConfig struct {
	level           Level
	workers         int
	prefix          string
	skipCompression []SkipCompressionFunc
	maxFiles        int
	maxFileSize     uint64
	progress        ProgressFunc
	logger          *slog.Logger
}

// PackOption configures Pack.
type PackOption func(*packConfig)

// PackWithLevel sets the run-length level for packed files (default LevelDefault).
// LevelStored stores every file as-is.
func PackWithLevel(level Level) PackOption {
	return func(cfg *packConfig) {
		cfg.level = level
	}
}

// PackWithWorkers sets how many files are read ahead concurrently (default 4).
// Archive writes always happen one at a time on the calling goroutine.
func PackWithWorkers(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.workers = n
	}
}

// PackWithPrefix places every packed file under prefix inside the archive.
func PackWithPrefix(prefix string) PackOption {
	return func(cfg *packConfig) {
		cfg.prefix = NormalizePath(prefix)
	}
}

// PackWithSkipCompression adds predicates that decide to store a file
// without run-length encoding. If any predicate returns true, the file is
// stored at LevelStored.
func PackWithSkipCompression(fns ...SkipCompressionFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.skipCompression = append(cfg.skipCompression, fns...)
	}
}

// PackWithMaxFiles limits the number of files packed.
// Zero uses DefaultMaxFiles. Negative means no limit.
func PackWithMaxFiles(n int) PackOption {
	return func(cfg *packConfig) {
		cfg.maxFiles = n
	}
}

// PackWithMaxFileSize limits the size of a single packed file.
// Zero disables the limit.
func PackWithMaxFileSize(limit uint64) PackOption {
	return func(cfg *packConfig) {
		cfg.maxFileSize = limit
	}
}

// PackWithProgress sets a callback for progress updates.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.progress = fn
	}
}

// PackWithLogger sets a logger for pack operations.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}
