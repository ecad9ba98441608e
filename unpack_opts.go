package shoko

import "log/slog"

// unpackConfig holds configuration for Unpack.
type unpackConfig struct {
	pattern   string
	overwrite bool
	direct    bool
	progress  ProgressFunc
	logger    *slog.Logger
}

// UnpackOption configures Unpack.
type UnpackOption func(*unpackConfig)

// UnpackWithPattern extracts only entries whose path matches a glob pattern.
// See MatchPaths for the syntax.
func UnpackWithPattern(pattern string) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.pattern = pattern
	}
}

// UnpackWithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func UnpackWithOverwrite(overwrite bool) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.overwrite = overwrite
	}
}

// UnpackWithDirectWrites writes straight to the final path instead of a
// temporary file renamed into place.
func UnpackWithDirectWrites(enabled bool) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.direct = enabled
	}
}

// UnpackWithProgress sets a callback for progress updates.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.progress = fn
	}
}

// UnpackWithLogger sets a logger for unpack operations.
func UnpackWithLogger(logger *slog.Logger) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.logger = logger
	}
}
