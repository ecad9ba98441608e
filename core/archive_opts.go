package shoko

import (
	"log/slog"

	"github.com/meigma/shoko/core/internal/file"
	"github.com/meigma/shoko/core/internal/seal"
)

// DefaultMaxBlobSize is the default limit on a single stored blob (1GB).
const DefaultMaxBlobSize = file.DefaultMaxBlobSize

// options holds configuration shared by Create and Open.
type options struct {
	logger      *slog.Logger
	keys        KeySource
	algorithm   Algorithm
	strictOpen  bool
	maxBlobSize uint64
	sync        bool
	progress    ProgressFunc
	scratchDir  string
}

func defaultOptions() options {
	return options{
		keys:        seal.EnvKey(DefaultKeyEnv),
		algorithm:   AES256GCM,
		maxBlobSize: DefaultMaxBlobSize,
	}
}

// Option configures an Archive.
type Option func(*options)

// WithLogger sets a logger for archive operations.
// By default, archives do not log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithKeySource sets where the archive obtains its key.
// The source is consulted on every blob read and write.
// By default the key is read from the SHOKO_KEY environment variable.
func WithKeySource(keys KeySource) Option {
	return func(o *options) {
		o.keys = keys
	}
}

// WithAlgorithm selects the AEAD algorithm (default AES256GCM).
//
// The algorithm is not recorded in the archive; an archive must be opened
// with the algorithm it was written with.
func WithAlgorithm(a Algorithm) Option {
	return func(o *options) {
		o.algorithm = a
	}
}

// WithStrictOpen controls how Open treats a file without a valid footer.
//
// By default such a file opens as an empty archive and the condition is
// logged and reported by IndexFound. With strict set, Open fails with
// ErrNoIndex instead. A file holding only the archive header is a valid
// empty archive in both modes.
func WithStrictOpen(strict bool) Option {
	return func(o *options) {
		o.strictOpen = strict
	}
}

// WithMaxBlobSize limits the stored size of a single blob. Write rejects
// larger blobs and Extract refuses to read them.
// Set limit to 0 to disable the limit.
func WithMaxBlobSize(limit uint64) Option {
	return func(o *options) {
		o.maxBlobSize = limit
	}
}

// WithSync makes every index rewrite fsync the archive file.
func WithSync(enabled bool) Option {
	return func(o *options) {
		o.sync = enabled
	}
}

// WithProgress sets a callback for compaction progress.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// WithScratchDir sets where Compact creates its scratch archive.
// By default the scratch archive is created next to the archive file.
func WithScratchDir(dir string) Option {
	return func(o *options) {
		o.scratchDir = dir
	}
}
