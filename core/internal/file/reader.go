package file

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/shoko/core/internal/rle"
	"github.com/meigma/shoko/core/internal/seal"
	"github.com/meigma/shoko/internal/sizing"
)

// DefaultMaxBlobSize is the default maximum stored blob size (1GB).
const DefaultMaxBlobSize = 1 << 30

// ByteSource provides random access to archive bytes.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// Reader reads stored blobs from a ByteSource and recovers their plaintext.
type Reader struct {
	source      ByteSource
	cipher      *seal.Cipher
	maxBlobSize uint64
	logger      *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxBlobSize sets the maximum stored blob size.
// Set to 0 to disable the limit.
func WithMaxBlobSize(limit uint64) Option {
	return func(r *Reader) {
		r.maxBlobSize = limit
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader for blobs in source.
func NewReader(source ByteSource, cipher *seal.Cipher, opts ...Option) *Reader {
	r := &Reader{
		source:      source,
		cipher:      cipher,
		maxBlobSize: DefaultMaxBlobSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadAll reads the stored bytes of entry, opens them and run-length
// decodes the result if the entry was written compressed.
func (r *Reader) ReadAll(entry *Entry) ([]byte, error) {
	if err := ValidateForRead(entry, r.source.Size(), r.maxBlobSize); err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}

	size, err := sizing.ToInt(entry.Size, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	offset, err := sizing.ToInt64(entry.Offset, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}

	stored := make([]byte, size)
	n, err := io.ReadFull(io.NewSectionReader(r.source, offset, int64(size)), stored)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %s: short read (%d of %d bytes): %w", entry.Path, n, size, err)
	}

	payload, err := r.cipher.Open(stored)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}

	if !entry.Level.Compressed() {
		r.log().Debug("read blob", "path", entry.Path, "stored", size, "plaintext", len(payload))
		return payload, nil
	}
	content, err := rle.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", entry.Path, err)
	}
	r.log().Debug("read blob", "path", entry.Path, "stored", size, "plaintext", len(content))
	return content, nil
}

// Source returns the underlying ByteSource.
func (r *Reader) Source() ByteSource {
	return r.source
}

// MaxBlobSize returns the configured maximum stored blob size.
func (r *Reader) MaxBlobSize() uint64 {
	return r.maxBlobSize
}

func (r *Reader) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.New(slog.DiscardHandler)
}
