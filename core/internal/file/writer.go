package file

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/shoko/core/internal/rle"
	"github.com/meigma/shoko/core/internal/seal"
)

// Writer stores blobs on a destination: run-length encode when the level
// asks for it, seal, then write the sealed bytes in one piece.
type Writer struct {
	dst         io.Writer
	cipher      *seal.Cipher
	logger      *slog.Logger
	maxBlobSize uint64
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithWriterLogger sets the logger for debug output.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		w.logger = logger
	}
}

// WithWriterMaxBlobSize rejects blobs whose stored size exceeds limit.
// A limit of 0 disables the check.
func WithWriterMaxBlobSize(limit uint64) WriterOption {
	return func(w *Writer) {
		w.maxBlobSize = limit
	}
}

// NewWriter creates a Writer that appends to dst.
func NewWriter(dst io.Writer, cipher *seal.Cipher, opts ...WriterOption) *Writer {
	w := &Writer{dst: dst, cipher: cipher}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores data at the writer's current position and returns the number
// of bytes written, which is the stored size of the blob. Nothing is written
// when the sealed blob exceeds the size limit.
func (w *Writer) Write(data []byte, level Level) (uint64, error) {
	payload := data
	if level.Compressed() {
		payload = rle.Encode(data, level)
	}

	sealed, err := w.cipher.Seal(payload)
	if err != nil {
		return 0, err
	}

	stored := uint64(len(sealed))
	if err := ValidateForWrite(stored, w.maxBlobSize); err != nil {
		return 0, err
	}

	n, err := w.dst.Write(sealed)
	if err != nil {
		return uint64(n), fmt.Errorf("write blob: %w", err) //nolint:gosec // n is non-negative
	}

	w.log().Debug("wrote blob",
		"level", level,
		"plaintext", len(data),
		"encoded", len(payload),
		"stored", stored,
	)
	return stored, nil
}

func (w *Writer) log() *slog.Logger {
	if w.logger != nil {
		return w.logger
	}
	return slog.New(slog.DiscardHandler)
}
