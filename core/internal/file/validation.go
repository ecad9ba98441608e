package file

import (
	"fmt"
	"io"

	"github.com/meigma/shoko/internal/sizing"
)

// ValidateForWrite checks that a sealed blob of the given stored size fits
// within maxBlobSize, so it can be read back by a reader with the same limit.
func ValidateForWrite(stored, maxBlobSize uint64) error {
	if maxBlobSize > 0 && stored > maxBlobSize {
		return fmt.Errorf("%w: blob of %d bytes exceeds limit of %d", ErrSizeOverflow, stored, maxBlobSize)
	}
	return nil
}

// ValidateForRead checks that an entry is safe to read from a source of the given size.
// It validates:
//   - Source size is non-negative
//   - Stored size is within maxBlobSize (if limit > 0)
//   - Offset + size doesn't overflow
//   - The stored range lies inside the source
func ValidateForRead(entry *Entry, sourceSize int64, maxBlobSize uint64) error {
	if sourceSize < 0 {
		return ErrSizeOverflow
	}

	if maxBlobSize > 0 && entry.Size > maxBlobSize {
		return fmt.Errorf("%w: blob of %d bytes exceeds limit of %d", ErrSizeOverflow, entry.Size, maxBlobSize)
	}

	end, ok := sizing.AddUint64(entry.Offset, entry.Size)
	if !ok {
		return ErrSizeOverflow
	}
	if end > uint64(sourceSize) {
		return fmt.Errorf("%w: blob [%d, %d) extends past end of archive (%d bytes)",
			io.ErrUnexpectedEOF, entry.Offset, end, sourceSize)
	}

	return nil
}
