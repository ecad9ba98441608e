package shoko

import (
	"errors"

	blobcore "github.com/meigma/shoko/core"
)

// Errors re-exported from core.
var (
	// ErrNotFound is returned when an archive has no entry at a path.
	ErrNotFound = blobcore.ErrNotFound

	// ErrInvalidKey is returned when the key is not exactly 32 bytes.
	ErrInvalidKey = blobcore.ErrInvalidKey

	// ErrShortCiphertext is returned when a sealed blob is shorter than its nonce.
	ErrShortCiphertext = blobcore.ErrShortCiphertext

	// ErrBadPattern is returned when a glob pattern is malformed.
	ErrBadPattern = blobcore.ErrBadPattern

	// ErrInvalidPath is returned when an entry path is empty.
	ErrInvalidPath = blobcore.ErrInvalidPath

	// ErrMalformedStream is returned when run-length data cannot be decoded.
	ErrMalformedStream = blobcore.ErrMalformedStream

	// ErrCorruptIndex is returned when the index region cannot be parsed.
	ErrCorruptIndex = blobcore.ErrCorruptIndex

	// ErrBadMagic is returned when a file does not start with the archive header.
	ErrBadMagic = blobcore.ErrBadMagic

	// ErrSizeOverflow is returned when a size exceeds supported limits.
	ErrSizeOverflow = blobcore.ErrSizeOverflow

	// ErrNoIndex is returned by a strict Open when the file has no footer.
	ErrNoIndex = blobcore.ErrNoIndex

	// ErrAlreadyOpen is returned when the file is held by another Archive.
	ErrAlreadyOpen = blobcore.ErrAlreadyOpen

	// ErrClosed is returned by operations on a closed archive.
	ErrClosed = blobcore.ErrClosed

	// ErrTampered is returned when a blob fails authentication.
	ErrTampered = blobcore.ErrTampered

	// ErrMissingKey is returned when no key is configured.
	ErrMissingKey = blobcore.ErrMissingKey
)

// Sentinel errors specific to the shoko package.
var (
	// ErrTooManyFiles is returned when Pack finds more files than allowed.
	ErrTooManyFiles = errors.New("shoko: too many files")

	// ErrUnknownFraming is returned when an export framing name is not recognized.
	ErrUnknownFraming = errors.New("shoko: unknown export framing")
)
