package blobtype

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for archive operations.
var (
	// ErrNotFound is returned when an operation names a path that is not in the archive.
	ErrNotFound = fs.ErrNotExist

	// ErrInvalidKey is returned when the configured key is not exactly 32 bytes.
	ErrInvalidKey = errors.New("shoko: key must be 32 bytes")

	// ErrShortCiphertext is returned when a sealed blob is too short to hold a nonce.
	ErrShortCiphertext = errors.New("shoko: sealed blob shorter than nonce")

	// ErrBadPattern is returned when a glob pattern is malformed.
	ErrBadPattern = errors.New("shoko: malformed pattern")

	// ErrInvalidPath is returned when an entry path is empty.
	ErrInvalidPath = errors.New("shoko: invalid entry path")

	// ErrMalformedStream is returned when run-length encoded data cannot be decoded.
	ErrMalformedStream = errors.New("shoko: malformed run-length stream")

	// ErrCorruptIndex is returned when the footer is valid but the index region is not.
	ErrCorruptIndex = errors.New("shoko: corrupt index")

	// ErrBadMagic is returned when the file does not start with the archive header.
	ErrBadMagic = errors.New("shoko: bad header magic")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("shoko: size overflow")

	// ErrNoIndex is returned when no valid footer is found at the end of the file.
	ErrNoIndex = errors.New("shoko: no index found")

	// ErrAlreadyOpen is returned when the archive file already has a live handle
	// in this process.
	ErrAlreadyOpen = errors.New("shoko: archive already open")

	// ErrClosed is returned by operations on a closed archive.
	ErrClosed = errors.New("shoko: archive closed")

	// ErrTampered is returned when a sealed blob fails authentication
	// (wrong key or modified bytes).
	ErrTampered = fmt.Errorf("shoko: authentication failed (wrong key or tampered data): %w", fs.ErrPermission)

	// ErrMissingKey is returned when no key is configured.
	ErrMissingKey = fmt.Errorf("shoko: encryption key not configured: %w", fs.ErrPermission)
)
