package file

import "github.com/meigma/shoko/core/internal/blobtype"

// Re-export types from blobtype to avoid import changes throughout file.
type (
	Entry = blobtype.Entry
	Level = blobtype.Level
)

// Re-export sentinel errors.
var (
	ErrSizeOverflow = blobtype.ErrSizeOverflow
)
