package shoko

import (
	"github.com/meigma/shoko/core/internal/blobtype"
	"github.com/meigma/shoko/core/internal/seal"
)

// Re-export types from internal packages for the public API.
type (
	// Entry describes one stored blob.
	Entry = blobtype.Entry

	// Level selects the run-length threshold used when writing an entry.
	Level = blobtype.Level

	// ProgressEvent represents a progress update during operations.
	ProgressEvent = blobtype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = blobtype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	ProgressFunc = blobtype.ProgressFunc

	// KeySource returns the 32-byte key for one seal or open.
	KeySource = seal.KeySource

	// Algorithm selects the AEAD construction.
	Algorithm = seal.Algorithm
)

// Re-export level constants.
const (
	LevelStored  = blobtype.LevelStored
	LevelFastest = blobtype.LevelFastest
	LevelDefault = blobtype.LevelDefault
	LevelBest    = blobtype.LevelBest
)

// Re-export progress stage constants.
const (
	StageEnumerating = blobtype.StageEnumerating
	StagePacking     = blobtype.StagePacking
	StageExtracting  = blobtype.StageExtracting
	StageCompacting  = blobtype.StageCompacting
	StageExporting   = blobtype.StageExporting
	StageImporting   = blobtype.StageImporting
)

// Re-export cipher constants.
const (
	AES256GCM        = seal.AES256GCM
	ChaCha20Poly1305 = seal.ChaCha20Poly1305

	// KeySize is the required key length in bytes.
	KeySize = seal.KeySize

	// DefaultKeyEnv is the environment variable read by default for the key.
	DefaultKeyEnv = seal.DefaultKeyEnv
)

var (
	// EnvKey returns a KeySource that reads an environment variable on each call.
	EnvKey = seal.EnvKey

	// StaticKey returns a KeySource that always yields the given key.
	StaticKey = seal.StaticKey

	// ParseAlgorithm parses an algorithm name such as "aes-256-gcm".
	ParseAlgorithm = seal.ParseAlgorithm
)

// Sentinel errors re-exported from internal/blobtype.
var (
	ErrNotFound        = blobtype.ErrNotFound
	ErrInvalidKey      = blobtype.ErrInvalidKey
	ErrShortCiphertext = blobtype.ErrShortCiphertext
	ErrBadPattern      = blobtype.ErrBadPattern
	ErrInvalidPath     = blobtype.ErrInvalidPath
	ErrMalformedStream = blobtype.ErrMalformedStream
	ErrCorruptIndex    = blobtype.ErrCorruptIndex
	ErrBadMagic        = blobtype.ErrBadMagic
	ErrSizeOverflow    = blobtype.ErrSizeOverflow
	ErrNoIndex         = blobtype.ErrNoIndex
	ErrAlreadyOpen     = blobtype.ErrAlreadyOpen
	ErrClosed          = blobtype.ErrClosed
	ErrTampered        = blobtype.ErrTampered
	ErrMissingKey      = blobtype.ErrMissingKey
)
