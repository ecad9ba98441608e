package shoko

import (
	blobcore "github.com/meigma/shoko/core"
)

// Re-export types from core for the public API.
type (
	// Archive is an open archive file.
	Archive = blobcore.Archive

	// Entry describes one stored blob.
	Entry = blobcore.Entry

	// Level selects the run-length threshold used when writing an entry.
	Level = blobcore.Level

	// Option configures an Archive.
	Option = blobcore.Option

	// KeySource returns the 32-byte key for one seal or open.
	KeySource = blobcore.KeySource

	// Algorithm selects the AEAD construction.
	Algorithm = blobcore.Algorithm

	// CompactStats describes the result of a compaction.
	CompactStats = blobcore.CompactStats

	// ProgressEvent represents a progress update during operations.
	ProgressEvent = blobcore.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = blobcore.ProgressStage

	// ProgressFunc receives progress updates during operations.
	ProgressFunc = blobcore.ProgressFunc
)

// Re-export level constants.
const (
	LevelStored  = blobcore.LevelStored
	LevelFastest = blobcore.LevelFastest
	LevelDefault = blobcore.LevelDefault
	LevelBest    = blobcore.LevelBest
)

// Re-export algorithm and key constants.
const (
	AES256GCM        = blobcore.AES256GCM
	ChaCha20Poly1305 = blobcore.ChaCha20Poly1305
	KeySize          = blobcore.KeySize
	DefaultKeyEnv    = blobcore.DefaultKeyEnv
)

// Re-export progress stage constants.
const (
	StageEnumerating = blobcore.StageEnumerating
	StagePacking     = blobcore.StagePacking
	StageExtracting  = blobcore.StageExtracting
	StageCompacting  = blobcore.StageCompacting
	StageExporting   = blobcore.StageExporting
	StageImporting   = blobcore.StageImporting
)

// Archive lifecycle.
var (
	// Create creates or truncates a file and writes an empty archive.
	Create = blobcore.Create

	// Open opens an existing archive.
	Open = blobcore.Open
)

// Archive options.
var (
	WithLogger      = blobcore.WithLogger
	WithKeySource   = blobcore.WithKeySource
	WithAlgorithm   = blobcore.WithAlgorithm
	WithStrictOpen  = blobcore.WithStrictOpen
	WithMaxBlobSize = blobcore.WithMaxBlobSize
	WithSync        = blobcore.WithSync
	WithProgress    = blobcore.WithProgress
	WithScratchDir  = blobcore.WithScratchDir
)

// Keys, algorithms and paths.
var (
	EnvKey         = blobcore.EnvKey
	StaticKey      = blobcore.StaticKey
	ParseAlgorithm = blobcore.ParseAlgorithm
	NormalizePath  = blobcore.NormalizePath
	MatchPaths     = blobcore.MatchPaths
)
