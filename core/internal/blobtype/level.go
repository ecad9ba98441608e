package blobtype

import "fmt"

// Level selects the run-length threshold used when writing an entry.
//
// Level 0 stores content as-is. Levels 1-9 enable run-length encoding with
// progressively more aggressive thresholds. Any nonzero level is decoded
// identically, so the value only matters at write time.
type Level uint8

const (
	// LevelStored disables compression.
	LevelStored Level = 0

	// LevelFastest compresses only runs of four or more bytes.
	LevelFastest Level = 1

	// LevelDefault compresses runs of three or more bytes.
	LevelDefault Level = 5

	// LevelBest compresses runs of two or more bytes.
	LevelBest Level = 9
)

// Compressed reports whether content written at this level is run-length encoded.
func (l Level) Compressed() bool {
	return l > LevelStored
}

// Threshold returns the minimum run length that is emitted as a run record.
// Values outside 1-9 use the default threshold.
func (l Level) Threshold() int {
	switch {
	case l >= 1 && l <= 3:
		return 4
	case l >= 4 && l <= 6:
		return 3
	case l >= 7 && l <= 9:
		return 2
	default:
		return 3
	}
}

// String returns a human-readable name for the level.
func (l Level) String() string {
	if l == LevelStored {
		return "stored"
	}
	return fmt.Sprintf("rle-%d", uint8(l))
}

// Clamp limits l to the compressed range 1-9.
func (l Level) Clamp() Level {
	switch {
	case l < LevelFastest:
		return LevelFastest
	case l > LevelBest:
		return LevelBest
	default:
		return l
	}
}
