package blobtype

// ProgressEvent represents a progress update during pack, unpack, or compaction.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the file currently being processed, if applicable.
	Path string

	// BytesDone is the number of bytes completed in the current operation.
	BytesDone uint64

	// BytesTotal is the total bytes for the current operation.
	// Zero indicates the total is unknown.
	BytesTotal uint64

	// FilesDone is the number of files completed.
	FilesDone int

	// FilesTotal is the total number of files.
	// Zero indicates the total is unknown (e.g., during enumeration).
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for pack, unpack, export, and compaction operations.
const (
	// StageEnumerating indicates the operation is walking the directory tree.
	StageEnumerating ProgressStage = iota

	// StagePacking indicates files are being compressed, sealed, and written.
	StagePacking

	// StageExtracting indicates entries are being extracted.
	StageExtracting

	// StageCompacting indicates live entries are being copied into a scratch archive.
	StageCompacting

	// StageExporting indicates entries are being written to an export stream.
	StageExporting

	// StageImporting indicates entries are being read from an import stream.
	StageImporting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageEnumerating:
		return "enumerating"
	case StagePacking:
		return "packing"
	case StageExtracting:
		return "extracting"
	case StageCompacting:
		return "compacting"
	case StageExporting:
		return "exporting"
	case StageImporting:
		return "importing"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// It is called synchronously from the goroutine driving the operation.
type ProgressFunc func(ProgressEvent)
