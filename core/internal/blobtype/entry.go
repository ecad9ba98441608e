package blobtype

// Entry describes one stored blob in the archive.
type Entry struct {
	// Path is the slash-separated virtual path of the entry (e.g., "logs/today.log").
	// Paths are unique within an archive.
	Path string

	// Size is the length in bytes of the stored representation on disk,
	// after compression and encryption.
	Size uint64

	// Offset is the absolute byte position of the stored representation
	// within the archive file.
	Offset uint64

	// Level is the run-length level the content was written with.
	// Zero means the content was stored without compression.
	Level Level
}

// End returns the offset of the first byte following the stored blob.
func (e *Entry) End() uint64 {
	return e.Offset + e.Size
}
