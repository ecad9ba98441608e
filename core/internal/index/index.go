package index

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/meigma/shoko/core/internal/blobtype"
	"github.com/meigma/shoko/internal/sizing"
)

// minRecordSize is the encoded size of a record with an empty path.
const minRecordSize = 4 + 8 + 8 + 1

// IndexStart returns where the index begins for the given entries: the end
// of the furthest blob, or HeaderSize when there are none.
func IndexStart(entries []blobtype.Entry) uint64 {
	start := uint64(HeaderSize)
	for i := range entries {
		if end := entries[i].End(); end > start {
			start = end
		}
	}
	return start
}

// Encode serializes entries followed by the footer.
func Encode(entries []blobtype.Entry, indexStart uint64) ([]byte, error) {
	count, err := sizing.ToUint32(len(entries), blobtype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}

	n := FooterSize
	for i := range entries {
		n += minRecordSize + len(entries[i].Path)
	}
	buf := make([]byte, 0, n)

	for i := range entries {
		e := &entries[i]
		pathLen, err := sizing.ToUint32(len(e.Path), blobtype.ErrSizeOverflow)
		if err != nil {
			return nil, fmt.Errorf("encode index: path of %s: %w", e.Path, err)
		}
		buf = binary.LittleEndian.AppendUint32(buf, pathLen)
		buf = append(buf, e.Path...)
		buf = binary.LittleEndian.AppendUint64(buf, e.Size)
		buf = binary.LittleEndian.AppendUint64(buf, e.Offset)
		buf = append(buf, byte(e.Level))
	}

	footer := NewFooter(indexStart, count)
	var fb [FooterSize]byte
	footer.EncodeTo(fb[:])
	return append(buf, fb[:]...), nil
}

// Decode parses count records from data. Paths that are not valid UTF-8
// have the offending bytes replaced with U+FFFD.
func Decode(data []byte, count uint32) ([]blobtype.Entry, error) {
	capacity := min(int(count), len(data)/minRecordSize) //nolint:gosec // uint32 fits in int on supported platforms
	entries := make([]blobtype.Entry, 0, capacity)

	off := 0
	for i := range count {
		if len(data)-off < 4 {
			return nil, fmt.Errorf("%w: record %d truncated", blobtype.ErrCorruptIndex, i)
		}
		pathLen := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if pathLen < 0 || len(data)-off < pathLen+minRecordSize-4 {
			return nil, fmt.Errorf("%w: record %d truncated", blobtype.ErrCorruptIndex, i)
		}
		path := strings.ToValidUTF8(string(data[off:off+pathLen]), "\uFFFD")
		off += pathLen

		e := blobtype.Entry{
			Path:   path,
			Size:   binary.LittleEndian.Uint64(data[off:]),
			Offset: binary.LittleEndian.Uint64(data[off+8:]),
			Level:  blobtype.Level(data[off+16]),
		}
		off += 17
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadFooter reads and validates the footer at the end of a source of the
// given size. A source too short to hold a footer, or one whose trailing
// bytes do not carry the footer magic, yields ErrNoIndex.
func ReadFooter(r io.ReaderAt, size int64) (*Footer, error) {
	if size < FooterSize {
		return nil, fmt.Errorf("%w: file is %d bytes", blobtype.ErrNoIndex, size)
	}
	var buf [FooterSize]byte
	if _, err := r.ReadAt(buf[:], size-FooterSize); err != nil {
		return nil, fmt.Errorf("read footer: %w", err)
	}
	footer := new(Footer)
	if err := footer.UnmarshalBinary(buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", blobtype.ErrNoIndex, err)
	}
	return footer, nil
}

// Load discovers the footer and parses the index it points at.
//
// A missing footer yields ErrNoIndex. A footer whose index region lies
// outside the file, or whose records are truncated or point past the index,
// yields ErrCorruptIndex.
func Load(r io.ReaderAt, size int64) ([]blobtype.Entry, error) {
	footer, err := ReadFooter(r, size)
	if err != nil {
		return nil, err
	}

	indexEnd := uint64(size - FooterSize) //nolint:gosec // size >= FooterSize checked by ReadFooter
	if footer.IndexStart < HeaderSize || footer.IndexStart > indexEnd {
		return nil, fmt.Errorf("%w: index start %d outside [%d, %d]",
			blobtype.ErrCorruptIndex, footer.IndexStart, HeaderSize, indexEnd)
	}

	length, err := sizing.ToInt(indexEnd-footer.IndexStart, blobtype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	data := make([]byte, length)
	if length > 0 {
		if _, err := r.ReadAt(data, int64(footer.IndexStart)); err != nil { //nolint:gosec // bounded by size above
			return nil, fmt.Errorf("read index: %w", err)
		}
	}

	entries, err := Decode(data, footer.EntryCount)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		end, ok := sizing.AddUint64(e.Offset, e.Size)
		if !ok || e.Offset < HeaderSize || end > footer.IndexStart {
			return nil, fmt.Errorf("%w: entry %s spans [%d, %d) outside blob region",
				blobtype.ErrCorruptIndex, e.Path, e.Offset, e.Offset+e.Size)
		}
	}
	return entries, nil
}

// CheckHeader verifies the magic header at offset zero.
func CheckHeader(r io.ReaderAt, size int64) error {
	if size < HeaderSize {
		return fmt.Errorf("%w: file is %d bytes", blobtype.ErrBadMagic, size)
	}
	var buf [HeaderSize]byte
	if _, err := r.ReadAt(buf[:], 0); err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if buf != Magic {
		return fmt.Errorf("%w: got %q", blobtype.ErrBadMagic, buf[:])
	}
	return nil
}
