package index

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the size of the magic header at the start of every archive.
	HeaderSize = 8

	// FooterSize is the fixed binary size of the footer.
	FooterSize = 14 // 8 + 4 + 2 bytes
)

// Magic is the header written at offset zero of every archive.
var Magic = [HeaderSize]byte{'S', 'H', 'O', 'K', 'O', '0', '0', '1'}

// FooterMagic terminates every footer.
var FooterMagic = [2]byte{'S', 'K'}

// Footer locates the index region.
type Footer struct {
	IndexStart uint64
	EntryCount uint32
	Magic      [2]byte
}

// NewFooter returns a footer for count records starting at indexStart.
func NewFooter(indexStart uint64, count uint32) *Footer {
	return &Footer{
		IndexStart: indexStart,
		EntryCount: count,
		Magic:      FooterMagic,
	}
}

// Valid reports whether the footer carries the expected magic.
func (f *Footer) Valid() bool {
	return f.Magic == FooterMagic
}

// MarshalBinary encodes the footer to binary format.
func (f *Footer) MarshalBinary() ([]byte, error) {
	buf := make([]byte, FooterSize)
	f.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the footer to the given buffer.
// The buffer must be at least FooterSize bytes.
func (f *Footer) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.IndexStart)
	binary.LittleEndian.PutUint32(buf[8:12], f.EntryCount)
	copy(buf[12:14], f.Magic[:])
}

// UnmarshalBinary decodes the footer and checks its magic.
func (f *Footer) UnmarshalBinary(data []byte) error {
	if len(data) < FooterSize {
		return fmt.Errorf("footer data too short: need %d, got %d", FooterSize, len(data))
	}
	f.DecodeFrom(data)
	if !f.Valid() {
		return fmt.Errorf("invalid footer magic: expected %q, got %q", FooterMagic[:], f.Magic[:])
	}
	return nil
}

// DecodeFrom reads the footer from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (f *Footer) DecodeFrom(data []byte) {
	f.IndexStart = binary.LittleEndian.Uint64(data[0:8])
	f.EntryCount = binary.LittleEndian.Uint32(data[8:12])
	copy(f.Magic[:], data[12:14])
}
