package shoko

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Framing selects how an export stream is compressed.
type Framing uint8

const (
	// FramingNone writes a plain tar stream.
	FramingNone Framing = iota

	// FramingZstd wraps the tar stream in zstd.
	FramingZstd

	// FramingLZ4 wraps the tar stream in an LZ4 frame.
	FramingLZ4

	// FramingS2 wraps the tar stream in an S2 stream.
	FramingS2
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic   = []byte("\xff\x06\x00\x00S2sTwO")
)

// String returns the framing name.
func (f Framing) String() string {
	switch f {
	case FramingNone:
		return "none"
	case FramingZstd:
		return "zstd"
	case FramingLZ4:
		return "lz4"
	case FramingS2:
		return "s2"
	default:
		return "unknown"
	}
}

// ParseFraming parses a framing name as returned by Framing.String.
// The empty string selects FramingNone.
func ParseFraming(s string) (Framing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "tar":
		return FramingNone, nil
	case "zstd", "zst":
		return FramingZstd, nil
	case "lz4":
		return FramingLZ4, nil
	case "s2":
		return FramingS2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFraming, s)
	}
}

// frameWriter wraps w with the compressor for f. Closing the result flushes
// the compressor but does not close w.
func frameWriter(w io.Writer, f Framing) (io.WriteCloser, error) {
	switch f {
	case FramingNone:
		return nopWriteCloser{w}, nil
	case FramingZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return enc, nil
	case FramingLZ4:
		enc := lz4.NewWriter(w)
		if err := enc.Apply(lz4.BlockChecksumOption(true), lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return nil, fmt.Errorf("configure lz4 encoder: %w", err)
		}
		return enc, nil
	case FramingS2:
		return s2.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFraming, f)
	}
}

// frameReader detects the framing of r from its leading bytes and returns a
// reader of the unframed stream.
func frameReader(r io.Reader) (io.Reader, func(), Framing, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(s2Magic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, FramingNone, err
	}

	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, FramingZstd, fmt.Errorf("create zstd decoder: %w", err)
		}
		return dec, dec.Close, FramingZstd, nil
	case bytes.HasPrefix(head, lz4Magic):
		return lz4.NewReader(br), func() {}, FramingLZ4, nil
	case bytes.HasPrefix(head, s2Magic):
		return s2.NewReader(br), func() {}, FramingS2, nil
	default:
		return br, func() {}, FramingNone, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
