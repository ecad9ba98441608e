// Package rle implements the byte-oriented run-length codec used for
// compressed archive entries.
//
// The encoded stream is a sequence of records:
//
//	0x00 len value      run of len copies of value (len <= 255)
//	0x01 len bytes...   len literal bytes (len <= 254)
//
// The level passed to Encode only changes the minimum run length worth
// emitting as a run record; Decode needs no level.
package rle

import (
	"fmt"

	"github.com/meigma/shoko/core/internal/blobtype"
)

const (
	tagRun     byte = 0x00
	tagLiteral byte = 0x01

	maxRun     = 255
	maxLiteral = 254
)

// Encode run-length encodes src using the threshold selected by level.
// Empty input produces empty output.
func Encode(src []byte, level blobtype.Level) []byte {
	if len(src) == 0 {
		return []byte{}
	}

	threshold := level.Threshold()
	out := make([]byte, 0, len(src)+2*(len(src)/maxLiteral+1))

	for i := 0; i < len(src); {
		run := runLength(src, i, maxRun)
		if run >= threshold {
			out = append(out, tagRun, byte(run), src[i])
			i += run
			continue
		}

		// The literal stops where a run worth encoding starts.
		end := i + 1
		for end < len(src) && end-i < maxLiteral && runLength(src, end, threshold) < threshold {
			end++
		}
		out = append(out, tagLiteral, byte(end-i))
		out = append(out, src[i:end]...)
		i = end
	}
	return out
}

// Decode expands a stream produced by Encode.
//
// An unknown tag or a truncated record fails with ErrMalformedStream and no
// output.
func Decode(src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src))

	for i := 0; i < len(src); {
		switch src[i] {
		case tagRun:
			if i+3 > len(src) {
				return nil, fmt.Errorf("%w: truncated run record at offset %d", blobtype.ErrMalformedStream, i)
			}
			n, value := int(src[i+1]), src[i+2]
			for range n {
				out = append(out, value)
			}
			i += 3
		case tagLiteral:
			if i+2 > len(src) {
				return nil, fmt.Errorf("%w: truncated literal header at offset %d", blobtype.ErrMalformedStream, i)
			}
			n := int(src[i+1])
			start := i + 2
			if start+n > len(src) {
				return nil, fmt.Errorf("%w: literal of %d bytes at offset %d overruns stream", blobtype.ErrMalformedStream, n, i)
			}
			out = append(out, src[start:start+n]...)
			i = start + n
		default:
			return nil, fmt.Errorf("%w: unknown tag 0x%02x at offset %d", blobtype.ErrMalformedStream, src[i], i)
		}
	}
	return out, nil
}

// runLength counts identical bytes starting at src[i], stopping at limit.
func runLength(src []byte, i, limit int) int {
	n := 1
	for i+n < len(src) && n < limit && src[i+n] == src[i] {
		n++
	}
	return n
}
