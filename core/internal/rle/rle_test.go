package rle

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/shoko/core/internal/blobtype"
)

func TestEncode_Records(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		level blobtype.Level
		want  []byte
	}{
		{
			name:  "empty",
			input: nil,
			level: 5,
			want:  []byte{},
		},
		{
			name:  "run then literal",
			input: []byte("AAAAB"),
			level: 5,
			want:  []byte{0x00, 4, 'A', 0x01, 1, 'B'},
		},
		{
			name:  "literal stops before qualifying run",
			input: []byte("ABCC"),
			level: 9,
			want:  []byte{0x01, 2, 'A', 'B', 0x00, 2, 'C'},
		},
		{
			name:  "short run stays literal at low level",
			input: []byte("AAAB"),
			level: 1,
			want:  []byte{0x01, 4, 'A', 'A', 'A', 'B'},
		},
		{
			name:  "out of range level uses default threshold",
			input: []byte("AAAB"),
			level: 42,
			want:  []byte{0x00, 3, 'A', 0x01, 1, 'B'},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Encode(tt.input, tt.level))
		})
	}
}

func TestEncode_RunCappedAt255(t *testing.T) {
	t.Parallel()

	got := Encode(bytes.Repeat([]byte{'x'}, 300), blobtype.LevelBest)
	assert.Equal(t, []byte{0x00, 255, 'x', 0x00, 45, 'x'}, got)
}

func TestEncode_LiteralCappedAt254(t *testing.T) {
	t.Parallel()

	input := make([]byte, 300)
	for i := range input {
		input[i] = byte(i)
	}
	got := Encode(input, blobtype.LevelBest)

	require.Len(t, got, 2+254+2+46)
	assert.Equal(t, []byte{0x01, 254}, got[:2])
	assert.Equal(t, []byte{0x01, 46}, got[256:258])
}

func TestRoundTrip_AllLevels(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec // deterministic test data
	random := make([]byte, 4096)
	for i := range random {
		random[i] = byte(rng.IntN(256))
	}
	runs := make([]byte, 0, 4096)
	for len(runs) < 4096 {
		runs = append(runs, bytes.Repeat([]byte{byte(rng.IntN(4))}, 1+rng.IntN(400))...)
	}

	inputs := map[string][]byte{
		"empty":      {},
		"single":     {7},
		"pair":       {7, 7},
		"no runs":    []byte("abcdefghijklmnopqrstuvwxyz"),
		"sentence":   []byte("wsg shoko heres some repeats or shi: AAAAAAAAAAAAAAAAAAAAA"),
		"zeros":      make([]byte, 1000),
		"tag bytes":  {0x00, 0x01, 0x00, 0x00, 0x01, 0x01, 0x01},
		"random":     random,
		"long runs":  runs,
		"run at end": append([]byte("abc"), bytes.Repeat([]byte{'z'}, 9)...),
	}

	for name, input := range inputs {
		for level := blobtype.Level(0); level <= 10; level++ {
			encoded := Encode(input, level)
			decoded, err := Decode(encoded)
			require.NoError(t, err, "%s at level %d", name, level)
			assert.Equal(t, len(input), len(decoded), "%s at level %d", name, level)
			assert.True(t, bytes.Equal(input, decoded), "%s at level %d", name, level)
		}
	}
}

func TestEncode_CompressesRuns(t *testing.T) {
	t.Parallel()

	input := bytes.Repeat([]byte("A"), 1000)
	assert.Less(t, len(Encode(input, blobtype.LevelDefault)), 20)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{"unknown tag", []byte{0x02, 1, 'a'}},
		{"unknown tag after valid record", []byte{0x00, 2, 'a', 0xff}},
		{"truncated run", []byte{0x00, 5}},
		{"run tag only", []byte{0x00}},
		{"literal tag only", []byte{0x01}},
		{"truncated literal", []byte{0x01, 4, 'a', 'b'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := Decode(tt.input)
			require.ErrorIs(t, err, blobtype.ErrMalformedStream)
			assert.Nil(t, out)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	t.Parallel()

	out, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("hello world"), uint8(5))
	f.Add([]byte{0, 0, 0, 0, 1, 1, 1}, uint8(9))
	f.Add([]byte{}, uint8(0))

	f.Fuzz(func(t *testing.T, data []byte, level uint8) {
		decoded, err := Decode(Encode(data, blobtype.Level(level)))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(data, decoded) {
			t.Fatalf("round trip mismatch at level %d", level)
		}
	})
}
