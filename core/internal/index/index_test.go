package index

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/shoko/core/internal/blobtype"
)

// buildArchive lays out header, zero-filled blob region, index and footer.
func buildArchive(t *testing.T, entries []blobtype.Entry) []byte {
	t.Helper()
	start := IndexStart(entries)
	tail, err := Encode(entries, start)
	require.NoError(t, err)

	buf := make([]byte, start, int(start)+len(tail))
	copy(buf, Magic[:])
	return append(buf, tail...)
}

func TestIndexStart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(HeaderSize), IndexStart(nil))
	assert.Equal(t, uint64(120), IndexStart([]blobtype.Entry{
		{Path: "a", Offset: 8, Size: 40},
		{Path: "b", Offset: 80, Size: 40},
		{Path: "c", Offset: 48, Size: 32},
	}))
}

func TestEncode_Layout(t *testing.T) {
	t.Parallel()

	data, err := Encode([]blobtype.Entry{{Path: "ab", Size: 3, Offset: 8, Level: 5}}, 11)
	require.NoError(t, err)

	want := []byte{
		2, 0, 0, 0, 'a', 'b',
		3, 0, 0, 0, 0, 0, 0, 0,
		8, 0, 0, 0, 0, 0, 0, 0,
		5,
		11, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0,
		'S', 'K',
	}
	assert.Equal(t, want, data)
}

func TestEncode_Empty(t *testing.T) {
	t.Parallel()

	data, err := Encode(nil, HeaderSize)
	require.NoError(t, err)
	require.Len(t, data, FooterSize)

	var f Footer
	require.NoError(t, f.UnmarshalBinary(data))
	assert.Equal(t, uint64(HeaderSize), f.IndexStart)
	assert.Zero(t, f.EntryCount)
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	entries := []blobtype.Entry{
		{Path: "file1.bin", Offset: 8, Size: 40, Level: 0},
		{Path: "dir/file2.bin", Offset: 48, Size: 100, Level: 9},
		{Path: "", Offset: 148, Size: 28, Level: 5},
	}
	data := buildArchive(t, entries)

	got, err := Load(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestLoad_EmptyIndex(t *testing.T) {
	t.Parallel()

	data := buildArchive(t, nil)
	got, err := Load(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_NoIndex(t *testing.T) {
	t.Parallel()

	tests := map[string][]byte{
		"empty file":  {},
		"header only": Magic[:],
		"bad magic":   append(append([]byte{}, Magic[:]...), make([]byte, FooterSize)...),
	}
	for name, data := range tests {
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrNoIndex, name)
	}
}

func TestLoad_CorruptIndex(t *testing.T) {
	t.Parallel()

	good := buildArchive(t, []blobtype.Entry{{Path: "a", Offset: 8, Size: 30}})
	footerAt := len(good) - FooterSize

	t.Run("index start before header", func(t *testing.T) {
		t.Parallel()
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint64(data[footerAt:], 3)
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrCorruptIndex)
	})

	t.Run("index start past footer", func(t *testing.T) {
		t.Parallel()
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint64(data[footerAt:], uint64(len(data)))
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrCorruptIndex)
	})

	t.Run("entry count too large", func(t *testing.T) {
		t.Parallel()
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint32(data[footerAt+8:], 2)
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrCorruptIndex)
	})

	t.Run("path length overruns index", func(t *testing.T) {
		t.Parallel()
		data := bytes.Clone(good)
		binary.LittleEndian.PutUint32(data[38:], 1<<20)
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrCorruptIndex)
	})

	t.Run("blob overlaps index", func(t *testing.T) {
		t.Parallel()
		data := buildArchive(t, []blobtype.Entry{{Path: "a", Offset: 8, Size: 30}})
		// size field of the only record
		binary.LittleEndian.PutUint64(data[38+4+1:], 31)
		_, err := Load(bytes.NewReader(data), int64(len(data)))
		assert.ErrorIs(t, err, blobtype.ErrCorruptIndex)
	})
}

func TestDecode_InvalidUTF8Path(t *testing.T) {
	t.Parallel()

	data, err := Encode([]blobtype.Entry{{Path: "bad\xffname", Offset: 8, Size: 1}}, 9)
	require.NoError(t, err)

	entries, err := Decode(data[:len(data)-FooterSize], 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bad\uFFFDname", entries[0].Path)
}

func TestFooter_UnmarshalShort(t *testing.T) {
	t.Parallel()

	var f Footer
	assert.Error(t, f.UnmarshalBinary(make([]byte, FooterSize-1)))
}

func TestFooter_MarshalBinary(t *testing.T) {
	t.Parallel()

	data, err := NewFooter(1234, 7).MarshalBinary()
	require.NoError(t, err)

	var f Footer
	require.NoError(t, f.UnmarshalBinary(data))
	assert.Equal(t, *NewFooter(1234, 7), f)
}

func TestCheckHeader(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckHeader(bytes.NewReader(Magic[:]), HeaderSize))

	err := CheckHeader(bytes.NewReader([]byte("SHOKO")), 5)
	assert.ErrorIs(t, err, blobtype.ErrBadMagic)

	err = CheckHeader(bytes.NewReader([]byte("SHOKO002")), HeaderSize)
	assert.ErrorIs(t, err, blobtype.ErrBadMagic)
}
