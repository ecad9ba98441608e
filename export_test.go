package shoko

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, framing := range []Framing{FramingNone, FramingZstd, FramingLZ4, FramingS2} {
		t.Run(framing.String(), func(t *testing.T) {
			t.Parallel()

			src := newArchive(t)
			files := sampleTree()
			for name, content := range files {
				require.NoError(t, src.Write(name, content, LevelBest))
			}
			require.NoError(t, src.Write("raw.bin", []byte{1, 2, 3}, LevelStored))

			var buf bytes.Buffer
			n, err := Export(context.Background(), src, &buf, ExportWithFraming(framing))
			require.NoError(t, err)
			assert.Equal(t, len(files)+1, n)

			dst := newArchive(t)
			n, err = Import(context.Background(), &buf, dst)
			require.NoError(t, err)
			assert.Equal(t, len(files)+1, n)
			assert.Equal(t, src.Paths(), dst.Paths())

			for name, content := range files {
				got, err := dst.Extract(name)
				require.NoError(t, err)
				assert.Equal(t, content, got, name)
			}
			raw, ok := dst.Entry("raw.bin")
			require.True(t, ok)
			assert.Equal(t, LevelStored, raw.Level)
			readme, ok := dst.Entry("README.md")
			require.True(t, ok)
			assert.Equal(t, LevelBest, readme.Level)
		})
	}
}

func TestExport_CancelFinishesFraming(t *testing.T) {
	t.Parallel()

	src := newArchive(t)
	require.NoError(t, src.Write("a.txt", []byte("first"), LevelStored))
	require.NoError(t, src.Write("b.txt", []byte("second"), LevelStored))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	n, err := Export(ctx, src, &buf,
		ExportWithFraming(FramingZstd),
		ExportWithProgress(func(ProgressEvent) { cancel() }),
	)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, n)

	// The compressor was flushed, so the exported prefix is readable.
	r, closeFn, framing, err := frameReader(&buf)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, FramingZstd, framing)

	tr := tar.NewReader(r)
	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "a.txt", hdr.Name)
	got, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestExport_PlainTar(t *testing.T) {
	t.Parallel()

	arc := newArchive(t)
	require.NoError(t, arc.Write("a.txt", []byte("alpha"), LevelDefault))

	var buf bytes.Buffer
	_, err := Export(context.Background(), arc, &buf)
	require.NoError(t, err)

	tr := tar.NewReader(&buf)
	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "a.txt", hdr.Name)
	assert.Equal(t, "5", hdr.PAXRecords["SHOKO.level"])
	content, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), content)

	_, err = tr.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestExport_Pattern(t *testing.T) {
	t.Parallel()

	arc := newArchive(t)
	for name, content := range sampleTree() {
		require.NoError(t, arc.Write(name, content, LevelDefault))
	}

	var buf bytes.Buffer
	n, err := Export(context.Background(), arc, &buf, ExportWithPattern("*.md"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImport_ForeignTar(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Typeflag: tar.TypeDir, Name: "dir/", Mode: 0o755}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Typeflag: tar.TypeReg, Name: "./dir/file.txt", Size: 5, Mode: 0o644}))
	_, err := tw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	arc := newArchive(t)
	n, err := Import(context.Background(), &buf, arc, ExportWithLevel(LevelFastest))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, ok := arc.Entry("dir/file.txt")
	require.True(t, ok)
	assert.Equal(t, LevelFastest, e.Level)
}

func TestImport_MaxFileSize(t *testing.T) {
	t.Parallel()

	src := newArchive(t)
	require.NoError(t, src.Write("big", make([]byte, 4096), LevelDefault))
	var buf bytes.Buffer
	_, err := Export(context.Background(), src, &buf)
	require.NoError(t, err)

	_, err = Import(context.Background(), &buf, newArchive(t), ExportWithMaxFileSize(1024))
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func TestImport_Empty(t *testing.T) {
	t.Parallel()

	n, err := Import(context.Background(), bytes.NewReader(nil), newArchive(t))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestParseFraming(t *testing.T) {
	t.Parallel()

	for _, f := range []Framing{FramingNone, FramingZstd, FramingLZ4, FramingS2} {
		got, err := ParseFraming(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFraming("bzip2")
	assert.ErrorIs(t, err, ErrUnknownFraming)
}
