package shoko

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/shoko/core/testutil"
)

func newArchive(t *testing.T) *Archive {
	t.Helper()
	arc, err := Create(testutil.ArchivePath(t), WithKeySource(testutil.Key()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = arc.Close() })
	return arc
}

func sampleTree() map[string][]byte {
	return map[string][]byte{
		"README.md":          []byte("# readme\n"),
		"logs/today.log":     []byte("AAAAAAAAAAAAAAAA today\n"),
		"logs/yesterday.log": []byte("yesterday\n"),
		"data/db.sqlite":     append([]byte("SQLite format 3\x00"), make([]byte, 512)...),
		"img/photo.png":      []byte("\x89PNG not really"),
		"empty.txt":          {},
	}
}
