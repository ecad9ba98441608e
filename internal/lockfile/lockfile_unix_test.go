//go:build unix

package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	t.Parallel()

	archive := filepath.Join(t.TempDir(), "data.shk")

	first, err := Acquire(archive)
	require.NoError(t, err)
	assert.Equal(t, archive+".lock", first.Path())

	// A second open file description conflicts even within one process.
	_, err = Acquire(archive)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Release())
	require.NoError(t, first.Release())

	second, err := Acquire(archive)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestAcquire_MissingDir(t *testing.T) {
	t.Parallel()

	_, err := Acquire(filepath.Join(t.TempDir(), "nope", "data.shk"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}
