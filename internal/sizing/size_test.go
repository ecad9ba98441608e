package sizing

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("overflow")

func TestToInt(t *testing.T) {
	t.Parallel()

	n, err := ToInt(42, errTest)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = ToInt(math.MaxUint64, errTest)
	assert.ErrorIs(t, err, errTest)
}

func TestToInt64(t *testing.T) {
	t.Parallel()

	n, err := ToInt64(1<<40, errTest)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), n)

	_, err = ToInt64(math.MaxInt64+1, errTest)
	assert.ErrorIs(t, err, errTest)
}

func TestToUint32(t *testing.T) {
	t.Parallel()

	n, err := ToUint32(7, errTest)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), n)

	_, err = ToUint32(-1, errTest)
	assert.ErrorIs(t, err, errTest)
}

func TestAddUint64(t *testing.T) {
	t.Parallel()

	sum, ok := AddUint64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), sum)

	_, ok = AddUint64(math.MaxUint64, 1)
	assert.False(t, ok)
}

func TestReadAllWithLimit(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("x"), 10)

	got, err := ReadAllWithLimit(bytes.NewReader(data), 10, errTest)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	_, err = ReadAllWithLimit(bytes.NewReader(data), 9, errTest)
	assert.ErrorIs(t, err, errTest)

	got, err = ReadAllWithLimit(bytes.NewReader(data), 0, errTest)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}
