package seal

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/shoko/core/internal/blobtype"
)

var (
	testKey  = []byte("0123456789abcdef0123456789abcdef")
	otherKey = []byte("fedcba9876543210fedcba9876543210")
)

func algorithms() []Algorithm {
	return []Algorithm{AES256GCM, ChaCha20Poly1305}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, alg := range algorithms() {
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()
			c := New(StaticKey(testKey), WithAlgorithm(alg))

			for _, plaintext := range [][]byte{{}, []byte("hello"), bytes.Repeat([]byte{0xAB}, 10000)} {
				sealed, err := c.Seal(plaintext)
				require.NoError(t, err)
				assert.Len(t, sealed, len(plaintext)+Overhead)

				opened, err := c.Open(sealed)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(plaintext, opened))
			}
		})
	}
}

func TestSeal_FreshNonce(t *testing.T) {
	t.Parallel()

	c := New(StaticKey(testKey))
	a, err := c.Seal([]byte("same input"))
	require.NoError(t, err)
	b, err := c.Seal([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, a[:NonceSize], b[:NonceSize])
	assert.NotEqual(t, a, b)
}

func TestOpen_WrongKey(t *testing.T) {
	t.Parallel()

	for _, alg := range algorithms() {
		sealed, err := New(StaticKey(testKey), WithAlgorithm(alg)).Seal([]byte("secret"))
		require.NoError(t, err)

		_, err = New(StaticKey(otherKey), WithAlgorithm(alg)).Open(sealed)
		require.ErrorIs(t, err, blobtype.ErrTampered)
		assert.ErrorIs(t, err, fs.ErrPermission)
	}
}

func TestOpen_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	sealed, err := New(StaticKey(testKey), WithAlgorithm(AES256GCM)).Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = New(StaticKey(testKey), WithAlgorithm(ChaCha20Poly1305)).Open(sealed)
	assert.ErrorIs(t, err, blobtype.ErrTampered)
}

func TestOpen_EveryBitFlipDetected(t *testing.T) {
	t.Parallel()

	c := New(StaticKey(testKey))
	sealed, err := c.Seal([]byte("tamper me"))
	require.NoError(t, err)

	for i := range sealed {
		for bit := range 8 {
			tampered := append([]byte(nil), sealed...)
			tampered[i] ^= 1 << bit
			out, err := c.Open(tampered)
			require.ErrorIs(t, err, blobtype.ErrTampered, "byte %d bit %d", i, bit)
			require.Nil(t, out)
		}
	}
}

func TestOpen_Truncated(t *testing.T) {
	t.Parallel()

	c := New(StaticKey(testKey))
	sealed, err := c.Seal([]byte("truncate me"))
	require.NoError(t, err)

	_, err = c.Open(sealed[:len(sealed)-1])
	assert.ErrorIs(t, err, blobtype.ErrTampered)

	_, err = c.Open(sealed[:NonceSize])
	assert.ErrorIs(t, err, blobtype.ErrTampered)
}

func TestOpen_ShortCiphertext(t *testing.T) {
	t.Parallel()

	c := New(StaticKey(testKey))
	for _, n := range []int{0, 1, NonceSize - 1} {
		_, err := c.Open(make([]byte, n))
		assert.ErrorIs(t, err, blobtype.ErrShortCiphertext, "length %d", n)
	}
}

func TestKeyErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys KeySource
		want error
	}{
		{"nil source", nil, blobtype.ErrMissingKey},
		{"empty static key", StaticKey(nil), blobtype.ErrMissingKey},
		{"short key", StaticKey([]byte("too short")), blobtype.ErrInvalidKey},
		{"long key", StaticKey(bytes.Repeat([]byte{'k'}, KeySize+1)), blobtype.ErrInvalidKey},
		{"source error", func() ([]byte, error) { return nil, errors.New("vault unavailable") }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.keys)

			_, sealErr := c.Seal([]byte("x"))
			require.Error(t, sealErr)
			_, openErr := c.Open(make([]byte, 64))
			require.Error(t, openErr)
			if tt.want != nil {
				assert.ErrorIs(t, sealErr, tt.want)
				assert.ErrorIs(t, openErr, tt.want)
			}
		})
	}
}

func TestMissingKeyIsPermissionError(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Seal([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestEnvKey_ReadEachCall(t *testing.T) {
	const name = "SHOKO_SEAL_TEST_KEY"
	c := New(EnvKey(name))

	t.Setenv(name, "")
	_, err := c.Seal([]byte("x"))
	require.ErrorIs(t, err, blobtype.ErrMissingKey)

	t.Setenv(name, string(testKey))
	sealed, err := c.Seal([]byte("rotate"))
	require.NoError(t, err)

	t.Setenv(name, string(otherKey))
	_, err = c.Open(sealed)
	require.ErrorIs(t, err, blobtype.ErrTampered)

	t.Setenv(name, string(testKey))
	opened, err := c.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("rotate"), opened)
}

func TestEnvKey_DefaultName(t *testing.T) {
	t.Setenv(DefaultKeyEnv, string(testKey))

	key, err := EnvKey("")()
	require.NoError(t, err)
	assert.Equal(t, testKey, key)
}

func TestStaticKey_Copies(t *testing.T) {
	t.Parallel()

	k := append([]byte(nil), testKey...)
	src := StaticKey(k)
	k[0] = 'X'

	got, err := src()
	require.NoError(t, err)
	assert.Equal(t, testKey, got)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a, err := New(StaticKey(testKey)).Fingerprint()
	require.NoError(t, err)
	b, err := New(StaticKey(testKey), WithAlgorithm(ChaCha20Poly1305)).Fingerprint()
	require.NoError(t, err)
	c, err := New(StaticKey(otherKey)).Fingerprint()
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = New(nil).Fingerprint()
	assert.ErrorIs(t, err, blobtype.ErrMissingKey)
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	for _, alg := range algorithms() {
		got, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}

	got, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, AES256GCM, got)

	_, err = ParseAlgorithm("rot13")
	assert.Error(t, err)
}
