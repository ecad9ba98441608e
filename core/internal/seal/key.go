package seal

import (
	"fmt"
	"os"

	"github.com/meigma/shoko/core/internal/blobtype"
)

// DefaultKeyEnv is the environment variable EnvKey reads when given an empty name.
const DefaultKeyEnv = "SHOKO_KEY"

// KeySource returns the 32-byte key to use for one seal or open.
//
// A Cipher calls its KeySource on every operation and never caches the
// result, so a source may return different keys over time.
type KeySource func() ([]byte, error)

// EnvKey returns a KeySource that reads the named environment variable on
// each call. The variable's raw bytes are the key.
func EnvKey(name string) KeySource {
	if name == "" {
		name = DefaultKeyEnv
	}
	return func() ([]byte, error) {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: %s is not set", blobtype.ErrMissingKey, name)
		}
		return []byte(v), nil
	}
}

// StaticKey returns a KeySource that always yields a copy of key.
func StaticKey(key []byte) KeySource {
	k := append([]byte(nil), key...)
	return func() ([]byte, error) {
		if len(k) == 0 {
			return nil, blobtype.ErrMissingKey
		}
		return append([]byte(nil), k...), nil
	}
}
