// Package seal provides authenticated encryption for stored blobs.
//
// A sealed blob is laid out as
//
//	[nonce: 12 bytes (random)] [ciphertext] [tag: 16 bytes]
//
// with no associated data. The algorithm is not recorded in the blob.
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/meigma/shoko/core/internal/blobtype"
)

const (
	// KeySize is the required key length in bytes.
	KeySize = 32

	// NonceSize is the length of the random nonce prefixed to every sealed blob.
	NonceSize = 12

	// Overhead is the number of bytes sealing adds to a plaintext.
	Overhead = NonceSize + 16
)

var fingerprintDomain = []byte("shoko.key.fingerprint.v1")

// Algorithm selects the AEAD construction.
type Algorithm uint8

const (
	// AES256GCM is AES-256 in Galois/Counter Mode. This is the default.
	AES256GCM Algorithm = iota

	// ChaCha20Poly1305 is the IETF ChaCha20-Poly1305 construction.
	ChaCha20Poly1305
)

// String returns the canonical name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AES256GCM:
		return "aes-256-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm parses an algorithm name as returned by Algorithm.String.
// The empty string selects AES256GCM.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aes-256-gcm", "aes256gcm", "aes":
		return AES256GCM, nil
	case "chacha20-poly1305", "chacha20poly1305", "chacha":
		return ChaCha20Poly1305, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", s)
	}
}

// Cipher seals and opens blobs with a key obtained from a KeySource.
type Cipher struct {
	keys      KeySource
	algorithm Algorithm
	logger    *slog.Logger
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithAlgorithm selects the AEAD algorithm.
func WithAlgorithm(a Algorithm) Option {
	return func(c *Cipher) {
		c.algorithm = a
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cipher) {
		c.logger = logger
	}
}

// New creates a Cipher that reads its key from keys on every call.
func New(keys KeySource, opts ...Option) *Cipher {
	c := &Cipher{keys: keys}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Algorithm returns the configured algorithm.
func (c *Cipher) Algorithm() Algorithm {
	return c.algorithm
}

// Seal encrypts plaintext under a fresh random nonce.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	out = aead.Seal(out, out[:NonceSize], plaintext, nil)
	c.log().Debug("sealed blob", "algorithm", c.algorithm, "plaintext", len(plaintext), "sealed", len(out))
	return out, nil
}

// Open authenticates and decrypts a blob produced by Seal.
//
// Blobs shorter than the nonce fail with ErrShortCiphertext. Any
// authentication failure, including a wrong key, fails with ErrTampered.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < NonceSize {
		return nil, fmt.Errorf("%w: %d bytes", blobtype.ErrShortCiphertext, len(sealed))
	}
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, sealed[:NonceSize], sealed[NonceSize:], nil)
	if err != nil {
		return nil, blobtype.ErrTampered
	}
	return plaintext, nil
}

// Fingerprint returns a short identifier for the current key that does not
// reveal the key itself.
func (c *Cipher) Fingerprint() (string, error) {
	key, err := c.key()
	if err != nil {
		return "", err
	}
	hasher, err := blake3.NewKeyed(key)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	hasher.Write(fingerprintDomain)
	sum := hasher.Sum(nil)
	return hex.EncodeToString(sum[:8]), nil
}

func (c *Cipher) key() ([]byte, error) {
	if c.keys == nil {
		return nil, blobtype.ErrMissingKey
	}
	key, err := c.keys()
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", blobtype.ErrInvalidKey, len(key))
	}
	return key, nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	key, err := c.key()
	if err != nil {
		return nil, err
	}

	switch c.algorithm {
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("creating ChaCha20-Poly1305 cipher: %w", err)
		}
		return aead, nil
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("creating AES cipher: %w", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("creating GCM: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("unsupported algorithm %s", c.algorithm)
	}
}

func (c *Cipher) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(slog.DiscardHandler)
}
