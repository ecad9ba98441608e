// Package testutil holds helpers shared by archive tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/meigma/shoko/core/internal/seal"
)

var (
	// TestKey is a fixed 32-byte key for tests.
	TestKey = []byte("0123456789abcdef0123456789abcdef")

	// OtherKey is a second fixed key, distinct from TestKey.
	OtherKey = []byte("fedcba9876543210fedcba9876543210")
)

// Key returns a KeySource yielding TestKey.
func Key() seal.KeySource {
	return seal.StaticKey(TestKey)
}

// KeyFrom returns a KeySource yielding key.
func KeyFrom(key []byte) seal.KeySource {
	return seal.StaticKey(key)
}

// ArchivePath returns a path for a new archive inside a per-test directory.
func ArchivePath(t testing.TB) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.shoko")
}

// WriteTree creates files under dir. Keys are slash-separated relative paths.
func WriteTree(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(full, content, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// ReadTree returns every regular file under dir keyed by slash-separated
// relative path.
func ReadTree(t testing.TB, dir string) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path) //nolint:gosec // test helper
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = content
		return nil
	})
	if err != nil {
		t.Fatalf("read tree %s: %v", dir, err)
	}
	return files
}

// FlipByte inverts every bit of the byte at off in the file at path.
func FlipByte(t testing.TB, path string, off int64) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0) //nolint:gosec // test helper
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	var b [1]byte
	if _, err := f.ReadAt(b[:], off); err != nil {
		t.Fatalf("read %s at %d: %v", path, off, err)
	}
	b[0] ^= 0xFF
	if _, err := f.WriteAt(b[:], off); err != nil {
		t.Fatalf("write %s at %d: %v", path, off, err)
	}
}
