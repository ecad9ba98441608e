// Package sink writes extracted entries to a destination directory.
package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSink writes entries below a destination directory.
//
// By default, content is written to a temporary file in the same directory
// and renamed to the final path, so partially written files are never
// visible at the final path. All filesystem access goes through an os.Root,
// so entry paths cannot escape the destination.
type FileSink struct {
	destDir     string
	overwrite   bool
	directWrite bool
	mode        fs.FileMode
}

// Option configures a FileSink.
type Option func(*FileSink)

// WithOverwrite allows overwriting existing files.
// By default, existing files are skipped.
func WithOverwrite(overwrite bool) Option {
	return func(s *FileSink) {
		s.overwrite = overwrite
	}
}

// WithDirectWrites disables temp files and writes directly to the final path.
func WithDirectWrites(enabled bool) Option {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// WithMode sets the permission bits of written files (default 0o644).
func WithMode(mode fs.FileMode) Option {
	return func(s *FileSink) {
		s.mode = mode.Perm()
	}
}

// New creates a FileSink that writes to destDir.
// destDir is created if it does not exist.
func New(destDir string, opts ...Option) *FileSink {
	s := &FileSink{
		destDir: destDir,
		mode:    0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldWrite returns false if the file already exists and overwrite is disabled.
func (s *FileSink) ShouldWrite(path string) bool {
	if s.overwrite {
		return true
	}
	if !fs.ValidPath(path) {
		return true
	}
	_, err := os.Stat(filepath.Join(s.destDir, filepath.FromSlash(path)))
	return os.IsNotExist(err)
}

// Write stores content at the slash-separated path below the destination.
// Paths that are not valid fs paths, such as those containing ".." or a
// leading slash, fail with fs.ErrInvalid.
func (s *FileSink) Write(path string, content []byte) error {
	if !fs.ValidPath(path) || path == "." {
		return &fs.PathError{Op: "unpack", Path: path, Err: fs.ErrInvalid}
	}
	destRel := filepath.FromSlash(path)

	if err := os.MkdirAll(s.destDir, 0o750); err != nil {
		return fmt.Errorf("create destination %s: %w", s.destDir, err)
	}
	root, err := os.OpenRoot(s.destDir)
	if err != nil {
		return fmt.Errorf("open destination root %s: %w", s.destDir, err)
	}
	defer root.Close()

	if err := root.MkdirAll(filepath.Dir(destRel), 0o750); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	if s.directWrite {
		return s.writeDirect(root, destRel, content)
	}
	return s.writeAtomic(root, destRel, content)
}

func (s *FileSink) writeDirect(root *os.Root, destRel string, content []byte) error {
	f, err := root.OpenFile(destRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, s.mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", destRel, err)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Close()            //nolint:errcheck // best-effort cleanup
		_ = root.Remove(destRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", destRel, err)
	}
	if err := f.Close(); err != nil {
		_ = root.Remove(destRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

func (s *FileSink) writeAtomic(root *os.Root, destRel string, content []byte) error {
	tempFile, tempRel, err := createTempFile(root, filepath.Dir(destRel), ".shoko-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tempFile.Write(content); err != nil {
		_ = tempFile.Close()     //nolint:errcheck // best-effort cleanup
		_ = root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", destRel, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := root.Chmod(tempRel, s.mode); err != nil {
		_ = root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("chmod: %w", err)
	}
	if err := root.Rename(tempRel, destRel); err != nil {
		_ = root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", destRel, err)
	}
	return nil
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
