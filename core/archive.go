package shoko

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/meigma/shoko/core/internal/file"
	"github.com/meigma/shoko/core/internal/index"
	"github.com/meigma/shoko/core/internal/seal"
	"github.com/meigma/shoko/internal/sizing"
)

// HeaderSize is the size of the magic header at the start of every archive.
const HeaderSize = index.HeaderSize

// Archive is an open archive file.
//
// Archive exclusively owns its file handle and entry list until Close.
// It is not safe for concurrent use.
type Archive struct {
	path       string
	key        string
	src        *fileSource
	entries    []Entry
	cipher     *seal.Cipher
	reader     *file.Reader
	indexFound bool
	needHeader bool
	closed     bool
	opts       options
}

// fileSource adapts the archive file to file.ByteSource.
type fileSource struct {
	f    *os.File
	size int64
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *fileSource) Size() int64 {
	return s.size
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.opts.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.opts.logger
}

// Create creates or truncates the file at path and writes an empty archive.
func Create(path string, opts ...Option) (*Archive, error) {
	a, f, err := newArchive(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, opts)
	if err != nil {
		return nil, err
	}

	if _, err := f.WriteAt(index.Magic[:], 0); err != nil {
		a.abort()
		return nil, fmt.Errorf("create %s: write header: %w", path, err)
	}
	if a.opts.sync {
		if err := f.Sync(); err != nil {
			a.abort()
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
	}
	a.src.size = HeaderSize
	a.indexFound = true

	a.log().Debug("created archive", "path", path)
	return a, nil
}

// Open opens an existing archive and loads its index from the trailer.
//
// A file without a valid footer opens as an empty archive unless
// WithStrictOpen is set; see WithStrictOpen. A footer pointing at an
// unreadable index fails with ErrCorruptIndex in either mode.
func Open(path string, opts ...Option) (*Archive, error) {
	a, _, err := newArchive(path, os.O_RDWR, opts)
	if err != nil {
		return nil, err
	}
	if err := a.load(); err != nil {
		a.abort()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	a.log().Debug("opened archive",
		"path", path,
		"entries", len(a.entries),
		"size", a.src.size,
		"index_found", a.indexFound,
	)
	return a, nil
}

func newArchive(path string, flag int, opts []Option) (*Archive, *os.File, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	key, err := registryKey(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := acquire(key); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, flag, 0o644) //nolint:gosec // path is caller-provided by design
	if err != nil {
		release(key)
		return nil, nil, err
	}

	cipher := seal.New(o.keys, seal.WithAlgorithm(o.algorithm), seal.WithLogger(o.logger))
	src := &fileSource{f: f}
	a := &Archive{
		path:   path,
		key:    key,
		src:    src,
		cipher: cipher,
		reader: file.NewReader(src, cipher,
			file.WithMaxBlobSize(o.maxBlobSize),
			file.WithLogger(o.logger),
		),
		opts: o,
	}
	return a, f, nil
}

// abort releases resources after a failed Create or Open.
func (a *Archive) abort() {
	a.src.f.Close()
	release(a.key)
	a.closed = true
}

// load reads the file size, footer and index into memory.
func (a *Archive) load() error {
	info, err := a.src.f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	a.src.size = size

	headerErr := index.CheckHeader(a.src, size)
	entries, err := index.Load(a.src, size)
	switch {
	case err == nil:
		if headerErr != nil {
			if a.opts.strictOpen {
				return headerErr
			}
			a.log().Warn("archive header is invalid", "path", a.path, "error", headerErr)
			a.needHeader = true
		}
		a.entries = entries
		a.indexFound = true
		return nil

	case errors.Is(err, ErrNoIndex):
		if headerErr == nil && size == HeaderSize {
			a.entries = nil
			a.indexFound = true
			return nil
		}
		if a.opts.strictOpen {
			if headerErr != nil {
				return headerErr
			}
			return err
		}
		a.log().Warn("no index found, opening as empty archive",
			"path", a.path,
			"size", size,
			"error", err,
		)
		a.entries = nil
		a.indexFound = false
		a.needHeader = headerErr != nil
		return nil

	default:
		return err
	}
}

// Write stores content under path, replacing any existing entry with the
// same path. The new blob is appended after the last live blob, then the
// index is rewritten.
//
// The bytes of a replaced blob are not reclaimed until Compact.
func (a *Archive) Write(path string, content []byte, level Level) error {
	if err := a.check("write", path); err != nil {
		return err
	}
	if err := ValidatePath(path); err != nil {
		return &fs.PathError{Op: "write", Path: path, Err: err}
	}

	if err := a.ensureHeader(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	offset := index.IndexStart(a.entries)
	off, err := sizing.ToInt64(offset, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w := file.NewWriter(io.NewOffsetWriter(a.src.f, off), a.cipher,
		file.WithWriterLogger(a.opts.logger),
		file.WithWriterMaxBlobSize(a.opts.maxBlobSize),
	)
	n, err := w.Write(content, level)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	entries := slices.DeleteFunc(slices.Clone(a.entries), func(e Entry) bool {
		return e.Path == path
	})
	entries = append(entries, Entry{Path: path, Size: n, Offset: offset, Level: level})
	if err := a.commit(entries); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	a.log().Debug("wrote entry", "path", path, "offset", offset, "size", n, "level", level)
	return nil
}

// Extract returns the plaintext content stored under path.
func (a *Archive) Extract(path string) ([]byte, error) {
	if err := a.check("extract", path); err != nil {
		return nil, err
	}
	i := a.find(path)
	if i < 0 {
		return nil, &fs.PathError{Op: "extract", Path: path, Err: ErrNotFound}
	}
	entry := a.entries[i]
	return a.reader.ReadAll(&entry)
}

// Delete removes the entry for path and rewrites the index.
//
// The blob bytes are not reclaimed until Compact.
func (a *Archive) Delete(path string) error {
	if err := a.check("delete", path); err != nil {
		return err
	}
	i := a.find(path)
	if i < 0 {
		return &fs.PathError{Op: "delete", Path: path, Err: ErrNotFound}
	}
	if err := a.ensureHeader(); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	entries := slices.Delete(slices.Clone(a.entries), i, i+1)
	if err := a.commit(entries); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	a.log().Debug("deleted entry", "path", path)
	return nil
}

// Entries returns a copy of the entries in index order.
func (a *Archive) Entries() []Entry {
	return slices.Clone(a.entries)
}

// Entry returns the entry for path.
func (a *Archive) Entry(path string) (Entry, bool) {
	i := a.find(path)
	if i < 0 {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Paths returns the entry paths in index order.
func (a *Archive) Paths() []string {
	paths := make([]string, len(a.entries))
	for i := range a.entries {
		paths[i] = a.entries[i].Path
	}
	return paths
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Path returns the file path the archive was opened with.
func (a *Archive) Path() string {
	return a.path
}

// Size returns the current size of the archive file in bytes.
func (a *Archive) Size() int64 {
	return a.src.size
}

// Reclaimable returns the number of blob bytes no live entry refers to.
// Entries that share bytes can make the live total exceed the blob region;
// the result is 0 then.
func (a *Archive) Reclaimable() uint64 {
	live := uint64(0)
	for i := range a.entries {
		live += a.entries[i].Size
	}
	region := index.IndexStart(a.entries) - HeaderSize
	if live >= region {
		return 0
	}
	return region - live
}

// IndexFound reports whether Open found a valid index. It is false only
// when a lenient Open fell back to an empty entry set.
func (a *Archive) IndexFound() bool {
	return a.indexFound
}

// Algorithm returns the AEAD algorithm the archive seals blobs with.
func (a *Archive) Algorithm() Algorithm {
	return a.cipher.Algorithm()
}

// Fingerprint returns a short identifier of the current key.
func (a *Archive) Fingerprint() (string, error) {
	return a.cipher.Fingerprint()
}

// Close releases the file handle. Operations on a closed archive fail with
// ErrClosed.
func (a *Archive) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true
	defer release(a.key)
	if err := a.src.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", a.path, err)
	}
	a.log().Debug("closed archive", "path", a.path)
	return nil
}

func (a *Archive) check(op, path string) error {
	if a.closed {
		return &fs.PathError{Op: op, Path: path, Err: ErrClosed}
	}
	return nil
}

func (a *Archive) find(path string) int {
	return slices.IndexFunc(a.entries, func(e Entry) bool {
		return e.Path == path
	})
}

// ensureHeader rewrites the magic header of a file that was opened without one.
func (a *Archive) ensureHeader() error {
	if !a.needHeader {
		return nil
	}
	if _, err := a.src.f.WriteAt(index.Magic[:], 0); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	a.needHeader = false
	return nil
}

// commit writes the index for entries after the last blob, truncates the
// file to the end of the footer and adopts entries as the live set.
func (a *Archive) commit(entries []Entry) error {
	start := index.IndexStart(entries)
	data, err := index.Encode(entries, start)
	if err != nil {
		return err
	}
	off, err := sizing.ToInt64(start, ErrSizeOverflow)
	if err != nil {
		return err
	}

	if _, err := a.src.f.WriteAt(data, off); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	end := off + int64(len(data))
	if err := a.src.f.Truncate(end); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	if a.opts.sync {
		if err := a.src.f.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
	}

	a.src.size = end
	a.entries = entries
	a.indexFound = true
	a.log().Debug("rewrote index", "entries", len(entries), "index_start", start, "size", end)
	return nil
}
