package shoko

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CompactStats describes the result of a compaction.
type CompactStats struct {
	// Entries is the number of live entries copied.
	Entries int

	// BytesBefore is the archive size before compaction.
	BytesBefore int64

	// BytesAfter is the archive size after compaction.
	BytesAfter int64
}

// Reclaimed returns the number of bytes compaction removed.
func (s CompactStats) Reclaimed() int64 {
	return s.BytesBefore - s.BytesAfter
}

// Compact rewrites the archive so it holds only live blobs.
//
// Every live entry is extracted and written, in index order and with its
// original level, into a scratch archive next to the archive file (or in
// the directory set by WithScratchDir). The archive file is then truncated,
// overwritten with the scratch bytes and reloaded. Compaction needs free
// space for a full copy of the live data and is not crash safe: an
// interruption while copying back leaves the archive truncated.
func (a *Archive) Compact() (CompactStats, error) {
	if err := a.check("compact", a.path); err != nil {
		return CompactStats{}, err
	}
	stats := CompactStats{
		Entries:     len(a.entries),
		BytesBefore: a.src.size,
	}

	dir := a.opts.scratchDir
	if dir == "" {
		dir = filepath.Dir(a.path)
	}
	tmp, err := os.CreateTemp(dir, ".shoko-defrag-*")
	if err != nil {
		return stats, fmt.Errorf("compact %s: %w", a.path, err)
	}
	scratchPath := tmp.Name()
	tmp.Close()
	defer os.Remove(scratchPath)

	a.log().Info("compacting archive", "path", a.path, "entries", stats.Entries, "size", stats.BytesBefore)

	if err := a.writeScratch(scratchPath); err != nil {
		return stats, fmt.Errorf("compact %s: %w", a.path, err)
	}
	if err := a.replaceWith(scratchPath); err != nil {
		return stats, fmt.Errorf("compact %s: %w", a.path, err)
	}
	a.needHeader = false
	if err := a.load(); err != nil {
		return stats, fmt.Errorf("compact %s: reload: %w", a.path, err)
	}

	stats.BytesAfter = a.src.size
	a.log().Info("compacted archive",
		"path", a.path,
		"entries", len(a.entries),
		"size", stats.BytesAfter,
		"reclaimed", stats.Reclaimed(),
	)
	return stats, nil
}

// writeScratch copies every live entry into a new archive at path.
func (a *Archive) writeScratch(path string) (err error) {
	scratch, err := Create(path,
		WithKeySource(a.opts.keys),
		WithAlgorithm(a.opts.algorithm),
		WithMaxBlobSize(a.opts.maxBlobSize),
		WithLogger(a.opts.logger),
	)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := scratch.Close(); err == nil {
			err = cerr
		}
	}()

	total := len(a.entries)
	var done uint64
	for i := range a.entries {
		e := a.entries[i]
		content, err := a.Extract(e.Path)
		if err != nil {
			return err
		}
		if err := scratch.Write(e.Path, content, e.Level); err != nil {
			return err
		}
		done += uint64(len(content))
		a.reportProgress(ProgressEvent{
			Stage:      StageCompacting,
			Path:       e.Path,
			BytesDone:  done,
			FilesDone:  i + 1,
			FilesTotal: total,
		})
	}
	return nil
}

// replaceWith truncates the archive file and copies the file at path over it.
func (a *Archive) replaceWith(path string) error {
	src, err := os.Open(path) //nolint:gosec // scratch path created by Compact
	if err != nil {
		return err
	}
	defer src.Close()

	if err := a.src.f.Truncate(0); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	a.src.size = 0
	if _, err := io.Copy(io.NewOffsetWriter(a.src.f, 0), src); err != nil {
		return fmt.Errorf("copy scratch archive: %w", err)
	}
	if a.opts.sync {
		if err := a.src.f.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
	}
	return nil
}

// reportProgress sends a progress event if a callback is configured.
func (a *Archive) reportProgress(ev ProgressEvent) {
	if a.opts.progress == nil {
		return
	}
	a.opts.progress(ev)
}
