package shoko

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/shoko/internal/platform"
	"github.com/meigma/shoko/internal/sizing"
)

// PackStats describes the result of a Pack.
type PackStats struct {
	// Files is the number of files written to the archive.
	Files int

	// Skipped is the number of symlinks and other non-regular files ignored.
	Skipped int

	// Bytes is the total plaintext size of the packed files.
	Bytes uint64
}

// packFile is one regular file found while walking the source tree.
type packFile struct {
	rel  string // slash-separated, relative to the source root
	info fs.FileInfo
}

// readResult carries the content of one packFile from a reader goroutine.
type readResult struct {
	file packFile
	data []byte
	err  error
}

// Pack walks dir and writes every regular file into arc.
//
// Entry paths are the slash-separated paths relative to dir, optionally
// under a prefix. Symbolic links are not followed and, like other
// non-regular files, are skipped. Files are read ahead by a bounded pool
// of goroutines but written to arc in walk order from the calling
// goroutine. Existing entries with the same path are replaced.
//
// The context is checked between files.
func Pack(ctx context.Context, dir string, arc *Archive, opts ...PackOption) (PackStats, error) {
	cfg := packConfig{
		level:       LevelDefault,
		workers:     4,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	p := &packer{cfg: cfg}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return PackStats{}, err
	}
	defer root.Close()

	p.log().Info("packing directory", "dir", dir, "archive", arc.Path(), "level", cfg.level)

	files, skipped, err := p.enumerate(ctx, root)
	if err != nil {
		return PackStats{}, err
	}
	stats := PackStats{Skipped: skipped}
	p.reportProgress(ProgressEvent{Stage: StageEnumerating, FilesTotal: len(files)})

	if err := p.write(ctx, root, files, arc, &stats); err != nil {
		return stats, err
	}

	p.log().Info("packed directory", "dir", dir, "files", stats.Files, "skipped", stats.Skipped, "bytes", stats.Bytes)
	return stats, nil
}

// packer holds state for one Pack call.
type packer struct {
	cfg packConfig
}

func (p *packer) log() *slog.Logger {
	if p.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.cfg.logger
}

func (p *packer) reportProgress(ev ProgressEvent) {
	if p.cfg.progress != nil {
		p.cfg.progress(ev)
	}
}

// enumerate lists regular files under root in lexical walk order.
func (p *packer) enumerate(ctx context.Context, root *os.Root) (files []packFile, skipped int, err error) {
	maxFiles := p.cfg.maxFiles
	if maxFiles == 0 {
		maxFiles = DefaultMaxFiles
	}

	err = fs.WalkDir(root.FS(), ".", func(rel string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			p.log().Debug("skipping non-regular file", "path", rel, "type", d.Type().String())
			skipped++
			return nil
		}
		if maxFiles > 0 && len(files) >= maxFiles {
			return fmt.Errorf("%w: limit is %d", ErrTooManyFiles, maxFiles)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, packFile{rel: rel, info: info})
		return nil
	})
	return files, skipped, err
}

// write reads files concurrently and writes them to arc in order.
func (p *packer) write(ctx context.Context, root *os.Root, files []packFile, arc *Archive, stats *PackStats) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Each pending slot is one file being read; the channel's capacity
	// bounds how far reads run ahead of writes.
	pending := make(chan chan readResult, p.cfg.workers)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(pending)
		for _, f := range files {
			ch := make(chan readResult, 1)
			select {
			case pending <- ch:
			case <-egCtx.Done():
				return egCtx.Err()
			}
			eg.Go(func() error {
				ch <- p.read(egCtx, root, f)
				return nil
			})
		}
		return nil
	})

	writeErr := p.drain(ctx, pending, arc, stats, len(files))
	if writeErr != nil {
		cancel()
		for range pending { //nolint:revive // unblock the producer
		}
	}
	if err := eg.Wait(); err != nil && writeErr == nil {
		return err
	}
	return writeErr
}

// drain writes read results to arc in the order they were queued.
func (p *packer) drain(ctx context.Context, pending <-chan chan readResult, arc *Archive, stats *PackStats, total int) error {
	for ch := range pending {
		res := <-ch
		if res.err != nil {
			return res.err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := res.file.rel
		if p.cfg.prefix != "" {
			name = NormalizePath(path.Join(p.cfg.prefix, name))
		}
		level := p.cfg.level
		if shouldSkip(res.file.rel, res.file.info, p.cfg.skipCompression) {
			level = LevelStored
		}
		if err := arc.Write(name, res.data, level); err != nil {
			return err
		}

		stats.Files++
		stats.Bytes += uint64(len(res.data))
		p.log().Debug("packed file", "path", name, "size", len(res.data), "level", level)
		p.reportProgress(ProgressEvent{
			Stage:      StagePacking,
			Path:       name,
			BytesDone:  stats.Bytes,
			FilesDone:  stats.Files,
			FilesTotal: total,
		})
	}
	return nil
}

// read loads one file, refusing to follow a symlink swapped in after the walk.
func (p *packer) read(ctx context.Context, root *os.Root, f packFile) readResult {
	if err := ctx.Err(); err != nil {
		return readResult{file: f, err: err}
	}
	file, err := platform.OpenFileNoFollow(root, filepath.FromSlash(f.rel))
	if err != nil {
		if errors.Is(err, platform.ErrSymlink) {
			err = fmt.Errorf("%s changed to a symlink during pack: %w", f.rel, err)
		}
		return readResult{file: f, err: err}
	}
	defer file.Close()

	data, err := sizing.ReadAllWithLimit(file, p.cfg.maxFileSize, ErrSizeOverflow)
	if err != nil {
		return readResult{file: f, err: fmt.Errorf("read %s: %w", f.rel, err)}
	}
	return readResult{file: f, data: data}
}
