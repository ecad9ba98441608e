package shoko

import (
	"context"
	"log/slog"

	"github.com/meigma/shoko/internal/sink"
)

// UnpackStats describes the result of an Unpack.
type UnpackStats struct {
	// Files is the number of files written.
	Files int

	// Skipped is the number of entries not written because the destination
	// file already existed.
	Skipped int

	// Bytes is the total plaintext size of the written files.
	Bytes uint64
}

// Unpack extracts entries of arc into the directory dest.
//
// Entry paths are interpreted as slash-separated paths relative to dest.
// An entry whose path is absolute or climbs out of dest with ".." fails the
// unpack with an *fs.PathError wrapping fs.ErrInvalid. Files are written to
// a temporary name and renamed into place unless UnpackWithDirectWrites is
// set.
//
// The context is checked between entries.
func Unpack(ctx context.Context, arc *Archive, dest string, opts ...UnpackOption) (UnpackStats, error) {
	var cfg unpackConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	paths := arc.Paths()
	if cfg.pattern != "" {
		matched, err := arc.Match(cfg.pattern)
		if err != nil {
			return UnpackStats{}, err
		}
		paths = matched
	}

	s := sink.New(dest,
		sink.WithOverwrite(cfg.overwrite),
		sink.WithDirectWrites(cfg.direct),
	)

	var stats UnpackStats
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !s.ShouldWrite(p) {
			logger.Debug("skipping existing file", "path", p)
			stats.Skipped++
			continue
		}

		content, err := arc.Extract(p)
		if err != nil {
			return stats, err
		}
		if err := s.Write(p, content); err != nil {
			return stats, err
		}

		stats.Files++
		stats.Bytes += uint64(len(content))
		logger.Debug("unpacked file", "path", p, "size", len(content))
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{
				Stage:      StageExtracting,
				Path:       p,
				BytesDone:  stats.Bytes,
				FilesDone:  stats.Files,
				FilesTotal: len(paths),
			})
		}
	}

	logger.Info("unpacked archive", "archive", arc.Path(), "dest", dest, "files", stats.Files, "skipped", stats.Skipped)
	return stats, nil
}
