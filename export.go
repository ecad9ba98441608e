package shoko

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/meigma/shoko/internal/sizing"
)

// paxLevel is the PAX record carrying an entry's run-length level.
const paxLevel = "SHOKO.level"

// exportConfig holds configuration for Export and Import.
type exportConfig struct {
	framing     Framing
	pattern     string
	level       Level
	levelSet    bool
	maxFileSize uint64
	modTime     time.Time
	progress    ProgressFunc
	logger      *slog.Logger
}

func (c *exportConfig) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// ExportOption configures Export and Import.
type ExportOption func(*exportConfig)

// ExportWithFraming sets the compression of the export stream (default FramingNone).
// Import detects the framing from the stream and ignores this option.
func ExportWithFraming(f Framing) ExportOption {
	return func(cfg *exportConfig) {
		cfg.framing = f
	}
}

// ExportWithPattern exports only entries whose path matches a glob pattern.
func ExportWithPattern(pattern string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.pattern = pattern
	}
}

// ExportWithLevel sets the level Import writes entries with, overriding the
// level recorded in the stream.
func ExportWithLevel(level Level) ExportOption {
	return func(cfg *exportConfig) {
		cfg.level = level
		cfg.levelSet = true
	}
}

// ExportWithMaxFileSize limits the size of a single imported entry.
// Zero disables the limit.
func ExportWithMaxFileSize(limit uint64) ExportOption {
	return func(cfg *exportConfig) {
		cfg.maxFileSize = limit
	}
}

// ExportWithModTime sets the modification time recorded for exported entries.
// By default the zero Unix time is used so exports are reproducible.
func ExportWithModTime(t time.Time) ExportOption {
	return func(cfg *exportConfig) {
		cfg.modTime = t
	}
}

// ExportWithProgress sets a callback for progress updates.
func ExportWithProgress(fn ProgressFunc) ExportOption {
	return func(cfg *exportConfig) {
		cfg.progress = fn
	}
}

// ExportWithLogger sets a logger.
func ExportWithLogger(logger *slog.Logger) ExportOption {
	return func(cfg *exportConfig) {
		cfg.logger = logger
	}
}

func newExportConfig(opts []ExportOption) exportConfig {
	cfg := exportConfig{
		level:       LevelDefault,
		maxFileSize: DefaultMaxFileSize,
		modTime:     time.Unix(0, 0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Export writes the plaintext of arc's entries to w as a tar stream.
//
// Each entry becomes a regular file whose name is the entry path; its level
// is kept in a PAX record so Import can restore it. The stream is
// compressed according to ExportWithFraming. It returns the number of
// entries written.
func Export(ctx context.Context, arc *Archive, w io.Writer, opts ...ExportOption) (int, error) {
	cfg := newExportConfig(opts)

	paths := arc.Paths()
	if cfg.pattern != "" {
		matched, err := arc.Match(cfg.pattern)
		if err != nil {
			return 0, err
		}
		paths = matched
	}

	fw, err := frameWriter(w, cfg.framing)
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(fw)

	n, err := exportEntries(ctx, arc, tw, paths, &cfg)
	if err != nil {
		_ = fw.Close()
		return n, err
	}
	if err := tw.Close(); err != nil {
		return n, fmt.Errorf("finish tar stream: %w", err)
	}
	if err := fw.Close(); err != nil {
		return n, fmt.Errorf("finish %s framing: %w", cfg.framing, err)
	}

	cfg.log().Info("exported archive", "archive", arc.Path(), "entries", n, "framing", cfg.framing)
	return n, nil
}

func exportEntries(ctx context.Context, arc *Archive, tw *tar.Writer, paths []string, cfg *exportConfig) (int, error) {
	var done uint64
	for i, p := range paths {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		entry, _ := arc.Entry(p)
		content, err := arc.Extract(p)
		if err != nil {
			return i, err
		}

		hdr := &tar.Header{
			Typeflag:   tar.TypeReg,
			Name:       p,
			Size:       int64(len(content)),
			Mode:       0o644,
			ModTime:    cfg.modTime,
			Format:     tar.FormatPAX,
			PAXRecords: map[string]string{paxLevel: strconv.Itoa(int(entry.Level))},
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return i, fmt.Errorf("export %s: %w", p, err)
		}
		if _, err := tw.Write(content); err != nil {
			return i, fmt.Errorf("export %s: %w", p, err)
		}

		done += uint64(len(content))
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{
				Stage:      StageExporting,
				Path:       p,
				BytesDone:  done,
				FilesDone:  i + 1,
				FilesTotal: len(paths),
			})
		}
	}
	return len(paths), nil
}

// Import reads a tar stream produced by Export (or any tar stream of
// regular files) and writes each file into arc.
//
// The framing is detected from the stream. Entry paths are normalized with
// NormalizePath; directories and other non-regular members are ignored.
// Each entry is written with the level recorded in the stream unless
// ExportWithLevel is given. It returns the number of entries written.
func Import(ctx context.Context, r io.Reader, arc *Archive, opts ...ExportOption) (int, error) {
	cfg := newExportConfig(opts)

	fr, release, framing, err := frameReader(r)
	if err != nil {
		return 0, fmt.Errorf("detect framing: %w", err)
	}
	defer release()

	tr := tar.NewReader(fr)
	n := 0
	var done uint64
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("read tar stream: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			cfg.log().Debug("skipping non-regular member", "name", hdr.Name, "type", hdr.Typeflag)
			continue
		}

		name := NormalizePath(hdr.Name)
		content, err := sizing.ReadAllWithLimit(tr, cfg.maxFileSize, ErrSizeOverflow)
		if err != nil {
			return n, fmt.Errorf("import %s: %w", hdr.Name, err)
		}
		level := importLevel(hdr, cfg)
		if err := arc.Write(name, content, level); err != nil {
			return n, err
		}

		n++
		done += uint64(len(content))
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{
				Stage:     StageImporting,
				Path:      name,
				BytesDone: done,
				FilesDone: n,
			})
		}
	}

	cfg.log().Info("imported archive", "archive", arc.Path(), "entries", n, "framing", framing)
	return n, nil
}

func importLevel(hdr *tar.Header, cfg exportConfig) Level {
	if cfg.levelSet {
		return cfg.level
	}
	if v, ok := hdr.PAXRecords[paxLevel]; ok {
		if l, err := strconv.ParseUint(v, 10, 8); err == nil {
			return Level(l)
		}
	}
	return cfg.level
}
