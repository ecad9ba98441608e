package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) writeCommand() *cli.Command {
	var level int
	return &cli.Command{
		Name:    "write",
		Summary: "Edit an entry in $EDITOR and store the result",
		Usage:   "sar write <archive>/<path> [flags]\n  sar write <archive> <path> [flags]",
		Examples: []cli.Example{
			{Description: "Edit config.toml inside app.shk", Command: "sar write app.shk/config.toml"},
		},
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("write")
			fs.IntVar(&level, "clevel", -1, "run-length level, clamped to 1-9 (default keeps the entry's level)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			archivePath, entryPath, err := splitTarget(args)
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}

			return a.withArchive(archivePath, false, func(arc *shoko.Archive) error {
				original, err := arc.Extract(entryPath)
				existing := err == nil
				if err != nil && !errors.Is(err, shoko.ErrNotFound) {
					return err
				}

				edited, err := a.edit(ctx, entryPath, original)
				if err != nil {
					return err
				}
				if existing && string(edited) == string(original) {
					a.logger.Info("entry unchanged", "path", entryPath)
					return nil
				}

				lvl := a.level(level)
				if e, ok := arc.Entry(entryPath); ok && level < 0 {
					lvl = e.Level
				}
				if err := arc.Write(entryPath, edited, lvl); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "updated %s (%d bytes)\n", entryPath, len(edited))
				return nil
			})
		},
	}
}

// splitTarget resolves "archive/path" or "archive path" arguments. In the
// single-argument form the archive is the shortest prefix that names an
// existing regular file.
func splitTarget(args []string) (archivePath, entryPath string, err error) {
	switch len(args) {
	case 2:
		archivePath, entryPath = args[0], shoko.NormalizePath(args[1])
	case 1:
		target := args[0]
		for i := range len(target) {
			if target[i] != '/' || i == 0 {
				continue
			}
			if archiveExists(target[:i]) {
				archivePath, entryPath = target[:i], shoko.NormalizePath(target[i+1:])
				break
			}
		}
		if archivePath == "" {
			return "", "", cli.Usagef("no archive found in %q; use <archive>/<path>", target)
		}
	default:
		return "", "", cli.Usagef("write requires <archive>/<path>")
	}
	if entryPath == "" {
		return "", "", cli.Usagef("write requires an entry path inside %s", archivePath)
	}
	return archivePath, entryPath, nil
}

// edit writes content to a private temporary file, runs the configured
// editor on it and returns the file's new content.
func (a *app) edit(ctx context.Context, entryPath string, content []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "shoko-edit-*"+path.Ext(entryPath))
	if err != nil {
		return nil, err
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	editor := strings.Fields(a.cfg.EditorCommand())
	if len(editor) == 0 {
		return nil, errors.New("no editor configured")
	}
	cmd := exec.CommandContext(ctx, editor[0], append(editor[1:], name)...) //nolint:gosec // the editor is user configuration
	cmd.Stdin = a.stdin
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	a.logger.Debug("running editor", "editor", editor[0], "file", name)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("editor %s: %w", editor[0], err)
	}

	return os.ReadFile(name)
}
