package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) packCommand() *cli.Command {
	var (
		output         string
		level          int
		workers        int
		prefix         string
		skipCompressed bool
	)
	return &cli.Command{
		Name:    "pack",
		Summary: "Create an archive from a directory",
		Usage:   "sar pack <dir> -o <archive> [flags]",
		Examples: []cli.Example{
			{Description: "Pack a folder with the strongest run-length level", Command: "sar pack ./site -o site.shk --clevel=9"},
		},
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("pack")
			fs.StringVarP(&output, "output", "o", "", "archive to create (replaced if it exists)")
			fs.IntVar(&level, "clevel", -1, "run-length level, clamped to 1-9 (default from config)")
			fs.IntVar(&workers, "workers", 0, "files read concurrently (default from config)")
			fs.StringVar(&prefix, "prefix", "", "path prefix for every entry")
			fs.BoolVar(&skipCompressed, "skip-compressed", true, "store files with already-compressed extensions without run-length encoding")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if output == "" && len(args) == 2 {
				output = args[1]
				args = args[:1]
			}
			if len(args) != 1 || output == "" {
				return cli.Usagef("pack requires <dir> and -o <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			opts := []shoko.PackOption{
				shoko.PackWithLevel(a.level(level)),
				shoko.PackWithWorkers(workers),
				shoko.PackWithPrefix(prefix),
				shoko.PackWithLogger(a.logger),
			}
			if skipCompressed {
				opts = append(opts, shoko.PackWithSkipCompression(shoko.DefaultSkipCompression(0)))
			}

			return a.withArchive(output, true, func(arc *shoko.Archive) error {
				stats, err := shoko.Pack(ctx, args[0], arc, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "packed %d files (%d bytes) into %s\n", stats.Files, stats.Bytes, output)
				return nil
			})
		},
	}
}
