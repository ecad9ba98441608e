package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) unpackCommand() *cli.Command {
	var (
		glob      string
		overwrite bool
	)
	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract files from an archive",
		Usage:   "sar unpack <archive> [out_dir] [flags]",
		Examples: []cli.Example{
			{Description: "Extract everything into the current directory", Command: "sar unpack site.shk"},
			{Description: "Extract only text files", Command: "sar unpack site.shk out --glob='*.txt'"},
		},
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("unpack")
			fs.StringVar(&glob, "glob", "", "extract only entries matching a glob pattern")
			fs.BoolVar(&overwrite, "overwrite", true, "replace existing files in the output directory")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Usagef("unpack requires <archive> [out_dir]")
			}
			dest := "."
			if len(args) == 2 {
				dest = args[1]
			}
			if err := a.setup(); err != nil {
				return err
			}

			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				opts := []shoko.UnpackOption{
					shoko.UnpackWithOverwrite(overwrite),
					shoko.UnpackWithLogger(a.logger),
				}
				if glob != "" {
					opts = append(opts, shoko.UnpackWithPattern(glob))
				}
				stats, err := shoko.Unpack(ctx, arc, dest, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "extracted %d files (%d bytes) to %s", stats.Files, stats.Bytes, dest)
				if stats.Skipped > 0 {
					fmt.Fprintf(a.stdout, ", skipped %d existing", stats.Skipped)
				}
				fmt.Fprintln(a.stdout)
				return nil
			})
		},
	}
}
