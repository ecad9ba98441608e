package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) exportCommand() *cli.Command {
	var (
		output      string
		compression string
		glob        string
	)
	return &cli.Command{
		Name:    "export",
		Summary: "Write decrypted entries as a tar stream",
		Usage:   "sar export <archive> [-o file] [flags]",
		Examples: []cli.Example{
			{Description: "Export to a zstd-compressed tarball", Command: "sar export site.shk -o site.tar.zst --compression=zstd"},
		},
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("export")
			fs.StringVarP(&output, "output", "o", "-", "output file, - for stdout")
			fs.StringVar(&compression, "compression", "", "stream compression: none, zstd, lz4, s2 (default from config)")
			fs.StringVar(&glob, "glob", "", "export only entries matching a glob pattern")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("export requires <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}
			if compression == "" {
				compression = a.cfg.ExportCompression
			}
			framing, err := shoko.ParseFraming(compression)
			if err != nil {
				return cli.Usagef("%v", err)
			}

			return a.withArchive(args[0], false, func(arc *shoko.Archive) (err error) {
				w := a.stdout
				if output != "-" {
					f, openErr := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
					if openErr != nil {
						return openErr
					}
					defer func() {
						err = errors.Join(err, f.Close())
					}()
					w = f
				}

				opts := []shoko.ExportOption{
					shoko.ExportWithFraming(framing),
					shoko.ExportWithLogger(a.logger),
				}
				if glob != "" {
					opts = append(opts, shoko.ExportWithPattern(glob))
				}
				n, err := shoko.Export(ctx, arc, w, opts...)
				if err != nil {
					return err
				}
				a.logger.Info("exported entries", "entries", n, "framing", framing, "output", output)
				return nil
			})
		},
	}
}

func (a *app) importCommand() *cli.Command {
	var level int
	return &cli.Command{
		Name:    "import",
		Summary: "Add the files of a tar stream to an archive",
		Usage:   "sar import <archive> [file|-] [flags]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("import")
			fs.IntVar(&level, "clevel", -1, "run-length level, clamped to 1-9 (default from the stream)")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return cli.Usagef("import requires <archive> [file|-]")
			}
			if err := a.setup(); err != nil {
				return err
			}

			var r io.Reader = a.stdin
			if len(args) == 2 && args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			create := !archiveExists(args[0])
			return a.withArchive(args[0], create, func(arc *shoko.Archive) error {
				opts := []shoko.ExportOption{shoko.ExportWithLogger(a.logger)}
				if level >= 0 {
					opts = append(opts, shoko.ExportWithLevel(clevel(level)))
				}
				n, err := shoko.Import(ctx, r, arc, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "imported %d entries into %s\n", n, args[0])
				return nil
			})
		},
	}
}
