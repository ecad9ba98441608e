package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) deleteCommand() *cli.Command {
	var noCompact bool
	return &cli.Command{
		Name:    "delete",
		Summary: "Remove entries and reclaim their space",
		Usage:   "sar delete <archive> <path>... [flags]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("delete")
			fs.BoolVar(&noCompact, "no-compact", false, "leave the deleted blobs in place")
			return fs
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) < 2 {
				return cli.Usagef("delete requires <archive> <path>...")
			}
			if err := a.setup(); err != nil {
				return err
			}
			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				for _, p := range args[1:] {
					if err := arc.Delete(shoko.NormalizePath(p)); err != nil {
						return err
					}
					a.logger.Info("deleted entry", "path", p)
				}
				if noCompact {
					return nil
				}
				stats, err := arc.Compact()
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "deleted %d entries, reclaimed %d bytes\n", len(args)-1, stats.Reclaimed())
				return nil
			})
		},
	}
}
