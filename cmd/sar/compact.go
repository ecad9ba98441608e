package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) compactCommand() *cli.Command {
	return &cli.Command{
		Name:    "compact",
		Summary: "Rewrite the archive without unreferenced blobs",
		Usage:   "sar compact <archive>",
		Flags: func() *pflag.FlagSet {
			return a.flagSet("compact")
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("compact requires <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}
			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				stats, err := arc.Compact()
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%d entries, %d -> %d bytes (reclaimed %d)\n",
					stats.Entries, stats.BytesBefore, stats.BytesAfter, stats.Reclaimed())
				return nil
			})
		},
	}
}
