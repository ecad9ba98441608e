package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) infoCommand() *cli.Command {
	return &cli.Command{
		Name:    "info",
		Summary: "Show archive size, entry count and key fingerprint",
		Usage:   "sar info <archive>",
		Flags: func() *pflag.FlagSet {
			return a.flagSet("info")
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("info requires <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}

			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				index := "ok"
				if !arc.IndexFound() {
					index = "missing (opened empty)"
				}
				fingerprint, err := arc.Fingerprint()
				if err != nil {
					fingerprint = "unavailable: " + err.Error()
				}

				tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "path:\t%s\n", arc.Path())
				fmt.Fprintf(tw, "entries:\t%d\n", arc.Len())
				fmt.Fprintf(tw, "size:\t%d bytes\n", arc.Size())
				fmt.Fprintf(tw, "reclaimable:\t%d bytes\n", arc.Reclaimable())
				fmt.Fprintf(tw, "index:\t%s\n", index)
				fmt.Fprintf(tw, "cipher:\t%s\n", arc.Algorithm())
				fmt.Fprintf(tw, "key fingerprint:\t%s\n", fingerprint)
				return tw.Flush()
			})
		},
	}
}
