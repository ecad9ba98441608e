package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) readCommand() *cli.Command {
	return &cli.Command{
		Name:    "read",
		Summary: "Show the archive's directory tree",
		Usage:   "sar read <archive>",
		Flags: func() *pflag.FlagSet {
			return a.flagSet("read")
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("read requires <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}
			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				fmt.Fprintln(a.stdout, arc.Path())
				renderTree(a.stdout, buildTree(arc.Entries()))
				return nil
			})
		},
	}
}
