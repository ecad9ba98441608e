package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) searchCommand() *cli.Command {
	return &cli.Command{
		Name:    "search",
		Summary: "List entries matching a glob pattern",
		Usage:   "sar search <archive> <pattern>",
		Examples: []cli.Example{
			{Command: "sar search site.shk 'assets/**/*.css'"},
		},
		Flags: func() *pflag.FlagSet {
			return a.flagSet("search")
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 2 {
				return cli.Usagef("search requires <archive> <pattern>")
			}
			if err := a.setup(); err != nil {
				return err
			}
			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				matches, err := arc.Match(args[1])
				if err != nil {
					return err
				}
				a.logger.Debug("search complete", "pattern", args[1], "matches", len(matches))
				for _, m := range matches {
					fmt.Fprintln(a.stdout, m)
				}
				return nil
			})
		},
	}
}
