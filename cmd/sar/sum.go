package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/pflag"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

func (a *app) sumCommand() *cli.Command {
	var (
		alg    string
		verify string
	)
	return &cli.Command{
		Name:    "sum",
		Summary: "Print or verify content digests of entries",
		Usage:   "sar sum <archive> [--verify file] [flags]",
		Examples: []cli.Example{
			{Description: "Record digests, then check them later", Command: "sar sum site.shk > site.sums && sar sum site.shk --verify site.sums"},
		},
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("sum")
			fs.StringVar(&alg, "digest", string(digest.Canonical), "digest algorithm: sha256, sha384, sha512")
			fs.StringVar(&verify, "verify", "", "check digests listed in a file (- for stdin)")
			return fs
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("sum requires <archive>")
			}
			if err := a.setup(); err != nil {
				return err
			}

			return a.withArchive(args[0], false, func(arc *shoko.Archive) error {
				if verify == "" {
					sums, err := shoko.Sums(arc, digest.Algorithm(alg))
					if err != nil {
						return err
					}
					return shoko.WriteSums(a.stdout, sums)
				}

				var r io.Reader = a.stdin
				if verify != "-" {
					f, err := os.Open(verify)
					if err != nil {
						return err
					}
					defer f.Close()
					r = f
				}
				sums, err := shoko.ReadSums(r)
				if err != nil {
					return err
				}
				mismatched, err := shoko.VerifySums(arc, sums)
				if err != nil {
					return err
				}
				for _, p := range mismatched {
					fmt.Fprintf(a.stdout, "%s: FAILED\n", p)
				}
				if len(mismatched) > 0 {
					return fmt.Errorf("%d of %d entries: %w", len(mismatched), len(sums), shoko.ErrDigestMismatch)
				}
				fmt.Fprintf(a.stdout, "%d entries OK\n", len(sums))
				return nil
			})
		},
	}
}
