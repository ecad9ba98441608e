package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/meigma/shoko"
	"github.com/meigma/shoko/internal/cli"
)

const (
	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// printable is every graphic ASCII character from '!' to '}'.
	printable = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}"
)

func (a *app) genkeyCommand() *cli.Command {
	var (
		name    string
		symbols bool
	)
	return &cli.Command{
		Name:    "genkey",
		Summary: "Generate a random 32-character archive key",
		Usage:   "sar genkey [flags]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("genkey")
			fs.StringVar(&name, "name", "", "label printed with the key")
			fs.BoolVar(&symbols, "symbols", false, "draw from all printable ASCII instead of letters and digits")
			return fs
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Usagef("genkey takes no arguments")
			}
			if err := a.setup(); err != nil {
				return err
			}

			alphabet := alphanumeric
			if symbols {
				alphabet = printable
			}
			key, err := generateKey(rand.Reader, alphabet, shoko.KeySize)
			if err != nil {
				return err
			}

			if f, ok := a.stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
				fmt.Fprintln(a.stderr, "Store this key somewhere safe now; archives sealed with it cannot be opened without it.")
			}
			if name != "" {
				fmt.Fprintf(a.stdout, "# %s\n", name)
			}
			fmt.Fprintf(a.stdout, "export %s=%s\n", a.cfg.KeyEnv, shellQuote(key))
			return nil
		},
	}
}

// generateKey draws n characters uniformly from alphabet using r.
func generateKey(r io.Reader, alphabet string, n int) (string, error) {
	// Bytes at or above limit would bias the modulo.
	limit := 256 - 256%len(alphabet)
	var sb strings.Builder
	sb.Grow(n)
	buf := make([]byte, 64)
	for sb.Len() < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			sb.WriteByte(alphabet[int(b)%len(alphabet)])
			if sb.Len() == n {
				break
			}
		}
	}
	return sb.String(), nil
}

// shellQuote single-quotes s for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
