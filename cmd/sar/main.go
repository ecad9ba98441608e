// Command sar manages shoko archives: encrypted, run-length compressed
// single-file containers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/meigma/shoko/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	code := a.execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs one command line and returns the process exit code.
func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.Stderr = a.stderr

	if err := root.Execute(ctx, args); err != nil {
		fmt.Fprintf(a.stderr, "sar: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cli.Command {
	return &cli.Command{
		Name:    "sar",
		Summary: "sar - shoko archive tool",
		Subcommands: []*cli.Command{
			a.packCommand(),
			a.unpackCommand(),
			a.readCommand(),
			a.searchCommand(),
			a.deleteCommand(),
			a.writeCommand(),
			a.exportCommand(),
			a.importCommand(),
			a.sumCommand(),
			a.infoCommand(),
			a.compactCommand(),
			a.genkeyCommand(),
		},
	}
}
