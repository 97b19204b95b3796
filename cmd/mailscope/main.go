package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/mhoward/mailscope/internal/cli"
)

func main() {
	var c cli.CLI

	parser := kong.Must(&c,
		kong.Name("mailscope"),
		kong.Description("Inspect an IMAP mailbox: search, folder stats, and analysis prompt export"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	execCtx, err := cli.NewContext(&c.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = ctx.Run(execCtx)
	if err != nil {
		execCtx.Formatter.PrintError(err)
		os.Exit(1)
	}
}
