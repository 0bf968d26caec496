package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/scimtools/scimwatch/internal/cli"
	"github.com/scimtools/scimwatch/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("scimwatch"),
		kong.Description("SCIM provisioning monitor: structured log store, live streaming and activity classification"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	globals := cli.NewGlobals(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
