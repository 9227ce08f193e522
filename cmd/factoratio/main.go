package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factoratio/pkg/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	logging.SetDefault("factoratio", version)

	root := &cli.Command{
		Name:    "factoratio",
		Usage:   "Production ratio calculator for crafting setups",
		Version: version,
		Commands: []*cli.Command{
			planCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
