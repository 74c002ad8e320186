package main

import (
	"os"

	"github.com/trebuchet-org/lspdecode/internal/cli"
	"github.com/trebuchet-org/lspdecode/internal/cli/render"
	"github.com/trebuchet-org/lspdecode/internal/config"
)

// Set with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		render.RenderError(os.Stderr, err)
		os.Exit(1)
	}
}
