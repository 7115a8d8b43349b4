package main

import (
	"errors"
	"os"

	"github.com/vijay-prabhu/jobad-analyser/internal/cli"
)

// Version information (set by build script)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, Commit, BuildTime)
	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrPoorScore) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
