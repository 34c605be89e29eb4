package main

import (
	"fmt"
	"os"

	"github.com/runnerr0/chromexport/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "chromexport: %v\n", err)
		os.Exit(1)
	}
}
