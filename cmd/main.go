package main

import (
	"fmt"
	"os"

	"github.com/octopus-appchains/debio-node/cmd/debio/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		// Report the issue to stderr so it never mixes with a spec on stdout
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
