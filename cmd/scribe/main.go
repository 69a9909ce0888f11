// Command scribe is the CLI surface around pkg/scribe: a scripted TUI
// demo, a benchmark runner, and a fixture-driven invariant verifier. main
// does nothing but dispatch into internal/cli.
package main

import (
	"fmt"
	"os"

	"github.com/speier/scribe/cmd/scribe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
