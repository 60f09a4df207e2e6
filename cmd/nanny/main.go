// Package main is the entry point for the nanny CLI.
package main

import (
	"os"

	"github.com/watchfire-io/nanny/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
