// Package main provides the framelint command-line entry point.
package main

import (
	"os"

	"github.com/framelint/framelint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
