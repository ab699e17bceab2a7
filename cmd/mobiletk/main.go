// Package main provides the entry point for the mobiletk CLI application.
package main

import (
	"os"

	"mobiletk/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
