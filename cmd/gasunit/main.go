// Package main is the entry point for the gasunit CLI.
package main

import (
	"os"

	"github.com/roach88/gasunit/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
