// Package main provides the gdpplot CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/gdpplot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
