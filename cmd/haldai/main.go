// Package main provides the haldai CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/haldai/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
