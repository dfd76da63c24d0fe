// Package main provides the livraria CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/livraria/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
