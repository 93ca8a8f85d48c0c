// Package main provides the boardctl CLI.
package main

import (
	"os"

	"github.com/BakaI9/excalidraw/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
