// Package main provides the entry point for the quadsync CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/quadsync/cmd/quadsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
