// Package main is the entry point for the sourcedesc CLI.
package main

import (
	"os"

	"github.com/alexanderjulianmartinez/sourcedesc/cmd/sourcedesc/app"
)

func main() {
	// Logs go to stderr to keep stdout clean for command output.
	app.SetupLogging(os.Stderr)

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
