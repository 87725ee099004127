// Command settingsgen generates CMS settings files for local development projects.
package main

import (
	"os"

	"github.com/modu-ai/settingsgen/internal/cli"
)

// @MX:ANCHOR: [AUTO] main is the only entry point of the settingsgen binary; exit code 1 on error.
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
