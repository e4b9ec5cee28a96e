// ABOUTME: Entry point for the daybook CLI.
// ABOUTME: Invokes the root Cobra command and reports failures.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
