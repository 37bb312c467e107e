package main

import (
	"fmt"
	"os"

	"histmatch/internal/config"
)

// exitUsage is returned for rejected flags or configuration values.
const exitUsage = 2

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if config.IsValidationError(err) {
		return exitUsage
	}
	return 1
}
