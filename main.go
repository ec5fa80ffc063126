// Package main is the entry point for the orderboard CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/orderboard/cmd"
	"github.com/danielolaszy/orderboard/internal/logging"
)

// main executes the root command and exits non-zero on failure.
func main() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logging.Debug("starting orderboard cli", "version", cmd.Version, "log_level", logLevel)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
