// Package main is the entry point for the pagetext CLI.
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/jmylchreest/pagetext/cmd/pagetext/commands"
	"github.com/jmylchreest/pagetext/internal/logger"
)

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS value; the runtime
	// default then applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
