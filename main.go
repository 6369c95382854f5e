// vidjob - terminal client for a remote video processing service.
package main

import (
	"os"

	"github.com/lazyvibe/vidjob/internal/cli"
)

// Set via -ldflags at release time.
var (
	version   = ""
	buildTime = ""
)

func main() {
	if version != "" {
		cli.Version = version
	}
	if buildTime != "" {
		cli.BuildTime = buildTime
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
