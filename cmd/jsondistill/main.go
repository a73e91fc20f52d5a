// Jsondistill summarizes large JSON documents by folding repetitive list
// structures into representative examples.
//
// Usage:
//
//	# Distill a file into ./data_distilled.json
//	jsondistill data.json
//
//	# Explicit output and options
//	jsondistill -i data.json -o out/summary.json -r 2 --position-dependent
//
//	# Serve the distill tools to an MCP client over stdio
//	jsondistill --mcp-server
//
//	# Run the HTTP API
//	jsondistill serve --port 9480
//
// Configuration is read from ~/.config/jsondistill/config.yaml (or .toml),
// /etc/jsondistill/, the file named by --config, and JSONDISTILL_*
// environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
