// Package main provides taskboard, a kanban board store with a CLI
// front end over the same engine as the HTTP API and MCP server.
package main

import (
	"os"

	"taskboard/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args))
}
