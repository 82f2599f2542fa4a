// Taskboard MCP server: exposes the board store as agent tools over
// stdio transport.
//
// Usage:
//
//	taskboard-mcp serve
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/events"
	boardmcp "taskboard/internal/mcp"
	"taskboard/internal/metrics"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "--help", "-h", "help":
		printUsage()
	case "--version", "-v", "version":
		fmt.Printf("taskboard-mcp v%s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// Logs go to stderr so they don't interfere with the stdio transport
	// on stdout.
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	repo, err := repository.NewFileRepository(
		cfg.Storage.DataDir,
		cfg.Storage.DefaultBoard,
		cfg.Storage.BackupRetention,
		repository.DoneColumnByName(cfg.Storage.DoneColumn),
		logger,
	)
	if err != nil {
		return fmt.Errorf("initializing board store: %w", err)
	}

	limiter := ratelimit.New(ratelimit.Config{
		Window:     cfg.RateLimit.Window(),
		ReadLimit:  cfg.RateLimit.ReadLimit,
		WriteLimit: cfg.RateLimit.WriteLimit,
		MaxClients: cfg.RateLimit.MaxClients,
	})

	svc := service.NewBoardService(repo, limiter, events.Nop{}, metrics.NewWithRegistry(nil, logger), logger)

	s := boardmcp.NewServer(svc, version)
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `taskboard-mcp v%s

Usage:
  taskboard-mcp serve    Start the MCP server (stdio transport)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "taskboard": {
        "command": "taskboard-mcp",
        "args": ["serve"]
      }
    }
  }
`, version)
}
