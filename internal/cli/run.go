package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taskboard/internal/config"
	"taskboard/internal/events"
	"taskboard/internal/metrics"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

// cliClientID keys every command of one invocation into a single
// rate-limit bucket, mirroring the other surfaces.
const cliClientID = "cli"

// Run is the main entry point. Returns exit code.
func Run(out io.Writer, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)

	if len(args) < 2 {
		printUsage(o)
		return ExitOK
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		o.ErrPrintln("error:", err)
		return ExitValidation
	}

	if len(flags.remaining) == 0 || flags.remaining[0] == "-h" || flags.remaining[0] == "--help" {
		printUsage(o)
		return ExitOK
	}

	svc, err := newService(flags)
	if err != nil {
		o.ErrPrintln("error:", err)
		return ExitError
	}

	commands := []*Command{
		LsCmd(svc),
		ShowCmd(svc),
		CreateCmd(svc),
		RmCmd(svc),
		ArchiveCmd(svc),
		ArchivesCmd(svc),
		RestoreCmd(svc),
		AddCmd(svc),
		EditCmd(svc),
		MvCmd(svc),
		DelCmd(svc),
		QueryCmd(svc),
	}

	name := flags.remaining[0]
	ctx := service.WithClient(context.Background(), cliClientID)

	for _, cmd := range commands {
		if cmd.Name() == name {
			return cmd.Run(ctx, o, flags.remaining[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(o)
	return ExitValidation
}

// newService builds a board service backed by the local data directory.
// No limiter is wired: a CLI process is a single caller, and admission
// happens per process anyway.
func newService(flags globalFlags) (service.BoardService, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if flags.dataDir != "" {
		cfg.Storage.DataDir = flags.dataDir
	}

	// Warnings only; command output owns stdout.
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zcfg.OutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	repo, err := repository.NewFileRepository(
		cfg.Storage.DataDir,
		cfg.Storage.DefaultBoard,
		cfg.Storage.BackupRetention,
		repository.DoneColumnByName(cfg.Storage.DoneColumn),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("initializing board store: %w", err)
	}

	var limiter *ratelimit.Limiter
	return service.NewBoardService(repo, limiter, events.Nop{}, metrics.NewWithRegistry(nil, logger), logger), nil
}

type globalFlags struct {
	configPath string
	dataDir    string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		arg := args[idx]

		switch {
		case arg == "-c" || arg == "--config":
			if idx+1 >= len(args) {
				return globalFlags{}, fmt.Errorf("flag requires an argument: %s", arg)
			}
			flags.configPath = args[idx+1]
			idx += 2
		case strings.HasPrefix(arg, "--config="):
			flags.configPath = strings.TrimPrefix(arg, "--config=")
			idx++
		case arg == "--data-dir":
			if idx+1 >= len(args) {
				return globalFlags{}, fmt.Errorf("flag requires an argument: %s", arg)
			}
			flags.dataDir = args[idx+1]
			idx += 2
		case strings.HasPrefix(arg, "--data-dir="):
			flags.dataDir = strings.TrimPrefix(arg, "--data-dir=")
			idx++
		case arg == "-h" || arg == "--help":
			flags.remaining = []string{"--help"}
			return flags, nil
		case strings.HasPrefix(arg, "-") && arg != "-":
			return globalFlags{}, fmt.Errorf("unknown flag: %s", arg)
		default:
			flags.remaining = args[idx:]
			return flags, nil
		}
	}

	return flags, nil
}

func printUsage(o *IO) {
	o.Println(`taskboard - kanban board store

Usage: taskboard [options] <command> [args]

Options:
  -c, --config <file>    Use specified config file
      --data-dir <dir>   Override the data directory

Board commands:
  ls                         List boards
  show [boardId] [flags]     Print a board (default board when omitted)
  create <name>              Create a board
  rm <boardId>               Delete a board
  archive <boardId>          Archive a board
  archives                   List archived boards
  restore <archiveId>        Restore an archived board

Card commands:
  add <title> [flags]        Add a card
  edit <cardId> [flags]      Edit card content
  mv <cardId> <pos> [flags]  Move a card (first|last|up|down|index)
  del <cardId> [flags]       Delete a card
  query [flags]              Filter and sort cards

Run 'taskboard <command> --help' for command details.`)
}
