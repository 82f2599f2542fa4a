package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"taskboard/internal/dto"
	"taskboard/internal/projection"
	"taskboard/internal/response"
	"taskboard/internal/service"
)

func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	o.Println(string(data))
	return nil
}

// LsCmd returns the ls command.
func LsCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Usage: "ls",
		Short: "List boards",
		Long:  "List all boards, newest first.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			metas, err := svc.ListBoards(ctx)
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				o.Println("no boards")
				return nil
			}
			for _, m := range metas {
				o.Printf("%-36s  %-30s  %s\n", m.ID, m.Name, m.LastUpdated.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

// ShowCmd returns the show command.
func ShowCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	format := flags.String("format", "full", "Output format: full, summary, compact, cards-only")
	column := flags.String("column", "", "Restrict cards-only output to one column")

	return &Command{
		Flags: flags,
		Usage: "show [boardId] [flags]",
		Short: "Print a board",
		Long:  "Print a board as JSON. Omit the board ID for the default board.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			boardID := ""
			if len(args) > 0 {
				boardID = args[0]
			}

			shape, err := projection.ParseShape(*format)
			if err != nil {
				return err
			}

			result, err := svc.GetBoard(ctx, boardID, shape, projection.Options{ColumnID: *column})
			if err != nil {
				return err
			}
			return printJSON(o, result)
		},
	}
}

// CreateCmd returns the create command.
func CreateCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("create", flag.ContinueOnError),
		Usage: "create <name>",
		Short: "Create a board",
		Long:  "Create a board with the standard To Do / In Progress / Done columns.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "board name is required", "")
			}

			meta, err := svc.CreateBoard(ctx, &dto.CreateBoardRequest{Name: args[0]})
			if err != nil {
				return err
			}
			o.Println("Created board", meta.ID)
			return nil
		},
	}
}

// RmCmd returns the rm command.
func RmCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <boardId>",
		Short: "Delete a board",
		Long:  "Delete a board. A backup snapshot is written before removal.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "board ID is required", "")
			}

			if err := svc.DeleteBoard(ctx, args[0]); err != nil {
				return err
			}
			o.Println("Deleted board", args[0])
			return nil
		},
	}
}

// ArchiveCmd returns the archive command.
func ArchiveCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("archive", flag.ContinueOnError),
		Usage: "archive <boardId>",
		Short: "Archive a board",
		Long:  "Move a board out of the active set. Archived boards can be restored later.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "board ID is required", "")
			}

			if err := svc.ArchiveBoard(ctx, args[0]); err != nil {
				return err
			}
			o.Println("Archived board", args[0])
			return nil
		},
	}
}

// ArchivesCmd returns the archives command.
func ArchivesCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("archives", flag.ContinueOnError),
		Usage: "archives",
		Short: "List archived boards",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			metas, err := svc.ListArchives(ctx)
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				o.Println("no archives")
				return nil
			}
			for _, m := range metas {
				o.Printf("%-60s  %s\n", m.ArchiveID, m.Name)
			}
			return nil
		},
	}
}

// RestoreCmd returns the restore command.
func RestoreCmd(svc service.BoardService) *Command {
	return &Command{
		Flags: flag.NewFlagSet("restore", flag.ContinueOnError),
		Usage: "restore <archiveId>",
		Short: "Restore an archived board",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "archive ID is required", "")
			}

			meta, err := svc.RestoreBoard(ctx, args[0])
			if err != nil {
				return err
			}
			o.Println("Restored board", meta.ID)
			return nil
		},
	}
}
