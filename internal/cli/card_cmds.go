package cli

import (
	"context"
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"taskboard/internal/dto"
	"taskboard/internal/query"
	"taskboard/internal/response"
	"taskboard/internal/service"
)

// parseWhen accepts RFC3339 or a bare date.
func parseWhen(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q, want RFC3339 or YYYY-MM-DD", s)
	}
	return &t, nil
}

// AddCmd returns the add command.
func AddCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	board := flags.String("board", "", "Board ID (default board when empty)")
	column := flags.String("column", "", "Destination column ID (required)")
	content := flags.String("content", "", "Card body in markdown")
	position := flags.String("position", "", "Placement: first, last, or a zero-based index")
	subtasks := flags.StringArray("subtask", nil, "Subtask line (repeatable)")
	tags := flags.StringSlice("tag", nil, "Tag (repeatable or comma-separated)")
	depends := flags.StringSlice("depends", nil, "Dependency card ID (repeatable)")
	assignee := flags.String("assignee", "", "Assignee name")
	due := flags.String("due", "", "Due date (RFC3339 or YYYY-MM-DD)")

	return &Command{
		Flags: flags,
		Usage: "add <title> [flags]",
		Short: "Add a card",
		Long:  "Add a card to a column. Without --position the card is appended at the end.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "card title is required", "")
			}
			if *column == "" {
				return response.NewAppError(response.ErrCodeValidation, "--column is required", "")
			}

			dueAt, err := parseWhen(*due)
			if err != nil {
				return response.NewAppError(response.ErrCodeValidation, err.Error(), "")
			}

			card, err := svc.CreateCard(ctx, *board, &dto.CreateCardRequest{
				Title:     args[0],
				Content:   *content,
				ColumnID:  *column,
				Position:  *position,
				Subtasks:  *subtasks,
				Tags:      *tags,
				DependsOn: *depends,
				Assignee:  *assignee,
				DueDate:   dueAt,
			})
			if err != nil {
				return err
			}
			o.Println("Created card", card.ID)
			return nil
		},
	}
}

// EditCmd returns the edit command.
func EditCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("edit", flag.ContinueOnError)
	board := flags.String("board", "", "Board ID (default board when empty)")
	title := flags.String("title", "", "New title")
	content := flags.String("content", "", "New markdown body")
	subtasks := flags.StringArray("subtask", nil, "Replacement subtask line (repeatable)")
	tags := flags.StringSlice("tag", nil, "Replacement tag (repeatable)")
	depends := flags.StringSlice("depends", nil, "Replacement dependency card ID (repeatable)")
	assignee := flags.String("assignee", "", "New assignee")
	due := flags.String("due", "", "New due date (RFC3339 or YYYY-MM-DD)")
	clearDue := flags.Bool("clear-due", false, "Remove the due date")
	collapsed := flags.Bool("collapsed", false, "Collapse the card")

	return &Command{
		Flags: flags,
		Usage: "edit <cardId> [flags]",
		Short: "Edit card content",
		Long:  "Edit card content. Only the flags you pass change; use mv to relocate a card.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "card ID is required", "")
			}

			update := &dto.UpdateCardRequest{ClearDue: *clearDue}
			if flags.Changed("title") {
				update.Title = title
			}
			if flags.Changed("content") {
				update.Content = content
			}
			if flags.Changed("subtask") {
				update.Subtasks = subtasks
			}
			if flags.Changed("tag") {
				update.Tags = tags
			}
			if flags.Changed("depends") {
				update.DependsOn = depends
			}
			if flags.Changed("assignee") {
				update.Assignee = assignee
			}
			if flags.Changed("collapsed") {
				update.Collapsed = collapsed
			}
			if flags.Changed("due") {
				dueAt, err := parseWhen(*due)
				if err != nil {
					return response.NewAppError(response.ErrCodeValidation, err.Error(), "")
				}
				update.DueDate = dueAt
			}

			card, err := svc.UpdateCard(ctx, *board, args[0], update)
			if err != nil {
				return err
			}
			o.Println("Updated card", card.ID)
			return nil
		},
	}
}

// MvCmd returns the mv command.
func MvCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("mv", flag.ContinueOnError)
	board := flags.String("board", "", "Board ID (default board when empty)")
	column := flags.String("column", "", "Destination column ID (current column when empty)")

	return &Command{
		Flags: flags,
		Usage: "mv <cardId> <position> [flags]",
		Short: "Move a card",
		Long:  "Move a card within or across columns. Position is first, last, up, down, or a zero-based index; up/down only apply within the current column.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return response.NewAppError(response.ErrCodeValidation, "card ID and position are required", "")
			}

			card, err := svc.MoveCard(ctx, *board, args[0], &dto.MoveCardRequest{
				ColumnID: *column,
				Position: args[1],
			})
			if err != nil {
				return err
			}
			o.Printf("Moved card %s to %s[%d]\n", card.ID, card.ColumnID, card.Position)
			return nil
		},
	}
}

// DelCmd returns the del command.
func DelCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("del", flag.ContinueOnError)
	board := flags.String("board", "", "Board ID (default board when empty)")

	return &Command{
		Flags: flags,
		Usage: "del <cardId> [flags]",
		Short: "Delete a card",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return response.NewAppError(response.ErrCodeValidation, "card ID is required", "")
			}

			if err := svc.DeleteCard(ctx, *board, args[0]); err != nil {
				return err
			}
			o.Println("Deleted card", args[0])
			return nil
		},
	}
}

// QueryCmd returns the query command.
func QueryCmd(svc service.BoardService) *Command {
	flags := flag.NewFlagSet("query", flag.ContinueOnError)
	board := flags.String("board", "", "Board ID (default board when empty)")
	column := flags.String("column", "", "Filter by column ID")
	tags := flags.StringSlice("tag", nil, "Required tag (repeatable, ANDed)")
	assignee := flags.String("assignee", "", "Filter by assignee")
	dueAfter := flags.String("due-after", "", "Due-date lower bound (RFC3339 or YYYY-MM-DD)")
	dueBefore := flags.String("due-before", "", "Due-date upper bound (RFC3339 or YYYY-MM-DD)")
	search := flags.String("search", "", "Case-insensitive text search")
	sortBy := flags.String("sort", "", "Sort key: position, created, updated, title, dueDate")
	desc := flags.Bool("desc", false, "Reverse the sort order")
	limit := flags.Int("limit", 0, "Max cards to return (0 = all)")
	offset := flags.Int("offset", 0, "Cards to skip before the first result")

	return &Command{
		Flags: flags,
		Usage: "query [flags]",
		Short: "Filter and sort cards",
		Long:  "Filter, sort, and page through a board's cards. All filters are ANDed. Output is JSON.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			after, err := parseWhen(*dueAfter)
			if err != nil {
				return response.NewAppError(response.ErrCodeValidation, err.Error(), "")
			}
			before, err := parseWhen(*dueBefore)
			if err != nil {
				return response.NewAppError(response.ErrCodeValidation, err.Error(), "")
			}

			result, err := svc.QueryCards(ctx, *board, query.Options{
				ColumnID:  *column,
				Tags:      *tags,
				Assignee:  *assignee,
				DueAfter:  after,
				DueBefore: before,
				Search:    *search,
				SortBy:    *sortBy,
				SortDesc:  *desc,
				Limit:     *limit,
				Offset:    *offset,
			})
			if err != nil {
				return err
			}
			return printJSON(o, result)
		},
	}
}
