package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard/internal/dto"
	"taskboard/internal/query"
	"taskboard/internal/service"
)

// CreateCardTool handles the card_create MCP tool.
type CreateCardTool struct {
	svc service.BoardService
}

// NewCreateCardTool creates a CreateCardTool.
func NewCreateCardTool(svc service.BoardService) *CreateCardTool {
	return &CreateCardTool{svc: svc}
}

// Definition returns the MCP tool definition for card_create.
func (t *CreateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("card_create",
		mcp.WithDescription(
			"Add a card to a column. Position accepts an absolute index or "+
				"first/last; omitting it appends at the end.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit for the default board."),
		),
		mcp.WithString("column_id",
			mcp.Required(),
			mcp.Description("Destination column ID"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Card title"),
		),
		mcp.WithString("content",
			mcp.Description("Card body in markdown"),
		),
		mcp.WithString("position",
			mcp.Description("Placement: first, last, or a zero-based index"),
		),
		mcp.WithArray("subtasks",
			mcp.Description("Subtask lines. Prefix a line with '✓ ' to mark it done."),
		),
		mcp.WithArray("tags",
			mcp.Description("Free-form tags"),
		),
		mcp.WithArray("depends_on",
			mcp.Description("IDs of cards this card depends on. Every ID must exist on the board."),
		),
		mcp.WithString("assignee",
			mcp.Description("Assignee name"),
		),
		mcp.WithString("due_date",
			mcp.Description("Due date, RFC3339"),
		),
	)
}

// Handle processes the card_create tool call.
func (t *CreateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	columnID := req.GetString("column_id", "")
	if title == "" || columnID == "" {
		return mcp.NewToolResultError("'title' and 'column_id' are required"), nil
	}

	due, err := timeArg(req, "due_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	create := &dto.CreateCardRequest{
		Title:    title,
		Content:  req.GetString("content", ""),
		ColumnID: columnID,
		Position: req.GetString("position", ""),
		Assignee: req.GetString("assignee", ""),
		DueDate:  due,
	}
	create.Subtasks, _ = stringSliceArg(req, "subtasks")
	create.Tags, _ = stringSliceArg(req, "tags")
	create.DependsOn, _ = stringSliceArg(req, "depends_on")

	card, err := t.svc.CreateCard(withClient(ctx), req.GetString("board_id", ""), create)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(card), nil
}

// UpdateCardTool handles the card_update MCP tool.
type UpdateCardTool struct {
	svc service.BoardService
}

// NewUpdateCardTool creates an UpdateCardTool.
func NewUpdateCardTool(svc service.BoardService) *UpdateCardTool {
	return &UpdateCardTool{svc: svc}
}

// Definition returns the MCP tool definition for card_update.
func (t *UpdateCardTool) Definition() mcp.Tool {
	return mcp.NewTool("card_update",
		mcp.WithDescription(
			"Update card content. Only the provided fields change; use card_move "+
				"to relocate a card.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit for the default board."),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New markdown body")),
		mcp.WithArray("subtasks", mcp.Description("Replacement subtask lines")),
		mcp.WithArray("tags", mcp.Description("Replacement tags")),
		mcp.WithArray("depends_on", mcp.Description("Replacement dependency IDs")),
		mcp.WithString("assignee", mcp.Description("New assignee")),
		mcp.WithString("due_date", mcp.Description("New due date, RFC3339")),
		mcp.WithBoolean("clear_due_date", mcp.Description("Remove the due date")),
		mcp.WithBoolean("collapsed", mcp.Description("Collapse or expand the card")),
	)
}

// Handle processes the card_update tool call.
func (t *UpdateCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	update := &dto.UpdateCardRequest{
		ClearDue: boolArg(req, "clear_due_date", false),
	}
	if hasArg(req, "title") {
		v := req.GetString("title", "")
		update.Title = &v
	}
	if hasArg(req, "content") {
		v := req.GetString("content", "")
		update.Content = &v
	}
	if v, ok := stringSliceArg(req, "subtasks"); ok {
		update.Subtasks = &v
	}
	if v, ok := stringSliceArg(req, "tags"); ok {
		update.Tags = &v
	}
	if v, ok := stringSliceArg(req, "depends_on"); ok {
		update.DependsOn = &v
	}
	if hasArg(req, "assignee") {
		v := req.GetString("assignee", "")
		update.Assignee = &v
	}
	if hasArg(req, "collapsed") {
		v := boolArg(req, "collapsed", false)
		update.Collapsed = &v
	}
	due, err := timeArg(req, "due_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	update.DueDate = due

	card, err := t.svc.UpdateCard(withClient(ctx), req.GetString("board_id", ""), cardID, update)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(card), nil
}

// MoveCardTool handles the card_move MCP tool.
type MoveCardTool struct {
	svc service.BoardService
}

// NewMoveCardTool creates a MoveCardTool.
func NewMoveCardTool(svc service.BoardService) *MoveCardTool {
	return &MoveCardTool{svc: svc}
}

// Definition returns the MCP tool definition for card_move.
func (t *MoveCardTool) Definition() mcp.Tool {
	return mcp.NewTool("card_move",
		mcp.WithDescription(
			"Move a card within or across columns. Position accepts first, last, "+
				"up, down, or a zero-based index; up/down only apply within the "+
				"current column.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit for the default board."),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
		mcp.WithString("column_id",
			mcp.Description("Destination column. Omit to stay in the current column."),
		),
		mcp.WithString("position",
			mcp.Required(),
			mcp.Description("Placement: first, last, up, down, or a zero-based index"),
		),
	)
}

// Handle processes the card_move tool call.
func (t *MoveCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetString("card_id", "")
	position := req.GetString("position", "")
	if cardID == "" || position == "" {
		return mcp.NewToolResultError("'card_id' and 'position' are required"), nil
	}

	card, err := t.svc.MoveCard(withClient(ctx), req.GetString("board_id", ""), cardID, &dto.MoveCardRequest{
		ColumnID: req.GetString("column_id", ""),
		Position: position,
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(card), nil
}

// DeleteCardTool handles the card_delete MCP tool.
type DeleteCardTool struct {
	svc service.BoardService
}

// NewDeleteCardTool creates a DeleteCardTool.
func NewDeleteCardTool(svc service.BoardService) *DeleteCardTool {
	return &DeleteCardTool{svc: svc}
}

// Definition returns the MCP tool definition for card_delete.
func (t *DeleteCardTool) Definition() mcp.Tool {
	return mcp.NewTool("card_delete",
		mcp.WithDescription(
			"Delete a card. Other cards listing it as a dependency keep the "+
				"stale reference; the remaining column is renumbered.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit for the default board."),
		),
		mcp.WithString("card_id",
			mcp.Required(),
			mcp.Description("Card ID"),
		),
	)
}

// Handle processes the card_delete tool call.
func (t *DeleteCardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cardID := req.GetString("card_id", "")
	if cardID == "" {
		return mcp.NewToolResultError("'card_id' is required"), nil
	}

	if err := t.svc.DeleteCard(withClient(ctx), req.GetString("board_id", ""), cardID); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("Card " + cardID + " deleted."), nil
}

// QueryCardsTool handles the card_query MCP tool.
type QueryCardsTool struct {
	svc service.BoardService
}

// NewQueryCardsTool creates a QueryCardsTool.
func NewQueryCardsTool(svc service.BoardService) *QueryCardsTool {
	return &QueryCardsTool{svc: svc}
}

// Definition returns the MCP tool definition for card_query.
func (t *QueryCardsTool) Definition() mcp.Tool {
	return mcp.NewTool("card_query",
		mcp.WithDescription(
			"Filter, sort, and page through a board's cards. All filters are "+
				"ANDed; text search covers title, content, and subtasks.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit for the default board."),
		),
		mcp.WithString("column_id", mcp.Description("Filter by column")),
		mcp.WithArray("tags", mcp.Description("Cards must carry every listed tag")),
		mcp.WithString("assignee", mcp.Description("Filter by assignee, case-insensitive")),
		mcp.WithString("due_after", mcp.Description("Due-date lower bound, RFC3339")),
		mcp.WithString("due_before", mcp.Description("Due-date upper bound, RFC3339")),
		mcp.WithString("search", mcp.Description("Case-insensitive text search")),
		mcp.WithString("sort_by", mcp.Description("Sort key: position (default), created, updated, title, dueDate")),
		mcp.WithBoolean("sort_desc", mcp.Description("Reverse the sort order")),
		mcp.WithNumber("limit", mcp.Description("Max cards to return (0 = all)")),
		mcp.WithNumber("offset", mcp.Description("Cards to skip before the first result")),
	)
}

// Handle processes the card_query tool call.
func (t *QueryCardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dueAfter, err := timeArg(req, "due_after")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dueBefore, err := timeArg(req, "due_before")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := query.Options{
		ColumnID:  req.GetString("column_id", ""),
		Assignee:  req.GetString("assignee", ""),
		DueAfter:  dueAfter,
		DueBefore: dueBefore,
		Search:    req.GetString("search", ""),
		SortBy:    req.GetString("sort_by", ""),
		SortDesc:  boolArg(req, "sort_desc", false),
		Limit:     intArg(req, "limit", 0),
		Offset:    intArg(req, "offset", 0),
	}
	opts.Tags, _ = stringSliceArg(req, "tags")

	result, err := t.svc.QueryCards(withClient(ctx), req.GetString("board_id", ""), opts)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result), nil
}
