package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"taskboard/internal/dto"
	"taskboard/internal/projection"
	"taskboard/internal/service"
)

// GetBoardTool handles the board_get MCP tool.
type GetBoardTool struct {
	svc service.BoardService
}

// NewGetBoardTool creates a GetBoardTool.
func NewGetBoardTool(svc service.BoardService) *GetBoardTool {
	return &GetBoardTool{svc: svc}
}

// Definition returns the MCP tool definition for board_get.
func (t *GetBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("board_get",
		mcp.WithDescription(
			"Read a task board in the requested format. Use format=compact for a "+
				"token-efficient view, summary for per-column statistics, or "+
				"cards-only for a flat card list.",
		),
		mcp.WithString("board_id",
			mcp.Description("Board ID. Omit to read the default board."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: full (default), summary, compact, cards-only"),
		),
		mcp.WithString("column_id",
			mcp.Description("Restrict cards-only output to one column"),
		),
	)
}

// Handle processes the board_get tool call.
func (t *GetBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shape, err := projection.ParseShape(req.GetString("format", ""))
	if err != nil {
		return toolError(err), nil
	}

	result, err := t.svc.GetBoard(withClient(ctx), req.GetString("board_id", ""), shape, projection.Options{
		ColumnID: req.GetString("column_id", ""),
	})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(result), nil
}

// ListBoardsTool handles the board_list MCP tool.
type ListBoardsTool struct {
	svc service.BoardService
}

// NewListBoardsTool creates a ListBoardsTool.
func NewListBoardsTool(svc service.BoardService) *ListBoardsTool {
	return &ListBoardsTool{svc: svc}
}

// Definition returns the MCP tool definition for board_list.
func (t *ListBoardsTool) Definition() mcp.Tool {
	return mcp.NewTool("board_list",
		mcp.WithDescription("List all boards with their last-updated timestamps, newest first."),
	)
}

// Handle processes the board_list tool call.
func (t *ListBoardsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := t.svc.ListBoards(withClient(ctx))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(metas), nil
}

// CreateBoardTool handles the board_create MCP tool.
type CreateBoardTool struct {
	svc service.BoardService
}

// NewCreateBoardTool creates a CreateBoardTool.
func NewCreateBoardTool(svc service.BoardService) *CreateBoardTool {
	return &CreateBoardTool{svc: svc}
}

// Definition returns the MCP tool definition for board_create.
func (t *CreateBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("board_create",
		mcp.WithDescription("Create a new board with the standard To Do / In Progress / Done columns."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Board name"),
		),
	)
}

// Handle processes the board_create tool call.
func (t *CreateBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	meta, err := t.svc.CreateBoard(withClient(ctx), &dto.CreateBoardRequest{Name: name})
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(meta), nil
}

// DeleteBoardTool handles the board_delete MCP tool.
type DeleteBoardTool struct {
	svc service.BoardService
}

// NewDeleteBoardTool creates a DeleteBoardTool.
func NewDeleteBoardTool(svc service.BoardService) *DeleteBoardTool {
	return &DeleteBoardTool{svc: svc}
}

// Definition returns the MCP tool definition for board_delete.
func (t *DeleteBoardTool) Definition() mcp.Tool {
	return mcp.NewTool("board_delete",
		mcp.WithDescription("Delete a board. A backup snapshot is written before removal."),
		mcp.WithString("board_id",
			mcp.Required(),
			mcp.Description("Board ID"),
		),
	)
}

// Handle processes the board_delete tool call.
func (t *DeleteBoardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("board_id", "")
	if boardID == "" {
		return mcp.NewToolResultError("'board_id' is required"), nil
	}

	if err := t.svc.DeleteBoard(withClient(ctx), boardID); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText("Board " + boardID + " deleted."), nil
}
