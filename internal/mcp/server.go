package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"taskboard/internal/service"
)

// NewServer wires every board tool into an MCP server instance. This is
// the composition root for the agent surface: no business logic lives
// here, only registration.
func NewServer(svc service.BoardService, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"taskboard",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	getBoard := NewGetBoardTool(svc)
	s.AddTool(getBoard.Definition(), getBoard.Handle)

	listBoards := NewListBoardsTool(svc)
	s.AddTool(listBoards.Definition(), listBoards.Handle)

	createBoard := NewCreateBoardTool(svc)
	s.AddTool(createBoard.Definition(), createBoard.Handle)

	deleteBoard := NewDeleteBoardTool(svc)
	s.AddTool(deleteBoard.Definition(), deleteBoard.Handle)

	createCard := NewCreateCardTool(svc)
	s.AddTool(createCard.Definition(), createCard.Handle)

	updateCard := NewUpdateCardTool(svc)
	s.AddTool(updateCard.Definition(), updateCard.Handle)

	moveCard := NewMoveCardTool(svc)
	s.AddTool(moveCard.Definition(), moveCard.Handle)

	deleteCard := NewDeleteCardTool(svc)
	s.AddTool(deleteCard.Definition(), deleteCard.Handle)

	queryCards := NewQueryCardsTool(svc)
	s.AddTool(queryCards.Definition(), queryCards.Handle)

	return s
}

// serverInstructions tells the agent how to use the board tools
// efficiently.
func serverInstructions() string {
	return `You have access to a kanban task board.

## Reading boards
- Use board_get with format=compact for routine reads: it carries the full
  board state in short keys and costs far fewer tokens than the full format.
- Use format=summary when you only need per-column counts and progress.
- Use format=cards-only (optionally with column_id) to scan cards in one column.
- Use card_query to filter by tag, assignee, due date, or text instead of
  reading the whole board and filtering yourself.

## Writing
- card_create appends to a column unless you give position=first or an index.
- card_move handles all repositioning; card_update never changes placement.
- Positions are dense zero-based ranks per column. After any write the board
  renumbers, so re-read before computing indexes from stale state.
- depends_on IDs must exist on the same board; the tools reject unknown IDs.

## Conduct
- Tool calls are rate limited per window. On a RATE_LIMITED error, wait the
  indicated retry time instead of retrying immediately.
- Cards in the done column get completed_at set automatically; do not try to
  set it yourself.`
}
