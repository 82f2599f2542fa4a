package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/dto"
	"taskboard/internal/projection"
	"taskboard/internal/response"
	"taskboard/internal/service"
)

// BoardHandler serves board-level routes.
type BoardHandler struct {
	boardService service.BoardService
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// ListBoards godoc
// @Summary  List boards
// @Produce  json
// @Router   /boards [get]
func (h *BoardHandler) ListBoards(c *gin.Context) {
	metas, err := h.boardService.ListBoards(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, metas)
}

// GetBoard godoc
// @Summary  Get a board in the requested format
// @Produce  json
// @Param    boardId path string false "Board ID (empty resolves the default board)"
// @Param    format query string false "Format" Enums(full, summary, compact, cards-only)
// @Param    columnId query string false "Column filter (cards-only format)"
// @Router   /boards/{boardId} [get]
func (h *BoardHandler) GetBoard(c *gin.Context) {
	shape, err := projection.ParseShape(c.Query("format"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	opts := projection.Options{ColumnID: c.Query("columnId")}

	result, err := h.boardService.GetBoard(c.Request.Context(), c.Param("boardId"), shape, opts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// GetDefaultBoard serves GET /board: the configured default board,
// bootstrapped on first access.
func (h *BoardHandler) GetDefaultBoard(c *gin.Context) {
	shape, err := projection.ParseShape(c.Query("format"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	opts := projection.Options{ColumnID: c.Query("columnId")}

	result, err := h.boardService.GetBoard(c.Request.Context(), "", shape, opts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// CreateBoard godoc
// @Summary  Create a board
// @Accept   json
// @Produce  json
// @Router   /boards [post]
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	var req dto.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	meta, err := h.boardService.CreateBoard(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, meta)
}

// UpdateBoard updates board metadata.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	var req dto.UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), c.Param("boardId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}

// DeleteBoard removes a board irreversibly.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	if err := h.boardService.DeleteBoard(c.Request.Context(), c.Param("boardId")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": c.Param("boardId")})
}

// ArchiveBoard moves a board to the archive area.
func (h *BoardHandler) ArchiveBoard(c *gin.Context) {
	if err := h.boardService.ArchiveBoard(c.Request.Context(), c.Param("boardId")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"archived": c.Param("boardId")})
}

// RestoreBoard brings an archived board back.
func (h *BoardHandler) RestoreBoard(c *gin.Context) {
	meta, err := h.boardService.RestoreBoard(c.Request.Context(), c.Param("archiveId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, meta)
}

// ListArchives enumerates restorable archives.
func (h *BoardHandler) ListArchives(c *gin.Context) {
	metas, err := h.boardService.ListArchives(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, metas)
}

// CreateColumn appends a column to a board.
func (h *BoardHandler) CreateColumn(c *gin.Context) {
	var req dto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	col, err := h.boardService.CreateColumn(c.Request.Context(), c.Param("boardId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, col)
}

// UpdateColumn updates column metadata.
func (h *BoardHandler) UpdateColumn(c *gin.Context) {
	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	col, err := h.boardService.UpdateColumn(c.Request.Context(), c.Param("boardId"), c.Param("columnId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, col)
}

// DeleteColumn removes a column; ?force=true re-homes its cards.
func (h *BoardHandler) DeleteColumn(c *gin.Context) {
	force := c.Query("force") == "true"
	if err := h.boardService.DeleteColumn(c.Request.Context(), c.Param("boardId"), c.Param("columnId"), force); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": c.Param("columnId")})
}
