package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboard/internal/dto"
	"taskboard/internal/query"
	"taskboard/internal/response"
	"taskboard/internal/service"
)

// CardHandler serves card-level routes.
type CardHandler struct {
	boardService service.BoardService
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(boardService service.BoardService) *CardHandler {
	return &CardHandler{boardService: boardService}
}

// GetCard returns one card with dependency relations resolved.
func (h *CardHandler) GetCard(c *gin.Context) {
	detail, err := h.boardService.GetCard(c.Request.Context(), c.Param("boardId"), c.Param("cardId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, detail)
}

// CreateCard adds a card to a column.
func (h *CardHandler) CreateCard(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.boardService.CreateCard(c.Request.Context(), c.Param("boardId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, card)
}

// UpdateCard changes card content.
func (h *CardHandler) UpdateCard(c *gin.Context) {
	var req dto.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.boardService.UpdateCard(c.Request.Context(), c.Param("boardId"), c.Param("cardId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

// MoveCard relocates a card within or across columns.
func (h *CardHandler) MoveCard(c *gin.Context) {
	var req dto.MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	card, err := h.boardService.MoveCard(c.Request.Context(), c.Param("boardId"), c.Param("cardId"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

// DeleteCard removes a card.
func (h *CardHandler) DeleteCard(c *gin.Context) {
	if err := h.boardService.DeleteCard(c.Request.Context(), c.Param("boardId"), c.Param("cardId")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": c.Param("cardId")})
}

// QueryCards runs the filter engine over a board's cards.
func (h *CardHandler) QueryCards(c *gin.Context) {
	var req dto.QueryCardsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	// Repeated ?tags= values and comma-separated lists both work.
	var tags []string
	for _, raw := range req.Tags {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	opts := query.Options{
		ColumnID:  req.ColumnID,
		Tags:      tags,
		Assignee:  req.Assignee,
		DueAfter:  req.DueAfter,
		DueBefore: req.DueBefore,
		Search:    req.Search,
		SortBy:    req.SortBy,
		SortDesc:  req.SortDesc,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	result, err := h.boardService.QueryCards(c.Request.Context(), c.Param("boardId"), opts)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
