package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"refineboard/internal/model"
)

var (
	errPositionRequired = errors.New("position is required")
	errPositionInvalid  = errors.New("position must be a non-negative integer")
)

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Card, error)
	ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Card, error)
	GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, cardID uuid.UUID, targetColumnID *uuid.UUID, position int) error
}

type ColumnLookup interface {
	GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Column, error)
}

type CardHandler struct {
	cards   CardStore
	columns ColumnLookup
}

func NewCardHandler(cards CardStore, columns ColumnLookup) *CardHandler {
	return &CardHandler{cards: cards, columns: columns}
}

type CreateCardRequest struct {
	ColumnID        string  `json:"column_id" binding:"required,uuid"`
	Title           *string `json:"title" binding:"omitempty,max=200"`
	OriginalContent string  `json:"original_content" binding:"required"`
	DueDate         *string `json:"due_date"`
}

type UpdateCardRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=200"`
	OriginalContent *string `json:"original_content" binding:"omitempty,min=1"`
	RefinedContent  *string `json:"refined_content"`
	DueDate         *string `json:"due_date"`
}

// MoveCardRequest accepts the position either as a JSON number or a numeric string.
type MoveCardRequest struct {
	ColumnID *string         `json:"column_id" binding:"omitempty,uuid"`
	Position json.RawMessage `json:"position" swaggertype:"integer"`
}

type CardResponse struct {
	ID              string  `json:"id"`
	ColumnID        string  `json:"column_id"`
	Title           *string `json:"title"`
	DisplayTitle    string  `json:"display_title"`
	OriginalContent string  `json:"original_content"`
	RefinedContent  *string `json:"refined_content"`
	Position        int     `json:"position"`
	DueDate         *string `json:"due_date"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toCardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:              card.ID.String(),
		ColumnID:        card.ColumnID.String(),
		Title:           card.Title,
		DisplayTitle:    card.DisplayTitle(),
		OriginalContent: card.OriginalContent,
		RefinedContent:  card.RefinedContent,
		Position:        card.Position,
		CreatedAt:       formatTime(card.CreatedAt),
		UpdatedAt:       formatTime(card.UpdatedAt),
	}
	if card.DueDate != nil {
		d := card.DueDate.Format(dateLayout)
		resp.DueDate = &d
	}
	return resp
}

// parsePosition reads a non-negative integer from a JSON number or string.
func parsePosition(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, errPositionRequired
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errPositionInvalid
	}
	return n, nil
}

// Create godoc
// @Summary   Create a card at the end of a column
// @Tags      Cards
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body body CreateCardRequest true "card"
// @Success   201 {object} CardResponse
// @Failure   404 {object} map[string]string
// @Router    /cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
		return
	}

	column, err := h.columns.GetVisibleByID(c.Request.Context(), uuid.MustParse(req.ColumnID), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}

	card := &model.Card{
		ColumnID:        column.ID,
		Title:           req.Title,
		OriginalContent: req.OriginalContent,
		DueDate:         dueDate,
	}
	if err := h.cards.Create(c.Request.Context(), card); err != nil {
		respondError(c, err, "Failed to create card")
		return
	}
	c.JSON(http.StatusCreated, toCardResponse(card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	card, err := h.cards.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

// List returns every card in every workspace the caller can see.
func (h *CardHandler) List(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	cards, err := h.cards.ListVisible(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cards")
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *CardHandler) ListByColumn(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.GetVisibleByID(c.Request.Context(), columnID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}

	cards, err := h.cards.GetByColumnID(c.Request.Context(), column.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cards")
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = toCardResponse(&cards[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.cards.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}

	if req.Title != nil {
		card.Title = req.Title
	}
	if req.OriginalContent != nil {
		card.OriginalContent = *req.OriginalContent
	}
	if req.RefinedContent != nil {
		card.RefinedContent = req.RefinedContent
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_date, expected YYYY-MM-DD"})
			return
		}
		card.DueDate = dueDate
	}

	if err := h.cards.Update(c.Request.Context(), card); err != nil {
		respondError(c, err, "Failed to update card")
		return
	}
	c.JSON(http.StatusOK, toCardResponse(card))
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	card, err := h.cards.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}
	if err := h.cards.Delete(c.Request.Context(), card.ID); err != nil {
		respondError(c, err, "Failed to delete card")
		return
	}
	c.Status(http.StatusNoContent)
}

// Move godoc
// @Summary   Move a card to a position, optionally in another column
// @Tags      Cards
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id   path string          true "card id"
// @Param     body body MoveCardRequest true "target"
// @Success   200 {object} CardResponse
// @Failure   400 {object} map[string]string
// @Failure   404 {object} map[string]string
// @Failure   500 {object} map[string]string
// @Router    /cards/{id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	position, err := parsePosition(req.Position)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	card, err := h.cards.GetVisibleByID(ctx, id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}

	var target *uuid.UUID
	if req.ColumnID != nil && *req.ColumnID != "" {
		targetID := uuid.MustParse(*req.ColumnID)
		if targetID != card.ColumnID {
			targetColumn, err := h.columns.GetVisibleByID(ctx, targetID, userID)
			if err != nil {
				respondError(c, err, "Failed to retrieve column")
				return
			}
			sourceColumn, err := h.columns.GetVisibleByID(ctx, card.ColumnID, userID)
			if err != nil {
				respondError(c, err, "Failed to retrieve column")
				return
			}
			if targetColumn.WorkspaceID != sourceColumn.WorkspaceID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Target column belongs to another workspace"})
				return
			}
		}
		target = &targetID
	}

	if err := h.cards.Move(ctx, card.ID, target, position); err != nil {
		respondError(c, err, "Failed to move card")
		return
	}

	moved, err := h.cards.GetVisibleByID(ctx, card.ID, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, toCardResponse(moved))
}
