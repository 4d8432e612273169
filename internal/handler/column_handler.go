package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"refineboard/internal/model"
	"refineboard/internal/repository"
)

type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Column, error)
	ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Column, error)
	GetByWorkspaceID(ctx context.Context, workspaceID uuid.UUID) ([]model.Column, error)
	Update(ctx context.Context, column *model.Column) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, workspaceID uuid.UUID, columnIDs []uuid.UUID) error
}

type WorkspaceAccess interface {
	CanAccess(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
}

type ColumnHandler struct {
	columns    ColumnStore
	workspaces WorkspaceAccess
}

func NewColumnHandler(columns ColumnStore, workspaces WorkspaceAccess) *ColumnHandler {
	return &ColumnHandler{columns: columns, workspaces: workspaces}
}

type CreateColumnRequest struct {
	WorkspaceID string `json:"workspace_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required,max=50"`
	Color       string `json:"color"`
}

type UpdateColumnRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=50"`
	Color    *string `json:"color"`
	Position *int    `json:"position" binding:"omitempty,min=0"`
}

type ReorderColumnsRequest struct {
	ColumnIDs []string `json:"column_ids" binding:"required,min=1,dive,uuid"`
}

type ColumnResponse struct {
	ID          string         `json:"id"`
	WorkspaceID string         `json:"workspace_id"`
	Title       string         `json:"title"`
	Position    int            `json:"position"`
	Color       string         `json:"color"`
	Cards       []CardResponse `json:"cards,omitempty"`
}

func toColumnResponse(col *model.Column) ColumnResponse {
	return ColumnResponse{
		ID:          col.ID.String(),
		WorkspaceID: col.WorkspaceID.String(),
		Title:       col.Title,
		Position:    col.Position,
		Color:       col.Color,
	}
}

// requireWorkspace writes 404 unless the workspace is visible to userID.
func requireWorkspace(c *gin.Context, access WorkspaceAccess, workspaceID, userID uuid.UUID) bool {
	ok, err := access.CanAccess(c.Request.Context(), workspaceID, userID)
	if err != nil {
		respondError(c, err, "Failed to check access")
		return false
	}
	if !ok {
		respondError(c, repository.ErrWorkspaceNotFound, "")
		return false
	}
	return true
}

func (h *ColumnHandler) Create(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Color == "" {
		req.Color = model.ColorGray
	}
	if !model.IsValidColor(req.Color) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid color"})
		return
	}

	workspaceID := uuid.MustParse(req.WorkspaceID)
	if !requireWorkspace(c, h.workspaces, workspaceID, userID) {
		return
	}

	column := &model.Column{WorkspaceID: workspaceID, Title: req.Title, Color: req.Color}
	if err := h.columns.Create(c.Request.Context(), column); err != nil {
		respondError(c, err, "Failed to create column")
		return
	}
	c.JSON(http.StatusCreated, toColumnResponse(column))
}

// List returns every column of every workspace the caller can see.
func (h *ColumnHandler) List(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	columns, err := h.columns.ListVisible(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve columns")
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ColumnHandler) ListByWorkspace(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !requireWorkspace(c, h.workspaces, workspaceID, userID) {
		return
	}

	columns, err := h.columns.GetByWorkspaceID(c.Request.Context(), workspaceID)
	if err != nil {
		respondError(c, err, "Failed to retrieve columns")
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = toColumnResponse(&columns[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *ColumnHandler) GetByID(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}
	c.JSON(http.StatusOK, toColumnResponse(column))
}

func (h *ColumnHandler) Update(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.columns.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}

	if req.Title != nil {
		column.Title = *req.Title
	}
	if req.Color != nil {
		if !model.IsValidColor(*req.Color) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid color"})
			return
		}
		column.Color = *req.Color
	}
	if req.Position != nil {
		column.Position = *req.Position
	}

	if err := h.columns.Update(c.Request.Context(), column); err != nil {
		respondError(c, err, "Failed to update column")
		return
	}
	c.JSON(http.StatusOK, toColumnResponse(column))
}

// Delete removes the column together with its cards.
func (h *ColumnHandler) Delete(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	column, err := h.columns.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve column")
		return
	}
	if err := h.columns.Delete(c.Request.Context(), column.ID); err != nil {
		respondError(c, err, "Failed to delete column")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ColumnHandler) Reorder(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	workspaceID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ReorderColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !requireWorkspace(c, h.workspaces, workspaceID, userID) {
		return
	}

	ids := make([]uuid.UUID, len(req.ColumnIDs))
	for i, raw := range req.ColumnIDs {
		ids[i] = uuid.MustParse(raw)
	}

	if err := h.columns.Reorder(c.Request.Context(), workspaceID, ids); err != nil {
		respondError(c, err, "Failed to reorder columns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Columns reordered"})
}
