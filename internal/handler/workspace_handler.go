package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"refineboard/internal/model"
)

type WorkspaceStore interface {
	Create(ctx context.Context, workspace *model.Workspace) error
	ListVisible(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]model.Workspace, error)
	GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Workspace, error)
	Update(ctx context.Context, workspace *model.Workspace) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error
	ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]model.User, error)
}

type WorkspaceHandler struct {
	workspaces WorkspaceStore
	users      UserStore
}

func NewWorkspaceHandler(workspaces WorkspaceStore, users UserStore) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, users: users}
}

type CreateWorkspaceRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Archived    *bool   `json:"archived"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type WorkspaceResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Archived    bool             `json:"archived"`
	OwnerID     string           `json:"owner_id"`
	IsOwner     bool             `json:"is_owner"`
	MemberCount int              `json:"member_count"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	Columns     []ColumnResponse `json:"columns,omitempty"`
}

func toWorkspaceResponse(w *model.Workspace, userID uuid.UUID) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          w.ID.String(),
		Title:       w.Title,
		Description: w.Description,
		Archived:    w.Archived,
		OwnerID:     w.OwnerID.String(),
		IsOwner:     w.IsOwner(userID),
		MemberCount: w.MemberCount(),
		CreatedAt:   formatTime(w.CreatedAt),
		UpdatedAt:   formatTime(w.UpdatedAt),
	}
}

// ownedWorkspace loads a visible workspace and checks ownership.
// Members get 403, everybody else 404.
func (h *WorkspaceHandler) ownedWorkspace(c *gin.Context, userID uuid.UUID) (*model.Workspace, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}
	workspace, err := h.workspaces.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workspace")
		return nil, false
	}
	if !workspace.IsOwner(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can do this"})
		return nil, false
	}
	return workspace, true
}

// Create godoc
// @Summary   Create a workspace owned by the caller
// @Tags      Workspaces
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body body CreateWorkspaceRequest true "workspace"
// @Success   201 {object} WorkspaceResponse
// @Router    /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	workspace := &model.Workspace{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     userID,
	}
	if err := h.workspaces.Create(c.Request.Context(), workspace); err != nil {
		respondError(c, err, "Failed to create workspace")
		return
	}

	c.JSON(http.StatusCreated, toWorkspaceResponse(workspace, userID))
}

// List godoc
// @Summary   List workspaces the caller owns or is a member of
// @Tags      Workspaces
// @Security  BearerAuth
// @Produce   json
// @Param     archived query bool false "include archived workspaces"
// @Success   200 {array} WorkspaceResponse
// @Router    /workspaces [get]
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	includeArchived := c.Query("archived") == "true"
	workspaces, err := h.workspaces.ListVisible(c.Request.Context(), userID, includeArchived)
	if err != nil {
		respondError(c, err, "Failed to retrieve workspaces")
		return
	}

	response := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		response[i] = toWorkspaceResponse(&workspaces[i], userID)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns the workspace with its columns and cards nested in position order.
func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	workspace, err := h.workspaces.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workspace")
		return
	}

	response := toWorkspaceResponse(workspace, userID)
	response.Columns = make([]ColumnResponse, len(workspace.Columns))
	for i := range workspace.Columns {
		col := toColumnResponse(&workspace.Columns[i])
		col.Cards = make([]CardResponse, len(workspace.Columns[i].Cards))
		for j := range workspace.Columns[i].Cards {
			col.Cards[j] = toCardResponse(&workspace.Columns[i].Cards[j])
		}
		response.Columns[i] = col
	}
	c.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	workspace, ok := h.ownedWorkspace(c, userID)
	if !ok {
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		workspace.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		workspace.Description = *req.Description
	}
	if req.Archived != nil {
		workspace.Archived = *req.Archived
	}

	if err := h.workspaces.Update(c.Request.Context(), workspace); err != nil {
		respondError(c, err, "Failed to update workspace")
		return
	}
	c.JSON(http.StatusOK, toWorkspaceResponse(workspace, userID))
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	workspace, ok := h.ownedWorkspace(c, userID)
	if !ok {
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), workspace.ID); err != nil {
		respondError(c, err, "Failed to delete workspace")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddMember shares the workspace with the user registered under the given email.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	workspace, ok := h.ownedWorkspace(c, userID)
	if !ok {
		return
	}

	member, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(c, err, "Failed to find user")
		return
	}
	if member == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if member.ID == workspace.OwnerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Owner is already part of the workspace"})
		return
	}

	if err := h.workspaces.AddMember(c.Request.Context(), workspace.ID, member.ID); err != nil {
		respondError(c, err, "Failed to add member")
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(member))
}

func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	memberID, ok := paramID(c, "user_id")
	if !ok {
		return
	}
	workspace, ok := h.ownedWorkspace(c, userID)
	if !ok {
		return
	}

	if err := h.workspaces.RemoveMember(c.Request.Context(), workspace.ID, memberID); err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	workspace, err := h.workspaces.GetVisibleByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve workspace")
		return
	}

	members, err := h.workspaces.ListMembers(c.Request.Context(), workspace.ID)
	if err != nil {
		respondError(c, err, "Failed to retrieve members")
		return
	}

	response := make([]UserResponse, len(members))
	for i := range members {
		response[i] = toUserResponse(&members[i])
	}
	c.JSON(http.StatusOK, response)
}
