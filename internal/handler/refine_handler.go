package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"refineboard/internal/refine"
)

type Refiner interface {
	Run(ctx context.Context, userID, cardID, personaID uuid.UUID) (*refine.Result, error)
}

type RefineHandler struct {
	refiner Refiner
}

func NewRefineHandler(refiner Refiner) *RefineHandler {
	return &RefineHandler{refiner: refiner}
}

type RunRequest struct {
	CardID    string `json:"card_id" binding:"required,uuid"`
	PersonaID string `json:"persona_id" binding:"required,uuid"`
}

type RunResponse struct {
	Result      string `json:"result"`
	PersonaUsed string `json:"persona_used"`
	Applied     bool   `json:"applied"`
}

// Run godoc
// @Summary   Refine a card with a persona
// @Tags      AI
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body body RunRequest true "card and persona"
// @Success   200 {object} RunResponse
// @Failure   404 {object} map[string]string
// @Failure   429 {object} map[string]string
// @Failure   502 {object} map[string]string
// @Router    /ai/run [post]
func (h *RefineHandler) Run(c *gin.Context) {
	userID, ok := authUser(c)
	if !ok {
		return
	}

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card_id and persona_id are required"})
		return
	}

	result, err := h.refiner.Run(c.Request.Context(), userID, uuid.MustParse(req.CardID), uuid.MustParse(req.PersonaID))
	if err != nil {
		respondError(c, err, "Failed to refine card")
		return
	}

	c.JSON(http.StatusOK, RunResponse{
		Result:      result.Text,
		PersonaUsed: result.PersonaName,
		Applied:     result.Applied,
	})
}
