package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"refineboard/internal/model"
)

type PersonaStore interface {
	Create(ctx context.Context, persona *model.Persona) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Persona, error)
	List(ctx context.Context) ([]model.Persona, error)
	Update(ctx context.Context, persona *model.Persona) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PersonaHandler struct {
	personas PersonaStore
}

func NewPersonaHandler(personas PersonaStore) *PersonaHandler {
	return &PersonaHandler{personas: personas}
}

type PersonaRequest struct {
	Name              string   `json:"name" binding:"required,max=100"`
	Description       string   `json:"description"`
	SystemInstruction string   `json:"system_instruction" binding:"required"`
	Temperature       *float64 `json:"temperature"`
	AutoApply         bool     `json:"auto_apply"`
}

type PersonaResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	SystemInstruction string  `json:"system_instruction"`
	Temperature       float64 `json:"temperature"`
	AutoApply         bool    `json:"auto_apply"`
	CreatedAt         string  `json:"created_at"`
}

func toPersonaResponse(p *model.Persona) PersonaResponse {
	return PersonaResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		SystemInstruction: p.SystemInstruction,
		Temperature:       p.Temperature,
		AutoApply:         p.AutoApply,
		CreatedAt:         formatTime(p.CreatedAt),
	}
}

func (r *PersonaRequest) apply(p *model.Persona) {
	p.Name = r.Name
	p.Description = r.Description
	p.SystemInstruction = r.SystemInstruction
	p.AutoApply = r.AutoApply
	if r.Temperature != nil {
		p.Temperature = *r.Temperature
	}
}

func (h *PersonaHandler) List(c *gin.Context) {
	personas, err := h.personas.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve personas")
		return
	}

	response := make([]PersonaResponse, len(personas))
	for i := range personas {
		response[i] = toPersonaResponse(&personas[i])
	}
	c.JSON(http.StatusOK, response)
}

func (h *PersonaHandler) Create(c *gin.Context) {
	var req PersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	persona := &model.Persona{Temperature: 0.7}
	req.apply(persona)

	if err := h.personas.Create(c.Request.Context(), persona); err != nil {
		respondError(c, err, "Failed to create persona")
		return
	}
	c.JSON(http.StatusCreated, toPersonaResponse(persona))
}

func (h *PersonaHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	persona, err := h.personas.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve persona")
		return
	}
	c.JSON(http.StatusOK, toPersonaResponse(persona))
}

func (h *PersonaHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	persona, err := h.personas.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve persona")
		return
	}
	req.apply(persona)

	if err := h.personas.Update(c.Request.Context(), persona); err != nil {
		respondError(c, err, "Failed to update persona")
		return
	}
	c.JSON(http.StatusOK, toPersonaResponse(persona))
}

func (h *PersonaHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.personas.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Failed to delete persona")
		return
	}
	c.Status(http.StatusNoContent)
}
