package model

import (
	"time"

	"github.com/google/uuid"
)

// Persona is an AI agent configuration used to refine cards.
// Temperature is expected in [0, 1] but is not enforced.
type Persona struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name              string    `gorm:"not null"`
	Description       string
	SystemInstruction string    `gorm:"type:text;not null"`
	Temperature       float64   `gorm:"not null;default:0.7"`
	AutoApply         bool      `gorm:"not null;default:false"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
}
