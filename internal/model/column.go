package model

import (
	"time"

	"github.com/google/uuid"
)

// Column color tags
const (
	ColorGray   = "gray"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorPurple = "purple"
	ColorRose   = "rose"
	ColorAmber  = "amber"
)

// Column is an ordered bucket of cards inside a workspace.
type Column struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Position    int       `gorm:"not null;default:0"`
	Color       string    `gorm:"not null;default:gray"`
	CreatedAt   time.Time

	Workspace Workspace `gorm:"foreignKey:WorkspaceID"`
	Cards     []Card    `gorm:"constraint:OnDelete:CASCADE"`
}

// IsValidColor reports whether c is one of the supported color tags.
func IsValidColor(c string) bool {
	switch c {
	case ColorGray, ColorBlue, ColorGreen, ColorPurple, ColorRose, ColorAmber:
		return true
	}
	return false
}
