package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title           *string    `gorm:"size:200"`
	OriginalContent string     `gorm:"type:text;not null"`
	RefinedContent  *string    `gorm:"type:text"`
	Position        int        `gorm:"not null;default:0"`
	DueDate         *time.Time `gorm:"type:date"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Column Column `gorm:"foreignKey:ColumnID"`
}

// DisplayTitle falls back to the first 50 characters of the content when the title is empty.
func (c *Card) DisplayTitle() string {
	if c.Title != nil && *c.Title != "" {
		return *c.Title
	}
	r := []rune(c.OriginalContent)
	if len(r) > 50 {
		return string(r[:50])
	}
	return c.OriginalContent
}
