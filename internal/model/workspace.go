package model

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is a Kanban board owned by one user and shared with its members.
type Workspace struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	Archived    bool      `gorm:"not null;default:false"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner   User     `gorm:"foreignKey:OwnerID"`
	Members []User   `gorm:"many2many:workspace_members"`
	Columns []Column `gorm:"constraint:OnDelete:CASCADE"`
}

// IsOwner reports whether userID owns the workspace.
func (w *Workspace) IsOwner(userID uuid.UUID) bool {
	return w.OwnerID == userID
}

// MemberCount counts the owner together with the invited members.
func (w *Workspace) MemberCount() int {
	return len(w.Members) + 1
}

// WorkspaceMember is a row of the workspace_members join table.
type WorkspaceMember struct {
	WorkspaceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
}
