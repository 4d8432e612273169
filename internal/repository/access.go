package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"refineboard/internal/model"
)

// visibleWorkspaceIDs selects the ids of workspaces owned by userID or shared with it.
func visibleWorkspaceIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	shared := db.Model(&model.WorkspaceMember{}).Select("workspace_id").Where("user_id = ?", userID)
	return db.Model(&model.Workspace{}).Select("id").Where("owner_id = ? OR id IN (?)", userID, shared)
}

// visibleColumnIDs selects the ids of columns inside workspaces visible to userID.
func visibleColumnIDs(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&model.Column{}).Select("id").Where("workspace_id IN (?)", visibleWorkspaceIDs(db, userID))
}
