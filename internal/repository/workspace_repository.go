package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"refineboard/internal/model"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

func (r *WorkspaceRepository) Create(ctx context.Context, workspace *model.Workspace) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(workspace).Error
}

// ListVisible returns the workspaces userID owns or is a member of.
// Archived workspaces are skipped unless includeArchived is set.
func (r *WorkspaceRepository) ListVisible(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	q := r.db.WithContext(ctx).
		Preload("Members").
		Where("id IN (?)", visibleWorkspaceIDs(r.db, userID))
	if !includeArchived {
		q = q.Where("archived = ?", false)
	}
	err := q.Order("created_at DESC").Find(&workspaces).Error
	return workspaces, err
}

// GetVisibleByID loads a workspace with its members, columns and cards ordered by position.
func (r *WorkspaceRepository) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Workspace, error) {
	var workspace model.Workspace
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Members").
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, created_at")
		}).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, created_at")
		}).
		Where("id = ? AND id IN (?)", id, visibleWorkspaceIDs(r.db, userID)).
		First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// CanAccess reports whether userID owns or is a member of the workspace.
func (r *WorkspaceRepository) CanAccess(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Workspace{}).
		Where("id = ? AND id IN (?)", workspaceID, visibleWorkspaceIDs(r.db, userID)).
		Count(&count).Error
	return count > 0, err
}

// Update persists title, description and archived and refreshes workspace.UpdatedAt.
// The owner is never changed.
func (r *WorkspaceRepository) Update(ctx context.Context, workspace *model.Workspace) error {
	result := r.db.WithContext(ctx).Model(workspace).
		Omit(clause.Associations).
		Select("title", "description", "archived", "updated_at").
		Updates(workspace)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

// Delete removes a workspace; columns and cards go with it through ON DELETE CASCADE.
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Workspace{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

// AddMember shares the workspace with userID. Adding an existing member is a no-op.
func (r *WorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID}).Error
}

func (r *WorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&model.WorkspaceMember{}).Error
}

func (r *WorkspaceRepository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN workspace_members ON workspace_members.user_id = users.id").
		Where("workspace_members.workspace_id = ?", workspaceID).
		Order("users.name").
		Find(&users).Error
	return users, err
}
