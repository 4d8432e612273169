package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"refineboard/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// Create appends the column after the last one of its workspace.
func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maxPosition, err := maxPosition(tx, &model.Column{}, "workspace_id = ?", column.WorkspaceID)
		if err != nil {
			return err
		}
		column.Position = maxPosition + 1
		return tx.Omit("Workspace", "Cards").Create(column).Error
	})
}

func (r *ColumnRepository) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id IN (?)", id, visibleWorkspaceIDs(r.db, userID)).
		First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, err
	}
	return &column, nil
}

// ListVisible returns every column userID can see, ordered by workspace and position.
func (r *ColumnRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Where("workspace_id IN (?)", visibleWorkspaceIDs(r.db, userID)).
		Order("workspace_id, position, created_at").
		Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) GetByWorkspaceID(ctx context.Context, workspaceID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Order("position, created_at").Find(&columns).Error
	return columns, err
}

func (r *ColumnRepository) Update(ctx context.Context, column *model.Column) error {
	result := r.db.WithContext(ctx).Model(&model.Column{}).
		Where("id = ?", column.ID).
		Select("title", "color", "position").
		Updates(column)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Delete removes a column and, through ON DELETE CASCADE, its cards.
func (r *ColumnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Column{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// Reorder assigns positions 0..n-1 following the given column order.
func (r *ColumnRepository) Reorder(ctx context.Context, workspaceID uuid.UUID, columnIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range columnIDs {
			result := tx.Model(&model.Column{}).
				Where("id = ? AND workspace_id = ?", id, workspaceID).
				Update("position", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrColumnNotFound
			}
		}
		return nil
	})
}

// maxPosition returns the highest position among rows matching the condition, or 0 when none match.
func maxPosition(tx *gorm.DB, table interface{}, query string, args ...interface{}) (int, error) {
	var result struct {
		Max int
	}
	err := tx.Model(table).
		Select("COALESCE(MAX(position), 0) as max").
		Where(query, args...).
		Scan(&result).Error
	return result.Max, err
}
