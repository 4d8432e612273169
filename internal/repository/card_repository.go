package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"refineboard/internal/model"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create stores the card at max(position)+1 of its column, so the first card of an
// empty column gets position 1 and positions are not reused after deletions.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maxPosition, err := maxPosition(tx, &model.Card{}, "column_id = ?", card.ColumnID)
		if err != nil {
			return err
		}
		card.Position = maxPosition + 1
		return tx.Omit("Column").Create(card).Error
	})
}

// GetVisibleByID loads a card when it lives in a workspace visible to userID.
func (r *CardRepository) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Card, error) {
	var card model.Card
	err := r.db.WithContext(ctx).
		Where("id = ? AND column_id IN (?)", id, visibleColumnIDs(r.db, userID)).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// ListVisible returns every card userID can see.
func (r *CardRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("column_id IN (?)", visibleColumnIDs(r.db, userID)).
		Order("column_id, position, created_at").
		Find(&cards).Error
	return cards, err
}

func (r *CardRepository) GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order("position, created_at").Find(&cards).Error
	return cards, err
}

// Update persists the editable fields and refreshes card.UpdatedAt.
// Position and column change only through Move.
func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	result := r.db.WithContext(ctx).Model(card).
		Omit("Column").
		Select("title", "original_content", "refined_content", "due_date", "updated_at").
		Updates(card)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// SetRefinedContent stores the generated text on the card.
func (r *CardRepository) SetRefinedContent(ctx context.Context, id uuid.UUID, text string) error {
	result := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).
		Update("refined_content", text)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

// Move relocates a card to position in targetColumnID (nil keeps the current column)
// and renumbers the destination column to 0..n-1. After a cross-column move the
// source column is renumbered as well. Everything runs in one transaction.
func (r *CardRepository) Move(ctx context.Context, cardID uuid.UUID, targetColumnID *uuid.UUID, position int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card model.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		sourceColumnID := card.ColumnID
		if targetColumnID != nil && *targetColumnID != card.ColumnID {
			if err := tx.Model(&model.Card{}).Where("id = ?", card.ID).
				Update("column_id", *targetColumnID).Error; err != nil {
				return err
			}
			card.ColumnID = *targetColumnID
		}

		var siblings []model.Card
		if err := tx.Where("column_id = ? AND id <> ?", card.ColumnID, card.ID).
			Order("position, created_at").
			Find(&siblings).Error; err != nil {
			return err
		}

		if err := savePositions(tx, InsertAt(siblings, card, position)); err != nil {
			return err
		}

		if sourceColumnID == card.ColumnID {
			return nil
		}

		var remaining []model.Card
		if err := tx.Where("column_id = ?", sourceColumnID).
			Order("position, created_at").
			Find(&remaining).Error; err != nil {
			return err
		}
		return savePositions(tx, remaining)
	})

	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}
	return nil
}

func savePositions(tx *gorm.DB, ordered []model.Card) error {
	for _, c := range Renumber(ordered) {
		if err := tx.Model(&model.Card{}).Where("id = ?", c.ID).
			Update("position", c.Position).Error; err != nil {
			return err
		}
	}
	return nil
}
