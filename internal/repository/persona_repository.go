package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"refineboard/internal/model"
)

type PersonaRepository struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

// Create adds a new persona to the database
func (r *PersonaRepository) Create(ctx context.Context, persona *model.Persona) error {
	return r.db.WithContext(ctx).Create(persona).Error
}

// GetByID retrieves a persona by its ID
func (r *PersonaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Persona, error) {
	var persona model.Persona
	result := r.db.WithContext(ctx).First(&persona, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPersonaNotFound
		}
		return nil, result.Error
	}
	return &persona, nil
}

// GetByName retrieves a persona by its exact name
func (r *PersonaRepository) GetByName(ctx context.Context, name string) (*model.Persona, error) {
	var persona model.Persona
	result := r.db.WithContext(ctx).First(&persona, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPersonaNotFound
		}
		return nil, result.Error
	}
	return &persona, nil
}

// List returns all personas ordered by name
func (r *PersonaRepository) List(ctx context.Context) ([]model.Persona, error) {
	var personas []model.Persona
	if err := r.db.WithContext(ctx).Order("name").Find(&personas).Error; err != nil {
		return nil, err
	}
	return personas, nil
}

// Update updates an existing persona
func (r *PersonaRepository) Update(ctx context.Context, persona *model.Persona) error {
	result := r.db.WithContext(ctx).Model(&model.Persona{}).
		Where("id = ?", persona.ID).
		Select("name", "description", "system_instruction", "temperature", "auto_apply").
		Updates(persona)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPersonaNotFound
	}
	return nil
}

// Delete removes a persona by its ID
func (r *PersonaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Persona{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPersonaNotFound
	}
	return nil
}
