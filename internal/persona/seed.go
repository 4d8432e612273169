package persona

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"refineboard/internal/model"
	"refineboard/internal/repository"
)

//go:embed personas.yaml
var defaultSeeds []byte

// Seed is one persona definition from a YAML seed file.
type Seed struct {
	Name              string  `yaml:"name" validate:"required,max=100"`
	Description       string  `yaml:"description"`
	SystemInstruction string  `yaml:"system_instruction" validate:"required"`
	Temperature       float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	AutoApply         bool    `yaml:"auto_apply"`
}

type seedFile struct {
	Personas []Seed `yaml:"personas" validate:"dive"`
}

type Store interface {
	GetByName(ctx context.Context, name string) (*model.Persona, error)
	Create(ctx context.Context, persona *model.Persona) error
	Update(ctx context.Context, persona *model.Persona) error
}

var validate = validator.New()

// Parse decodes and validates a seed document.
func Parse(data []byte) ([]Seed, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode personas: %w", err)
	}
	if err := validate.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid personas: %w", err)
	}
	return file.Personas, nil
}

// Load reads seeds from path, or the built-in defaults when path is empty.
func Load(path string) ([]Seed, error) {
	if path == "" {
		return Parse(defaultSeeds)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read personas file: %w", err)
	}
	return Parse(data)
}

// Apply upserts seeds by name. Existing personas get their fields overwritten.
func Apply(ctx context.Context, store Store, seeds []Seed) error {
	for _, s := range seeds {
		existing, err := store.GetByName(ctx, s.Name)
		if err != nil && !errors.Is(err, repository.ErrPersonaNotFound) {
			return err
		}

		p := &model.Persona{
			Name:              s.Name,
			Description:       s.Description,
			SystemInstruction: s.SystemInstruction,
			Temperature:       s.Temperature,
			AutoApply:         s.AutoApply,
		}

		if existing == nil {
			if err := store.Create(ctx, p); err != nil {
				return fmt.Errorf("create persona %q: %w", s.Name, err)
			}
			log.WithField("persona", s.Name).Info("persona seeded")
			continue
		}

		p.ID = existing.ID
		if err := store.Update(ctx, p); err != nil {
			return fmt.Errorf("update persona %q: %w", s.Name, err)
		}
		log.WithField("persona", s.Name).Debug("persona updated from seed")
	}
	return nil
}
