package refine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"refineboard/internal/logging"
	"refineboard/internal/model"
)

// ErrUpstream wraps any failure of the text generation service.
var ErrUpstream = errors.New("text generation failed")

const promptTemplate = `%s

Card title: %s

Card content:
%s

Rewrite the card content following the instructions above.
Return only the final text, no meta-commentary, no preamble and no closing remarks.`

type CardStore interface {
	GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Card, error)
	SetRefinedContent(ctx context.Context, id uuid.UUID, text string) error
}

type PersonaStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Persona, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

type Config struct {
	TriggerWords []string
	Timeout      time.Duration
}

// Result is what a refinement run returns to the caller.
type Result struct {
	Text        string
	PersonaName string
	Applied     bool
}

type Refiner struct {
	cards     CardStore
	personas  PersonaStore
	generator Generator
	cfg       Config
}

func NewRefiner(cards CardStore, personas PersonaStore, generator Generator, cfg Config) *Refiner {
	words := make([]string, 0, len(cfg.TriggerWords))
	for _, w := range cfg.TriggerWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	cfg.TriggerWords = words
	return &Refiner{cards: cards, personas: personas, generator: generator, cfg: cfg}
}

// ShouldPersist reports whether output of the persona is written back to the card:
// either the persona opts in explicitly or its name contains a trigger word.
func (r *Refiner) ShouldPersist(persona *model.Persona) bool {
	if persona.AutoApply {
		return true
	}
	name := strings.ToLower(persona.Name)
	for _, w := range r.cfg.TriggerWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// BuildPrompt combines the persona instruction with the card title and content.
func BuildPrompt(persona *model.Persona, card *model.Card) string {
	title := ""
	if card.Title != nil {
		title = *card.Title
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(persona.SystemInstruction), title, card.OriginalContent)
}

// Run refines a card visible to userID with the given persona.
// On generation failure the card is left untouched.
func (r *Refiner) Run(ctx context.Context, userID, cardID, personaID uuid.UUID) (*Result, error) {
	ctx, span := otel.Tracer("refineboard/refine").Start(ctx, "refine.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("card.id", cardID.String()),
		attribute.String("persona.id", personaID.String()),
	)

	card, err := r.cards.GetVisibleByID(ctx, cardID, userID)
	if err != nil {
		return nil, err
	}
	persona, err := r.personas.GetByID(ctx, personaID)
	if err != nil {
		return nil, err
	}

	genCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	text, err := r.generator.Generate(genCtx, BuildPrompt(persona, card), persona.Temperature)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		logging.ReportError("refine_upstream", err, log.Fields{
			"card_id":    cardID.String(),
			"persona_id": personaID.String(),
		})
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	result := &Result{Text: text, PersonaName: persona.Name}
	if r.ShouldPersist(persona) {
		if err := r.cards.SetRefinedContent(ctx, card.ID, text); err != nil {
			return nil, fmt.Errorf("save refined content: %w", err)
		}
		result.Applied = true
	}
	span.SetAttributes(attribute.Bool("refine.applied", result.Applied))

	log.WithFields(log.Fields{
		"card_id": cardID.String(),
		"persona": persona.Name,
		"applied": result.Applied,
	}).Info("card refined")

	return result, nil
}
