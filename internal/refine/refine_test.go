package refine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"refineboard/internal/model"
	"refineboard/internal/refine"
	"refineboard/internal/repository"
)

type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) GetVisibleByID(ctx context.Context, id, userID uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id, userID)
	card := args.Get(0)
	if card == nil {
		return nil, args.Error(1)
	}
	return card.(*model.Card), args.Error(1)
}

func (m *MockCardStore) SetRefinedContent(ctx context.Context, id uuid.UUID, text string) error {
	return m.Called(ctx, id, text).Error(0)
}

type MockPersonaStore struct {
	mock.Mock
}

func (m *MockPersonaStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Persona, error) {
	args := m.Called(ctx, id)
	persona := args.Get(0)
	if persona == nil {
		return nil, args.Error(1)
	}
	return persona.(*model.Persona), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

var triggerWords = []string{"refinador", "refiner", "architect", "engineer"}

type fixture struct {
	cards     *MockCardStore
	personas  *MockPersonaStore
	generator *MockGenerator
	refiner   *refine.Refiner
	userID    uuid.UUID
	card      *model.Card
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	title := "Login page"
	f := &fixture{
		cards:     new(MockCardStore),
		personas:  new(MockPersonaStore),
		generator: new(MockGenerator),
		userID:    uuid.New(),
		card:      &model.Card{ID: uuid.New(), Title: &title, OriginalContent: "users log in with email"},
	}
	f.refiner = refine.NewRefiner(f.cards, f.personas, f.generator, refine.Config{
		TriggerWords: triggerWords,
		Timeout:      time.Second,
	})
	return f
}

func TestRun_TriggerWordPersona_PersistsResult(t *testing.T) {
	f := newFixture(t)
	persona := &model.Persona{ID: uuid.New(), Name: "Refinador Tecnico", SystemInstruction: "Be precise.", Temperature: 0.2}

	f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
	f.personas.On("GetByID", mock.Anything, persona.ID).Return(persona, nil)
	f.generator.On("Generate", mock.Anything, mock.AnythingOfType("string"), 0.2).Return("refined prompt", nil)
	f.cards.On("SetRefinedContent", mock.Anything, f.card.ID, "refined prompt").Return(nil)

	result, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, persona.ID)

	require.NoError(t, err)
	assert.Equal(t, "refined prompt", result.Text)
	assert.Equal(t, "Refinador Tecnico", result.PersonaName)
	assert.True(t, result.Applied)
	f.cards.AssertExpectations(t)
	f.generator.AssertExpectations(t)
}

func TestRun_PlainPersona_ReturnsTextWithoutPersisting(t *testing.T) {
	f := newFixture(t)
	persona := &model.Persona{ID: uuid.New(), Name: "Crítico de Ideias", SystemInstruction: "Criticize.", Temperature: 0.9}

	f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
	f.personas.On("GetByID", mock.Anything, persona.ID).Return(persona, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything, 0.9).Return("this idea has gaps", nil)

	result, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, persona.ID)

	require.NoError(t, err)
	assert.Equal(t, "this idea has gaps", result.Text)
	assert.False(t, result.Applied)
	f.cards.AssertNotCalled(t, "SetRefinedContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_AutoApplyPersona_Persists(t *testing.T) {
	f := newFixture(t)
	persona := &model.Persona{ID: uuid.New(), Name: "Summarizer", AutoApply: true, Temperature: 0.5}

	f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
	f.personas.On("GetByID", mock.Anything, persona.ID).Return(persona, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything, 0.5).Return("summary", nil)
	f.cards.On("SetRefinedContent", mock.Anything, f.card.ID, "summary").Return(nil)

	result, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, persona.ID)

	require.NoError(t, err)
	assert.True(t, result.Applied)
	f.cards.AssertExpectations(t)
}

func TestRun_GenerationFailure_LeavesCardUntouched(t *testing.T) {
	f := newFixture(t)
	persona := &model.Persona{ID: uuid.New(), Name: "Software Architect", Temperature: 0.3}

	f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
	f.personas.On("GetByID", mock.Anything, persona.ID).Return(persona, nil)
	f.generator.On("Generate", mock.Anything, mock.Anything, 0.3).Return("", errors.New("quota exceeded"))

	result, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, persona.ID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, refine.ErrUpstream)
	assert.Contains(t, err.Error(), "quota exceeded")
	f.cards.AssertNotCalled(t, "SetRefinedContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_NotFound(t *testing.T) {
	t.Run("card not visible", func(t *testing.T) {
		f := newFixture(t)
		f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(nil, repository.ErrCardNotFound)

		_, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, uuid.New())

		assert.ErrorIs(t, err, repository.ErrCardNotFound)
		f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persona missing", func(t *testing.T) {
		f := newFixture(t)
		personaID := uuid.New()
		f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
		f.personas.On("GetByID", mock.Anything, personaID).Return(nil, repository.ErrPersonaNotFound)

		_, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, personaID)

		assert.ErrorIs(t, err, repository.ErrPersonaNotFound)
		f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRun_AppliesTimeout(t *testing.T) {
	f := newFixture(t)
	persona := &model.Persona{ID: uuid.New(), Name: "Crítico", Temperature: 0.7}

	f.cards.On("GetVisibleByID", mock.Anything, f.card.ID, f.userID).Return(f.card, nil)
	f.personas.On("GetByID", mock.Anything, persona.ID).Return(persona, nil)
	f.generator.On("Generate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything, 0.7).Return("ok", nil)

	_, err := f.refiner.Run(context.Background(), f.userID, f.card.ID, persona.ID)

	assert.NoError(t, err)
	f.generator.AssertExpectations(t)
}

func TestShouldPersist(t *testing.T) {
	r := refine.NewRefiner(nil, nil, nil, refine.Config{TriggerWords: []string{" Refiner ", "ENGINEER", ""}})

	tests := []struct {
		name    string
		persona model.Persona
		want    bool
	}{
		{name: "case insensitive substring", persona: model.Persona{Name: "Prompt REFINER v2"}, want: true},
		{name: "second word", persona: model.Persona{Name: "Data Engineer"}, want: true},
		{name: "no trigger word", persona: model.Persona{Name: "Critic"}, want: false},
		{name: "explicit flag", persona: model.Persona{Name: "Critic", AutoApply: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ShouldPersist(&tt.persona))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	title := "Checkout"
	prompt := refine.BuildPrompt(
		&model.Persona{SystemInstruction: "  You are a senior engineer.  "},
		&model.Card{Title: &title, OriginalContent: "pay with card"},
	)

	assert.Contains(t, prompt, "You are a senior engineer.")
	assert.Contains(t, prompt, "Card title: Checkout")
	assert.Contains(t, prompt, "pay with card")
	assert.Contains(t, prompt, "Return only the final text, no meta-commentary")
}
