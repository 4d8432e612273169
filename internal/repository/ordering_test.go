package repository_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refineboard/internal/model"
	"refineboard/internal/repository"
)

func cardsAt(positions ...int) []model.Card {
	cards := make([]model.Card, len(positions))
	for i, p := range positions {
		cards[i] = model.Card{ID: uuid.New(), Position: p}
	}
	return cards
}

func ids(cards []model.Card) []uuid.UUID {
	out := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

// moveWithin mirrors Move for a single column held in memory.
func moveWithin(column []model.Card, from, to int) []model.Card {
	moved := column[from]
	siblings := make([]model.Card, 0, len(column)-1)
	siblings = append(siblings, column[:from]...)
	siblings = append(siblings, column[from+1:]...)

	ordered := repository.InsertAt(siblings, moved, to)
	repository.Renumber(ordered)
	return ordered
}

func assertDense(t *testing.T, cards []model.Card) {
	t.Helper()
	for i, c := range cards {
		assert.Equal(t, i, c.Position)
	}
}

func TestInsertAt_MovesLastToFront(t *testing.T) {
	column := cardsAt(0, 1, 2)
	x, y, z := column[0], column[1], column[2]

	ordered := moveWithin(column, 2, 0)

	assert.Equal(t, []uuid.UUID{z.ID, x.ID, y.ID}, ids(ordered))
	assertDense(t, ordered)
}

func TestInsertAt_ClampsToEnd(t *testing.T) {
	siblings := cardsAt(0, 1)
	moved := model.Card{ID: uuid.New(), Position: 7}

	ordered := repository.InsertAt(siblings, moved, 99)

	require.Len(t, ordered, 3)
	assert.Equal(t, moved.ID, ordered[2].ID)
}

func TestInsertAt_NegativeIndexGoesFirst(t *testing.T) {
	siblings := cardsAt(0, 1)
	moved := model.Card{ID: uuid.New()}

	ordered := repository.InsertAt(siblings, moved, -3)

	assert.Equal(t, moved.ID, ordered[0].ID)
}

func TestInsertAt_EmptyColumn(t *testing.T) {
	moved := model.Card{ID: uuid.New(), Position: 4}

	ordered := repository.InsertAt(nil, moved, 3)
	changed := repository.Renumber(ordered)

	require.Len(t, ordered, 1)
	assert.Equal(t, 0, ordered[0].Position)
	assert.Len(t, changed, 1)
}

func TestInsertAt_DoesNotMutateSiblings(t *testing.T) {
	siblings := cardsAt(0, 1, 2)
	before := ids(siblings)

	repository.InsertAt(siblings[:2], model.Card{ID: uuid.New()}, 0)

	assert.Equal(t, before, ids(siblings))
}

func TestRenumber_ReportsOnlyChangedCards(t *testing.T) {
	cards := cardsAt(0, 5, 2, 9)

	changed := repository.Renumber(cards)

	assertDense(t, cards)
	assert.Equal(t, []uuid.UUID{cards[1].ID, cards[3].ID}, ids(changed))
}

func TestMoveSequence_KeepsPositionsDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	column := cardsAt(1, 2, 3, 4, 5, 6, 7)
	repository.Renumber(column)

	for i := 0; i < 200; i++ {
		from := rng.Intn(len(column))
		to := rng.Intn(len(column) + 3)
		moved := column[from].ID

		column = moveWithin(column, from, to)

		assertDense(t, column)
		seen := make(map[uuid.UUID]bool, len(column))
		for _, c := range column {
			assert.False(t, seen[c.ID], "duplicate card after move")
			seen[c.ID] = true
		}
		expected := to
		if expected > len(column)-1 {
			expected = len(column) - 1
		}
		assert.Equal(t, moved, column[expected].ID)
	}
}
