package repository

import "refineboard/internal/model"

// InsertAt places moved among its ordered siblings. The index is clamped to
// [0, len(siblings)], so an out-of-range index appends at the end.
func InsertAt(siblings []model.Card, moved model.Card, index int) []model.Card {
	if index < 0 {
		index = 0
	}
	if index > len(siblings) {
		index = len(siblings)
	}

	ordered := make([]model.Card, 0, len(siblings)+1)
	ordered = append(ordered, siblings[:index]...)
	ordered = append(ordered, moved)
	ordered = append(ordered, siblings[index:]...)
	return ordered
}

// Renumber assigns positions 0..n-1 in list order and returns the cards whose position changed.
func Renumber(cards []model.Card) []model.Card {
	var changed []model.Card
	for i := range cards {
		if cards[i].Position != i {
			cards[i].Position = i
			changed = append(changed, cards[i])
		}
	}
	return changed
}
