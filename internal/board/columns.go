package board

import (
	"slices"
	"strings"

	"github.com/danielolaszy/orderboard/internal/status"
	"github.com/danielolaszy/orderboard/pkg/models"
)

// Group splits cards into one column per stage, in stage order, keeping the
// relative order of the cards.
func Group(cards []models.Card) []models.Column {
	columns := make([]models.Column, len(status.Definitions))
	index := make(map[models.Stage]int, len(status.Definitions))
	for i, def := range status.Definitions {
		columns[i] = models.Column{
			Stage:       def.Stage,
			Title:       def.Title,
			Description: def.Description,
			Cards:       []models.Card{},
		}
		index[def.Stage] = i
	}

	for _, card := range cards {
		i, ok := index[card.Stage]
		if !ok {
			i = index[models.StageBacklog]
		}
		columns[i].Cards = append(columns[i].Cards, card)
	}
	return columns
}

// SortCards orders cards by due date, earliest first, with undated cards
// last. Equal or missing dates are ordered by reference.
func SortCards(cards []models.Card) {
	slices.SortStableFunc(cards, compareCards)
}

func compareCards(a, b models.Card) int {
	switch {
	case a.DueDate != nil && b.DueDate != nil:
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
	case a.DueDate != nil:
		return -1
	case b.DueDate != nil:
		return 1
	}
	return strings.Compare(a.Reference, b.Reference)
}
