package web

import (
	"github.com/peterkuimelis/rawdeal/internal/game"
)

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number    int      `json:"number"`
	Name      string   `json:"name"`
	Superstar string   `json:"superstar"`
	Cards     []string `json:"cards"` // unique titles in deck order
	Size      int      `json:"size"`
	Valid     bool     `json:"valid"`
	Problem   string   `json:"problem,omitempty"`
}

func deckInfos(decks []game.DeckList, cat *game.Catalog) []DeckInfo {
	out := make([]DeckInfo, 0, len(decks))
	for i, d := range decks {
		di := DeckInfo{
			Number:    i + 1,
			Name:      d.Name,
			Superstar: d.Superstar,
			Size:      len(d.Cards),
			Valid:     true,
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, title := range d.Cards {
			if !seen[title] {
				di.Cards = append(di.Cards, title)
				seen[title] = true
			}
		}
		if err := game.ValidateDeck(d.Cards, d.Superstar, cat); err != nil {
			di.Valid = false
			di.Problem = err.Error()
		}
		out = append(out, di)
	}
	return out
}
