package game

import (
	"errors"
	"fmt"
)

var ErrInvalidDeck = errors.New("invalid deck")

// DeckRule identifies which legality rule a deck broke.
type DeckRule int

const (
	RuleDeckSize DeckRule = iota + 1
	RuleUnknownCard
	RuleUnique
	RuleCopyLimit
	RuleHeelFace
	RuleUnknownSuperstar
	RuleLogo
)

func (r DeckRule) String() string {
	switch r {
	case RuleDeckSize:
		return "deck size"
	case RuleUnknownCard:
		return "unknown card"
	case RuleUnique:
		return "unique card"
	case RuleCopyLimit:
		return "copy limit"
	case RuleHeelFace:
		return "heel and face"
	case RuleUnknownSuperstar:
		return "unknown superstar"
	case RuleLogo:
		return "superstar logo"
	default:
		return "unknown rule"
	}
}

// DeckError reports the first legality rule a deck fails.
type DeckError struct {
	Rule   DeckRule
	Card   string
	Detail string
}

func (e *DeckError) Error() string {
	if e.Card != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Rule, e.Detail, e.Card)
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

// Is lets errors.Is(err, ErrInvalidDeck) match any DeckError.
func (e *DeckError) Is(target error) bool {
	return target == ErrInvalidDeck
}

// ValidateDeck checks a deck list against the construction rules and returns
// the first violation found, or nil. It has no side effects.
func ValidateDeck(titles []string, superstarName string, cat *Catalog) error {
	if len(titles) != DeckSize {
		return &DeckError{Rule: RuleDeckSize, Detail: fmt.Sprintf("deck has %d cards, need %d", len(titles), DeckSize)}
	}

	counts := make(map[string]int, len(titles))
	cards := make([]*Card, 0, len(titles))
	hasHeel, hasFace := false, false

	for _, title := range titles {
		card, err := cat.Card(title)
		if err != nil {
			return &DeckError{Rule: RuleUnknownCard, Card: title, Detail: "not in the card catalog"}
		}
		cards = append(cards, card)
		counts[title]++

		if card.HasSubtype(SubtypeUnique) && !card.HasSubtype(SubtypeSetUp) && counts[title] > 1 {
			return &DeckError{Rule: RuleUnique, Card: title, Detail: "unique card included more than once"}
		}
		hasHeel = hasHeel || card.HasSubtype(SubtypeHeel)
		hasFace = hasFace || card.HasSubtype(SubtypeFace)
	}

	// Walk in deck order so the reported card is deterministic.
	for _, card := range cards {
		if counts[card.Title] > MaxCopies && !card.HasSubtype(SubtypeSetUp) {
			return &DeckError{Rule: RuleCopyLimit, Card: card.Title,
				Detail: fmt.Sprintf("%d copies, at most %d allowed", counts[card.Title], MaxCopies)}
		}
	}

	if hasHeel && hasFace {
		return &DeckError{Rule: RuleHeelFace, Detail: "deck mixes Heel and Face cards"}
	}

	superstar, err := cat.Superstar(superstarName)
	if err != nil {
		return &DeckError{Rule: RuleUnknownSuperstar, Card: superstarName, Detail: "not in the superstar catalog"}
	}

	for _, card := range cards {
		for _, sub := range card.Subtypes {
			if cat.IsLogo(sub) && sub != superstar.Logo {
				return &DeckError{Rule: RuleLogo, Card: card.Title,
					Detail: fmt.Sprintf("%s card in a %s deck", sub, superstar.Logo)}
			}
		}
	}

	return nil
}

// IsDeckValid is the boolean form of ValidateDeck.
func IsDeckValid(titles []string, superstarName string, cat *Catalog) bool {
	return ValidateDeck(titles, superstarName, cat) == nil
}
