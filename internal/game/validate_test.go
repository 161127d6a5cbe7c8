package game

import (
	"errors"
	"testing"
)

func deckRule(t *testing.T, err error) DeckRule {
	t.Helper()
	if err == nil {
		return 0
	}
	var de *DeckError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DeckError, got %T: %v", err, err)
	}
	if !errors.Is(err, ErrInvalidDeck) {
		t.Errorf("DeckError should match ErrInvalidDeck")
	}
	return de.Rule
}

func TestValidateDeckLegal(t *testing.T) {
	cat := testCatalog()
	deck := makePaddedDeck(SuperstarKane, cardChop, cardChop, cardChop, cardSpear, cardChokeslam)

	if err := ValidateDeck(deck.Cards, deck.Superstar, cat); err != nil {
		t.Fatalf("expected legal deck, got %v", err)
	}
	// Pure: same answer every time
	for i := 0; i < 3; i++ {
		if !IsDeckValid(deck.Cards, deck.Superstar, cat) {
			t.Fatalf("run %d: validation result changed", i)
		}
	}
}

func TestValidateDeckRules(t *testing.T) {
	cat := testCatalog()

	short := makePaddedDeck(superstarHHH)
	short.Cards = short.Cards[:DeckSize-1]
	long := makePaddedDeck(superstarHHH)
	long.Cards = append(long.Cards, cardDrill)

	tests := []struct {
		name string
		deck DeckList
		want DeckRule
	}{
		{"59 cards", short, RuleDeckSize},
		{"61 cards", long, RuleDeckSize},
		{"unknown title", makePaddedDeck(superstarHHH, "Not A Card"), RuleUnknownCard},
		{"unique twice", makePaddedDeck(superstarHHH, cardSpear, cardSpear), RuleUnique},
		{"four copies", makePaddedDeck(superstarHHH, cardChop, cardChop, cardChop, cardChop), RuleCopyLimit},
		{"heel and face", makePaddedDeck(superstarHHH, cardHeelTaunt, cardFaceRally), RuleHeelFace},
		{"unknown superstar", makePaddedDeck("BOB BACKLUND"), RuleUnknownSuperstar},
		{"other superstar's logo", makePaddedDeck(SuperstarKane, cardRockBottom), RuleLogo},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDeck(tc.deck.Cards, tc.deck.Superstar, cat)
			if err == nil {
				t.Fatal("expected deck to be invalid")
			}
			if got := deckRule(t, err); got != tc.want {
				t.Errorf("rule = %s, want %s (%v)", got, tc.want, err)
			}
			if IsDeckValid(tc.deck.Cards, tc.deck.Superstar, cat) {
				t.Error("IsDeckValid disagrees with ValidateDeck")
			}
		})
	}
}

// The filler is a SetUp card with 55+ copies, so the copy limit never applies to it.
func TestValidateDeckSetUpExemptFromCopyLimit(t *testing.T) {
	cat := testCatalog()
	deck := makePaddedDeck(superstarHHH)
	if err := ValidateDeck(deck.Cards, deck.Superstar, cat); err != nil {
		t.Fatalf("SetUp cards should ignore the copy limit: %v", err)
	}

	// The same four copies are illegal once the card loses SetUp.
	cards := testCards()
	for _, c := range cards {
		if c.Title == cardDrill {
			c.Subtypes = nil
		}
	}
	noSetUp := NewCatalog(cards, testSuperstars())
	if got := deckRule(t, ValidateDeck(deck.Cards, deck.Superstar, noSetUp)); got != RuleCopyLimit {
		t.Errorf("rule = %s, want %s", got, RuleCopyLimit)
	}
}

func TestValidateDeckUniqueSetUp(t *testing.T) {
	cards := append(testCards(), &Card{
		Title: "Ring Entrance", Types: []string{TypeAction},
		Subtypes:  []string{SubtypeUnique, SubtypeSetUp},
		Fortitude: stat("0"), Damage: stat("0"), StunValue: stat("0"),
	})
	cat := NewCatalog(cards, testSuperstars())
	deck := makePaddedDeck(superstarHHH, "Ring Entrance", "Ring Entrance", "Ring Entrance", "Ring Entrance")
	if err := ValidateDeck(deck.Cards, deck.Superstar, cat); err != nil {
		t.Fatalf("Unique SetUp cards are not limited: %v", err)
	}
}

func TestValidateDeckOwnLogo(t *testing.T) {
	cat := testCatalog()
	deck := makePaddedDeck(SuperstarRock, cardRockBottom, cardRockBottom, cardHeelTaunt)
	if err := ValidateDeck(deck.Cards, deck.Superstar, cat); err != nil {
		t.Fatalf("logo matching the superstar should be legal: %v", err)
	}
}

func TestValidateDeckHeelOnly(t *testing.T) {
	cat := testCatalog()
	deck := makePaddedDeck(superstarHHH, cardHeelTaunt, cardHeelTaunt)
	if !IsDeckValid(deck.Cards, deck.Superstar, cat) {
		t.Fatal("a deck with only Heel cards is legal")
	}
}
