package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseDeckText(t *testing.T) {
	data := "KANE (Superstar Card)\r\nChop\r\n\r\nChokeslam\nPunch\n"
	dl, err := ParseDeckText("kane", []byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if dl.Superstar != SuperstarKane {
		t.Errorf("superstar = %q", dl.Superstar)
	}
	want := []string{cardChop, cardChokeslam, cardPunch}
	if strings.Join(dl.Cards, "|") != strings.Join(want, "|") {
		t.Errorf("cards = %v, want %v", dl.Cards, want)
	}

	if _, err := ParseDeckText("empty", nil); err == nil {
		t.Error("an empty deck file should fail")
	}
}

func TestLoadDecksFromDirectory(t *testing.T) {
	dir := t.TempDir()
	deck := makePaddedDeck(superstarHHH, cardChop)
	writeFile(t, dir, "01.txt", "HHH (Superstar Card)\n"+strings.Join(deck.Cards, "\n")+"\n")
	writeFile(t, dir, "02.txt", "THE ROCK (Superstar Card)\nRock Bottom\n")
	writeFile(t, dir, "notes.md", "ignored")

	decks, err := LoadDecks(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 2 {
		t.Fatalf("expected 2 decks, got %d", len(decks))
	}
	if decks[0].Name != "01" || len(decks[0].Cards) != DeckSize {
		t.Errorf("first deck = %s with %d cards", decks[0].Name, len(decks[0].Cards))
	}
	if !IsDeckValid(decks[0].Cards, decks[0].Superstar, testCatalog()) {
		t.Error("first deck should be legal")
	}
	if IsDeckValid(decks[1].Cards, decks[1].Superstar, testCatalog()) {
		t.Error("second deck is too small")
	}

	dl, err := DeckByNumber(dir, 2)
	if err != nil || dl.Superstar != SuperstarRock {
		t.Errorf("DeckByNumber(2) = %+v, %v", dl, err)
	}
	if _, err := DeckByNumber(dir, 3); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("expected ErrDeckNotFound, got %v", err)
	}
}

func TestLoadDecksYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "decks.yaml", `decks:
  - name: "Kane Beatdown"
    superstar: "KANE"
    cards:
      - name: "Chop"
        count: 3
      - name: "Training Drill"
        count: 57
`)
	decks, err := LoadDecks(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(decks) != 1 || decks[0].Name != "Kane Beatdown" {
		t.Fatalf("decks = %+v", decks)
	}
	if err := ValidateDeck(decks[0].Cards, decks[0].Superstar, testCatalog()); err != nil {
		t.Errorf("deck should be legal: %v", err)
	}
	if names := DeckNames(decks); len(names) != 1 || names[0] != "Kane Beatdown" {
		t.Errorf("names = %v", names)
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	cards := writeFile(t, dir, "cards.json", `[
	{"Title": "Chop", "Types": ["Maneuver"], "Subtypes": ["Strike"], "Fortitude": "0", "Damage": "3", "StunValue": "0", "CardEffect": ""},
	{"Title": "Irish Whip", "Types": ["Action"], "Subtypes": [], "Fortitude": 0, "Damage": "#", "StunValue": "0", "CardEffect": "Play as an action."}
]`)
	superstars := writeFile(t, dir, "superstars.yaml", `- Name: KANE
  Logo: Kane
  HandSize: 7
  SuperstarValue: 2
  SuperstarAbility: "At the start of your turn, before your draw segment, opponent must take the top card of his Arsenal and put it into his Ringside pile."
`)

	cat, err := LoadCatalog(cards, superstars)
	if err != nil {
		t.Fatal(err)
	}
	chop, err := cat.Card(cardChop)
	if err != nil {
		t.Fatal(err)
	}
	if chop.RawDamage() != 3 || !chop.Playable(0) {
		t.Errorf("chop = %+v", chop)
	}
	whip, _ := cat.Card(cardIrishWhip)
	if whip.Fortitude != "0" || whip.RawDamage() != 0 {
		t.Errorf("irish whip stats = %q/%q", whip.Fortitude, whip.Damage)
	}
	if _, err := cat.Card("Nope"); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("expected ErrCardNotFound, got %v", err)
	}
	kane, err := cat.Superstar(SuperstarKane)
	if err != nil || kane.HandSize != 7 || !cat.IsLogo("Kane") {
		t.Errorf("kane = %+v, %v", kane, err)
	}
	if _, err := cat.Superstar("X"); !errors.Is(err, ErrSuperstarNotFound) {
		t.Errorf("expected ErrSuperstarNotFound, got %v", err)
	}

	broken := writeFile(t, dir, "broken.json", `[{"Title": `)
	if _, err := LoadCatalog(broken, superstars); err == nil {
		t.Error("malformed cards file should fail")
	}
}

func TestCatalogView(t *testing.T) {
	cat := testCatalog()
	views := cat.View([]string{cardChop, "Mystery", cardPunch})
	if len(views) != 3 || views[1].Card != nil || views[0].Card == nil {
		t.Errorf("views = %+v", views)
	}
}

func TestStatInt(t *testing.T) {
	tests := []struct {
		in   Stat
		want int
		ok   bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"#", 0, false},
		{"", 0, false},
		{"X", 0, false},
	}
	for _, tc := range tests {
		got, ok := tc.in.Int()
		if got != tc.want || ok != tc.ok {
			t.Errorf("Stat(%q).Int() = %d, %v", tc.in, got, ok)
		}
	}
}
