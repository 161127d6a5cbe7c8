package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextLoggerWritesAndKeepsEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)

	l.Log(NewTurnEvent(1, 0, "KANE"))
	l.Log(NewDrawEvent(1, "Draw", 0, "Chop"))
	l.Log(NewWinEvent(1, "Action", 1, "THE ROCK", "opponent gave up"))

	events := l.Events()
	if len(events) != 3 || events[2].Seq != 3 {
		t.Fatalf("events = %+v", events)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("transcript = %q", buf.String())
	}
	if !strings.Contains(lines[1], "P1 draws a card") || strings.Contains(lines[1], "Chop") {
		t.Errorf("draw line leaks the card: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "THE ROCK (P2) wins! (opponent gave up)") {
		t.Errorf("win line = %q", lines[2])
	}
	if got := l.LastEvent().Type; got != EventWin {
		t.Errorf("last event = %s", got)
	}
}

func TestFormatters(t *testing.T) {
	card := CardInfo{Title: "Chop", Types: []string{"Maneuver"}, Subtypes: []string{"Strike"}, Fortitude: "0", Damage: "3", StunValue: "1"}

	if got := FormatCard(card); got != "Title: Chop. Stats: [0/3/1]. Types: Maneuver. Subtypes: Strike." {
		t.Errorf("FormatCard = %q", got)
	}
	if got := FormatPlay(card); got != "Chop [0/3/1] as MANEUVER" {
		t.Errorf("FormatPlay = %q", got)
	}

	info := []PlayerInfo{
		{Superstar: "KANE", Fortitude: 3, HandCount: 6, ArsenalCount: 50},
		{Superstar: "MANKIND", HandCount: 2, ArsenalCount: 58},
	}
	want := "KANE has 3F, 6 cards in hand and 50 cards in arsenal\nMANKIND has 0F, 2 cards in hand and 58 cards in arsenal"
	if got := FormatInfo(info); got != want {
		t.Errorf("FormatInfo = %q", got)
	}
	if ev := NewGameInfoEvent(2, "Draw", 0, info); !strings.Contains(ev.Details, " | ") {
		t.Errorf("game info details = %q", ev.Details)
	}
}

func TestRedactedHidesPrivateCards(t *testing.T) {
	ret := NewReturnToArsenalEvent(3, "Action", 0, "Chop").Redacted()
	if ret.Card != "" || strings.Contains(ret.Details, "Chop") {
		t.Errorf("return to arsenal = %+v", ret)
	}
	if draw := NewDrawEvent(3, "Draw", 1, "Punch").Redacted(); draw.Card != "" || draw.Details != "P2 draws a card" {
		t.Errorf("draw = %+v", draw)
	}

	hand := NewShowCardsEvent(3, 0, "Hand", []CardInfo{{Title: "Chop"}})
	hand.Private = true
	if got := hand.Redacted(); got.Cards != nil || got.Details != hand.Details {
		t.Errorf("hand = %+v", got)
	}

	ringside := NewShowCardsEvent(3, 0, "Ringside", []CardInfo{{Title: "Chop"}})
	if got := ringside.Redacted(); len(got.Cards) != 1 {
		t.Errorf("public cards were removed: %+v", got)
	}
	if got := NewDiscardEvent(3, "Action", 0, "Chop").Redacted(); got.Card != "Chop" {
		t.Errorf("discards are public: %+v", got)
	}
}
