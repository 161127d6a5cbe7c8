package game

import (
	"context"
	"testing"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t    *testing.T
	name string
	deck int // index answered to ChooseDeck

	actions []ActionType
	pos     int

	// For ChooseCard prompts: titles to pick, "" cancels
	cardChoices []string
	cardPos     int

	cardSets []CardSet
	setPos   int

	// For ChooseYesNo prompts
	yesNoChoices []bool
	yesNoPos     int

	// autoPlay tries one play per turn once the script is exhausted.
	autoPlay  bool
	triedPlay bool

	// Recorded prompts and notifications
	deckAsked  int
	offered    [][]Action
	selections []Selection
	events     []log.GameEvent
}

func NewScriptedController(t *testing.T, name string, deck int) *ScriptedController {
	return &ScriptedController{t: t, name: name, deck: deck}
}

func (sc *ScriptedController) AddAction(actionType ActionType) *ScriptedController {
	sc.actions = append(sc.actions, actionType)
	return sc
}

// AddPlay scripts a Play Card action followed by the title to play.
func (sc *ScriptedController) AddPlay(title string) *ScriptedController {
	sc.actions = append(sc.actions, ActionPlayCard)
	sc.cardChoices = append(sc.cardChoices, title)
	return sc
}

func (sc *ScriptedController) AddCardChoice(titles ...string) *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, titles...)
	return sc
}

func (sc *ScriptedController) AddCardSet(set CardSet) *ScriptedController {
	sc.cardSets = append(sc.cardSets, set)
	return sc
}

func (sc *ScriptedController) AddYesNo(answer bool) *ScriptedController {
	sc.yesNoChoices = append(sc.yesNoChoices, answer)
	return sc
}

func (sc *ScriptedController) ChooseDeck(ctx context.Context, state *GameState, decks []string) (int, error) {
	sc.deckAsked++
	return sc.deck, nil
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	sc.offered = append(sc.offered, actions)

	if sc.pos < len(sc.actions) {
		// Peek at the next scripted action and only consume it when it is offered,
		// so a script can wait for the turn where it becomes available.
		for _, a := range actions {
			if a.Type == sc.actions[sc.pos] {
				sc.pos++
				return a, nil
			}
		}
	} else if sc.autoPlay && !sc.triedPlay {
		sc.triedPlay = true
		return findAction(actions, ActionPlayCard), nil
	}

	sc.triedPlay = false
	return findAction(actions, ActionEndTurn), nil
}

func findAction(actions []Action, t ActionType) Action {
	for _, a := range actions {
		if a.Type == t {
			return a
		}
	}
	return actions[len(actions)-1]
}

func (sc *ScriptedController) ChooseCardSet(ctx context.Context, state *GameState, sets []CardSet) (CardSet, error) {
	if sc.setPos >= len(sc.cardSets) {
		return sets[0], nil
	}
	set := sc.cardSets[sc.setPos]
	sc.setPos++
	return set, nil
}

func (sc *ScriptedController) ChooseCard(ctx context.Context, state *GameState, sel Selection, candidates []CardView) (int, error) {
	sc.selections = append(sc.selections, sel)

	if sc.cardPos >= len(sc.cardChoices) {
		// Default: first candidate, or cancel when there is nothing to pick
		if len(candidates) == 0 {
			return NoSelection, nil
		}
		return 0, nil
	}

	title := sc.cardChoices[sc.cardPos]
	sc.cardPos++
	if title == outOfRange {
		return len(candidates), nil
	}
	for i, c := range candidates {
		if c.Title == title {
			return i, nil
		}
	}
	if !sel.Optional {
		// A required selection would be asked again forever.
		sc.t.Fatalf("[%s] %s: %q not among %d candidates", sc.name, sel.Kind, title, len(candidates))
	}
	if title != "" {
		sc.t.Logf("[%s] %s: %q not among %d candidates", sc.name, sel.Kind, title, len(candidates))
	}
	return NoSelection, nil
}

// outOfRange scripts an answer one past the last candidate.
const outOfRange = "\x00out of range"

func (sc *ScriptedController) ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error) {
	if sc.yesNoPos >= len(sc.yesNoChoices) {
		return false, nil
	}
	answer := sc.yesNoChoices[sc.yesNoPos]
	sc.yesNoPos++
	return answer, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	sc.events = append(sc.events, event)
	return nil
}

// --- Test catalog ---

const (
	cardChop       = "Chop"
	cardPunch      = "Punch"
	cardJab        = "Jab"
	cardIrishWhip  = "Irish Whip"
	cardBigBoot    = "Big Boot"
	cardBreakHold  = "Break the Hold"
	cardSpear      = "Spear"
	cardDrill      = "Training Drill"
	cardHeelTaunt  = "Heel Taunt"
	cardFaceRally  = "Crowd Rally"
	cardRockBottom = "Rock Bottom"
	cardChokeslam  = "Chokeslam"
	superstarHHH   = "HHH"
)

func stat(v string) Stat { return Stat(v) }

func testCards() []*Card {
	return []*Card{
		{Title: cardChop, Types: []string{TypeManeuver}, Subtypes: []string{"Strike"}, Fortitude: stat("0"), Damage: stat("3"), StunValue: stat("0")},
		{Title: cardPunch, Types: []string{TypeManeuver}, Subtypes: []string{"Strike"}, Fortitude: stat("0"), Damage: stat("2"), StunValue: stat("0")},
		{Title: cardJab, Types: []string{TypeManeuver}, Subtypes: []string{"Strike"}, Fortitude: stat("0"), Damage: stat("1"), StunValue: stat("0")},
		{Title: cardIrishWhip, Types: []string{TypeAction}, Fortitude: stat("0"), Damage: stat("#"), StunValue: stat("0")},
		{Title: cardBigBoot, Types: []string{TypeManeuver}, Subtypes: []string{"Strike"}, Fortitude: stat("5"), Damage: stat("6"), StunValue: stat("2")},
		{Title: cardBreakHold, Types: []string{TypeReversal}, Subtypes: []string{"ReversalGrapple"}, Fortitude: stat("0"), Damage: stat("#"), StunValue: stat("0")},
		{Title: cardSpear, Types: []string{TypeManeuver}, Subtypes: []string{SubtypeUnique}, Fortitude: stat("0"), Damage: stat("4"), StunValue: stat("1")},
		{Title: cardDrill, Types: []string{TypeAction}, Subtypes: []string{SubtypeSetUp}, Fortitude: stat("0"), Damage: stat("0"), StunValue: stat("0")},
		{Title: cardHeelTaunt, Types: []string{TypeAction}, Subtypes: []string{SubtypeHeel}, Fortitude: stat("0"), Damage: stat("0"), StunValue: stat("0")},
		{Title: cardFaceRally, Types: []string{TypeAction}, Subtypes: []string{SubtypeFace}, Fortitude: stat("0"), Damage: stat("0"), StunValue: stat("0")},
		{Title: cardRockBottom, Types: []string{TypeManeuver}, Subtypes: []string{"Grapple", "TheRock"}, Fortitude: stat("0"), Damage: stat("5"), StunValue: stat("1")},
		{Title: cardChokeslam, Types: []string{TypeManeuver}, Subtypes: []string{"Grapple", "Kane"}, Fortitude: stat("0"), Damage: stat("4"), StunValue: stat("1")},
	}
}

func testSuperstars() []*Superstar {
	return []*Superstar{
		{Name: SuperstarKane, Logo: "Kane", HandSize: 3, SuperstarValue: 2},
		{Name: SuperstarRock, Logo: "TheRock", HandSize: 3, SuperstarValue: 5},
		{Name: SuperstarMankind, Logo: "Mankind", HandSize: 2, SuperstarValue: 3},
		{Name: SuperstarUndertaker, Logo: "Undertaker", HandSize: 3, SuperstarValue: 4},
		{Name: SuperstarJericho, Logo: "Jericho", HandSize: 3, SuperstarValue: 3},
		{Name: SuperstarStoneCold, Logo: "StoneCold", HandSize: 3, SuperstarValue: 5},
		{Name: superstarHHH, Logo: "HHH", HandSize: 3, SuperstarValue: 3},
	}
}

func testCatalog() *Catalog {
	return NewCatalog(testCards(), testSuperstars())
}

// makePaddedDeck creates a 60-card deck with the given titles on top of the
// arsenal and Training Drill filler below. top[0] is drawn first.
func makePaddedDeck(superstar string, top ...string) DeckList {
	cards := make([]string, 0, DeckSize)
	for i := 0; i < DeckSize-len(top); i++ {
		cards = append(cards, cardDrill)
	}
	// Top cards go at the end of the slice, reversed so top[0] is drawn first
	for i := len(top) - 1; i >= 0; i-- {
		cards = append(cards, top[i])
	}
	return DeckList{Name: superstar + " deck", Superstar: superstar, Cards: cards}
}

// conservingLogger fails the test as soon as any seated player stops holding
// exactly DeckSize cards.
type conservingLogger struct {
	*log.MemoryLogger
	t    *testing.T
	duel *Duel
}

func (l *conservingLogger) Log(event log.GameEvent) {
	l.MemoryLogger.Log(event)
	if l.duel == nil {
		return
	}
	for i, p := range l.duel.State.Players {
		if p != nil && p.CardCount() != DeckSize {
			l.t.Fatalf("after %s event, P%d holds %d cards", event.Type, i+1, p.CardCount())
		}
	}
}

// runDuelToCompletion runs a duel between deck0 (chosen by p0) and deck1
// (chosen by p1) and returns the duel and its logger for inspection.
func runDuelToCompletion(t *testing.T, deck0, deck1 DeckList, maxTurns int, p0, p1 *ScriptedController) (*Duel, *log.MemoryLogger) {
	t.Helper()
	logger := &conservingLogger{MemoryLogger: log.NewMemoryLogger(), t: t}
	p0.deck, p1.deck = 0, 1
	cfg := DuelConfig{
		Catalog:  testCatalog(),
		Decks:    []DeckList{deck0, deck1},
		Logger:   logger,
		MaxTurns: maxTurns,
	}

	duel := NewDuel(cfg, p0, p1)
	logger.duel = duel

	winner, err := duel.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Duel error: %v", err)
	}

	t.Logf("Duel result: winner=%d (%s)", winner, duel.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return duel, logger.MemoryLogger
}

// newSeatedDuel builds a duel whose players are already seated, for driving
// combat and abilities directly. Zones are filled by the caller.
func newSeatedDuel(t *testing.T, s0, s1 string, p0, p1 *ScriptedController) (*Duel, *log.MemoryLogger) {
	t.Helper()
	cat := testCatalog()
	logger := log.NewMemoryLogger()
	d := NewDuel(DuelConfig{Catalog: cat, Logger: logger}, p0, p1)
	for i, name := range []string{s0, s1} {
		superstar, err := cat.Superstar(name)
		if err != nil {
			t.Fatalf("seat %d: %v", i, err)
		}
		d.State.Players[i] = NewPlayer(superstar, nil)
	}
	d.State.Turn = 1
	d.State.Phase = PhaseAction
	return d, logger
}
