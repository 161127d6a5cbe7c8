package log

import "fmt"

// EventType enumerates all observable game events.
type EventType int

const (
	EventDeckInvalid EventType = iota
	EventNewTurn
	EventDraw
	EventGameInfo
	EventShowCards
	EventPlayAttempt
	EventPlaySuccess
	EventDamage
	EventOverturn
	EventAbility
	EventRecover
	EventDiscard
	EventReturnToArsenal
	EventAddToHand
	EventDrawCards
	EventGiveUp
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventDeckInvalid:
		return "DeckInvalid"
	case EventNewTurn:
		return "NewTurn"
	case EventDraw:
		return "Draw"
	case EventGameInfo:
		return "GameInfo"
	case EventShowCards:
		return "ShowCards"
	case EventPlayAttempt:
		return "PlayAttempt"
	case EventPlaySuccess:
		return "PlaySuccess"
	case EventDamage:
		return "Damage"
	case EventOverturn:
		return "Overturn"
	case EventAbility:
		return "Ability"
	case EventRecover:
		return "Recover"
	case EventDiscard:
		return "Discard"
	case EventReturnToArsenal:
		return "ReturnToArsenal"
	case EventAddToHand:
		return "AddToHand"
	case EventDrawCards:
		return "DrawCards"
	case EventGiveUp:
		return "GiveUp"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// CardInfo is the printable face of a card.
type CardInfo struct {
	Title      string   `json:"title"`
	Types      []string `json:"types,omitempty"`
	Subtypes   []string `json:"subtypes,omitempty"`
	Fortitude  string   `json:"fortitude"`
	Damage     string   `json:"damage"`
	StunValue  string   `json:"stun_value"`
	CardEffect string   `json:"card_effect,omitempty"`
}

// PlayerInfo is one line of the game info panel.
type PlayerInfo struct {
	Superstar    string `json:"superstar"`
	Fortitude    int    `json:"fortitude"`
	HandCount    int    `json:"hand_count"`
	ArsenalCount int    `json:"arsenal_count"`
}

// GameEvent represents a single observable event in a duel.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based, 0 during setup)
	Phase   string    // current phase name (e.g. "Action")
	Player  int       // player the event is about (0 or 1)
	Type    EventType // event type
	Card    string    // card title (if applicable)
	Details string    // human-readable detail string

	Amount   int          // damage taken, cards drawn
	Position int          // 1-based overturn position
	Total    int          // overturn count
	Cards    []CardInfo   // cards shown or involved
	Info     []PlayerInfo // game info panel, acting player first

	Private bool // Card and Cards are only for the player the event is about
}

// Redacted returns the copy of e the other player may see. Events that are
// not private come back unchanged.
func (e GameEvent) Redacted() GameEvent {
	if !e.Private {
		return e
	}
	e.Card = ""
	e.Cards = nil
	if e.Type == EventReturnToArsenal {
		e.Details = fmt.Sprintf("%s puts a card on the bottom of the arsenal", playerName(e.Player))
	}
	return e
}
