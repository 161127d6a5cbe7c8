package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

// Log keeps the full event and writes the redacted line, so a transcript never
// shows either player's hidden cards.
func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event.Redacted()))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 14 chars for alignment
	for len(phase) < 14 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatCard renders a card the way card lists show it.
func FormatCard(c CardInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s. Stats: [%s/%s/%s]. Types: %s.",
		c.Title, c.Fortitude, c.Damage, c.StunValue, strings.Join(c.Types, ", "))
	if len(c.Subtypes) > 0 {
		fmt.Fprintf(&sb, " Subtypes: %s.", strings.Join(c.Subtypes, ", "))
	}
	if c.CardEffect != "" {
		fmt.Fprintf(&sb, " Effect: %s", c.CardEffect)
	}
	return sb.String()
}

// FormatPlay renders a card as it is being played: title plus the type it is played as.
func FormatPlay(c CardInfo) string {
	as := ""
	if len(c.Types) > 0 {
		as = strings.ToUpper(c.Types[0])
	}
	return fmt.Sprintf("%s [%s/%s/%s] as %s", c.Title, c.Fortitude, c.Damage, c.StunValue, as)
}

// FormatInfo renders the game info panel, one line per superstar.
func FormatInfo(info []PlayerInfo) string {
	lines := make([]string, len(info))
	for i, p := range info {
		lines[i] = fmt.Sprintf("%s has %dF, %d cards in hand and %d cards in arsenal",
			p.Superstar, p.Fortitude, p.HandCount, p.ArsenalCount)
	}
	return strings.Join(lines, "\n")
}

// --- Helper constructors for common events ---

func NewDeckInvalidEvent(player int, superstar string, reason string) GameEvent {
	return GameEvent{
		Phase:   "Setup",
		Player:  player,
		Type:    EventDeckInvalid,
		Details: fmt.Sprintf("%s's deck (%s) is invalid: %s", playerName(player), superstar, reason),
	}
}

func NewTurnEvent(turn int, player int, superstar string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Start of Turn",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d: %s (%s) ===", turn, superstar, playerName(player)),
	}
}

func NewDrawEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws a card", playerName(player)),
		Private: true,
	}
}

func NewGameInfoEvent(turn int, phase string, player int, info []PlayerInfo) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventGameInfo,
		Info:    info,
		Details: strings.ReplaceAll(FormatInfo(info), "\n", " | "),
	}
}

func NewShowCardsEvent(turn int, player int, set string, cards []CardInfo) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventShowCards,
		Cards:   cards,
		Details: fmt.Sprintf("%s looks at %s (%d cards)", playerName(player), set, len(cards)),
	}
}

func NewPlayAttemptEvent(turn int, player int, superstar string, card CardInfo) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventPlayAttempt,
		Card:    card.Title,
		Cards:   []CardInfo{card},
		Details: fmt.Sprintf("%s is trying to play %s", superstar, FormatPlay(card)),
	}
}

func NewPlaySuccessEvent(turn int, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventPlaySuccess,
		Card:    cardName,
		Details: fmt.Sprintf("%s was successfully played", cardName),
	}
}

func NewDamageEvent(turn int, phase string, player int, superstar string, amount int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDamage,
		Amount:  amount,
		Details: fmt.Sprintf("%s takes %d damage", superstar, amount),
	}
}

func NewOverturnEvent(turn int, phase string, player int, card CardInfo, position, total int) GameEvent {
	return GameEvent{
		Turn:     turn,
		Phase:    phase,
		Player:   player,
		Type:     EventOverturn,
		Card:     card.Title,
		Cards:    []CardInfo{card},
		Position: position,
		Total:    total,
		Details:  fmt.Sprintf("%d/%d overturned %s", position, total, card.Title),
	}
}

func NewAbilityEvent(turn int, phase string, player int, superstar string, ability string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAbility,
		Details: fmt.Sprintf("%s uses their ability: %s", superstar, ability),
	}
}

func NewRecoverEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRecover,
		Card:    cardName,
		Details: fmt.Sprintf("%s recovers %s to the bottom of the arsenal", playerName(player), cardName),
	}
}

func NewDiscardEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s discards %s", playerName(player), cardName),
	}
}

func NewReturnToArsenalEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventReturnToArsenal,
		Card:    cardName,
		Details: fmt.Sprintf("%s puts %s on the bottom of the arsenal", playerName(player), cardName),
		Private: true,
	}
}

func NewAddToHandEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAddToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s is added to %s's hand (%s)", cardName, playerName(player), reason),
	}
}

func NewDrawCardsEvent(turn int, phase string, player int, superstar string, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDrawCards,
		Amount:  count,
		Details: fmt.Sprintf("%s draws %d card(s)", superstar, count),
	}
}

func NewGiveUpEvent(turn int, player int, superstar string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Action",
		Player:  player,
		Type:    EventGiveUp,
		Details: fmt.Sprintf("%s gives up", superstar),
	}
}

func NewWinEvent(turn int, phase string, winner int, superstar string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s (%s) wins! (%s)", superstar, playerName(winner), reason),
	}
}
