package game

import (
	"fmt"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

// Player represents one player's entire state. Zones hold card titles.
type Player struct {
	Superstar *Superstar
	Ability   AbilityKind
	Fortitude int
	Deck      string // name of the deck list the arsenal was built from

	Hand     []string
	Arsenal  []string // top of the arsenal is the last element (pop from end)
	RingArea []string
	Ringside []string
}

// NewPlayer builds a player from a validated deck. The deck's last title is the arsenal top.
func NewPlayer(superstar *Superstar, deck []string) *Player {
	arsenal := make([]string, len(deck))
	copy(arsenal, deck)
	return &Player{
		Superstar: superstar,
		Ability:   AbilityFor(superstar.Name),
		Arsenal:   arsenal,
	}
}

// Name returns the superstar name.
func (p *Player) Name() string {
	return p.Superstar.Name
}

// CardCount returns the number of cards across all four zones.
func (p *Player) CardCount() int {
	return len(p.Hand) + len(p.Arsenal) + len(p.RingArea) + len(p.Ringside)
}

// DrawCard moves the top arsenal card to the hand.
// Returns the drawn title and false if the arsenal is empty.
func (p *Player) DrawCard() (string, bool) {
	title, ok := p.popArsenal()
	if !ok {
		return "", false
	}
	p.Hand = append(p.Hand, title)
	return title, true
}

// OverturnCard moves the top arsenal card to the ringside pile.
func (p *Player) OverturnCard() (string, bool) {
	title, ok := p.popArsenal()
	if !ok {
		return "", false
	}
	p.Ringside = append(p.Ringside, title)
	return title, true
}

func (p *Player) popArsenal() (string, bool) {
	if len(p.Arsenal) == 0 {
		return "", false
	}
	title := p.Arsenal[len(p.Arsenal)-1]
	p.Arsenal = p.Arsenal[:len(p.Arsenal)-1]
	return title, true
}

// PutOnBottom inserts a card under the arsenal.
func (p *Player) PutOnBottom(title string) {
	p.Arsenal = append([]string{title}, p.Arsenal...)
}

// PlayFromHand moves a hand card to the ring area.
func (p *Player) PlayFromHand(i int) (string, error) {
	title, err := removeAt(&p.Hand, i)
	if err != nil {
		return "", fmt.Errorf("play from hand: %w", err)
	}
	p.RingArea = append(p.RingArea, title)
	return title, nil
}

// DiscardFromHand moves a hand card to the ringside pile.
func (p *Player) DiscardFromHand(i int) (string, error) {
	title, err := removeAt(&p.Hand, i)
	if err != nil {
		return "", fmt.Errorf("discard: %w", err)
	}
	p.Ringside = append(p.Ringside, title)
	return title, nil
}

// ReturnFromHand moves a hand card to the bottom of the arsenal.
func (p *Player) ReturnFromHand(i int) (string, error) {
	title, err := removeAt(&p.Hand, i)
	if err != nil {
		return "", fmt.Errorf("return to arsenal: %w", err)
	}
	p.PutOnBottom(title)
	return title, nil
}

// RecoverFromRingside moves a ringside card to the bottom of the arsenal.
func (p *Player) RecoverFromRingside(i int) (string, error) {
	title, err := removeAt(&p.Ringside, i)
	if err != nil {
		return "", fmt.Errorf("recover: %w", err)
	}
	p.PutOnBottom(title)
	return title, nil
}

// TakeFromRingside moves a ringside card to the hand.
func (p *Player) TakeFromRingside(i int) (string, error) {
	title, err := removeAt(&p.Ringside, i)
	if err != nil {
		return "", fmt.Errorf("put in hand: %w", err)
	}
	p.Hand = append(p.Hand, title)
	return title, nil
}

func removeAt(zone *[]string, i int) (string, error) {
	z := *zone
	if i < 0 || i >= len(z) {
		return "", fmt.Errorf("index %d out of range (%d cards)", i, len(z))
	}
	title := z[i]
	*zone = append(z[:i], z[i+1:]...)
	return title, nil
}

// Info returns the summary shown in the game info panel.
func (p *Player) Info() log.PlayerInfo {
	return log.PlayerInfo{
		Superstar:    p.Name(),
		Fortitude:    p.Fortitude,
		HandCount:    len(p.Hand),
		ArsenalCount: len(p.Arsenal),
	}
}

// --- GameState ---

// GameState holds the complete state of a duel.
type GameState struct {
	Catalog    *Catalog
	Players    [NumPlayers]*Player
	Turn       int // 1-based turn counter
	TurnPlayer int // 0 or 1: whose turn it is
	Phase      Phase

	// Per-turn gate for action abilities, shared by both seats and reset on every handover.
	AbilityUsed bool

	// Game result
	Winner int // 0, 1, or -1 (no winner yet)
	Over   bool
	Result string
}

// NewGameState creates a duel state with no players seated yet.
func NewGameState(cat *Catalog) *GameState {
	return &GameState{
		Catalog: cat,
		Winner:  -1,
	}
}

// Opponent returns the index of the other player.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// CurrentPlayer returns the Player struct for the turn player.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.TurnPlayer]
}

// OpponentPlayer returns the Player struct for the non-turn player.
func (gs *GameState) OpponentPlayer() *Player {
	return gs.Players[gs.Opponent(gs.TurnPlayer)]
}

// StartingPlayer picks who goes first: player 0 unless player 1's superstar
// value is strictly greater.
func (gs *GameState) StartingPlayer() int {
	if gs.Players[0].Superstar.SuperstarValue >= gs.Players[1].Superstar.SuperstarValue {
		return 0
	}
	return 1
}

// ResetTurnFlags resets per-turn tracking for a new turn.
func (gs *GameState) ResetTurnFlags() {
	gs.AbilityUsed = false
}

// Info returns the info panel from the given player's perspective: theirs first.
func (gs *GameState) Info(player int) []log.PlayerInfo {
	return []log.PlayerInfo{gs.Players[player].Info(), gs.Players[gs.Opponent(player)].Info()}
}

// Zone returns the titles of a viewable card set from the given player's perspective.
func (gs *GameState) Zone(player int, set CardSet) []string {
	me, opp := gs.Players[player], gs.Players[gs.Opponent(player)]
	switch set {
	case SetHand:
		return me.Hand
	case SetRingArea:
		return me.RingArea
	case SetRingside:
		return me.Ringside
	case SetOpponentRingArea:
		return opp.RingArea
	case SetOpponentRingside:
		return opp.Ringside
	default:
		return nil
	}
}
