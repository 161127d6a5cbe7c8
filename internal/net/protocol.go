package net

import "github.com/peterkuimelis/rawdeal/internal/log"

// Message types for the JSON protocol over TCP.

// Server -> client message types.
const (
	MsgNotify        = "notify"
	MsgChooseDeck    = "choose_deck"
	MsgChooseAction  = "choose_action"
	MsgChooseCardSet = "choose_card_set"
	MsgChooseCard    = "choose_card"
	MsgChooseYesNo   = "choose_yes_no"
	MsgGameOver      = "game_over"
)

// Client -> server message types.
const (
	MsgJoin   = "join"
	MsgDeck   = "deck"
	MsgAction = "action"
	MsgSet    = "card_set"
	MsgCard   = "card"
	MsgYesNo  = "yes_no"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_deck"
	Decks []string `json:"decks,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_card_set"
	Sets []string `json:"sets,omitempty"`

	// For "choose_card" and "choose_yes_no"
	Prompt     string         `json:"prompt,omitempty"`
	Selection  *SelectionView `json:"selection,omitempty"`
	Candidates []CardView     `json:"candidates,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a game event as sent to clients.
type EventView struct {
	Seq      int              `json:"seq"`
	Turn     int              `json:"turn"`
	Phase    string           `json:"phase"`
	Player   int              `json:"player"`
	Type     string           `json:"type"`
	Card     string           `json:"card,omitempty"`
	Details  string           `json:"details"`
	Amount   int              `json:"amount,omitempty"`
	Position int              `json:"position,omitempty"`
	Total    int              `json:"total,omitempty"`
	Cards    []log.CardInfo   `json:"cards,omitempty"`
	Info     []log.PlayerInfo `json:"info,omitempty"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// SelectionView describes why a card is being asked for.
type SelectionView struct {
	Kind      string `json:"kind"`
	Source    string `json:"source,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Optional  bool   `json:"optional,omitempty"`
}

// CardView describes a card candidate for selection. Cards missing from the
// catalog carry only their title.
type CardView struct {
	Index int `json:"index"`
	log.CardInfo
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	Phase      string     `json:"phase"`
	IsYourTurn bool       `json:"is_your_turn"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Superstar     string   `json:"superstar"`
	Fortitude     int      `json:"fortitude"`
	HandCount     int      `json:"hand_count"`
	Hand          []string `json:"hand,omitempty"` // card titles (only for "you")
	ArsenalCount  int      `json:"arsenal_count"`
	RingArea      []string `json:"ring_area,omitempty"`
	RingsideCount int      `json:"ringside_count"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "deck", "action", "card_set" and "card". -1 cancels an optional card choice.
	Index int `json:"index"`

	// For "yes_no"
	Answer bool `json:"answer,omitempty"`

	// For "join" (initial handshake). 0 means choose interactively.
	DeckNumber int `json:"deck_number,omitempty"`
}
