package game

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

// Card type and subtype tags used by the rules engine.
const (
	TypeManeuver = "Maneuver"
	TypeAction   = "Action"
	TypeReversal = "Reversal"

	SubtypeUnique = "Unique"
	SubtypeSetUp  = "SetUp"
	SubtypeHeel   = "Heel"
	SubtypeFace   = "Face"
)

// Superstar names with hardcoded rules.
const (
	SuperstarMankind    = "MANKIND"
	SuperstarRock       = "THE ROCK"
	SuperstarKane       = "KANE"
	SuperstarUndertaker = "THE UNDERTAKER"
	SuperstarJericho    = "CHRIS JERICHO"
	SuperstarStoneCold  = "STONE COLD STEVE AUSTIN"
)

const (
	DeckSize     = 60
	MaxCopies    = 3
	NumPlayers   = 2
	NoSelection  = -1
	superstarTag = " (Superstar Card)"
)

// --- Card definition (static, from the catalog) ---

// Stat is a printed card value. Most are numbers, some are symbols like "—" or "X".
type Stat string

// Int returns the numeric value and whether the stat is numeric at all.
func (s Stat) Int() (int, bool) {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s Stat) String() string {
	return string(s)
}

// UnmarshalYAML accepts both quoted and bare numeric values.
func (s *Stat) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	str, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("card stat %v: %w", raw, err)
	}
	*s = Stat(str)
	return nil
}

// UnmarshalJSON accepts both string and numeric values.
func (s *Stat) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*s = ""
		return nil
	}
	str, err := cast.ToStringE(raw)
	if err != nil {
		return fmt.Errorf("card stat %s: %w", data, err)
	}
	*s = Stat(str)
	return nil
}

type Card struct {
	Title      string   `yaml:"Title" json:"Title"`
	Types      []string `yaml:"Types" json:"Types"`
	Subtypes   []string `yaml:"Subtypes" json:"Subtypes"`
	Fortitude  Stat     `yaml:"Fortitude" json:"Fortitude"`
	Damage     Stat     `yaml:"Damage" json:"Damage"`
	StunValue  Stat     `yaml:"StunValue" json:"StunValue"`
	CardEffect string   `yaml:"CardEffect" json:"CardEffect"`
}

func (c *Card) String() string {
	return c.Title
}

// HasType reports whether the card carries the given type tag.
func (c *Card) HasType(t string) bool {
	return slices.Contains(c.Types, t)
}

// HasSubtype reports whether the card carries the given subtype tag.
func (c *Card) HasSubtype(t string) bool {
	return slices.Contains(c.Subtypes, t)
}

// Playable reports whether the card can be played with the given fortitude rating.
func (c *Card) Playable(fortitude int) bool {
	if !c.HasType(TypeManeuver) && !c.HasType(TypeAction) {
		return false
	}
	cost, ok := c.Fortitude.Int()
	return ok && cost <= fortitude
}

// RawDamage returns the printed damage, or 0 when it is not a number.
func (c *Card) RawDamage() int {
	dmg, ok := c.Damage.Int()
	if !ok {
		return 0
	}
	return dmg
}

// Info returns the printable face of the card.
func (c *Card) Info() log.CardInfo {
	return log.CardInfo{
		Title:      c.Title,
		Types:      c.Types,
		Subtypes:   c.Subtypes,
		Fortitude:  c.Fortitude.String(),
		Damage:     c.Damage.String(),
		StunValue:  c.StunValue.String(),
		CardEffect: c.CardEffect,
	}
}

// --- Superstar definition ---

type Superstar struct {
	Name             string `yaml:"Name" json:"Name"`
	Logo             string `yaml:"Logo" json:"Logo"`
	HandSize         int    `yaml:"HandSize" json:"HandSize"`
	SuperstarValue   int    `yaml:"SuperstarValue" json:"SuperstarValue"`
	SuperstarAbility string `yaml:"SuperstarAbility" json:"SuperstarAbility"`
}

func (s *Superstar) String() string {
	return s.Name
}

// --- Abilities ---

// AbilityKind is the closed set of superstar abilities the engine knows how to resolve.
type AbilityKind int

const (
	AbilityNone AbilityKind = iota
	AbilityRock
	AbilityKane
	AbilityUndertaker
	AbilityJericho
	AbilityStoneCold
)

func (a AbilityKind) String() string {
	switch a {
	case AbilityRock:
		return "Rock"
	case AbilityKane:
		return "Kane"
	case AbilityUndertaker:
		return "Undertaker"
	case AbilityJericho:
		return "Jericho"
	case AbilityStoneCold:
		return "StoneCold"
	default:
		return "None"
	}
}

// AbilityFor maps a superstar name to its ability kind.
func AbilityFor(name string) AbilityKind {
	switch name {
	case SuperstarRock:
		return AbilityRock
	case SuperstarKane:
		return AbilityKane
	case SuperstarUndertaker:
		return AbilityUndertaker
	case SuperstarJericho:
		return AbilityJericho
	case SuperstarStoneCold:
		return AbilityStoneCold
	default:
		return AbilityNone
	}
}

// StartOfTurn reports whether the ability fires automatically when its owner's turn starts.
func (a AbilityKind) StartOfTurn() bool {
	return a == AbilityRock || a == AbilityKane
}

// --- Phases ---

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseStartOfTurn
	PhaseDraw
	PhaseAction
	PhaseEndOfTurn
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseStartOfTurn:
		return "Start of Turn"
	case PhaseDraw:
		return "Draw"
	case PhaseAction:
		return "Action"
	case PhaseEndOfTurn:
		return "End of Turn"
	default:
		return "Unknown"
	}
}

// --- Action types ---

type ActionType int

const (
	ActionUseAbility ActionType = iota
	ActionShowCards
	ActionPlayCard
	ActionEndTurn
	ActionGiveUp
)

func (a ActionType) String() string {
	switch a {
	case ActionUseAbility:
		return "Use Ability"
	case ActionShowCards:
		return "Show Cards"
	case ActionPlayCard:
		return "Play Card"
	case ActionEndTurn:
		return "End Turn"
	case ActionGiveUp:
		return "Give Up"
	default:
		return "Unknown"
	}
}

// Action is one entry of the turn player's action menu.
type Action struct {
	Type   ActionType
	Player int
	Desc   string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}

// --- Card sets that can be shown ---

type CardSet int

const (
	SetHand CardSet = iota
	SetRingArea
	SetRingside
	SetOpponentRingArea
	SetOpponentRingside
)

func (s CardSet) String() string {
	switch s {
	case SetHand:
		return "Hand"
	case SetRingArea:
		return "Ring Area"
	case SetRingside:
		return "Ringside Pile"
	case SetOpponentRingArea:
		return "Opponent's Ring Area"
	case SetOpponentRingside:
		return "Opponent's Ringside Pile"
	default:
		return "Unknown"
	}
}

// AllCardSets lists the zones a player may ask to see, in menu order.
var AllCardSets = []CardSet{SetHand, SetRingArea, SetRingside, SetOpponentRingArea, SetOpponentRingside}

// --- Card selection ---

type SelectionKind int

const (
	SelectPlay SelectionKind = iota
	SelectRecover
	SelectDiscard
	SelectPutInHand
	SelectReturnToArsenal
)

func (k SelectionKind) String() string {
	switch k {
	case SelectPlay:
		return "Play"
	case SelectRecover:
		return "Recover"
	case SelectDiscard:
		return "Discard"
	case SelectPutInHand:
		return "Put In Hand"
	case SelectReturnToArsenal:
		return "Return To Arsenal"
	default:
		return "Unknown"
	}
}

// Selection describes a single-card choice the engine needs from a player.
type Selection struct {
	Kind      SelectionKind
	Player    int    // seat that must answer
	Source    string // superstar whose effect asks for the choice
	Remaining int    // selections left including this one
	Optional  bool   // NoSelection is a valid answer
	Prompt    string
}

// CardView is one candidate in a selection list. Card is nil when the title is
// missing from the catalog.
type CardView struct {
	Title string
	Card  *Card
}
