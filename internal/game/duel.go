package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

// PlayerController is the interface that every seat (terminal, network, MCP) implements.
type PlayerController interface {
	// ChooseDeck asks the player to pick one of the available decks by index.
	ChooseDeck(ctx context.Context, state *GameState, decks []string) (int, error)

	// ChooseAction presents available actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// ChooseCardSet asks which group of cards the player wants to look at.
	ChooseCardSet(ctx context.Context, state *GameState, sets []CardSet) (CardSet, error)

	// ChooseCard asks the player to pick one card from candidates. NoSelection cancels
	// when sel.Optional is set.
	ChooseCard(ctx context.Context, state *GameState, sel Selection, candidates []CardView) (int, error)

	// ChooseYesNo asks the player a yes/no question (e.g., "use your ability?").
	ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// DuelConfig holds configuration for creating a new duel.
type DuelConfig struct {
	Catalog  *Catalog
	Decks    []DeckList // decks offered to both players at setup
	Logger   log.EventLogger
	MaxTurns int // stop after this many turns (0 = no limit)
}

// Duel orchestrates an entire duel between two players.
type Duel struct {
	State       *GameState
	Controllers [NumPlayers]PlayerController
	Logger      log.EventLogger
	ctx         context.Context
	decks       []DeckList
	maxTurns    int
}

// NewDuel creates a new duel from the given config and player controllers.
func NewDuel(cfg DuelConfig, p0, p1 PlayerController) *Duel {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Duel{
		State:       NewGameState(cfg.Catalog),
		Controllers: [NumPlayers]PlayerController{p0, p1},
		Logger:      logger,
		ctx:         context.Background(),
		decks:       cfg.Decks,
		maxTurns:    cfg.MaxTurns,
	}
}

// Run executes the entire duel. Returns the winner (0, 1, or -1 when no one won).
// An illegal deck aborts setup with an error wrapping ErrInvalidDeck.
func (d *Duel) Run(ctx context.Context) (int, error) {
	d.ctx = ctx
	gs := d.State
	if gs.Catalog == nil {
		return -1, errors.New("duel has no catalog")
	}

	if err := d.setup(); err != nil {
		return -1, err
	}

	for !gs.Over {
		if d.maxTurns > 0 && gs.Turn >= d.maxTurns {
			gs.Over = true
			gs.Winner = -1
			gs.Result = fmt.Sprintf("Turn limit reached (%d turns)", d.maxTurns)
			break
		}
		if err := d.runTurn(); err != nil {
			return gs.Winner, err
		}
		if err := d.ctx.Err(); err != nil {
			return -1, err
		}
	}

	return gs.Winner, nil
}

// setup lets each player pick and validate a deck, deals opening hands and
// picks the starting player.
func (d *Duel) setup() error {
	gs := d.State
	gs.Phase = PhaseSetup
	names := DeckNames(d.decks)

	var chosen [NumPlayers]DeckList
	for p := 0; p < NumPlayers; p++ {
		idx, err := d.Controllers[p].ChooseDeck(d.ctx, gs, names)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(d.decks) {
			return fmt.Errorf("player %d: %w: index %d", p+1, ErrDeckNotFound, idx)
		}
		deck := d.decks[idx]
		if err := ValidateDeck(deck.Cards, deck.Superstar, gs.Catalog); err != nil {
			d.log(log.NewDeckInvalidEvent(p, deck.Superstar, err.Error()))
			return fmt.Errorf("player %d deck %q: %w", p+1, deck.Name, err)
		}
		chosen[p] = deck
	}

	for p := 0; p < NumPlayers; p++ {
		// Validation guarantees the superstar resolves.
		superstar, err := gs.Catalog.Superstar(chosen[p].Superstar)
		if err != nil {
			return err
		}
		player := NewPlayer(superstar, chosen[p].Cards)
		player.Deck = chosen[p].Name
		for i := 0; i < superstar.HandSize; i++ {
			if _, ok := player.DrawCard(); !ok {
				break
			}
		}
		gs.Players[p] = player
	}

	gs.TurnPlayer = gs.StartingPlayer()
	return nil
}

// runTurn executes a single turn for the current turn player.
func (d *Duel) runTurn() error {
	gs := d.State
	gs.Turn++
	gs.ResetTurnFlags()
	gs.Phase = PhaseStartOfTurn

	d.log(log.NewTurnEvent(gs.Turn, gs.TurnPlayer, gs.CurrentPlayer().Name()))

	if err := d.startOfTurnAbilities(); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}

	d.drawPhase()

	if err := d.actionPhase(); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}

	d.endTurn()
	return nil
}

// drawPhase draws one card, two for MANKIND while the arsenal lasts.
// An empty arsenal is not checked here; the end of turn handles it.
func (d *Duel) drawPhase() {
	gs := d.State
	gs.Phase = PhaseDraw
	tp := gs.TurnPlayer
	p := gs.CurrentPlayer()

	draws := 1
	if p.Name() == SuperstarMankind {
		draws = 2
	}
	for i := 0; i < draws; i++ {
		title, ok := p.DrawCard()
		if !ok {
			break
		}
		d.log(log.NewDrawEvent(gs.Turn, gs.Phase.String(), tp, title))
	}

	d.showGameInfo()
}

// actionPhase runs the action loop until the player ends the turn, gives up,
// or the game ends.
func (d *Duel) actionPhase() error {
	gs := d.State
	gs.Phase = PhaseAction
	tp := gs.TurnPlayer

	for !gs.Over {
		actions := d.computeActions(tp)

		chosen, err := d.Controllers[tp].ChooseAction(d.ctx, gs, actions)
		if err != nil {
			return err
		}

		switch chosen.Type {
		case ActionUseAbility:
			if !d.canUseAbility(tp) {
				continue
			}
			if err := d.useAbility(tp); err != nil {
				return err
			}
			d.showGameInfo()
		case ActionShowCards:
			if err := d.showCards(tp); err != nil {
				return err
			}
		case ActionPlayCard:
			if err := d.playCard(tp); err != nil {
				return err
			}
			if !gs.Over {
				d.showGameInfo()
			}
		case ActionEndTurn:
			return nil
		case ActionGiveUp:
			d.log(log.NewGiveUpEvent(gs.Turn, tp, gs.Players[tp].Name()))
			d.declareWinner(gs.Opponent(tp), "opponent gave up")
			return nil
		}
	}

	return nil
}

// computeActions returns the menu for the turn player. Use Ability is left
// out whenever its preconditions are not met.
func (d *Duel) computeActions(player int) []Action {
	var actions []Action
	if d.canUseAbility(player) {
		actions = append(actions, Action{Type: ActionUseAbility, Player: player,
			Desc: "Use " + d.State.Players[player].Name() + "'s ability"})
	}
	actions = append(actions,
		Action{Type: ActionShowCards, Player: player},
		Action{Type: ActionPlayCard, Player: player},
		Action{Type: ActionEndTurn, Player: player},
		Action{Type: ActionGiveUp, Player: player},
	)
	return actions
}

// endTurn checks both arsenals (own first) and hands the turn over.
func (d *Duel) endTurn() {
	gs := d.State
	gs.Phase = PhaseEndOfTurn
	tp := gs.TurnPlayer
	opp := gs.Opponent(tp)

	if len(gs.Players[tp].Arsenal) == 0 {
		d.declareWinner(opp, gs.Players[tp].Name()+"'s arsenal is empty")
		return
	}
	if len(gs.Players[opp].Arsenal) == 0 {
		d.declareWinner(tp, gs.Players[opp].Name()+"'s arsenal is empty")
		return
	}

	gs.TurnPlayer = opp
	gs.ResetTurnFlags()
}

// showCards lets the player look at one of the visible card groups.
func (d *Duel) showCards(player int) error {
	gs := d.State
	set, err := d.Controllers[player].ChooseCardSet(d.ctx, gs, AllCardSets)
	if err != nil {
		return err
	}

	var cards []log.CardInfo
	for _, title := range gs.Zone(player, set) {
		card, err := gs.Catalog.Card(title)
		if err != nil {
			continue
		}
		cards = append(cards, card.Info())
	}
	event := log.NewShowCardsEvent(gs.Turn, player, set.String(), cards)
	event.Private = set == SetHand
	d.log(event)
	d.showGameInfo()
	return nil
}

// showGameInfo publishes the info panel from the turn player's side.
func (d *Duel) showGameInfo() {
	gs := d.State
	d.log(log.NewGameInfoEvent(gs.Turn, gs.Phase.String(), gs.TurnPlayer, gs.Info(gs.TurnPlayer)))
}

// declareWinner ends the game. Only the first call has any effect.
func (d *Duel) declareWinner(winner int, reason string) {
	gs := d.State
	if gs.Over {
		return
	}
	gs.Over = true
	gs.Winner = winner
	name := gs.Players[winner].Name()
	gs.Result = fmt.Sprintf("%s wins: %s", name, reason)
	d.log(log.NewWinEvent(gs.Turn, gs.Phase.String(), winner, name, reason))
}

// log emits a game event through the logger and notifies both players. The
// player an event is about gets it whole; the other gets the redacted copy.
func (d *Duel) log(event log.GameEvent) {
	d.Logger.Log(event)
	// Notify controllers (ignore errors for notifications)
	for i := 0; i < NumPlayers; i++ {
		seen := event
		if i != event.Player {
			seen = event.Redacted()
		}
		_ = d.Controllers[i].Notify(d.ctx, seen)
	}
}
