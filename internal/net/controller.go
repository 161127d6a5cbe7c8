package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	deck   int // preset deck number (1-indexed), 0 to ask the client
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
// A deck number above zero answers the deck choice without asking the client.
func NewNetworkController(conn net.Conn, player, deck int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
		deck:   deck,
	}
}

// BuildStateView creates a StateView from the perspective of the given player.
// Before setup finishes there are no players yet and only turn data is filled.
func BuildStateView(state *game.GameState, player int) *StateView {
	sv := &StateView{
		Turn:       state.Turn,
		Phase:      state.Phase.String(),
		IsYourTurn: state.TurnPlayer == player,
	}
	me, opp := state.Players[player], state.Players[state.Opponent(player)]
	if me != nil {
		sv.You = playerView(me)
		sv.You.Hand = append([]string(nil), me.Hand...)
	}
	if opp != nil {
		sv.Opponent = playerView(opp)
	}
	return sv
}

func playerView(p *game.Player) PlayerView {
	return PlayerView{
		Superstar:     p.Name(),
		Fortitude:     p.Fortitude,
		HandCount:     len(p.Hand),
		ArsenalCount:  len(p.Arsenal),
		RingArea:      append([]string(nil), p.RingArea...),
		RingsideCount: len(p.Ringside),
	}
}

// NewEventView converts a logged event for the wire.
func NewEventView(event log.GameEvent) *EventView {
	return &EventView{
		Seq:      event.Seq,
		Turn:     event.Turn,
		Phase:    event.Phase,
		Player:   event.Player,
		Type:     event.Type.String(),
		Card:     event.Card,
		Details:  event.Details,
		Amount:   event.Amount,
		Position: event.Position,
		Total:    event.Total,
		Cards:    event.Cards,
		Info:     event.Info,
	}
}

// NewCardViews numbers selection candidates.
func NewCardViews(candidates []game.CardView) []CardView {
	views := make([]CardView, len(candidates))
	for i, c := range candidates {
		views[i] = CardView{Index: i, CardInfo: log.CardInfo{Title: c.Title}}
		if c.Card != nil {
			views[i].CardInfo = c.Card.Info()
		}
	}
	return views
}

// NewSelectionView describes a selection for the wire.
func NewSelectionView(sel game.Selection) *SelectionView {
	return &SelectionView{
		Kind:      sel.Kind.String(),
		Source:    sel.Source,
		Remaining: sel.Remaining,
		Optional:  sel.Optional,
	}
}

func (nc *NetworkController) buildStateView(state *game.GameState) *StateView {
	return BuildStateView(state, nc.player)
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ask sends a prompt and waits for the reply.
func (nc *NetworkController) ask(msg ServerMessage) (ClientMessage, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	if err := nc.send(msg); err != nil {
		return ClientMessage{}, fmt.Errorf("send %s: %w", msg.Type, err)
	}
	resp, err := nc.recv()
	if err != nil {
		return ClientMessage{}, fmt.Errorf("recv %s: %w", msg.Type, err)
	}
	return resp, nil
}

// ChooseDeck implements game.PlayerController.
func (nc *NetworkController) ChooseDeck(ctx context.Context, state *game.GameState, decks []string) (int, error) {
	if nc.deck > 0 {
		return nc.deck - 1, nil
	}
	resp, err := nc.ask(ServerMessage{Type: MsgChooseDeck, Decks: decks})
	if err != nil {
		return 0, err
	}
	return resp.Index, nil
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	views := make([]ActionView, len(actions))
	for i, a := range actions {
		views[i] = ActionView{Index: i, Desc: a.String()}
	}

	resp, err := nc.ask(ServerMessage{
		Type:    MsgChooseAction,
		Actions: views,
		State:   nc.buildStateView(state),
	})
	if err != nil {
		return game.Action{}, err
	}
	if resp.Index < 0 || resp.Index >= len(actions) {
		return FallbackAction(actions), nil
	}
	return actions[resp.Index], nil
}

// FallbackAction is what a seat does with an out of range action answer: it
// ends the turn.
func FallbackAction(actions []game.Action) game.Action {
	for _, a := range actions {
		if a.Type == game.ActionEndTurn {
			return a
		}
	}
	return actions[len(actions)-1]
}

// ChooseCardSet implements game.PlayerController.
func (nc *NetworkController) ChooseCardSet(ctx context.Context, state *game.GameState, sets []game.CardSet) (game.CardSet, error) {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.String()
	}
	resp, err := nc.ask(ServerMessage{Type: MsgChooseCardSet, Sets: names})
	if err != nil {
		return 0, err
	}
	if resp.Index < 0 || resp.Index >= len(sets) {
		return sets[0], nil
	}
	return sets[resp.Index], nil
}

// ChooseCard implements game.PlayerController.
func (nc *NetworkController) ChooseCard(ctx context.Context, state *game.GameState, sel game.Selection, candidates []game.CardView) (int, error) {
	resp, err := nc.ask(ServerMessage{
		Type:       MsgChooseCard,
		Prompt:     sel.Prompt,
		Selection:  NewSelectionView(sel),
		Candidates: NewCardViews(candidates),
		State:      nc.buildStateView(state),
	})
	if err != nil {
		return game.NoSelection, err
	}
	return resp.Index, nil
}

// ChooseYesNo implements game.PlayerController.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	resp, err := nc.ask(ServerMessage{
		Type:   MsgChooseYesNo,
		Prompt: prompt,
		State:  nc.buildStateView(state),
	})
	if err != nil {
		return false, err
	}
	return resp.Answer, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgGameOver, Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: MsgNotify, Event: NewEventView(event)})
}
