package mcp

import (
	"context"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/log"
	"github.com/peterkuimelis/rawdeal/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	deck       int // 1-indexed deck answered at setup
	session    *GameSession
	responseCh chan any
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player, deck int, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		deck:       deck,
		session:    session,
		responseCh: make(chan any),
	}
}

// decide publishes a pending decision and waits for the tool call that answers it.
func (c *MCPController) decide(ctx context.Context, pd *PendingDecision) (any, error) {
	pd.Player = c.player
	select {
	case c.session.pendingCh <- pd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseDeck implements game.PlayerController. The deck is fixed by start_game.
func (c *MCPController) ChooseDeck(ctx context.Context, state *game.GameState, decks []string) (int, error) {
	return c.deck - 1, nil
}

// ChooseAction implements game.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	views := make([]net.ActionView, len(actions))
	for i, a := range actions {
		views[i] = net.ActionView{Index: i, Desc: a.String()}
	}

	resp, err := c.decide(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		State:   net.BuildStateView(state, c.player),
		Actions: views,
	})
	if err != nil {
		return game.Action{}, err
	}

	ar := resp.(IndexResponse)
	if ar.Index < 0 || ar.Index >= len(actions) {
		return net.FallbackAction(actions), nil
	}
	return actions[ar.Index], nil
}

// ChooseCardSet implements game.PlayerController.
func (c *MCPController) ChooseCardSet(ctx context.Context, state *game.GameState, sets []game.CardSet) (game.CardSet, error) {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.String()
	}

	resp, err := c.decide(ctx, &PendingDecision{
		Type:  DecisionChooseCardSet,
		State: net.BuildStateView(state, c.player),
		Sets:  names,
	})
	if err != nil {
		return 0, err
	}

	sr := resp.(IndexResponse)
	if sr.Index < 0 || sr.Index >= len(sets) {
		return sets[0], nil
	}
	return sets[sr.Index], nil
}

// ChooseCard implements game.PlayerController.
func (c *MCPController) ChooseCard(ctx context.Context, state *game.GameState, sel game.Selection, candidates []game.CardView) (int, error) {
	resp, err := c.decide(ctx, &PendingDecision{
		Type:       DecisionChooseCard,
		State:      net.BuildStateView(state, c.player),
		Prompt:     sel.Prompt,
		Selection:  net.NewSelectionView(sel),
		Candidates: net.NewCardViews(candidates),
	})
	if err != nil {
		return game.NoSelection, err
	}
	return resp.(IndexResponse).Index, nil
}

// ChooseYesNo implements game.PlayerController.
func (c *MCPController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	resp, err := c.decide(ctx, &PendingDecision{
		Type:   DecisionChooseYesNo,
		State:  net.BuildStateView(state, c.player),
		Prompt: prompt,
	})
	if err != nil {
		return false, err
	}
	return resp.(YesNoResponse).Answer, nil
}

// Notify implements game.PlayerController.
// Only the AI controller appends events, so each event is buffered once.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.NewEventView(event))
	return nil
}
