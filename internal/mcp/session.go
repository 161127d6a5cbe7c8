package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rawnet "github.com/peterkuimelis/rawdeal/internal/net"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/log"
	"github.com/peterkuimelis/rawdeal/internal/store"

	stdnet "net"
)

// DecisionType identifies what kind of decision the game engine is waiting for.
type DecisionType string

const (
	DecisionChooseAction  DecisionType = "choose_action"
	DecisionChooseCardSet DecisionType = "choose_card_set"
	DecisionChooseCard    DecisionType = "choose_card"
	DecisionChooseYesNo   DecisionType = "choose_yes_no"
	DecisionGameOver      DecisionType = "game_over"
)

// PendingDecision represents a decision the game engine is waiting for.
type PendingDecision struct {
	Type       DecisionType          `json:"type"`
	Player     int                   `json:"player"`
	State      *rawnet.StateView     `json:"state"`
	Actions    []rawnet.ActionView   `json:"actions,omitempty"`
	Sets       []string              `json:"sets,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Selection  *rawnet.SelectionView `json:"selection,omitempty"`
	Candidates []rawnet.CardView     `json:"candidates,omitempty"`
}

// Response types sent back from MCP tools to controllers.

// IndexResponse answers action, card set and card decisions.
type IndexResponse struct {
	Index int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	Events    []rawnet.EventView `json:"events"`
	State     *rawnet.StateView  `json:"state,omitempty"`
	Pending   *PendingView       `json:"pending,omitempty"`
	GameOver  bool               `json:"game_over"`
	Winner    int                `json:"winner,omitempty"`
	Result    string             `json:"result,omitempty"`
	Port      string             `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType          `json:"type"`
	ForPlayer  string                `json:"for_player"`
	Actions    []rawnet.ActionView   `json:"actions,omitempty"`
	Sets       []string              `json:"sets,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Selection  *rawnet.SelectionView `json:"selection,omitempty"`
	Candidates []rawnet.CardView     `json:"candidates,omitempty"`
}

// SessionOptions configures one AI-versus-human duel.
type SessionOptions struct {
	Catalog  *game.Catalog
	Decks    []game.DeckList
	AIDeck   int // 1-indexed
	AIPlayer int // 0 or 1
	MaxTurns int
	History  *store.Store
	Logger   *zap.Logger
}

// GameSession holds the state of a single MCP game session.
type GameSession struct {
	ID        string
	duel      *game.Duel
	aiCtrl    *MCPController
	humanCtrl *rawnet.NetworkController
	aiPlayer  int
	history   *store.Store
	logger    *zap.Logger

	listener  stdnet.Listener
	humanConn stdnet.Conn
	cancel    context.CancelFunc

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []rawnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession accepts the human player on ln (they connect with
// `rawdeal join`), then starts the duel. The session owns ln from here on.
func NewGameSession(opts SessionOptions, ln stdnet.Listener) (*GameSession, error) {
	if opts.AIDeck < 1 || opts.AIDeck > len(opts.Decks) {
		ln.Close()
		return nil, fmt.Errorf("ai deck %d: %w", opts.AIDeck, game.ErrDeckNotFound)
	}

	// Accept one connection (blocks until the human joins)
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	joinMsg, joinConn, err := rawnet.ReadJoin(conn)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sess := &GameSession{
		ID:        uuid.NewString(),
		aiPlayer:  opts.AIPlayer,
		history:   opts.History,
		pendingCh: make(chan *PendingDecision, 1),
		winner:    -1,
		listener:  ln,
		humanConn: conn,
	}
	sess.logger = logger.With(zap.String("session_id", sess.ID))

	humanPlayer := 1 - opts.AIPlayer
	sess.aiCtrl = NewMCPController(opts.AIPlayer, opts.AIDeck, sess)
	sess.humanCtrl = rawnet.NewNetworkController(joinConn, humanPlayer, joinMsg.DeckNumber)

	var ctrls [game.NumPlayers]game.PlayerController
	ctrls[opts.AIPlayer] = sess.aiCtrl
	ctrls[humanPlayer] = sess.humanCtrl

	sess.duel = game.NewDuel(game.DuelConfig{
		Catalog:  opts.Catalog,
		Decks:    opts.Decks,
		Logger:   log.NewMemoryLogger(),
		MaxTurns: opts.MaxTurns,
	}, ctrls[0], ctrls[1])

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	sess.logger.Info("human joined",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("ai_player", opts.AIPlayer),
		zap.Int("human_deck", joinMsg.DeckNumber),
	)

	go sess.run(ctx)
	return sess, nil
}

// run plays the duel to the end and publishes the game_over decision.
func (s *GameSession) run(ctx context.Context) {
	winner, err := s.duel.Run(ctx)
	result := s.duel.State.Result
	if err != nil {
		s.logger.Warn("duel aborted", zap.Error(err))
		result = fmt.Sprintf("error: %v", err)
	}
	if result == "" {
		result = fmt.Sprintf("Game over. Winner: player %d", winner)
	}

	// Notify human over TCP
	_ = s.humanCtrl.SendGameOver(winner, result)

	// Clean up TCP resources
	s.humanConn.Close()
	s.listener.Close()

	if err == nil && s.history != nil {
		if err := s.history.RecordMatch(context.Background(), rawnet.MatchRecord(s.ID, s.duel.State)); err != nil {
			s.logger.Error("record match", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.result = result
	s.mu.Unlock()

	// Notify the AI via the pending channel
	select {
	case s.pendingCh <- &PendingDecision{
		Type:   DecisionGameOver,
		Player: winner,
		State:  rawnet.BuildStateView(s.duel.State, s.aiPlayer),
	}:
	case <-ctx.Done():
	}
}

// Close abandons the duel and releases the human connection.
func (s *GameSession) Close() {
	s.cancel()
	s.humanConn.Close()
	s.listener.Close()
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev rawnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []rawnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []rawnet.EventView{}
	}
	return events
}

// pending returns the decision the AI has not answered yet, if any.
func (s *GameSession) pending() *PendingDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPending
}

// waitForPending blocks until the next decision arrives from the game engine,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.currentPending = pending
	s.mu.Unlock()

	resp := &ToolResponse{
		SessionID: s.ID,
		Events:    s.drainEvents(),
		State:     pending.State,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Pending = s.pendingView(pending)
	return resp, nil
}

func (s *GameSession) pendingView(pending *PendingDecision) *PendingView {
	return &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Sets:       pending.Sets,
		Prompt:     pending.Prompt,
		Selection:  pending.Selection,
		Candidates: pending.Candidates,
	}
}

// respond hands an answer to the waiting controller and waits for the next decision.
func (s *GameSession) respond(ctx context.Context, answer any) (*ToolResponse, error) {
	s.mu.Lock()
	s.currentPending = nil
	s.mu.Unlock()
	select {
	case s.aiCtrl.responseCh <- answer:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.waitForPending(ctx)
}

// snapshot reports the current state without answering anything.
func (s *GameSession) snapshot() *ToolResponse {
	resp := &ToolResponse{SessionID: s.ID, Events: s.drainEvents()}

	s.mu.Lock()
	resp.GameOver = s.gameOver
	resp.Winner = s.winner
	resp.Result = s.result
	pending := s.currentPending
	s.mu.Unlock()

	switch {
	case pending != nil:
		resp.State = pending.State
		if !resp.GameOver {
			resp.Pending = s.pendingView(pending)
		}
	case !resp.GameOver:
		// The engine is waiting on the human.
		resp.Pending = &PendingView{ForPlayer: "human"}
	}
	return resp
}

// playerLabel returns "ai" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.aiPlayer {
		return "ai"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
