package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/log"
	"github.com/peterkuimelis/rawdeal/internal/store"
)

// Server hosts a duel between the local player and one TCP client.
type Server struct {
	CardsFile      string
	SuperstarsFile string
	DeckPath       string
	Port           string
	HostDeck       int // host's deck number (1-indexed), 0 to choose in the REPL
	MaxTurns       int

	History    *store.Store // optional match history
	Transcript io.Writer    // optional event transcript, one line per event
	Logger     *zap.Logger

	// Host terminal; nil means stdin/stdout.
	In  io.Reader
	Out io.Writer
}

// Run starts the server, waits for a client to join, then runs the duel.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()
	return s.Serve(ctx, ln)
}

// Serve runs one duel against the first client accepted on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	// Load data before accepting so a bad file fails fast.
	cat, err := game.LoadCatalog(s.CardsFile, s.SuperstarsFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	decks, err := game.LoadDecks(s.DeckPath)
	if err != nil {
		return fmt.Errorf("load decks: %w", err)
	}

	fmt.Fprintf(out, "Waiting for opponent on %s...\n", ln.Addr())

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(out, "Opponent connected from %s\n", conn.RemoteAddr())

	joinMsg, joinConn, err := ReadJoin(conn)
	if err != nil {
		return err
	}

	matchID := uuid.NewString()
	logger = logger.With(zap.String("match_id", matchID))
	logger.Info("opponent joined",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("deck", joinMsg.DeckNumber),
	)

	// Player 0 = host over a pipe, player 1 = joiner
	hostConn, hostServerConn := net.Pipe()
	defer hostConn.Close()
	defer hostServerConn.Close()
	hostCtrl := NewNetworkController(hostServerConn, 0, s.HostDeck)
	joinerCtrl := NewNetworkController(joinConn, 1, joinMsg.DeckNumber)

	var events log.EventLogger = log.NewMemoryLogger()
	if s.Transcript != nil {
		events = log.NewTextLogger(s.Transcript)
	}
	duel := game.NewDuel(game.DuelConfig{
		Catalog:  cat,
		Decks:    decks,
		Logger:   events,
		MaxTurns: s.MaxTurns,
	}, hostCtrl, joinerCtrl)

	// Run the host's local REPL in a goroutine
	replCh := make(chan error, 1)
	go func() {
		client := NewClient(hostConn, 0, s.In, out)
		replCh <- client.RunREPL(ctx)
	}()

	duelCh := make(chan error, 1)
	go func() {
		winner, err := duel.Run(ctx)
		result := duel.State.Result
		if err != nil {
			logger.Warn("duel aborted", zap.Error(err))
			result = fmt.Sprintf("Duel aborted: %v", err)
		}

		_ = joinerCtrl.SendGameOver(winner, result)
		_ = hostCtrl.SendGameOver(winner, result)

		if err != nil {
			duelCh <- fmt.Errorf("duel error: %w", err)
			return
		}
		s.record(ctx, logger, matchID, duel)
		logger.Info("duel finished",
			zap.Int("winner", winner),
			zap.Int("turns", duel.State.Turn),
			zap.Int("events", len(events.Events())),
		)
		duelCh <- nil
	}()

	// The host REPL returns after game_over; a REPL error ends the duel early.
	select {
	case err := <-duelCh:
		return err
	case err := <-replCh:
		if err != nil {
			return err
		}
		return <-duelCh
	}
}

// record stores the finished duel when a history is configured.
func (s *Server) record(ctx context.Context, logger *zap.Logger, id string, duel *game.Duel) {
	if s.History == nil {
		return
	}
	if err := s.History.RecordMatch(ctx, MatchRecord(id, duel.State)); err != nil {
		logger.Error("record match", zap.Error(err))
	}
}

// MatchRecord summarizes a finished duel for the match history.
func MatchRecord(id string, gs *game.GameState) store.Match {
	m := store.Match{
		ID:     id,
		Winner: gs.Winner,
		Turns:  gs.Turn,
		Result: gs.Result,
	}
	if gs.Players[0] != nil && gs.Players[1] != nil {
		m.Superstar0 = gs.Players[0].Name()
		m.Superstar1 = gs.Players[1].Name()
		m.Deck0 = gs.Players[0].Deck
		m.Deck1 = gs.Players[1].Deck
	}
	return m
}

// ReadJoin reads the join handshake from a freshly accepted connection. The
// returned conn must be used from then on: it replays anything the handshake
// decoder buffered past the join message.
func ReadJoin(conn net.Conn) (ClientMessage, net.Conn, error) {
	dec := json.NewDecoder(conn)
	var msg ClientMessage
	if err := dec.Decode(&msg); err != nil {
		return msg, conn, fmt.Errorf("read join message: %w", err)
	}
	if msg.Type != MsgJoin {
		return msg, conn, fmt.Errorf("expected join message, got %q", msg.Type)
	}
	return msg, &bufferedConn{Conn: conn, r: io.MultiReader(dec.Buffered(), conn)}, nil
}

// bufferedConn reads through r so bytes already buffered by a decoder are not lost.
type bufferedConn struct {
	net.Conn
	r io.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}
