package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/store"

	stdnet "net"
)

// Options configures the tool server.
type Options struct {
	CardsFile      string
	SuperstarsFile string
	DeckPath       string
	Port           string // TCP port for the human player connection
	MaxTurns       int
	History        *store.Store
	Logger         *zap.Logger
}

// Tools serves one game at a time to an MCP client.
type Tools struct {
	opts   Options
	listen func(port string) (stdnet.Listener, error)

	mu     sync.Mutex
	active *GameSession
}

// NewTools creates the tool set. Catalog and decks are loaded on each start_game
// so edits to the data files apply to the next game.
func NewTools(opts Options) *Tools {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Tools{
		opts: opts,
		listen: func(port string) (stdnet.Listener, error) {
			return stdnet.Listen("tcp", ":"+port)
		},
	}
}

// Register adds all game tools to the MCP server.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(listDecksTool(), t.handleListDecks)
	s.AddTool(startGameTool(), t.handleStartGame)
	s.AddTool(takeActionTool(), t.handleTakeAction)
	s.AddTool(chooseCardSetTool(), t.handleChooseCardSet)
	s.AddTool(selectCardTool(), t.handleSelectCard)
	s.AddTool(answerYesNoTool(), t.handleAnswerYesNo)
	s.AddTool(getGameStateTool(), t.handleGetGameState)
}

// --- Tool definitions ---

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the available Raw Deal decks with their superstar and whether they pass deck construction rules. Read-only."),
	)
}

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new Raw Deal duel. Returns the initial game state and first pending decision. "+
			"The human player connects via `rawdeal join --addr localhost:<port> --deck N` in a separate terminal. "+
			"This call blocks until the human connects."),
		mcp.WithNumber("ai_deck", mcp.Required(), mcp.Description("Deck number for the AI (1-indexed, see list_decks)")),
		mcp.WithNumber("ai_player", mcp.Required(), mcp.Description("Which seat the AI takes: 0 or 1. Seat 0 starts on a superstar value tie.")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func chooseCardSetTool() mcp.Tool {
	return mcp.NewTool("choose_card_set",
		mcp.WithDescription("Choose which cards to look at. Use this when the pending decision type is 'choose_card_set'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into the sets list")),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Select one card from the pending candidates list. Use this when the pending decision type is 'choose_card'. "+
			"Pass -1 to cancel when the selection is optional."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the candidate, or -1 to cancel an optional selection")),
	)
}

func answerYesNoTool() mcp.Tool {
	return mcp.NewTool("answer_yes_no",
		mcp.WithDescription("Answer a yes/no question. Use this when the pending decision type is 'choose_yes_no'."),
		mcp.WithBoolean("answer", mcp.Required(), mcp.Description("true for yes, false for no")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

// --- Operations ---

// DeckSummary is one entry of list_decks.
type DeckSummary struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Superstar string `json:"superstar"`
	Valid     bool   `json:"valid"`
	Problem   string `json:"problem,omitempty"`
}

func (t *Tools) loadData() (*game.Catalog, []game.DeckList, error) {
	cat, err := game.LoadCatalog(t.opts.CardsFile, t.opts.SuperstarsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	decks, err := game.LoadDecks(t.opts.DeckPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load decks: %w", err)
	}
	return cat, decks, nil
}

// ListDecks summarizes the configured decks.
func (t *Tools) ListDecks() ([]DeckSummary, error) {
	cat, decks, err := t.loadData()
	if err != nil {
		return nil, err
	}
	out := make([]DeckSummary, len(decks))
	for i, d := range decks {
		out[i] = DeckSummary{Number: i + 1, Name: d.Name, Superstar: d.Superstar, Valid: true}
		if err := game.ValidateDeck(d.Cards, d.Superstar, cat); err != nil {
			out[i].Valid = false
			out[i].Problem = err.Error()
		}
	}
	return out, nil
}

// StartGame opens the human port, waits for the join and returns the AI's first decision.
func (t *Tools) StartGame(ctx context.Context, aiDeck, aiPlayer int) (*ToolResponse, error) {
	if aiDeck < 1 {
		return nil, errors.New("ai_deck must be >= 1")
	}
	if aiPlayer != 0 && aiPlayer != 1 {
		return nil, errors.New("ai_player must be 0 or 1")
	}

	t.mu.Lock()
	if t.active != nil {
		t.mu.Unlock()
		return nil, errors.New("a game is already running, only one game at a time is supported")
	}
	t.mu.Unlock()

	cat, decks, err := t.loadData()
	if err != nil {
		return nil, err
	}
	ln, err := t.listen(t.opts.Port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", t.opts.Port, err)
	}
	t.opts.Logger.Info("waiting for human player", zap.String("addr", ln.Addr().String()))

	sess, err := NewGameSession(SessionOptions{
		Catalog:  cat,
		Decks:    decks,
		AIDeck:   aiDeck,
		AIPlayer: aiPlayer,
		MaxTurns: t.opts.MaxTurns,
		History:  t.opts.History,
		Logger:   t.opts.Logger,
	}, ln)
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}

	t.mu.Lock()
	t.active = sess
	t.mu.Unlock()

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("waiting for first decision: %w", err)
	}
	resp.Port = t.opts.Port
	t.finishIfOver(resp)
	return resp, nil
}

// session returns the running game and the AI decision it is waiting for.
func (t *Tools) session(want DecisionType) (*GameSession, *PendingDecision, error) {
	t.mu.Lock()
	sess := t.active
	t.mu.Unlock()
	if sess == nil {
		return nil, nil, errors.New("no game is running, use start_game first")
	}
	pending := sess.pending()
	if pending == nil {
		return nil, nil, errors.New("waiting for the human player to respond via their terminal")
	}
	if pending.Type != want {
		return nil, nil, fmt.Errorf("wrong tool: pending decision is '%s', not '%s'", pending.Type, want)
	}
	return sess, pending, nil
}

// Answer responds to the pending decision. index is used by index-based
// decisions, answer by yes/no.
func (t *Tools) Answer(ctx context.Context, kind DecisionType, index int, answer bool) (*ToolResponse, error) {
	sess, pending, err := t.session(kind)
	if err != nil {
		return nil, err
	}

	var reply any
	switch kind {
	case DecisionChooseAction:
		if index < 0 || index >= len(pending.Actions) {
			return nil, fmt.Errorf("invalid index %d, must be 0-%d", index, len(pending.Actions)-1)
		}
		reply = IndexResponse{Index: index}
	case DecisionChooseCardSet:
		if index < 0 || index >= len(pending.Sets) {
			return nil, fmt.Errorf("invalid index %d, must be 0-%d", index, len(pending.Sets)-1)
		}
		reply = IndexResponse{Index: index}
	case DecisionChooseCard:
		optional := pending.Selection != nil && pending.Selection.Optional
		if index == game.NoSelection && !optional {
			return nil, errors.New("this selection cannot be cancelled")
		}
		if index != game.NoSelection && (index < 0 || index >= len(pending.Candidates)) {
			return nil, fmt.Errorf("index %d out of range, must be 0-%d", index, len(pending.Candidates)-1)
		}
		reply = IndexResponse{Index: index}
	case DecisionChooseYesNo:
		reply = YesNoResponse{Answer: answer}
	default:
		return nil, fmt.Errorf("cannot answer %s", kind)
	}

	resp, err := sess.respond(ctx, reply)
	if err != nil {
		return nil, fmt.Errorf("waiting for next decision: %w", err)
	}
	t.finishIfOver(resp)
	return resp, nil
}

// GameState reports the running game without answering anything.
func (t *Tools) GameState() (*ToolResponse, error) {
	t.mu.Lock()
	sess := t.active
	t.mu.Unlock()
	if sess == nil {
		return nil, errors.New("no game is running, use start_game first")
	}
	resp := sess.snapshot()
	t.finishIfOver(resp)
	return resp, nil
}

// finishIfOver frees the slot for the next game once the result has been reported.
func (t *Tools) finishIfOver(resp *ToolResponse) {
	if !resp.GameOver {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = nil
}

// Close abandons any running game.
func (t *Tools) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		t.active.Close()
		t.active = nil
	}
}

// --- Tool handlers ---

func result(resp *ToolResponse, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	decks, err := t.ListDecks()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.Marshal(map[string]any{"decks": decks})
	if err != nil {
		return mcp.NewToolResultErrorf("marshal decks: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *Tools) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.StartGame(ctx, request.GetInt("ai_deck", 0), request.GetInt("ai_player", -1)))
}

func (t *Tools) handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.Answer(ctx, DecisionChooseAction, request.GetInt("index", -1), false))
}

func (t *Tools) handleChooseCardSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.Answer(ctx, DecisionChooseCardSet, request.GetInt("index", -1), false))
}

func (t *Tools) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.Answer(ctx, DecisionChooseCard, request.GetInt("index", -2), false))
}

func (t *Tools) handleAnswerYesNo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.Answer(ctx, DecisionChooseYesNo, 0, request.GetBool("answer", false)))
}

func (t *Tools) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return result(t.GameState())
}
