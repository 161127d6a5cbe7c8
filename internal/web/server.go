package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/game"
	"github.com/peterkuimelis/rawdeal/internal/log"
	"github.com/peterkuimelis/rawdeal/internal/store"
)

//go:embed static
var staticFiles embed.FS

// SuperstarInfo is the JSON representation of a superstar for /api/superstars.
type SuperstarInfo struct {
	Name     string `json:"name"`
	Logo     string `json:"logo"`
	HandSize int    `json:"handSize"`
	Value    int    `json:"superstarValue"`
	Ability  string `json:"ability"`
}

// Options configures the web server.
type Options struct {
	CardsFile      string
	SuperstarsFile string
	DeckPath       string
	History        *store.Store // optional
	Logger         *zap.Logger
}

// Server is the rawdeal web UI server.
type Server struct {
	catalog  *game.Catalog
	deckPath string
	history  *store.Store
	logger   *zap.Logger
	mux      *http.ServeMux
}

// NewServer loads the catalog and creates a new web server.
func NewServer(opts Options) (*Server, error) {
	cat, err := game.LoadCatalog(opts.CardsFile, opts.SuperstarsFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		catalog:  cat,
		deckPath: opts.DeckPath,
		history:  opts.History,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Embedded static files
	staticFS, _ := fs.Sub(staticFiles, "static")

	// Serve index.html at root
	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	// Static CSS/JS
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// API endpoints
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/superstars", s.handleSuperstars)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/history", s.handleHistory)

	// WebSocket proxy
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards := s.catalog.Cards()
	out := make([]log.CardInfo, len(cards))
	for i, c := range cards {
		out[i] = c.Info()
	}
	s.writeJSON(w, out)
}

func (s *Server) handleSuperstars(w http.ResponseWriter, r *http.Request) {
	supers := s.catalog.Superstars()
	out := make([]SuperstarInfo, len(supers))
	for i, ss := range supers {
		out[i] = SuperstarInfo{
			Name:     ss.Name,
			Logo:     ss.Logo,
			HandSize: ss.HandSize,
			Value:    ss.SuperstarValue,
			Ability:  ss.SuperstarAbility,
		}
	}
	s.writeJSON(w, out)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := game.LoadDecks(s.deckPath)
	if err != nil {
		s.logger.Error("load decks", zap.String("path", s.deckPath), zap.Error(err))
		http.Error(w, "could not read decks", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, deckInfos(decks, s.catalog))
}

// handleHistory lists recent matches and wins per superstar. ?limit=N caps the list.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "match history is disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	matches, err := s.history.ListMatches(r.Context(), limit)
	if err != nil {
		s.logger.Error("list matches", zap.Error(err))
		http.Error(w, "could not read history", http.StatusInternalServerError)
		return
	}
	wins, err := s.history.Stats(r.Context())
	if err != nil {
		s.logger.Error("match stats", zap.Error(err))
		http.Error(w, "could not read history", http.StatusInternalServerError)
		return
	}
	if matches == nil {
		matches = []store.Match{}
	}
	s.writeJSON(w, map[string]any{"matches": matches, "wins": wins})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	ctx := r.Context()

	// Read initial connect message from browser
	_, connectData, err := wsConn.Read(ctx)
	if err != nil {
		s.logger.Warn("websocket read connect", zap.Error(err))
		return
	}

	var connectMsg struct {
		Type       string `json:"type"`
		Addr       string `json:"addr"`
		DeckNumber int    `json:"deck_number"`
	}
	if err := json.Unmarshal(connectData, &connectMsg); err != nil || connectMsg.Type != "connect" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected connect message")
		return
	}

	// Open TCP connection to game server
	tcpConn, err := net.Dial("tcp", connectMsg.Addr)
	if err != nil {
		errMsg, _ := json.Marshal(map[string]string{
			"type":   "error",
			"result": fmt.Sprintf("Could not connect to game server at %s: %v", connectMsg.Addr, err),
		})
		wsConn.Write(ctx, websocket.MessageText, errMsg)
		wsConn.Close(websocket.StatusNormalClosure, "connection failed")
		return
	}
	defer tcpConn.Close()

	logger := s.logger.With(zap.String("game_addr", connectMsg.Addr))
	logger.Info("browser joined game", zap.Int("deck", connectMsg.DeckNumber))

	// Send join message over TCP
	joinMsg, _ := json.Marshal(map[string]any{
		"type":        "join",
		"deck_number": connectMsg.DeckNumber,
	})
	joinMsg = append(joinMsg, '\n')
	if _, err := tcpConn.Write(joinMsg); err != nil {
		logger.Warn("tcp write join", zap.Error(err))
		return
	}

	done := make(chan struct{})

	// TCP → WebSocket (server messages to browser)
	go func() {
		defer close(done)
		dec := json.NewDecoder(tcpConn)
		for {
			var msg json.RawMessage
			if err := dec.Decode(&msg); err != nil {
				if err != io.EOF {
					logger.Warn("tcp read", zap.Error(err))
				}
				return
			}
			if err := wsConn.Write(ctx, websocket.MessageText, msg); err != nil {
				logger.Warn("websocket write", zap.Error(err))
				return
			}
		}
	}()

	// WebSocket → TCP (browser responses to server)
	go func() {
		for {
			_, data, err := wsConn.Read(ctx)
			if err != nil {
				return
			}
			data = append(data, '\n')
			if _, err := tcpConn.Write(data); err != nil {
				logger.Warn("tcp write", zap.Error(err))
				return
			}
		}
	}()

	<-done
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
