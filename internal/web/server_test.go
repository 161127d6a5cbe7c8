package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/peterkuimelis/rawdeal/internal/log"
	"github.com/peterkuimelis/rawdeal/internal/store"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"cards.yaml": `- Title: Chop
  Types: [Maneuver]
  Subtypes: [Strike]
  Fortitude: 0
  Damage: 3
  StunValue: 0
  CardEffect: ""
- Title: Training Drill
  Types: [Action]
  Subtypes: [SetUp]
  Fortitude: 0
  Damage: 0
  StunValue: 0
  CardEffect: ""
`,
		"superstars.yaml": `- Name: HHH
  Logo: HHH
  HandSize: 3
  SuperstarValue: 3
  SuperstarAbility: "None, isn't he already good enough?"
`,
		"decks.yaml": `decks:
  - name: "Drills"
    superstar: "HHH"
    cards:
      - name: "Chop"
        count: 3
      - name: "Training Drill"
        count: 57
  - name: "Chop Spam"
    superstar: "HHH"
    cards:
      - name: "Chop"
        count: 60
`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return Options{
		CardsFile:      filepath.Join(dir, "cards.yaml"),
		SuperstarsFile: filepath.Join(dir, "superstars.yaml"),
		DeckPath:       filepath.Join(dir, "decks.yaml"),
	}
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t, testOptions(t))

	var cards []log.CardInfo
	if code := getJSON(t, ts.URL+"/api/cards", &cards); code != http.StatusOK {
		t.Fatalf("cards status %d", code)
	}
	if len(cards) != 2 || cards[0].Title != "Chop" || cards[0].Damage != "3" {
		t.Errorf("cards = %+v", cards)
	}

	var supers []SuperstarInfo
	getJSON(t, ts.URL+"/api/superstars", &supers)
	if len(supers) != 1 || supers[0].Name != "HHH" || supers[0].HandSize != 3 {
		t.Errorf("superstars = %+v", supers)
	}

	var decks []DeckInfo
	getJSON(t, ts.URL+"/api/decks", &decks)
	if len(decks) != 2 {
		t.Fatalf("decks = %+v", decks)
	}
	if !decks[0].Valid || decks[0].Size != 60 || len(decks[0].Cards) != 2 {
		t.Errorf("first deck = %+v", decks[0])
	}
	if decks[1].Valid || !strings.Contains(decks[1].Problem, "Chop") {
		t.Errorf("second deck = %+v", decks[1])
	}

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Errorf("index = %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestHistoryEndpoint(t *testing.T) {
	opts := testOptions(t)
	if code := getJSON(t, newTestServer(t, opts).URL+"/api/history", nil); code != http.StatusNotFound {
		t.Errorf("history without store = %d", code)
	}

	history, err := store.Open(":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer history.Close()
	if err := history.RecordMatch(context.Background(), store.Match{ID: "m1", Superstar0: "HHH", Superstar1: "KANE", Winner: 1, Turns: 9}); err != nil {
		t.Fatal(err)
	}
	opts.History = history
	ts := newTestServer(t, opts)

	var body struct {
		Matches []store.Match  `json:"matches"`
		Wins    map[string]int `json:"wins"`
	}
	if code := getJSON(t, ts.URL+"/api/history?limit=5", &body); code != http.StatusOK {
		t.Fatalf("history status %d", code)
	}
	if len(body.Matches) != 1 || body.Matches[0].ID != "m1" || body.Wins["KANE"] != 1 {
		t.Errorf("history = %+v", body)
	}
	if code := getJSON(t, ts.URL+"/api/history?limit=x", nil); code != http.StatusBadRequest {
		t.Errorf("bad limit = %d", code)
	}
}

func TestWebSocketProxy(t *testing.T) {
	// A game server that expects a join and ends the game right away.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	joined := make(chan map[string]any, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var join map[string]any
		dec := json.NewDecoder(conn)
		if err := dec.Decode(&join); err != nil {
			return
		}
		joined <- join
		json.NewEncoder(conn).Encode(map[string]any{"type": "choose_yes_no", "prompt": "Ready?"})
		var answer map[string]any
		if err := dec.Decode(&answer); err != nil {
			return
		}
		json.NewEncoder(conn).Encode(map[string]any{"type": "game_over", "result": "HHH wins"})
	}()

	ts := newTestServer(t, testOptions(t))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.CloseNow()

	connect, _ := json.Marshal(map[string]any{"type": "connect", "addr": ln.Addr().String(), "deck_number": 2})
	if err := ws.Write(ctx, websocket.MessageText, connect); err != nil {
		t.Fatal(err)
	}

	join := <-joined
	if join["type"] != "join" || join["deck_number"] != float64(2) {
		t.Errorf("join = %v", join)
	}

	_, data, err := ws.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "choose_yes_no") {
		t.Errorf("first message = %s", data)
	}
	if err := ws.Write(ctx, websocket.MessageText, []byte(`{"type":"yes_no","answer":true}`)); err != nil {
		t.Fatal(err)
	}
	_, data, err = ws.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "HHH wins") {
		t.Errorf("game over = %s", data)
	}
}
