package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndList(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history", "matches.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	base := time.UnixMilli(1_700_000_000_000)
	matches := []Match{
		{ID: "a", Superstar0: "KANE", Superstar1: "THE ROCK", Winner: 0, Turns: 30, FinishedAt: base},
		{ID: "b", Superstar0: "KANE", Superstar1: "MANKIND", Winner: 1, Turns: 41, FinishedAt: base.Add(time.Minute)},
		{ID: "c", Superstar0: "HHH", Superstar1: "KANE", Winner: 1, Turns: 12, FinishedAt: base.Add(2 * time.Minute)},
		{ID: "d", Superstar0: "HHH", Superstar1: "KANE", Winner: -1, Turns: 200, FinishedAt: base.Add(3 * time.Minute)},
	}
	for _, m := range matches {
		if err := s.RecordMatch(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListMatches(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 || got[0].ID != "d" || got[3].ID != "a" {
		t.Fatalf("matches not newest first: %+v", got)
	}
	if !got[3].FinishedAt.Equal(base) {
		t.Errorf("finished_at = %v, want %v", got[3].FinishedAt, base)
	}

	limited, err := s.ListMatches(ctx, 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("limit 2: %d matches, %v", len(limited), err)
	}

	wins, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if wins["KANE"] != 2 || wins["MANKIND"] != 1 || wins["THE ROCK"] != 0 {
		t.Errorf("wins = %v", wins)
	}
}

func TestRecordMatchRejects(t *testing.T) {
	s, err := Open(":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.RecordMatch(ctx, Match{}); err == nil {
		t.Error("a match without id should be rejected")
	}
	m := Match{ID: "dup", Superstar0: "KANE", Superstar1: "HHH"}
	if err := s.RecordMatch(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordMatch(ctx, m); err == nil {
		t.Error("duplicate id should be rejected")
	}
}

func TestWinnerName(t *testing.T) {
	m := Match{Superstar0: "KANE", Superstar1: "HHH"}
	for winner, want := range map[int]string{0: "KANE", 1: "HHH", -1: ""} {
		m.Winner = winner
		if got := m.WinnerName(); got != want {
			t.Errorf("winner %d: %q, want %q", winner, got, want)
		}
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("  ", nil); err == nil {
		t.Error("empty path should fail")
	}
}
