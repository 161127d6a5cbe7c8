package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/config"
	rawmcp "github.com/peterkuimelis/rawdeal/internal/mcp"
	"github.com/peterkuimelis/rawdeal/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	decks := flag.String("decks", cfg.DecksPath, "decks YAML file, or a directory of deck text files")
	cards := flag.String("cards", cfg.CardsFile, "card catalog file")
	superstars := flag.String("superstars", cfg.SuperstarsFile, "superstar catalog file")
	port := flag.String("port", cfg.Port, "TCP port for human player connection")
	history := flag.String("history", cfg.HistoryDB, "SQLite match history (empty to disable)")
	maxTurns := flag.Int("max-turns", 0, "end the duel without a winner after this many turns (0 = no limit)")
	flag.Parse()

	// stdout carries the MCP protocol; the logger writes to stderr.
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := rawmcp.Options{
		CardsFile:      *cards,
		SuperstarsFile: *superstars,
		DeckPath:       *decks,
		Port:           *port,
		MaxTurns:       *maxTurns,
		Logger:         logger,
	}
	if *history != "" {
		h, err := store.Open(*history, logger)
		if err != nil {
			logger.Fatal("open history", zap.Error(err))
		}
		defer h.Close()
		opts.History = h
	}

	tools := rawmcp.NewTools(opts)
	defer tools.Close()

	s := server.NewMCPServer("rawdeal", "1.0.0")
	tools.Register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("serve stdio", zap.Error(err))
		os.Exit(1)
	}
}
