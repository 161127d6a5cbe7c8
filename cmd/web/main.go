package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/config"
	"github.com/peterkuimelis/rawdeal/internal/store"
	"github.com/peterkuimelis/rawdeal/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	port := flag.String("port", cfg.WebPort, "HTTP port to listen on")
	decks := flag.String("decks", cfg.DecksPath, "decks YAML file, or a directory of deck text files")
	cards := flag.String("cards", cfg.CardsFile, "card catalog file")
	superstars := flag.String("superstars", cfg.SuperstarsFile, "superstar catalog file")
	history := flag.String("history", cfg.HistoryDB, "SQLite match history to serve (empty to disable)")
	flag.Parse()

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := web.Options{
		CardsFile:      *cards,
		SuperstarsFile: *superstars,
		DeckPath:       *decks,
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

	srv, err := web.NewServer(opts)
	if err != nil {
		logger.Fatal("start web server", zap.Error(err))
	}

	logger.Info("rawdeal web UI listening", zap.String("url", "http://localhost:"+*port))
	if err := srv.ListenAndServe(":" + *port); err != nil {
		logger.Error("listen", zap.Error(err))
		os.Exit(1)
	}
}
