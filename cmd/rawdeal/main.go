package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/peterkuimelis/rawdeal/internal/config"
	"github.com/peterkuimelis/rawdeal/internal/game"
	rawnet "github.com/peterkuimelis/rawdeal/internal/net"
	"github.com/peterkuimelis/rawdeal/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := os.Args[1]
	switch cmd {
	case "host":
		err = runHost(ctx, cfg, os.Args[2:])
	case "join":
		err = runJoin(ctx, cfg, os.Args[2:])
	case "validate":
		err = runValidate(cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  rawdeal host [--deck N] [--port P] [--decks PATH] [--cards FILE] [--superstars FILE] [--history DB] [--transcript FILE]")
	fmt.Println("  rawdeal join [--deck N] [--addr ADDR]")
	fmt.Println("  rawdeal validate [--deck N] [--cards FILE] [--superstars FILE] [PATH...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host      Start a game server and play as Player 1")
	fmt.Println("  join      Connect to a game server and play as Player 2")
	fmt.Println("  validate  Check deck lists against the construction rules")
	fmt.Println()
	fmt.Println("Defaults come from RAWDEAL_* environment variables. Deck 0 means choose in game.")
}

func runHost(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	deck := fs.Int("deck", 0, "deck number to use (1-indexed, 0 to choose in game)")
	port := fs.String("port", cfg.Port, "TCP port to listen on")
	decks := fs.String("decks", cfg.DecksPath, "decks YAML file, or a directory of deck text files")
	cards := fs.String("cards", cfg.CardsFile, "card catalog file")
	superstars := fs.String("superstars", cfg.SuperstarsFile, "superstar catalog file")
	history := fs.String("history", cfg.HistoryDB, "SQLite match history (empty to disable)")
	maxTurns := fs.Int("max-turns", 0, "end the duel without a winner after this many turns (0 = no limit)")
	transcript := fs.String("transcript", "", "append the duel's event log to this file")
	fs.Parse(args)

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := &rawnet.Server{
		CardsFile:      *cards,
		SuperstarsFile: *superstars,
		DeckPath:       *decks,
		Port:           *port,
		HostDeck:       *deck,
		MaxTurns:       *maxTurns,
		Logger:         logger,
	}
	if *history != "" {
		h, err := store.Open(*history, logger)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer h.Close()
		srv.History = h
	}
	if *transcript != "" {
		f, err := os.OpenFile(*transcript, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open transcript: %w", err)
		}
		defer f.Close()
		srv.Transcript = f
	}

	logger.Debug("hosting", zap.String("port", *port), zap.String("decks", *decks))
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 0, "deck number to use (1-indexed, 0 to choose in game)")
	addr := fs.String("addr", "localhost:"+cfg.Port, "server address to connect to")
	fs.Parse(args)

	return rawnet.Connect(ctx, *addr, *deck)
}

var errInvalidDecks = errors.New("one or more decks are invalid")

func runValidate(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cards := fs.String("cards", cfg.CardsFile, "card catalog file")
	superstars := fs.String("superstars", cfg.SuperstarsFile, "superstar catalog file")
	deck := fs.Int("deck", 0, "validate only this deck number (1-indexed) of each path")
	fs.Parse(args)

	cat, err := game.LoadCatalog(*cards, *superstars)
	if err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{cfg.DecksPath}
	}

	invalid := 0
	for _, path := range paths {
		decks, err := loadDecks(path, *deck)
		if err != nil {
			return err
		}
		for _, d := range decks {
			if err := game.ValidateDeck(d.Cards, d.Superstar, cat); err != nil {
				invalid++
				fmt.Printf("INVALID  %s (%s): %v\n", d.Name, d.Superstar, err)
				continue
			}
			fmt.Printf("ok       %s (%s)\n", d.Name, d.Superstar)
		}
	}
	if invalid > 0 {
		return errInvalidDecks
	}
	return nil
}

// loadDecks returns every deck at path, or only deck n when n is positive.
func loadDecks(path string, n int) ([]game.DeckList, error) {
	if n <= 0 {
		return game.LoadDecks(path)
	}
	d, err := game.DeckByNumber(path, n)
	if err != nil {
		return nil, err
	}
	return []game.DeckList{d}, nil
}
