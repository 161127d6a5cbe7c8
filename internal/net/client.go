package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/peterkuimelis/rawdeal/internal/log"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn   net.Conn
	player int // seat index, 0 or 1
	in     *bufio.Reader
	out    io.Writer
}

// NewClient wraps a connection. Nil in/out default to the terminal.
func NewClient(conn net.Conn, player int, in io.Reader, out io.Writer) *Client {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Client{conn: conn, player: player, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
// deckNumber 0 lets the player pick from the server's decks.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for game to start...")

	return NewClient(conn, 1, nil, nil).RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively until game_over.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	reply := func(msg ClientMessage) error {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("send %s: %w", msg.Type, err)
		}
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgChooseDeck:
			fmt.Fprintln(c.out, bold("\nChoose your deck:"))
			c.renderOptions(msg.Decks)
			idx, err := c.readChoice(len(msg.Decks), false)
			if err != nil {
				return err
			}
			if err := reply(ClientMessage{Type: MsgDeck, Index: idx}); err != nil {
				return err
			}

		case MsgChooseAction:
			c.renderState(msg.State)
			fmt.Fprintln(c.out, bold("\nWhat would you like to do?"))
			descs := make([]string, len(msg.Actions))
			for i, a := range msg.Actions {
				descs[i] = a.Desc
			}
			c.renderOptions(descs)
			idx, err := c.readChoice(len(msg.Actions), false)
			if err != nil {
				return err
			}
			if err := reply(ClientMessage{Type: MsgAction, Index: idx}); err != nil {
				return err
			}

		case MsgChooseCardSet:
			fmt.Fprintln(c.out, bold("\nWhich cards do you want to see?"))
			c.renderOptions(msg.Sets)
			idx, err := c.readChoice(len(msg.Sets), false)
			if err != nil {
				return err
			}
			if err := reply(ClientMessage{Type: MsgSet, Index: idx}); err != nil {
				return err
			}

		case MsgChooseCard:
			optional := msg.Selection != nil && msg.Selection.Optional
			c.renderCardChoice(msg.Prompt, msg.Candidates, optional)
			idx, err := c.readChoice(len(msg.Candidates), optional)
			if err != nil {
				return err
			}
			if err := reply(ClientMessage{Type: MsgCard, Index: idx}); err != nil {
				return err
			}

		case MsgChooseYesNo:
			fmt.Fprintf(c.out, "\n%s (y/n): ", msg.Prompt)
			answer, err := c.readYesNo()
			if err != nil {
				return err
			}
			if err := reply(ClientMessage{Type: MsgYesNo, Answer: answer}); err != nil {
				return err
			}

		case MsgGameOver:
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, bold("          GAME OVER"))
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	switch ev.Type {
	case "NewTurn":
		fmt.Fprintln(c.out, cyan("\n"+ev.Details))
	case "GameInfo":
		fmt.Fprintln(c.out, "------------------------------------")
		fmt.Fprintln(c.out, log.FormatInfo(ev.Info))
		fmt.Fprintln(c.out, "------------------------------------")
	case "ShowCards":
		fmt.Fprintln(c.out, ev.Details)
		for i, card := range ev.Cards {
			fmt.Fprintf(c.out, "  %d) %s\n", i+1, log.FormatCard(card))
		}
	case "Draw":
		if ev.Player == c.player {
			fmt.Fprintf(c.out, "You draw %s\n", ev.Card)
			return
		}
		fmt.Fprintln(c.out, ev.Details)
	case "Damage":
		fmt.Fprintln(c.out, red(ev.Details))
	case "Overturn":
		fmt.Fprintf(c.out, "  %s\n", yellow(ev.Details))
	case "Win":
		fmt.Fprintln(c.out, green(ev.Details))
	default:
		fmt.Fprintln(c.out, ev.Details)
	}
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	opp, you := sv.Opponent, sv.You

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  OPPONENT %s (%dF)  Hand: %d  Arsenal: %d  Ringside: %d\n",
		opp.Superstar, opp.Fortitude, opp.HandCount, opp.ArsenalCount, opp.RingsideCount)
	fmt.Fprintf(c.out, "║  Ring:  %s\n", formatRing(opp.RingArea))
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(c.out, "║  Ring:  %s\n", formatRing(you.RingArea))
	fmt.Fprintf(c.out, "║  YOU %s (%dF)  Hand: %d  Arsenal: %d  Ringside: %d\n",
		you.Superstar, you.Fortitude, you.HandCount, you.ArsenalCount, you.RingsideCount)
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(c.out, turnInfo)

	if len(you.Hand) > 0 {
		fmt.Fprintf(c.out, "\nHand: ")
		for i, title := range you.Hand {
			fmt.Fprintf(c.out, "[%d] %s  ", i+1, title)
		}
		fmt.Fprintln(c.out)
	}
}

func formatRing(titles []string) string {
	if len(titles) == 0 {
		return "[ ]"
	}
	return "[" + strings.Join(titles, "] [") + "]"
}

func (c *Client) renderOptions(options []string) {
	for i, o := range options {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, o)
	}
}

func (c *Client) renderCardChoice(prompt string, candidates []CardView, optional bool) {
	fmt.Fprintf(c.out, "\n%s\n", bold(prompt))
	for _, cv := range candidates {
		fmt.Fprintf(c.out, "  %d) %s\n", cv.Index+1, log.FormatCard(cv.CardInfo))
	}
	if optional {
		fmt.Fprintln(c.out, "  0) Cancel")
	}
}

// readChoice reads a 1-based menu choice and returns it 0-based. With
// allowCancel, 0 returns -1.
func (c *Client) readChoice(count int, allowCancel bool) (int, error) {
	low := 1
	if allowCancel {
		low = 0
	}
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return 0, fmt.Errorf("read input: %w", err)
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < low || n > count {
			fmt.Fprintf(c.out, "Enter a number between %d and %d\n", low, count)
			continue
		}
		return n - 1, nil
	}
}

func (c *Client) readYesNo() (bool, error) {
	for {
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return false, fmt.Errorf("read input: %w", err)
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprint(c.out, "Enter y or n: ")
		}
	}
}
