package game

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrDeckNotFound = errors.New("deck not found")

// DeckList is a superstar choice plus the 60 card titles of a deck, in file order.
// The last title is the top of the arsenal.
type DeckList struct {
	Name      string
	Superstar string
	Cards     []string
}

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name      string      `yaml:"name"`
	Superstar string      `yaml:"superstar"`
	Cards     []CardEntry `yaml:"cards"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// DeckList expands the entry into a flat list of titles.
func (e DeckEntry) DeckList() DeckList {
	dl := DeckList{Name: e.Name, Superstar: e.Superstar}
	for _, c := range e.Cards {
		for i := 0; i < c.Count; i++ {
			dl.Cards = append(dl.Cards, c.Name)
		}
	}
	return dl
}

// ParseDeckText parses the plain-text deck format: the first line names the
// superstar ("KANE (Superstar Card)"), every following non-empty line is a card title.
func ParseDeckText(name string, data []byte) (DeckList, error) {
	dl := DeckList{Name: name}
	sc := bufio.NewScanner(bytes.NewReader(data))
	first := true
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if first {
			first = false
			dl.Superstar = strings.TrimSpace(strings.Replace(line, superstarTag, "", 1))
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		dl.Cards = append(dl.Cards, line)
	}
	if err := sc.Err(); err != nil {
		return DeckList{}, fmt.Errorf("read deck %s: %w", name, err)
	}
	if first {
		return DeckList{}, fmt.Errorf("deck %s is empty", name)
	}
	return dl, nil
}

// ParseDeckFile parses a YAML decks file and returns its decks in file order.
func ParseDeckFile(path string) ([]DeckList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make([]DeckList, 0, len(df.Decks))
	for _, entry := range df.Decks {
		decks = append(decks, entry.DeckList())
	}
	return decks, nil
}

// LoadDecks loads every deck found at path. A .yaml/.yml file may hold several
// decks; a directory is scanned for .txt deck lists; anything else is read as a
// single plain-text deck.
func LoadDecks(path string) ([]DeckList, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "*.txt"))
		if err != nil {
			return nil, err
		}
		decks := make([]DeckList, 0, len(matches))
		for _, m := range matches {
			dl, err := loadDeckText(m)
			if err != nil {
				return nil, err
			}
			decks = append(decks, dl)
		}
		return decks, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseDeckFile(path)
	default:
		dl, err := loadDeckText(path)
		if err != nil {
			return nil, err
		}
		return []DeckList{dl}, nil
	}
}

func loadDeckText(path string) (DeckList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeckList{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseDeckText(name, data)
}

// DeckByNumber returns the Nth deck (1-indexed) found at path.
func DeckByNumber(path string, n int) (DeckList, error) {
	decks, err := LoadDecks(path)
	if err != nil {
		return DeckList{}, err
	}
	if n < 1 || n > len(decks) {
		return DeckList{}, fmt.Errorf("%w: %d (have %d decks)", ErrDeckNotFound, n, len(decks))
	}
	return decks[n-1], nil
}

// DeckNames lists deck names in order, for deck selection menus.
func DeckNames(decks []DeckList) []string {
	names := make([]string, len(decks))
	for i, d := range decks {
		names[i] = d.Name
	}
	return names
}
