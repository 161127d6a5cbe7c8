package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrCardNotFound      = errors.New("card not found in catalog")
	ErrSuperstarNotFound = errors.New("superstar not found in catalog")
)

// Catalog is the read-only card and superstar database shared by both players.
type Catalog struct {
	cards      map[string]*Card
	superstars map[string]*Superstar
	logos      map[string]bool
}

// NewCatalog indexes card and superstar definitions. Later duplicates win.
func NewCatalog(cards []*Card, superstars []*Superstar) *Catalog {
	cat := &Catalog{
		cards:      make(map[string]*Card, len(cards)),
		superstars: make(map[string]*Superstar, len(superstars)),
		logos:      make(map[string]bool, len(superstars)),
	}
	for _, c := range cards {
		cat.cards[c.Title] = c
	}
	for _, s := range superstars {
		cat.superstars[s.Name] = s
		if s.Logo != "" {
			cat.logos[s.Logo] = true
		}
	}
	return cat
}

// Card looks up a card by title.
func (cat *Catalog) Card(title string) (*Card, error) {
	c, ok := cat.cards[title]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCardNotFound, title)
	}
	return c, nil
}

// Superstar looks up a superstar by name.
func (cat *Catalog) Superstar(name string) (*Superstar, error) {
	s, ok := cat.superstars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSuperstarNotFound, name)
	}
	return s, nil
}

// IsLogo reports whether tag is some superstar's logo.
func (cat *Catalog) IsLogo(tag string) bool {
	return cat.logos[tag]
}

// Cards returns all card definitions sorted by title.
func (cat *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(cat.cards))
	for _, c := range cat.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Superstars returns all superstar definitions sorted by name.
func (cat *Catalog) Superstars() []*Superstar {
	out := make([]*Superstar, 0, len(cat.superstars))
	for _, s := range cat.superstars {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// View resolves a list of titles into selection candidates, keeping indices aligned.
func (cat *Catalog) View(titles []string) []CardView {
	views := make([]CardView, len(titles))
	for i, t := range titles {
		views[i] = CardView{Title: t}
		if c, err := cat.Card(t); err == nil {
			views[i].Card = c
		}
	}
	return views
}

// LoadCatalog reads the card and superstar files. Both may be YAML or JSON.
func LoadCatalog(cardsPath, superstarsPath string) (*Catalog, error) {
	var cards []*Card
	if err := readData(cardsPath, &cards); err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	var superstars []*Superstar
	if err := readData(superstarsPath, &superstars); err != nil {
		return nil, fmt.Errorf("load superstars: %w", err)
	}
	for i, c := range cards {
		if c == nil || c.Title == "" {
			return nil, fmt.Errorf("load cards: entry %d has no Title", i)
		}
	}
	for i, s := range superstars {
		if s == nil || s.Name == "" {
			return nil, fmt.Errorf("load superstars: entry %d has no Name", i)
		}
	}
	return NewCatalog(cards, superstars), nil
}

// readData decodes a .json file with encoding/json and anything else as YAML.
func readData(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	unmarshal := yaml.Unmarshal
	if strings.EqualFold(filepath.Ext(path), ".json") {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
