package game

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeckSize is the size of a legal deck.
const DeckSize = 20

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file. Cards may be given
// as entries, as a Limitless-style list, or both.
type DeckEntry struct {
	Name   string      `yaml:"name"`
	Energy []string    `yaml:"energy"`
	Cards  []CardEntry `yaml:"cards"`
	List   string      `yaml:"list"`
}

// CardEntry represents a card and its count in a deck.
type CardEntry struct {
	Name   string `yaml:"name"`
	Set    string `yaml:"set"`
	Number string `yaml:"number"`
	Count  int    `yaml:"count"`
}

// Deck is a resolved deck ready for a match.
type Deck struct {
	Name   string
	Cards  []*Card
	Energy []EnergyType
}

// NameResolver is implemented by catalogs that can look cards up by name.
type NameResolver interface {
	CardByName(name string) (*Card, bool)
}

var decklistLine = regexp.MustCompile(`^(\d+)\s+(.+?)\s+([A-Za-z0-9\-]+)\s+(\d+)$`)

// ParseDecklist parses Limitless-style text ("2 Pikachu ex A1 96"). Blank
// lines, comments and section headers ("Pokémon: 8") are skipped.
func ParseDecklist(text string) ([]CardEntry, error) {
	var cards []CardEntry
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(strings.Replace(sc.Text(), ":", "", 1))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := decklistLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("decklist line %q: %w", line, err)
		}
		cards = append(cards, CardEntry{Count: n, Name: strings.TrimSpace(m[2]), Set: m[3], Number: m[4]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	return cards, nil
}

func readDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// ParseDeckFile parses a YAML deck file and resolves every deck against cat.
func ParseDeckFile(ctx context.Context, path string, cat Catalog) (map[string]*Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make(map[string]*Deck, len(df.Decks))
	for _, entry := range df.Decks {
		d, err := ResolveDeck(ctx, entry, cat)
		if err != nil {
			return nil, err
		}
		decks[d.Name] = d
	}
	return decks, nil
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(ctx context.Context, path string, n int, cat Catalog) (*Deck, error) {
	df, err := readDeckFile(path)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return nil, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	return ResolveDeck(ctx, df.Decks[n-1], cat)
}

// ResolveDeck turns a deck entry into card definitions. Entries without a
// set and number are resolved by name when cat supports it.
func ResolveDeck(ctx context.Context, entry DeckEntry, cat Catalog) (*Deck, error) {
	if cat == nil {
		return nil, fmt.Errorf("deck %s: no catalog", entry.Name)
	}
	entries := entry.Cards
	if entry.List != "" {
		listed, err := ParseDecklist(entry.List)
		if err != nil {
			return nil, fmt.Errorf("deck %s: %w", entry.Name, err)
		}
		entries = append(entries, listed...)
	}

	d := &Deck{Name: entry.Name}
	for _, e := range entries {
		card, err := resolveCard(ctx, e, cat)
		if err != nil {
			return nil, fmt.Errorf("deck %s: %w", entry.Name, err)
		}
		for i := 0; i < e.Count; i++ {
			d.Cards = append(d.Cards, card)
		}
	}
	for _, s := range entry.Energy {
		t, ok := ParseEnergyType(s)
		if !ok || t == EnergyAny {
			return nil, fmt.Errorf("deck %s: unknown energy %q", entry.Name, s)
		}
		d.Energy = append(d.Energy, t)
	}
	if len(d.Energy) == 0 {
		d.Energy = inferEnergy(d.Cards)
	}
	return d, nil
}

func resolveCard(ctx context.Context, e CardEntry, cat Catalog) (*Card, error) {
	if e.Set != "" && e.Number != "" {
		return cat.FetchCard(ctx, e.Set, e.Number)
	}
	if r, ok := cat.(NameResolver); ok {
		if card, ok := r.CardByName(e.Name); ok {
			return card, nil
		}
	}
	return nil, fmt.Errorf("cannot resolve %q", e.Name)
}

// inferEnergy returns the types of the deck's Pokémon, in first-seen order.
func inferEnergy(cards []*Card) []EnergyType {
	seen := make(map[EnergyType]bool)
	var out []EnergyType
	for _, c := range cards {
		if !c.IsPokemon() {
			continue
		}
		t := c.PrimaryType()
		if t == EnergyColorless || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		out = []EnergyType{EnergyColorless}
	}
	return out
}

// Validate checks deck construction: DeckSize cards, at most two copies of
// any name and at least one Basic Pokémon.
func (d *Deck) Validate() error {
	if len(d.Cards) != DeckSize {
		return fmt.Errorf("deck %s has %d cards, want %d", d.Name, len(d.Cards), DeckSize)
	}
	copies := make(map[string]int)
	basic := false
	for _, c := range d.Cards {
		copies[c.Name]++
		if copies[c.Name] > 2 {
			return fmt.Errorf("deck %s has more than 2 copies of %s", d.Name, c.Name)
		}
		basic = basic || c.IsBasic()
	}
	if !basic {
		return fmt.Errorf("deck %s has no Basic Pokémon", d.Name)
	}
	return nil
}
