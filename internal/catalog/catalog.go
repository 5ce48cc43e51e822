// Package catalog holds static card metadata loaded from a YAML file and
// serves it to the engine by set and number.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/game"
)

// ErrNotFound is returned when no card matches a lookup.
var ErrNotFound = errors.New("card not found")

// File is the top-level YAML structure.
type File struct {
	Cards []Entry `yaml:"cards"`
}

// Entry is one printed card.
type Entry struct {
	Set         string        `yaml:"set"`
	Number      string        `yaml:"number"`
	Name        string        `yaml:"name"`
	Category    string        `yaml:"category"` // pokemon | trainer
	Types       []string      `yaml:"types"`
	Stage       string        `yaml:"stage"` // basic | stage1 | stage2
	EvolvesFrom string        `yaml:"evolves_from"`
	HP          int           `yaml:"hp"`
	Retreat     int           `yaml:"retreat"`
	Weakness    string        `yaml:"weakness"`
	Attacks     []AttackEntry `yaml:"attacks"`
	Abilities   []string      `yaml:"abilities"`
	TrainerType string        `yaml:"trainer_type"`
}

// AttackEntry is one printed attack.
type AttackEntry struct {
	Name   string   `yaml:"name"`
	Cost   []string `yaml:"cost"`
	Damage string   `yaml:"damage"`
}

// Catalog is an immutable in-memory card index.
type Catalog struct {
	byKey  map[string]*game.Card
	byName map[string]*game.Card
}

// Load reads a catalog YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return New(f.Cards)
}

// New builds a catalog from entries. The first card with a given name wins
// name lookups.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		byKey:  make(map[string]*game.Card, len(entries)),
		byName: make(map[string]*game.Card, len(entries)),
	}
	for i, e := range entries {
		card, err := e.toCard()
		if err != nil {
			return nil, fmt.Errorf("card %d (%s): %w", i+1, e.Name, err)
		}
		key := effectdata.CardKey(card.Set, card.Number)
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("card %d: duplicate %s", i+1, key)
		}
		c.byKey[key] = card
		name := effectdata.NormalizeName(card.Name)
		if _, seen := c.byName[name]; !seen {
			c.byName[name] = card
		}
	}
	return c, nil
}

// FetchCard returns the card printed as set/number.
func (c *Catalog) FetchCard(ctx context.Context, set, number string) (*game.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	card, ok := c.byKey[effectdata.CardKey(set, number)]
	if !ok {
		return nil, fmt.Errorf("%s-%s: %w", set, number, ErrNotFound)
	}
	return card, nil
}

// CardByName returns the first card printed under name.
func (c *Catalog) CardByName(name string) (*game.Card, bool) {
	card, ok := c.byName[effectdata.NormalizeName(name)]
	return card, ok
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.byKey)
}

// Keys returns every card key, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.byKey))
	for k := range c.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e Entry) toCard() (*game.Card, error) {
	if e.Set == "" || e.Number == "" || e.Name == "" {
		return nil, errors.New("set, number and name are required")
	}
	card := &game.Card{
		Set:         effectdata.NormalizeSet(e.Set),
		Number:      effectdata.PadNumber(e.Number),
		Name:        strings.TrimSpace(e.Name),
		EvolvesFrom: strings.TrimSpace(e.EvolvesFrom),
		HP:          e.HP,
		RetreatCost: e.Retreat,
		Abilities:   e.Abilities,
		TrainerType: e.TrainerType,
	}

	switch strings.ToLower(strings.TrimSpace(e.Category)) {
	case "", "pokemon", "pokémon":
		card.Category = game.CategoryPokemon
	case "trainer":
		card.Category = game.CategoryTrainer
	default:
		return nil, fmt.Errorf("unknown category %q", e.Category)
	}

	switch strings.ToLower(strings.ReplaceAll(e.Stage, " ", "")) {
	case "", "basic":
		card.Stage = game.StageBasic
	case "stage1":
		card.Stage = game.Stage1
	case "stage2":
		card.Stage = game.Stage2
	default:
		return nil, fmt.Errorf("unknown stage %q", e.Stage)
	}

	for _, t := range e.Types {
		et, ok := game.ParseEnergyType(t)
		if !ok || et == game.EnergyAny {
			return nil, fmt.Errorf("unknown type %q", t)
		}
		card.Types = append(card.Types, et)
	}
	if e.Weakness != "" {
		w, ok := game.ParseEnergyType(e.Weakness)
		if !ok {
			return nil, fmt.Errorf("unknown weakness %q", e.Weakness)
		}
		card.Weakness = w
	}

	for _, a := range e.Attacks {
		atk := game.Attack{Name: a.Name, Damage: a.Damage}
		for _, c := range a.Cost {
			et, ok := game.ParseEnergyType(c)
			if !ok || et == game.EnergyAny {
				return nil, fmt.Errorf("attack %s: unknown cost %q", a.Name, c)
			}
			atk.Cost = append(atk.Cost, et)
		}
		card.Attacks = append(card.Attacks, atk)
	}
	return card, nil
}
