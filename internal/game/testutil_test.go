package game

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// ScriptedController is a PlayerController that follows a predefined script of actions.
// Used in tests to deterministically drive the game.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int

	// For ChooseCards prompts
	cardChoices []ScriptedCardChoice
	cardPos     int
	prompts     []string

	// For ChooseYesNo prompts
	yesNoChoices []bool
	yesNoPos     int
}

type ScriptedAction struct {
	// Match by ActionType — picks the first action of this type
	Type ActionType
	// Optional: match by card name as well
	CardName string
	// Optional: match by target card name
	TargetName string
	// Optional: match by attack name
	AttackName string
}

type ScriptedCardChoice struct {
	// Choose cards by name. No names answers with nothing (a cancel).
	Names []string
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddAction(actionType ActionType, cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddActionOn(actionType ActionType, cardName, targetName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: actionType, CardName: cardName, TargetName: targetName})
	return sc
}

func (sc *ScriptedController) AddAttack(attackName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: ActionAttack, AttackName: attackName})
	return sc
}

func (sc *ScriptedController) AddCardChoice(names ...string) *ScriptedController {
	sc.cardChoices = append(sc.cardChoices, ScriptedCardChoice{Names: names})
	return sc
}

func (sc *ScriptedController) AddYesNo(answer bool) *ScriptedController {
	sc.yesNoChoices = append(sc.yesNoChoices, answer)
	return sc
}

func (sc *ScriptedController) ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error) {
	if sc.pos < len(sc.actions) {
		// Peek at next scripted action — only consume it if it matches an available action.
		// This allows scripts to span multiple turns without needing to explicitly script "EndTurn".
		scripted := sc.actions[sc.pos]
		for _, a := range actions {
			if a.Type != scripted.Type {
				continue
			}
			if scripted.CardName != "" && (a.Card == nil || a.Card.Card.Name != scripted.CardName) {
				continue
			}
			if scripted.TargetName != "" && (a.Target == nil || a.Target.Card.Name != scripted.TargetName) {
				continue
			}
			if scripted.AttackName != "" && (a.Card == nil || a.Card.Card.Attacks[a.Attack].Name != scripted.AttackName) {
				continue
			}
			sc.pos++
			return a, nil
		}
	}
	for _, a := range actions {
		if a.Type == ActionEndTurn {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

func (sc *ScriptedController) ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*CardInstance, min, max int) ([]*CardInstance, error) {
	sc.prompts = append(sc.prompts, prompt)
	if sc.cardPos >= len(sc.cardChoices) {
		// Default: choose the first min candidates
		if min > len(candidates) {
			min = len(candidates)
		}
		return candidates[:min], nil
	}

	choice := sc.cardChoices[sc.cardPos]
	sc.cardPos++

	var result []*CardInstance
	for _, name := range choice.Names {
		for _, c := range candidates {
			if c.Card.Name == name && !containsInstance(result, c) {
				result = append(result, c)
				break
			}
		}
	}

	if len(result) < min {
		return nil, fmt.Errorf("[%s] card choice: wanted %v but only found %d in candidates", sc.name, choice.Names, len(result))
	}
	return result, nil
}

func (sc *ScriptedController) ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error) {
	if sc.yesNoPos >= len(sc.yesNoChoices) {
		return false, nil
	}
	answer := sc.yesNoChoices[sc.yesNoPos]
	sc.yesNoPos++
	return answer, nil
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func atk(name, damage string, cost ...EnergyType) Attack {
	return Attack{Name: name, Damage: damage, Cost: cost}
}

func pokemon(set, number, name string, hp int, t EnergyType, attacks ...Attack) *Card {
	return &Card{
		Set:         set,
		Number:      effectdata.PadNumber(number),
		Name:        name,
		Category:    CategoryPokemon,
		Types:       []EnergyType{t},
		Stage:       StageBasic,
		HP:          hp,
		RetreatCost: 1,
		Attacks:     attacks,
	}
}

func stage1(set, number, name, from string, hp int, t EnergyType, attacks ...Attack) *Card {
	c := pokemon(set, number, name, hp, t, attacks...)
	c.Stage = Stage1
	c.EvolvesFrom = from
	return c
}

func trainer(set, number, name, trainerType string) *Card {
	return &Card{
		Set:         set,
		Number:      effectdata.PadNumber(number),
		Name:        name,
		Category:    CategoryTrainer,
		TrainerType: trainerType,
	}
}

// filler is a vanilla Basic used to pad decks.
func filler() *Card {
	return pokemon("T0", "999", "Filler", 50, EnergyColorless, atk("Tackle", "10", EnergyColorless))
}

// makePaddedDeck creates a deck with specified cards on top (drawn first) and filler to reach a minimum size.
// topCards are ordered so that index 0 is drawn first.
func makePaddedDeck(topCards []*Card, minSize int) []*Card {
	f := filler()
	deck := make([]*Card, 0, minSize)

	// Filler goes at bottom (drawn last)
	for i := 0; i < minSize-len(topCards); i++ {
		deck = append(deck, f)
	}

	// Top cards go at end of slice (drawn first) — reverse order so index 0 is drawn first
	for i := len(topCards) - 1; i >= 0; i-- {
		deck = append(deck, topCards[i])
	}

	return deck
}

// --- Effect table helpers ---

const (
	moveHeader    = "set,number,pokemonName,attackName,effect_type,param1,param2,text,damageBase,damageNotation\n"
	abilityHeader = "set,number,pokemonName,abilityName,abilityType,effect_type,param1,param2,text\n"
	trainerHeader = "id,trainerName,trainerType,effect_type,param1,param2,text\n"
)

// tablesFromCSV builds tables from CSV bodies without headers.
func tablesFromCSV(t *testing.T, moves, abilities, trainers string) *effectdata.Tables {
	t.Helper()
	m, err := effectdata.ParseCSV(strings.NewReader(moveHeader+moves), effectdata.TableMoves)
	require.NoError(t, err)
	a, err := effectdata.ParseCSV(strings.NewReader(abilityHeader+abilities), effectdata.TableAbilities)
	require.NoError(t, err)
	tr, err := effectdata.ParseCSV(strings.NewReader(trainerHeader+trainers), effectdata.TableTrainers)
	require.NoError(t, err)
	return effectdata.NewTables(m, a, tr)
}

// --- Engine fixture ---

type fixture struct {
	t      *testing.T
	e      *Engine
	p0, p1 *ScriptedController
	logger *log.MemoryLogger
}

func newFixture(t *testing.T, tables *effectdata.Tables) *fixture {
	t.Helper()
	logger := log.NewMemoryLogger()
	p0 := NewScriptedController(t, "P1")
	p1 := NewScriptedController(t, "P2")
	e := NewEngine(NewGameState(), EngineConfig{Tables: tables, Logger: logger, Seed: 1}, p0, p1)
	e.State.Turn = 3
	return &fixture{t: t, e: e, p0: p0, p1: p1, logger: logger}
}

// active puts card into owner's Active Spot.
func (f *fixture) active(owner int, card *Card) *CardInstance {
	ci := f.e.State.CreateCardInstance(card, owner)
	f.e.State.Players[owner].PlaceActive(ci)
	return ci
}

// bench puts card on owner's Bench.
func (f *fixture) bench(owner int, card *Card) *CardInstance {
	ci := f.e.State.CreateCardInstance(card, owner)
	require.True(f.t, f.e.State.Players[owner].PlaceOnBench(ci, MaxBenchSize))
	return ci
}

// hand puts card into owner's hand.
func (f *fixture) hand(owner int, card *Card) *CardInstance {
	ci := f.e.State.CreateCardInstance(card, owner)
	ci.Zone = ZoneHand
	p := f.e.State.Players[owner]
	p.Hand = append(p.Hand, ci)
	return ci
}

// deck puts card on top of owner's deck.
func (f *fixture) deck(owner int, card *Card) *CardInstance {
	ci := f.e.State.CreateCardInstance(card, owner)
	p := f.e.State.Players[owner]
	p.Deck = append(p.Deck, ci)
	return ci
}

func (f *fixture) attach(ci *CardInstance, types ...EnergyType) {
	for _, t := range types {
		f.e.Energy.Attach(ci, t)
	}
}

// runMatchToCompletion runs a match and returns the logger for inspection.
func runMatchToCompletion(t *testing.T, cfg MatchConfig, p0, p1 *ScriptedController) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	cfg.NoShuffle = true // deterministic tests
	if cfg.Seed == 0 {
		cfg.Seed = 7
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 30 // reasonable default for tests
	}

	m := NewMatch(cfg, p0, p1)

	winner, err := m.Run(context.Background())
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))
		t.Fatalf("Match error: %v", err)
	}

	t.Logf("Match result: winner=%d (%s)", winner, m.State.Result)
	t.Logf("Event log:\n%s", log.FormatAll(logger.Events()))

	return m, logger
}
