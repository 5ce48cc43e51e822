package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// DefaultMaxTurns bounds a match when no limit is configured.
const DefaultMaxTurns = 200

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Deck0   []*Card // Player 0's deck (card definitions)
	Deck1   []*Card // Player 1's deck (card definitions)
	Energy0 []EnergyType
	Energy1 []EnergyType

	Tables  *effectdata.Tables
	Catalog Catalog
	Logger  log.EventLogger

	Seed            int64 // RNG seed (0 for random)
	NoShuffle       bool  // skip deck shuffle (for deterministic tests)
	MaxTurns        int   // stop after this many turns (0 = DefaultMaxTurns)
	InitialHandSize int
	BenchSize       int
	WeaknessBonus   int
}

// Match orchestrates a match between two players around the effect engine.
type Match struct {
	*Engine

	noShuffle bool
	maxTurns  int
	handSize  int
}

// NewMatch creates a new match from the given config and player controllers.
func NewMatch(cfg MatchConfig, p0, p1 PlayerController) *Match {
	gs := NewGameState()
	seed := cfg.Seed
	if seed == 0 {
		if s, err := NewSeed(); err == nil {
			seed = s
		}
	}
	e := NewEngine(gs, EngineConfig{
		Tables:        cfg.Tables,
		Catalog:       cfg.Catalog,
		Logger:        cfg.Logger,
		Seed:          seed,
		BenchSize:     cfg.BenchSize,
		WeaknessBonus: cfg.WeaknessBonus,
	}, p0, p1)

	for i, deck := range [2][]*Card{cfg.Deck0, cfg.Deck1} {
		for _, card := range deck {
			gs.Players[i].Deck = append(gs.Players[i].Deck, gs.CreateCardInstance(card, i))
		}
	}
	gs.Players[0].EnergyTypes = cfg.Energy0
	gs.Players[1].EnergyTypes = cfg.Energy1

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	hand := cfg.InitialHandSize
	if hand <= 0 {
		hand = InitialHandSize
	}

	m := &Match{
		Engine:    e,
		noShuffle: cfg.NoShuffle,
		maxTurns:  maxTurns,
		handSize:  hand,
	}
	e.Hooks = m
	return m
}

// Run executes the entire match loop. Returns the winner (0, 1, or -1 for
// no winner).
func (m *Match) Run(ctx context.Context) (int, error) {
	gs := m.State
	if err := m.setup(ctx); err != nil {
		return -1, err
	}

	for !gs.Over {
		if gs.Turn >= m.maxTurns {
			m.end(ctx, -1, fmt.Sprintf("Turn limit reached (%d turns)", m.maxTurns))
			break
		}
		if err := m.runTurn(ctx); err != nil {
			return gs.Winner, err
		}
		if err := ctx.Err(); err != nil {
			return -1, err
		}
	}
	return gs.Winner, nil
}

func (m *Match) setup(ctx context.Context) error {
	gs := m.State
	for p := 0; p < 2; p++ {
		pl := gs.Players[p]
		if !m.noShuffle {
			// Redraw until the opening hand holds a Basic Pokémon.
			for tries := 0; tries < 20 && !topHasBasic(pl.Deck, m.handSize); tries++ {
				pl.ShuffleDeck(m.Coins)
			}
		}
		for i := 0; i < m.handSize; i++ {
			if pl.DrawCard() == nil {
				return fmt.Errorf("player %d has insufficient cards for initial hand", p)
			}
		}
		basics := pl.HandBasics()
		if len(basics) == 0 {
			return fmt.Errorf("player %d has no Basic Pokémon in the opening hand", p)
		}

		ctrl := m.Controllers[p]
		active := basics[0]
		picked, err := ctrl.ChooseCards(ctx, gs, "Choose your Active Pokémon", basics, 1, 1)
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if len(picked) == 1 && containsInstance(basics, picked[0]) {
			active = picked[0]
		}
		pl.RemoveFromHand(active)
		pl.PlaceActive(active)
		m.Log(ctx, log.NewPlayBasicEvent(gs.Turn, p, active.Card.Name, ZoneActive.String()))

		rest := pl.HandBasics()
		if len(rest) > 0 {
			bench, err := ctrl.ChooseCards(ctx, gs, "Choose Pokémon for your Bench", rest, 0, m.BenchSize)
			if err != nil {
				return fmt.Errorf("setup: %w", err)
			}
			for _, b := range bench {
				if containsInstance(rest, b) && pl.PlaceOnBench(b, m.BenchSize) {
					pl.RemoveFromHand(b)
					m.Log(ctx, log.NewPlayBasicEvent(gs.Turn, p, b.Card.Name, ZoneBench.String()))
				}
			}
		}
		if len(pl.EnergyTypes) > 0 {
			pl.NextEnergy = m.rollEnergy(pl)
		}
	}
	return nil
}

func topHasBasic(deck []*CardInstance, n int) bool {
	for i := len(deck) - 1; i >= 0 && i >= len(deck)-n; i-- {
		if deck[i].Card.IsBasic() {
			return true
		}
	}
	return false
}

func (m *Match) rollEnergy(p *Player) EnergyType {
	return p.EnergyTypes[m.Coins.Intn(len(p.EnergyTypes))]
}

// runTurn executes a single turn for the current turn player.
func (m *Match) runTurn(ctx context.Context) error {
	gs := m.State
	gs.Turn++
	tp := gs.TurnPlayer
	p := gs.CurrentPlayer()
	p.ResetTurnFlags()

	m.Log(ctx, log.NewTurnEvent(gs.Turn, tp))
	m.DrawCards(ctx, tp, 1)

	// The player going first gets no energy on their first turn.
	if len(p.EnergyTypes) > 0 {
		if gs.Turn == 1 {
			p.CurrentEnergy = EnergyAny
		} else {
			p.CurrentEnergy = p.NextEnergy
			p.NextEnergy = m.rollEnergy(p)
		}
	}

	for !gs.Over {
		actions := m.LegalActions(tp)
		chosen, err := m.Controllers[tp].ChooseAction(ctx, gs, actions)
		if err != nil {
			return err
		}
		done, err := m.Execute(ctx, chosen)
		if err != nil {
			var effErr *EffectError
			if !errors.As(err, &effErr) {
				return err
			}
		}
		if done {
			break
		}
	}
	if gs.Over {
		return nil
	}

	if err := m.EndTurn(ctx, tp); err != nil {
		return err
	}
	gs.TurnPlayer = gs.Opponent(tp)
	return nil
}

// KnockedOut ends the match when the owner has nothing left in play and
// otherwise asks them to promote.
func (m *Match) KnockedOut(ctx context.Context, ci *CardInstance, wasActive bool) error {
	if m.State.Over {
		return nil
	}
	owner := m.State.Players[ci.Owner]
	if len(owner.InPlay()) == 0 {
		m.end(ctx, m.State.Opponent(ci.Owner), fmt.Sprintf("%s has no Pokémon left in play", log.PlayerName(ci.Owner)))
		return nil
	}
	if wasActive {
		if _, err := m.Promote(ctx, ci.Owner); err != nil {
			return err
		}
	}
	return nil
}

func (m *Match) end(ctx context.Context, winner int, reason string) {
	gs := m.State
	gs.Over = true
	gs.Winner = winner
	gs.Result = reason
	m.Log(ctx, log.NewMatchOverEvent(gs.Turn, winner, reason))
}
