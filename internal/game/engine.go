package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// DefaultWeaknessBonus is added when the attacker's type hits the defender's weakness.
const DefaultWeaknessBonus = 20

// Catalog resolves static card metadata by set and number.
type Catalog interface {
	FetchCard(ctx context.Context, set, number string) (*Card, error)
}

// Orchestrator receives the bookkeeping the effect core does not own.
type Orchestrator interface {
	// KnockedOut is called after ci was removed from play. wasActive tells
	// whether its owner must promote a new Active Pokémon.
	KnockedOut(ctx context.Context, ci *CardInstance, wasActive bool) error
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	Tables        *effectdata.Tables
	Catalog       Catalog
	Logger        log.EventLogger
	Seed          int64
	BenchSize     int
	WeaknessBonus int
}

// Engine is the effect resolution core: it owns the stores that effects
// read and write and dispatches rows to handlers.
type Engine struct {
	State       *GameState
	Controllers [2]PlayerController
	Tables      *effectdata.Tables
	Catalog     Catalog
	Logger      log.EventLogger
	Hooks       Orchestrator

	Coins   *CoinFlipper
	Energy  *EnergyLedger
	Select  *Selector
	Effects *TurnEffects
	Deltas  *DeltaCache

	BenchSize     int
	WeaknessBonus int
}

// NewEngine wires the stores around state.
func NewEngine(state *GameState, cfg EngineConfig, p0, p1 PlayerController) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	tables := cfg.Tables
	if tables == nil {
		tables = effectdata.Empty()
	}
	bench := cfg.BenchSize
	if bench <= 0 {
		bench = MaxBenchSize
	}
	weakness := cfg.WeaknessBonus
	if weakness <= 0 {
		weakness = DefaultWeaknessBonus
	}
	e := &Engine{
		State:         state,
		Controllers:   [2]PlayerController{p0, p1},
		Tables:        tables,
		Catalog:       cfg.Catalog,
		Logger:        logger,
		Coins:         NewCoinFlipper(cfg.Seed),
		Energy:        NewEnergyLedger(state, tables),
		Effects:       NewTurnEffects(),
		Deltas:        &DeltaCache{},
		BenchSize:     bench,
		WeaknessBonus: weakness,
	}
	e.Select = NewSelector(state, &e.Controllers, e.Log)
	e.Energy.Observe(func(ci *CardInstance, en Energy) {
		e.Logger.Log(log.NewAttachEnergyEvent(state.Turn, ci.Owner, ci.Card.Name, en.Type.String()))
	})
	return e
}

// Log records an event and notifies both controllers.
func (e *Engine) Log(ctx context.Context, event log.GameEvent) {
	e.Logger.Log(event)
	for _, c := range e.Controllers {
		if c != nil {
			_ = c.Notify(ctx, event)
		}
	}
}

// FlipVisible tosses a coin for player and shows the result to both players.
func (e *Engine) FlipVisible(ctx context.Context, player int) (CoinResult, error) {
	r, err := e.Coins.Flip(ctx, player)
	if err != nil {
		return r, fmt.Errorf("coin flip: %w", err)
	}
	e.Log(ctx, log.NewCoinFlipEvent(e.State.Turn, player, r.IsHeads()))
	return r, nil
}

// DealDamage removes amount HP from target and handles a knockout.
func (e *Engine) DealDamage(ctx context.Context, target *CardInstance, amount int) (bool, error) {
	if target == nil || amount <= 0 || !target.InPlay() {
		return false, nil
	}
	target.SetHP(target.HP - amount)
	e.Log(ctx, log.NewDamageEvent(e.State.Turn, target.Owner, target.Card.Name, amount, target.HP))
	if target.HP > 0 {
		return false, nil
	}
	return true, e.knockOut(ctx, target)
}

// Heal restores up to amount HP and returns how much was restored.
func (e *Engine) Heal(ctx context.Context, target *CardInstance, amount int) int {
	if target == nil || amount <= 0 {
		return 0
	}
	before := target.HP
	target.SetHP(target.HP + amount)
	healed := target.HP - before
	if healed > 0 {
		e.Log(ctx, log.NewHealEvent(e.State.Turn, target.Owner, target.Card.Name, healed))
	}
	return healed
}

func (e *Engine) knockOut(ctx context.Context, ci *CardInstance) error {
	owner := e.State.Players[ci.Owner]
	wasActive := owner.Active == ci
	e.Log(ctx, log.NewKnockOutEvent(e.State.Turn, ci.Owner, ci.Card.Name))

	e.Energy.RemoveAll(ci)
	e.Effects.ClearInstance(ci.ID)
	if ci.Tool != nil {
		owner.SendToDiscard(ci.Tool)
		ci.Tool = nil
	}
	for _, pre := range ci.Evolutions {
		owner.SendToDiscard(pre)
	}
	ci.Evolutions = nil
	if wasActive {
		owner.Active = nil
	} else {
		owner.RemoveFromBench(ci)
	}
	owner.SendToDiscard(ci)

	if e.Hooks != nil {
		return e.Hooks.KnockedOut(ctx, ci, wasActive)
	}
	return nil
}

// Promote asks owner to move a benched Pokémon into the empty Active Spot.
// Returns false if the bench is empty.
func (e *Engine) Promote(ctx context.Context, owner int) (bool, error) {
	p := e.State.Players[owner]
	if p.Active != nil {
		return true, nil
	}
	if len(p.Bench) == 0 {
		return false, nil
	}
	choice := p.Bench[0]
	if ctrl := e.Controllers[owner]; ctrl != nil && len(p.Bench) > 1 {
		picked, err := ctrl.ChooseCards(ctx, e.State, "Choose a new Active Pokémon", p.Bench, 1, 1)
		if err != nil {
			return false, fmt.Errorf("promote: %w", err)
		}
		if len(picked) == 1 && containsInstance(p.Bench, picked[0]) {
			choice = picked[0]
		}
	}
	p.RemoveFromBench(choice)
	p.PlaceActive(choice)
	e.Log(ctx, log.NewPromoteEvent(e.State.Turn, owner, choice.Card.Name))
	return true, nil
}

// SwitchActive swaps player's Active Pokémon with a benched one. The
// outgoing Pokémon's status is cleared.
func (e *Engine) SwitchActive(player int, bench *CardInstance) bool {
	p := e.State.Players[player]
	if !p.RemoveFromBench(bench) {
		return false
	}
	if old := p.Active; old != nil {
		old.ClearStatus()
		old.Zone = ZoneBench
		p.Bench = append(p.Bench, old)
	}
	p.PlaceActive(bench)
	return true
}

// DrawCards draws up to n cards for player and returns how many were drawn.
func (e *Engine) DrawCards(ctx context.Context, player, n int) int {
	p := e.State.Players[player]
	drawn := 0
	for i := 0; i < n && len(p.Hand) < MaxHandSize; i++ {
		card := p.DrawCard()
		if card == nil {
			break
		}
		drawn++
		e.Log(ctx, log.NewDrawEvent(e.State.Turn, player, card.Card.Name))
	}
	return drawn
}

// ShuffleDeck shuffles player's deck.
func (e *Engine) ShuffleDeck(ctx context.Context, player int) {
	e.State.Players[player].ShuffleDeck(e.Coins)
	e.Log(ctx, log.NewShuffleEvent(e.State.Turn, player))
}

func (e *Engine) logDiscardEnergy(ctx context.Context, ci *CardInstance, n int) {
	e.Log(ctx, log.NewDiscardEnergyEvent(e.State.Turn, ci.Owner, ci.Card.Name, n))
}

func (e *Engine) logTransferEnergy(ctx context.Context, from, to *CardInstance, n int) {
	e.Log(ctx, log.NewTransferEnergyEvent(e.State.Turn, from.Owner, from.Card.Name, to.Card.Name, n))
}

// ApplyTurnEffect sets a player-scoped turn effect and logs it.
func (e *Engine) ApplyTurnEffect(ctx context.Context, player int, name TurnEffect, value int) {
	e.Effects.Set(player, name, value)
	e.Log(ctx, log.NewTurnEffectEvent(e.State.Turn, player, string(name), value))
}

// EndTurn runs the checkup and expires turn effects for the ending player.
func (e *Engine) EndTurn(ctx context.Context, ending int) error {
	if err := e.Checkup(ctx, ending); err != nil {
		return err
	}
	e.Effects.OnTurnEnd(ending)
	e.Log(ctx, log.NewTurnEndEvent(e.State.Turn, ending))
	return nil
}

// FetchCard resolves catalog metadata. A missing catalog or lookup failure
// returns nil so callers treat the condition as not met.
func (e *Engine) FetchCard(ctx context.Context, set, number string) *Card {
	if e.Catalog == nil {
		return nil
	}
	card, err := e.Catalog.FetchCard(ctx, set, number)
	if err != nil {
		return nil
	}
	return card
}
