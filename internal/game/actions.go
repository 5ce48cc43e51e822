package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// LegalActions computes every action player may take right now. EndTurn is
// always last.
func (m *Match) LegalActions(player int) []Action {
	var actions []Action
	actions = append(actions, m.computePlayBasic(player)...)
	actions = append(actions, m.computeEvolve(player)...)
	actions = append(actions, m.computeAttachEnergy(player)...)
	actions = append(actions, m.computePlayTrainer(player)...)
	actions = append(actions, m.computeUseAbility(player)...)
	actions = append(actions, m.computeRetreat(player)...)
	actions = append(actions, m.computeAttack(player)...)
	return append(actions, Action{Type: ActionEndTurn, Player: player, Desc: "End Turn"})
}

func (m *Match) computePlayBasic(player int) []Action {
	p := m.State.Players[player]
	if len(p.Bench) >= m.BenchSize {
		return nil
	}
	var actions []Action
	for _, c := range p.HandBasics() {
		actions = append(actions, Action{
			Type: ActionPlayBasic, Player: player, Card: c,
			Desc: fmt.Sprintf("Play %s to the Bench", c.Card.Name),
		})
	}
	return actions
}

func (m *Match) computeEvolve(player int) []Action {
	gs := m.State
	if gs.Turn <= 2 {
		return nil
	}
	p := gs.Players[player]
	var actions []Action
	for _, h := range p.Hand {
		if !h.Card.IsPokemon() || h.Card.Stage == StageBasic || h.Card.EvolvesFrom == "" {
			continue
		}
		for _, base := range p.InPlay() {
			if effectdata.NormalizeName(base.Card.Name) != effectdata.NormalizeName(h.Card.EvolvesFrom) {
				continue
			}
			if base.TurnPlaced >= gs.Turn || base.TurnEvolved >= gs.Turn {
				continue
			}
			actions = append(actions, Action{
				Type: ActionEvolve, Player: player, Card: h, Target: base,
				Desc: fmt.Sprintf("Evolve %s into %s", base.Card.Name, h.Card.Name),
			})
		}
	}
	return actions
}

func (m *Match) computeAttachEnergy(player int) []Action {
	p := m.State.Players[player]
	if p.EnergyAttached || p.CurrentEnergy == EnergyAny {
		return nil
	}
	var actions []Action
	for _, c := range p.InPlay() {
		actions = append(actions, Action{
			Type: ActionAttachEnergy, Player: player, Target: c,
			Desc: fmt.Sprintf("Attach %s energy to %s", p.CurrentEnergy, c.Card.Name),
		})
	}
	return actions
}

// trainerRow resolves a trainer card's row by set and number, then by name.
func (m *Match) trainerRow(c *CardInstance) (effectdata.Row, bool) {
	if row, ok := m.Tables.LookupTrainer(c.Card.Set, c.Card.Number); ok {
		return row, true
	}
	return m.Tables.LookupTrainerByName(c.Card.Name)
}

func (m *Match) computePlayTrainer(player int) []Action {
	p := m.State.Players[player]
	var actions []Action
	for _, c := range p.Hand {
		if c.Card.Category != CategoryTrainer {
			continue
		}
		row, ok := m.trainerRow(c)
		if !ok {
			continue
		}
		trainerType := row.TrainerType
		if trainerType == "" {
			trainerType = c.Card.TrainerType
		}
		if ok, _ := m.CanPlayTrainer(player, trainerType); !ok {
			continue
		}
		if strings.EqualFold(trainerType, TrainerTool) {
			for _, target := range p.InPlay() {
				if target.Tool != nil {
					continue
				}
				actions = append(actions, Action{
					Type: ActionPlayTrainer, Player: player, Card: c, Target: target,
					Desc: fmt.Sprintf("Attach %s to %s", c.Card.Name, target.Card.Name),
				})
			}
			continue
		}
		actions = append(actions, Action{
			Type: ActionPlayTrainer, Player: player, Card: c,
			Desc: "Play " + c.Card.Name,
		})
	}
	return actions
}

func (m *Match) computeUseAbility(player int) []Action {
	var actions []Action
	for _, c := range m.State.Players[player].InPlay() {
		if c.AbilityUsedTurn == m.State.Turn {
			continue
		}
		row, ok := m.ActiveAbility(c)
		if !ok {
			continue
		}
		actions = append(actions, Action{
			Type: ActionUseAbility, Player: player, Card: c, Ability: row.Name,
			Desc: fmt.Sprintf("Use %s's %s", c.Card.Name, row.Name),
		})
	}
	return actions
}

// RetreatCost returns the energy ci must discard to retreat.
func (m *Match) RetreatCost(ci *CardInstance) int {
	if _, ok := m.Tables.PassiveOfKind(ci.Card.Set, ci.Card.Number, KindRemoveRetreatCost); ok {
		return 0
	}
	if _, ok := m.Tables.PassiveOfKind(ci.Card.Set, ci.Card.Number, KindZeroRetreatIfEnergy); ok && len(ci.Energy) > 0 {
		return 0
	}
	cost := ci.Card.RetreatCost - m.Effects.RetreatReduction(ci.Owner)
	if cost < 0 {
		cost = 0
	}
	return cost
}

func (m *Match) computeRetreat(player int) []Action {
	p := m.State.Players[player]
	active := p.Active
	if active == nil || p.Retreated || len(p.Bench) == 0 {
		return nil
	}
	if !m.Effects.CanRetreat(player) || !active.CanAct() {
		return nil
	}
	if len(active.Energy) < m.RetreatCost(active) {
		return nil
	}
	var actions []Action
	for _, b := range p.Bench {
		actions = append(actions, Action{
			Type: ActionRetreat, Player: player, Card: active, Target: b,
			Desc: fmt.Sprintf("Retreat %s for %s", active.Card.Name, b.Card.Name),
		})
	}
	return actions
}

func (m *Match) computeAttack(player int) []Action {
	// The player going first cannot attack on their first turn.
	if m.State.Turn <= 1 {
		return nil
	}
	active := m.State.Players[player].Active
	if active == nil {
		return nil
	}
	var actions []Action
	for i, atk := range active.Card.Attacks {
		if ok, _ := m.CanUseAttack(player, i); !ok {
			continue
		}
		actions = append(actions, Action{
			Type: ActionAttack, Player: player, Card: active, Attack: i,
			Desc: fmt.Sprintf("%s uses %s", active.Card.Name, atk.Name),
		})
	}
	return actions
}

// Execute performs a chosen action. done reports whether the turn is over.
// An *EffectError leaves the match running.
func (m *Match) Execute(ctx context.Context, a Action) (done bool, err error) {
	switch a.Type {
	case ActionPlayBasic:
		m.executePlayBasic(ctx, a)
	case ActionEvolve:
		m.executeEvolve(ctx, a)
	case ActionAttachEnergy:
		m.executeAttachEnergy(a)
	case ActionPlayTrainer:
		return false, m.executePlayTrainer(ctx, a)
	case ActionUseAbility:
		return false, m.executeUseAbility(ctx, a)
	case ActionRetreat:
		m.executeRetreat(ctx, a)
	case ActionAttack:
		return true, m.executeAttack(ctx, a)
	case ActionEndTurn:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported action %s", a.Type)
	}
	return false, nil
}

func (m *Match) executePlayBasic(ctx context.Context, a Action) {
	p := m.State.Players[a.Player]
	if !p.RemoveFromHand(a.Card) {
		return
	}
	if !p.PlaceOnBench(a.Card, m.BenchSize) {
		a.Card.Zone = ZoneHand
		p.Hand = append(p.Hand, a.Card)
		return
	}
	a.Card.TurnPlaced = m.State.Turn
	m.Log(ctx, log.NewPlayBasicEvent(m.State.Turn, a.Player, a.Card.Card.Name, ZoneBench.String()))
}

// executeEvolve puts the evolution on top of its base. Damage, energy and
// the tool carry over. Status and per-instance effects do not.
func (m *Match) executeEvolve(ctx context.Context, a Action) {
	p := m.State.Players[a.Player]
	evo, base := a.Card, a.Target
	if !p.RemoveFromHand(evo) {
		return
	}
	damage := base.DamageCounters()
	toolBonus := 0
	if base.MaxHPOverride > 0 {
		toolBonus = base.MaxHPOverride - base.Card.HP
	}

	evo.Evolutions = append(base.Evolutions, base)
	evo.Energy = base.Energy
	evo.Tool = base.Tool
	evo.TurnPlaced = base.TurnPlaced
	evo.TurnEvolved = m.State.Turn
	evo.MaxHPOverride = 0
	if toolBonus > 0 {
		evo.MaxHPOverride = evo.Card.HP + toolBonus
	}
	evo.SetHP(evo.MaxHP() - damage)

	base.Evolutions = nil
	base.Energy = nil
	base.Tool = nil
	base.ClearStatus()
	m.Effects.ClearInstance(base.ID)

	if p.Active == base {
		p.PlaceActive(evo)
	} else {
		for i, b := range p.Bench {
			if b == base {
				evo.Zone = ZoneBench
				p.Bench[i] = evo
				break
			}
		}
	}
	base.Zone = ZoneDiscard
	m.Log(ctx, log.NewEvolveEvent(m.State.Turn, a.Player, base.Card.Name, evo.Card.Name))
}

func (m *Match) executeAttachEnergy(a Action) {
	p := m.State.Players[a.Player]
	if p.EnergyAttached || p.CurrentEnergy == EnergyAny {
		return
	}
	m.Energy.Attach(a.Target, p.CurrentEnergy)
	p.EnergyAttached = true
	p.CurrentEnergy = EnergyAny
}

// executePlayTrainer removes the card from hand and runs its row. A card
// whose effect did not go through returns to hand; Tools stay attached.
func (m *Match) executePlayTrainer(ctx context.Context, a Action) error {
	p := m.State.Players[a.Player]
	row, ok := m.trainerRow(a.Card)
	if !ok || !p.RemoveFromHand(a.Card) {
		return nil
	}
	if row.TrainerType == "" {
		row.TrainerType = a.Card.Card.TrainerType
	}
	out, err := m.ApplyTrainerEffect(ctx, a.Player, row, a.Card, a.Target)
	if err == nil && !out.Succeeded() {
		a.Card.Zone = ZoneHand
		p.Hand = append(p.Hand, a.Card)
		return nil
	}
	if strings.EqualFold(row.TrainerType, TrainerSupporter) {
		p.SupporterPlayed = true
	}
	if err != nil || !strings.EqualFold(row.TrainerType, TrainerTool) {
		p.SendToDiscard(a.Card)
	}
	return err
}

func (m *Match) executeUseAbility(ctx context.Context, a Action) error {
	row, ok := m.ActiveAbility(a.Card)
	if !ok {
		return nil
	}
	_, err := m.ApplyAbilityEffect(ctx, a.Player, row, a.Card)
	return err
}

func (m *Match) executeRetreat(ctx context.Context, a Action) {
	p := m.State.Players[a.Player]
	active := p.Active
	if active == nil || active != a.Card {
		return
	}
	if cost := m.RetreatCost(active); cost > 0 {
		n := m.Energy.Remove(active, EnergyAny, cost)
		m.logDiscardEnergy(ctx, active, n)
	}
	if !m.SwitchActive(a.Player, a.Target) {
		return
	}
	p.Retreated = true
	m.Log(ctx, log.NewRetreatEvent(m.State.Turn, a.Player, active.Card.Name, a.Target.Card.Name))
}

// executeAttack shows the projected damage, then resolves the attack.
func (m *Match) executeAttack(ctx context.Context, a Action) error {
	attacker := m.State.Players[a.Player].Active
	if attacker == nil || a.Attack < 0 || a.Attack >= len(attacker.Card.Attacks) {
		return nil
	}
	preview, err := m.PreviewAttack(ctx, attacker, a.Attack)
	if err != nil {
		return err
	}
	m.Log(ctx, log.NewDamagePreviewEvent(m.State.Turn, a.Player, attacker.Card.Attacks[a.Attack].Name, preview))
	_, err = m.ResolveAttack(ctx, a.Player, a.Attack)
	return err
}
