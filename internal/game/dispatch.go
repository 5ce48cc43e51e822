package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// Passive ability kinds consulted while resolving an attack.
const (
	KindCounterOnHit          = "counter_on_hit"
	KindCounterOnKO           = "counter_on_ko"
	KindReduceIncomingDamage  = "reduce_incoming_damage"
	KindReduceDamageFromTypes = "reduce_damage_from_types"
	KindPreventDamageFromEx   = "prevent_damage_from_ex"
	KindFlipReduceDamage      = "flip_reduce_damage"
	KindBlockSupporters       = "block_supporters"
	KindRemoveRetreatCost     = "remove_retreat_cost"
	KindZeroRetreatIfEnergy   = "zero_retreat_if_energy"
	KindImmuneToStatus        = "immune_to_status"
)

// Per-instance effect names set by move and ability handlers.
const (
	InstancePreventDamage   = "prevent_damage"
	InstanceDamageReduction = "damage_reduction"
)

// AttackResult describes one resolved attack.
type AttackResult struct {
	Attack     string
	Damage     int
	KnockedOut bool
	Outcome    Outcome
}

// CanUseAttack reports whether player's Active Pokémon may use the attack
// at index right now, and why not.
func (e *Engine) CanUseAttack(player, index int) (bool, string) {
	attacker := e.State.Players[player].Active
	if attacker == nil {
		return false, ErrNoActive.Error()
	}
	if index < 0 || index >= len(attacker.Card.Attacks) {
		return false, "no such attack"
	}
	if !e.Effects.CanAttack(player) {
		return false, "attacks are locked this turn"
	}
	if _, locked := e.Effects.InstanceValue(attacker.ID, InstanceCannotAttack); locked {
		return false, attacker.Card.Name + " can't attack this turn"
	}
	if !attacker.CanAct() {
		return false, attacker.Card.Name + " is " + attacker.Status.String()
	}
	atk := attacker.Card.Attacks[index]
	if !e.Energy.CanPay(attacker, atk.Cost, e.Effects.AttackCostIncrease(player)) {
		return false, "not enough energy"
	}
	return true, ""
}

// ResolveAttack resolves player's Active Pokémon's attack at index against
// the opposing Active Pokémon.
func (e *Engine) ResolveAttack(ctx context.Context, player, index int) (res AttackResult, err error) {
	attacker := e.State.Players[player].Active
	if ok, reason := e.CanUseAttack(player, index); !ok {
		res.Outcome = PreconditionFailed("%s", reason)
		e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, attacker.String(), reason))
		return res, nil
	}
	atk := attacker.Card.Attacks[index]
	res.Attack = atk.Name
	e.Log(ctx, log.NewAttackDeclareEvent(e.State.Turn, player, attacker.Card.Name, atk.Name))

	if attacker.Status == StatusConfused {
		r, err := e.FlipVisible(ctx, player)
		if err != nil {
			return res, err
		}
		if !r.IsHeads() {
			res.Outcome = PreconditionFailed("%s is confused", attacker.Card.Name)
			e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, attacker.Card.Name, "confused"))
			return res, nil
		}
	}

	kind := ""
	if row, ok := e.Tables.LookupMove(attacker.Card.Name, atk.Name); ok {
		kind = row.Kind
	}
	defer func() {
		if r := recover(); r != nil {
			rethrowGuard(r)
			err = e.effectFailed(ctx, player, attacker.Card.Name, kind, fmt.Errorf("panic: %v", r))
		}
	}()

	dmg, err := e.ComputeDamage(ctx, attacker, atk.Name, atk.BaseDamage(), Invocation{Final: true, Multiplicative: atk.Multiplicative()})
	if err != nil {
		if ctx.Err() != nil {
			return res, err
		}
		return res, e.effectFailed(ctx, player, attacker.Card.Name, kind, err)
	}
	res.Outcome = dmg.Outcome
	if !dmg.Outcome.Succeeded() {
		e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, attacker.Card.Name, dmg.Outcome.Reason))
		return res, nil
	}

	total := dmg.Total()
	if dmg.Multiplicative {
		total += e.Effects.AttackBoost(player)
	}
	defender := e.State.Players[e.State.Opponent(player)].Active
	if defender == nil || total <= 0 || !attacker.InPlay() {
		return res, nil
	}

	total, err = e.applyDefenderModifiers(ctx, attacker, defender, total)
	if err != nil {
		return res, err
	}
	counter := 0
	if row, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindCounterOnHit); ok && total > 0 {
		counter += row.IntParam1(0)
	}
	koCounter := 0
	if row, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindCounterOnKO); ok {
		koCounter = row.IntParam1(0)
	}

	res.Damage = total
	res.KnockedOut, err = e.DealDamage(ctx, defender, total)
	if err != nil {
		return res, err
	}
	if res.KnockedOut {
		counter += koCounter
	}
	if counter > 0 && attacker.InPlay() && !e.State.Over {
		if _, err := e.DealDamage(ctx, attacker, counter); err != nil {
			return res, err
		}
	}
	return res, nil
}

// applyDefenderModifiers applies weakness, then prevention, then reductions.
func (e *Engine) applyDefenderModifiers(ctx context.Context, attacker, defender *CardInstance, dmg int) (int, error) {
	if w := defender.Card.Weakness; w != EnergyAny && attacker.Card.HasType(w) {
		dmg += e.WeaknessBonus
	}
	owner := defender.Owner
	if e.Effects.IsDamagePrevented(owner) {
		return 0, nil
	}
	if _, ok := e.Effects.InstanceValue(defender.ID, InstancePreventDamage); ok {
		return 0, nil
	}
	if _, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindPreventDamageFromEx); ok && attacker.Card.IsEx() {
		return 0, nil
	}

	reduction := e.Effects.DamageReduction(owner)
	if v, ok := e.Effects.InstanceValue(defender.ID, InstanceDamageReduction); ok {
		reduction += v
	}
	if row, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindReduceIncomingDamage); ok {
		reduction += row.IntParam1(0)
	}
	if row, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindReduceDamageFromTypes); ok {
		for _, name := range row.ListParam1() {
			if t, ok := ParseEnergyType(name); ok && t != EnergyAny && attacker.Card.HasType(t) {
				reduction += row.IntParam2(0)
				break
			}
		}
	}
	if row, ok := e.Tables.PassiveOfKind(defender.Card.Set, defender.Card.Number, KindFlipReduceDamage); ok {
		r, err := e.FlipVisible(ctx, owner)
		if err != nil {
			return dmg, err
		}
		if r.IsHeads() {
			reduction += row.IntParam1(0)
		}
	}
	dmg -= reduction
	if dmg < 0 {
		dmg = 0
	}
	return dmg, nil
}

// SupportersBlocked reports whether an opposing passive ability stops
// player from playing Supporters.
func (e *Engine) SupportersBlocked(player int) bool {
	opp := e.State.Players[e.State.Opponent(player)].Active
	if opp == nil {
		return false
	}
	_, ok := e.Tables.PassiveOfKind(opp.Card.Set, opp.Card.Number, KindBlockSupporters)
	return ok
}

// CanPlayTrainer reports whether player may play a trainer of trainerType.
func (e *Engine) CanPlayTrainer(player int, trainerType string) (bool, string) {
	switch {
	case strings.EqualFold(trainerType, TrainerSupporter):
		if e.State.Players[player].SupporterPlayed {
			return false, "already played a Supporter this turn"
		}
		if !e.Effects.CanUseSupporter(player) || e.SupportersBlocked(player) {
			return false, "Supporters are blocked"
		}
	case strings.EqualFold(trainerType, TrainerItem), strings.EqualFold(trainerType, TrainerTool):
		if !e.Effects.CanUseItem(player) {
			return false, "Items are blocked"
		}
	}
	return true, ""
}

// ApplyTrainerEffect runs a trainer row for player. card is the trainer
// being played and target the Pokémon it was played onto, if any. A
// non-OK outcome means the card should go back to hand.
func (e *Engine) ApplyTrainerEffect(ctx context.Context, player int, row effectdata.Row, card, target *CardInstance) (out Outcome, err error) {
	if ok, reason := e.CanPlayTrainer(player, row.TrainerType); !ok {
		e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, row.Name, reason))
		return PreconditionFailed("%s", reason), nil
	}
	h, ok := TrainerEffects[row.Kind]
	if !ok {
		e.Logger.Log(log.NewEffectFailedEvent(e.State.Turn, player, row.Name, row.Kind, ErrUnknownEffect))
		return PreconditionFailed("%s has no effect", row.Name), nil
	}
	ec := &EffectContext{Engine: e, Player: player, Source: card, Target: target, Row: row, final: true}
	out, err = e.invoke(ctx, h, ec)
	if err != nil {
		return out, e.effectFailed(ctx, player, row.Name, row.Kind, err)
	}
	if out.Succeeded() {
		e.Log(ctx, log.NewTrainerEvent(e.State.Turn, player, row.Name, row.Kind))
	} else {
		e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, row.Name, out.String()))
	}
	return out, nil
}

// ApplyAbilityEffect runs source's active ability row for player. Each
// Pokémon may use its ability once per turn.
func (e *Engine) ApplyAbilityEffect(ctx context.Context, player int, row effectdata.Row, source *CardInstance) (Outcome, error) {
	if row.AbilityType == effectdata.AbilityPassive {
		return PreconditionFailed("%s is passive", row.Name), nil
	}
	if source.AbilityUsedTurn == e.State.Turn {
		return PreconditionFailed("%s was already used this turn", row.Name), nil
	}
	h, ok := AbilityEffects[row.Kind]
	if !ok {
		e.Logger.Log(log.NewEffectFailedEvent(e.State.Turn, player, source.Card.Name, row.Kind, ErrUnknownEffect))
		return PreconditionFailed("%s has no effect", row.Name), nil
	}
	ec := &EffectContext{Engine: e, Player: player, Source: source, Row: row, final: true}
	out, err := e.invoke(ctx, h, ec)
	if err != nil {
		return out, e.effectFailed(ctx, player, source.Card.Name, row.Kind, err)
	}
	if out.Succeeded() {
		source.AbilityUsedTurn = e.State.Turn
		e.Log(ctx, log.NewAbilityEvent(e.State.Turn, player, source.Card.Name, row.Name))
	} else {
		e.Log(ctx, log.NewPreconditionFailedEvent(e.State.Turn, player, row.Name, out.String()))
	}
	return out, nil
}

// ActiveAbility returns ci's usable ability row, if it has one.
func (e *Engine) ActiveAbility(ci *CardInstance) (effectdata.Row, bool) {
	for _, name := range ci.Card.Abilities {
		row, ok := e.Tables.LookupAbility(ci.Card.Set, ci.Card.Number, name)
		if ok && row.AbilityType == effectdata.AbilityActive {
			return row, true
		}
	}
	row, ok := e.Tables.LookupAbility(ci.Card.Set, ci.Card.Number, "")
	if ok && row.AbilityType == effectdata.AbilityActive {
		return row, true
	}
	return effectdata.Row{}, false
}

func (e *Engine) invoke(ctx context.Context, h Handler, ec *EffectContext) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			rethrowGuard(r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(ctx, ec)
}

// rethrowGuard re-panics values that flag a programming error rather than
// a card that misbehaved.
func rethrowGuard(r any) {
	if err, ok := r.(error); ok && errors.Is(err, ErrSelectionInProgress) {
		panic(r)
	}
}

// effectFailed reports a handler failure. Context errors pass through so
// the match loop can stop.
func (e *Engine) effectFailed(ctx context.Context, player int, source, kind string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e.Log(ctx, log.NewEffectFailedEvent(e.State.Turn, player, source, kind, err))
	return &EffectError{Source: source, Kind: kind, Err: err}
}
