package game

import (
	"context"
	"fmt"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// Passive ability kinds scanned on every attack.
const (
	KindBonusIfNamedInPlay = "bonus_if_named_in_play"
	KindBoostTypeDamage    = "boost_type_damage"
)

// DamageContext accumulates what a move handler contributes to one attack.
// In multiplicative mode amounts go to a separate total-bonus channel that
// is added after the per-unit damage is multiplied.
type DamageContext struct {
	Base           int
	Multiplicative bool

	damage     int
	totalBonus int
	multiplier int
	multSet    bool
}

func newDamageContext(base int, multiplicative bool) *DamageContext {
	return &DamageContext{Base: base, Multiplicative: multiplicative, damage: base}
}

// AddBonus adds n to the attack.
func (d *DamageContext) AddBonus(n int) {
	if d.Multiplicative {
		d.totalBonus += n
		return
	}
	d.damage += n
}

// SetOverride replaces the attack's damage. The last call wins. In
// multiplicative mode it replaces the total bonus and zeroes the
// multiplied part.
func (d *DamageContext) SetOverride(v int) {
	if d.Multiplicative {
		d.totalBonus = v
		d.multiplier = 0
		d.multSet = true
		return
	}
	d.damage = v
}

// SetMultiplier sets how many times the per-unit damage applies.
func (d *DamageContext) SetMultiplier(n int) {
	d.multiplier = n
	d.multSet = true
}

// Damage returns the current damage channel.
func (d *DamageContext) Damage() int { return d.damage }

// Invocation distinguishes a preview from the final resolution.
type Invocation struct {
	Final          bool
	Multiplicative bool
}

// DamageResult is what ComputeDamage produces.
type DamageResult struct {
	Attack         string
	Damage         int // non-multiplicative total, reconciled and boosted
	Multiplicative bool
	PerUnit        int
	Multiplier     int
	TotalBonus     int
	Row            effectdata.Row
	HasRow         bool
	Outcome        Outcome
}

// Total returns the damage to deal. In multiplicative mode the caller still
// adds the attack boost after this.
func (r DamageResult) Total() int {
	if r.Multiplicative {
		t := r.PerUnit*r.Multiplier + r.TotalBonus
		if t < 0 {
			return 0
		}
		return t
	}
	return r.Damage
}

type deltaEntry struct {
	attack string
	delta  int
	ok     bool
}

// DeltaCache holds at most one pending preview delta per player.
type DeltaCache struct {
	slots [2]deltaEntry
}

// Record stores the preview delta for player's attack.
func (c *DeltaCache) Record(player int, attack string, delta int) {
	c.slots[player] = deltaEntry{attack: effectdata.NormalizeName(attack), delta: delta, ok: true}
}

// Take returns the delta cached for attack and clears the slot. A slot
// holding a different attack is left untouched and reported as absent.
func (c *DeltaCache) Take(player int, attack string) (int, bool) {
	s := c.slots[player]
	if !s.ok || s.attack != effectdata.NormalizeName(attack) {
		return 0, false
	}
	c.slots[player] = deltaEntry{}
	return s.delta, true
}

// Pending reports the cached entry for player, if any.
func (c *DeltaCache) Pending(player int) (string, int, bool) {
	s := c.slots[player]
	return s.attack, s.delta, s.ok
}

// ComputeDamage runs attackName's move effect for attacker and returns the
// damage it deals to the opposing Active Pokémon before defender modifiers.
// Preview calls (inv.Final false) must not mutate the match.
func (e *Engine) ComputeDamage(ctx context.Context, attacker *CardInstance, attackName string, base int, inv Invocation) (DamageResult, error) {
	player := attacker.Owner
	row, hasRow := e.Tables.LookupMove(attacker.Card.Name, attackName)

	multiplicative := inv.Multiplicative || (hasRow && row.Multiplicative())
	perUnit := base
	if multiplicative {
		if hasRow && row.DamageBase > 0 {
			perUnit = row.DamageBase
		}
		base = 0
	}
	fixedZero := hasRow && fixedZeroKinds[row.Kind]
	if fixedZero {
		base = 0
	}

	dc := newDamageContext(base, multiplicative)
	dc.AddBonus(e.passiveAttackBonus(attacker))

	res := DamageResult{
		Attack:         attackName,
		Multiplicative: multiplicative,
		PerUnit:        perUnit,
		Row:            row,
		HasRow:         hasRow,
		Outcome:        OK(),
	}

	if hasRow && row.Kind != "" {
		h, ok := MoveEffects[row.Kind]
		if !ok {
			e.Logger.Log(log.NewEffectFailedEvent(e.State.Turn, player, attacker.Card.Name, row.Kind, ErrUnknownEffect))
		} else {
			ec := &EffectContext{
				Engine: e,
				Player: player,
				Source: attacker,
				Row:    row,
				Damage: dc,
				final:  inv.Final,
			}
			out, err := h(ctx, ec)
			if err != nil {
				return res, err
			}
			res.Outcome = out
		}
	}

	if multiplicative {
		res.TotalBonus = dc.totalBonus
		res.Multiplier = 1
		if dc.multSet {
			res.Multiplier = dc.multiplier
		}
		if inv.Final {
			e.Deltas.Take(player, attackName)
		}
		return res, nil
	}

	damage := dc.damage
	if !fixedZero {
		delta := dc.damage - base
		if !inv.Final {
			e.Deltas.Record(player, attackName, delta)
		} else if cached, ok := e.Deltas.Take(player, attackName); ok && cached != delta {
			// The previewed total already carries the cached delta; swap it
			// for the fresh one so no preview flip reaches the result.
			previewed := base + cached
			damage = previewed + (delta - cached)
		}
	} else if inv.Final {
		e.Deltas.Take(player, attackName)
	}
	if damage < 0 {
		damage = 0
	}
	res.Damage = damage + e.Effects.AttackBoost(player)
	return res, nil
}

// PreviewAttack projects the damage of attacker's attack at index.
func (e *Engine) PreviewAttack(ctx context.Context, attacker *CardInstance, index int) (dmg int, err error) {
	defer func() {
		if r := recover(); r != nil {
			rethrowGuard(r)
			dmg, err = 0, fmt.Errorf("preview panic: %v", r)
		}
	}()
	if index < 0 || index >= len(attacker.Card.Attacks) {
		return 0, fmt.Errorf("attack index %d out of range", index)
	}
	atk := attacker.Card.Attacks[index]
	res, err := e.ComputeDamage(ctx, attacker, atk.Name, atk.BaseDamage(), Invocation{Multiplicative: atk.Multiplicative()})
	if err != nil {
		return 0, err
	}
	total := res.Total()
	if res.Multiplicative {
		total += e.Effects.AttackBoost(attacker.Owner)
	}
	return total, nil
}

// passiveAttackBonus collects bonuses layered on every attack: a one-Pokémon
// boost left by an earlier attack, the attacker's own named-ally bonus and
// allies boosting the attacker's type.
func (e *Engine) passiveAttackBonus(attacker *CardInstance) int {
	owner := e.State.Players[attacker.Owner]
	bonus, _ := e.Effects.InstanceValue(attacker.ID, InstanceDamageBoost)
	if row, ok := e.Tables.PassiveOfKind(attacker.Card.Set, attacker.Card.Number, KindBonusIfNamedInPlay); ok {
		want := effectdata.NormalizeName(row.Param1)
		for _, ally := range owner.InPlay() {
			if ally.ID != attacker.ID && effectdata.NormalizeName(ally.Card.Name) == want {
				bonus += row.IntParam2(0)
				break
			}
		}
	}
	for _, ally := range owner.InPlay() {
		row, ok := e.Tables.PassiveOfKind(ally.Card.Set, ally.Card.Number, KindBoostTypeDamage)
		if !ok {
			continue
		}
		t, ok := ParseEnergyType(row.Param1)
		if ok && t != EnergyAny && attacker.Card.HasType(t) {
			bonus += row.IntParam2(0)
		}
	}
	return bonus
}
