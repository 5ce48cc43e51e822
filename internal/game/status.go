package game

import (
	"context"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

// Checkup damage.
const (
	PoisonDamage = 10
	BurnDamage   = 20
)

// ApplyStatus sets the instance's status, replacing any previous one.
// Returns false when the instance is immune or s is StatusNone.
func (ci *CardInstance) ApplyStatus(s Status) bool {
	if s == StatusNone || ci.StatusImmune {
		return false
	}
	ci.Status = s
	return true
}

// ClearStatus removes any status.
func (ci *CardInstance) ClearStatus() {
	ci.Status = StatusNone
}

// StatusOf returns the instance's current status.
func (ci *CardInstance) StatusOf() Status {
	return ci.Status
}

// SetStatusImmune toggles immunity. Turning immunity on does not clear an
// existing status.
func (ci *CardInstance) SetStatusImmune(immune bool) {
	ci.StatusImmune = immune
}

// CanAct reports whether the status allows attacking or retreating.
func (ci *CardInstance) CanAct() bool {
	return ci.Status != StatusAsleep && ci.Status != StatusParalyzed
}

// InflictStatus applies s to target and logs it. It returns false when the
// status did not take.
func (e *Engine) InflictStatus(ctx context.Context, target *CardInstance, s Status) bool {
	if target == nil {
		return false
	}
	if _, ok := e.Tables.PassiveOfKind(target.Card.Set, target.Card.Number, KindImmuneToStatus); ok {
		return false
	}
	if _, ok := e.Effects.InstanceValue(target.ID, InstancePreventDamage); ok {
		return false
	}
	if !target.ApplyStatus(s) {
		return false
	}
	e.Log(ctx, log.NewStatusEvent(e.State.Turn, target.Owner, target.Card.Name, s.String()))
	return true
}

// CureStatus clears target's status and logs it if there was one.
func (e *Engine) CureStatus(ctx context.Context, target *CardInstance) {
	if target == nil || target.Status == StatusNone {
		return
	}
	prev := target.Status
	target.ClearStatus()
	e.Log(ctx, log.NewStatusClearedEvent(e.State.Turn, target.Owner, target.Card.Name, prev.String()))
}

// Checkup runs between turns on both Active Pokémon: poison and burn damage,
// the burn and sleep recovery flips, and paralysis wearing off for the
// player whose turn just ended.
func (e *Engine) Checkup(ctx context.Context, ending int) error {
	for _, owner := range []int{ending, e.State.Opponent(ending)} {
		active := e.State.Players[owner].Active
		if active == nil || active.Status == StatusNone {
			continue
		}
		if err := e.checkupOne(ctx, active, owner == ending); err != nil {
			return err
		}
		if e.State.Over {
			return nil
		}
	}
	return nil
}

func (e *Engine) checkupOne(ctx context.Context, ci *CardInstance, ownersTurnEnded bool) error {
	turn := e.State.Turn
	switch ci.Status {
	case StatusPoisoned:
		e.Log(ctx, log.NewCheckupEvent(turn, ci.Owner, ci.Card.Name, "poison", PoisonDamage))
		if _, err := e.DealDamage(ctx, ci, PoisonDamage); err != nil {
			return err
		}
	case StatusBurned:
		e.Log(ctx, log.NewCheckupEvent(turn, ci.Owner, ci.Card.Name, "burn", BurnDamage))
		knocked, err := e.DealDamage(ctx, ci, BurnDamage)
		if err != nil || knocked {
			return err
		}
		r, err := e.FlipVisible(ctx, ci.Owner)
		if err != nil {
			return err
		}
		if r.IsHeads() {
			e.CureStatus(ctx, ci)
		}
	case StatusAsleep:
		r, err := e.FlipVisible(ctx, ci.Owner)
		if err != nil {
			return err
		}
		if r.IsHeads() {
			e.CureStatus(ctx, ci)
		}
	case StatusParalyzed:
		if ownersTurnEnded {
			e.CureStatus(ctx, ci)
		}
	}
	return nil
}
