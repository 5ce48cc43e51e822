package game

import (
	"github.com/google/uuid"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
)

// KindDoubleEnergyType is the passive ability kind that makes tokens of one
// type count double on the owner's Pokémon of a type.
const KindDoubleEnergyType = "double_energy_type"

// AttachObserver is notified after a token is attached.
type AttachObserver func(ci *CardInstance, e Energy)

// EnergyLedger owns every energy token attached to Pokémon in a match.
type EnergyLedger struct {
	state     *GameState
	tables    *effectdata.Tables
	observers []AttachObserver
}

// NewEnergyLedger creates a ledger over state. tables may be nil, in which
// case only the players' static multiplier rules apply.
func NewEnergyLedger(state *GameState, tables *effectdata.Tables) *EnergyLedger {
	return &EnergyLedger{state: state, tables: tables}
}

// Observe registers fn to be called after every Attach.
func (l *EnergyLedger) Observe(fn AttachObserver) {
	l.observers = append(l.observers, fn)
}

// Attach appends one token of type t to ci and returns it.
func (l *EnergyLedger) Attach(ci *CardInstance, t EnergyType) Energy {
	e := Energy{ID: uuid.NewString(), Type: t}
	ci.Energy = append(ci.Energy, e)
	for _, fn := range l.observers {
		fn(ci, e)
	}
	return e
}

// Remove removes up to count tokens matching t (EnergyAny for any type) in
// attachment order and returns how many were removed. Every removed token is
// tallied in the owner's discard-energy bucket for its type.
func (l *EnergyLedger) Remove(ci *CardInstance, t EnergyType, count int) int {
	if count <= 0 {
		return 0
	}
	owner := l.state.Players[ci.Owner]
	removed := 0
	kept := ci.Energy[:0]
	for _, e := range ci.Energy {
		if removed < count && t.Matches(e.Type) {
			owner.DiscardEnergy[e.Type]++
			removed++
			continue
		}
		kept = append(kept, e)
	}
	ci.Energy = kept
	return removed
}

// RemoveAll removes every token from ci.
func (l *EnergyLedger) RemoveAll(ci *CardInstance) int {
	return l.Remove(ci, EnergyAny, len(ci.Energy))
}

// Raw counts tokens matching t without multiplier rules.
func (l *EnergyLedger) Raw(ci *CardInstance, t EnergyType) int {
	n := 0
	for _, e := range ci.Energy {
		if t.Matches(e.Type) {
			n++
		}
	}
	return n
}

// Count sums the tokens matching t. A token's contribution is the factor of
// the best active multiplier rule of the owner that covers it, else 1.
// Rules are derived on every call.
func (l *EnergyLedger) Count(ci *CardInstance, t EnergyType) int {
	rules := l.Multipliers(ci.Owner)
	n := 0
	for _, e := range ci.Energy {
		if !t.Matches(e.Type) {
			continue
		}
		n += tokenFactor(ci, e, rules)
	}
	return n
}

// CountByType returns the multiplied contribution of ci's tokens per type.
func (l *EnergyLedger) CountByType(ci *CardInstance) map[EnergyType]int {
	rules := l.Multipliers(ci.Owner)
	out := make(map[EnergyType]int)
	for _, e := range ci.Energy {
		out[e.Type] += tokenFactor(ci, e, rules)
	}
	return out
}

func tokenFactor(ci *CardInstance, e Energy, rules []EnergyMultiplier) int {
	factor := 1
	for _, r := range rules {
		if r.Energy != e.Type {
			continue
		}
		pt := r.PokemonType
		if pt == EnergyAny {
			pt = r.Energy
		}
		if ci.Card.HasType(pt) && r.Factor > factor {
			factor = r.Factor
		}
	}
	return factor
}

// Multipliers returns the multiplier rules currently active for owner: the
// player's static rules plus one rule per double_energy_type passive ability
// on the owner's Pokémon in play.
func (l *EnergyLedger) Multipliers(owner int) []EnergyMultiplier {
	p := l.state.Players[owner]
	rules := append([]EnergyMultiplier(nil), p.EnergyMultipliers...)
	if l.tables == nil {
		return rules
	}
	for _, ci := range p.InPlay() {
		row, ok := l.tables.PassiveOfKind(ci.Card.Set, ci.Card.Number, KindDoubleEnergyType)
		if !ok {
			continue
		}
		et, ok := ParseEnergyType(row.Param1)
		if !ok || et == EnergyAny {
			continue
		}
		pt, ok := ParseEnergyType(row.Param2)
		if !ok {
			pt = EnergyAny
		}
		rules = append(rules, EnergyMultiplier{Energy: et, PokemonType: pt, Factor: 2})
	}
	return rules
}

// Transfer moves every token matching t from one Pokémon to another,
// keeping token identity, and returns how many moved.
func (l *EnergyLedger) Transfer(from, to *CardInstance, t EnergyType) int {
	moved := 0
	kept := from.Energy[:0]
	for _, e := range from.Energy {
		if t.Matches(e.Type) {
			to.Energy = append(to.Energy, e)
			moved++
			continue
		}
		kept = append(kept, e)
	}
	from.Energy = kept
	return moved
}

// Move relocates one specific token. Returns false if from does not hold it.
func (l *EnergyLedger) Move(from, to *CardInstance, energyID string) bool {
	for i, e := range from.Energy {
		if e.ID == energyID {
			from.Energy = append(from.Energy[:i], from.Energy[i+1:]...)
			to.Energy = append(to.Energy, e)
			return true
		}
	}
	return false
}

// CanPay reports whether ci's energy covers cost plus extra colorless.
// Typed requirements are matched first; colorless is paid from what is left.
func (l *EnergyLedger) CanPay(ci *CardInstance, cost []EnergyType, extra int) bool {
	avail := l.CountByType(ci)
	colorless := extra
	for _, c := range cost {
		if c == EnergyColorless || c == EnergyAny {
			colorless++
			continue
		}
		if avail[c] == 0 {
			return false
		}
		avail[c]--
	}
	left := 0
	for _, n := range avail {
		left += n
	}
	return left >= colorless
}
