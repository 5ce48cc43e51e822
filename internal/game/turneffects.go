package game

// TurnEffect names a player-scoped ephemeral effect.
type TurnEffect string

const (
	EffectAttackLock         TurnEffect = "attack_lock"
	EffectRetreatLock        TurnEffect = "retreat_lock"
	EffectSupporterLock      TurnEffect = "supporter_lock"
	EffectItemLock           TurnEffect = "item_lock"
	EffectDamageReduction    TurnEffect = "damage_reduction"
	EffectDamagePrevention   TurnEffect = "damage_prevention"
	EffectAttackCostIncrease TurnEffect = "attack_cost_increase"
	EffectAttackBoost        TurnEffect = "attack_boost"
	EffectRetreatReduction   TurnEffect = "retreat_reduction"
)

// Per-instance effect names.
const (
	InstanceCannotAttack = "cannot_attack"
	InstanceDamageBoost  = "damage_boost"
)

// ownTurnEffects last only for the turn of the player holding them.
var ownTurnEffects = map[TurnEffect]bool{
	EffectAttackLock:       true,
	EffectAttackBoost:      true,
	EffectRetreatReduction: true,
}

// nextTurnEffects are placed on the opponent during one turn and must
// survive until the end of that opponent's following turn.
var nextTurnEffects = map[TurnEffect]bool{
	EffectAttackLock:         true,
	EffectItemLock:           true,
	EffectSupporterLock:      true,
	EffectRetreatLock:        true,
	EffectAttackCostIncrease: true,
}

type instanceEffect struct {
	value int
	turns int
}

// TurnEffects is the turn-scoped ephemeral effect store. Callers must invoke
// OnTurnEnd exactly once per turn, alternating players.
type TurnEffects struct {
	bags      [2]map[TurnEffect]int
	instances map[string]map[string]*instanceEffect
}

// NewTurnEffects creates an empty store.
func NewTurnEffects() *TurnEffects {
	return &TurnEffects{
		bags:      [2]map[TurnEffect]int{{}, {}},
		instances: make(map[string]map[string]*instanceEffect),
	}
}

// Set stores value under name for player, replacing any previous value.
func (t *TurnEffects) Set(player int, name TurnEffect, value int) {
	t.bags[player][name] = value
}

// Add accumulates value onto name for player.
func (t *TurnEffects) Add(player int, name TurnEffect, value int) {
	t.bags[player][name] += value
}

// Get returns the stored value for player.
func (t *TurnEffects) Get(player int, name TurnEffect) (int, bool) {
	v, ok := t.bags[player][name]
	return v, ok
}

// Has reports whether name is set for player.
func (t *TurnEffects) Has(player int, name TurnEffect) bool {
	_, ok := t.bags[player][name]
	return ok
}

// ClearAll empties the player's bag.
func (t *TurnEffects) ClearAll(player int) {
	t.bags[player] = map[TurnEffect]int{}
}

// Snapshot returns a copy of the player's bag.
func (t *TurnEffects) Snapshot(player int) map[TurnEffect]int {
	out := make(map[TurnEffect]int, len(t.bags[player]))
	for k, v := range t.bags[player] {
		out[k] = v
	}
	return out
}

func (t *TurnEffects) CanAttack(player int) bool       { return !t.Has(player, EffectAttackLock) }
func (t *TurnEffects) CanRetreat(player int) bool      { return !t.Has(player, EffectRetreatLock) }
func (t *TurnEffects) CanUseSupporter(player int) bool { return !t.Has(player, EffectSupporterLock) }
func (t *TurnEffects) CanUseItem(player int) bool      { return !t.Has(player, EffectItemLock) }

func (t *TurnEffects) DamageReduction(player int) int {
	v, _ := t.Get(player, EffectDamageReduction)
	return v
}

func (t *TurnEffects) IsDamagePrevented(player int) bool {
	return t.Has(player, EffectDamagePrevention)
}

func (t *TurnEffects) AttackCostIncrease(player int) int {
	v, _ := t.Get(player, EffectAttackCostIncrease)
	return v
}

func (t *TurnEffects) AttackBoost(player int) int {
	v, _ := t.Get(player, EffectAttackBoost)
	return v
}

func (t *TurnEffects) RetreatReduction(player int) int {
	v, _ := t.Get(player, EffectRetreatReduction)
	return v
}

// OnTurnEnd expires effects at the end of ending's turn:
//  1. the ending player's own-turn effects;
//  2. everything in the opponent's bag except next-turn locks, so locks
//     placed this turn reach the opponent's coming turn;
//  3. the ending player's locks, which covered the turn that just ended.
//
// Every per-instance effect loses one turn end.
func (t *TurnEffects) OnTurnEnd(ending int) {
	own := t.bags[ending]
	for name := range own {
		if ownTurnEffects[name] {
			delete(own, name)
		}
	}

	opp := t.bags[1-ending]
	for name := range opp {
		if !nextTurnEffects[name] {
			delete(opp, name)
		}
	}

	delete(own, EffectItemLock)
	delete(own, EffectSupporterLock)
	delete(own, EffectRetreatLock)
	delete(own, EffectAttackCostIncrease)

	t.expireInstances()
}

// SetInstance attaches an effect to one Pokémon. It is removed at the
// turnEnds-th turn end from now, counting the current turn's end.
func (t *TurnEffects) SetInstance(instanceID string, name string, value, turnEnds int) {
	m := t.instances[instanceID]
	if m == nil {
		m = make(map[string]*instanceEffect)
		t.instances[instanceID] = m
	}
	m[name] = &instanceEffect{value: value, turns: turnEnds}
}

// InstanceValue returns a per-instance effect's value.
func (t *TurnEffects) InstanceValue(instanceID, name string) (int, bool) {
	eff, ok := t.instances[instanceID][name]
	if !ok {
		return 0, false
	}
	return eff.value, true
}

// ClearInstance drops every effect on one Pokémon (it left play).
func (t *TurnEffects) ClearInstance(instanceID string) {
	delete(t.instances, instanceID)
}

func (t *TurnEffects) expireInstances() {
	for id, m := range t.instances {
		for name, eff := range m {
			eff.turns--
			if eff.turns <= 0 {
				delete(m, name)
			}
		}
		if len(m) == 0 {
			delete(t.instances, id)
		}
	}
}
