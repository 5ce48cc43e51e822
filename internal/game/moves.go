package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
)

func init() {
	registerMove("flip_bonus_damage_if_heads", flipBonusDamageIfHeads)
	registerMove("flip_multiplier", flipMultiplier)
	registerMove("flip_multiplier_bonus", flipMultiplierBonus)
	registerMove("flip_until_tails_multiplier", flipUntilTailsMultiplier)
	registerMove("flip_do_nothing_if_tails", flipDoNothingIfTails)
	registerMove("flip_both_heads_bonus", flipBothHeadsBonus)
	registerMove("flip_inflict_status_both", flipInflictStatus)
	registerMove("inflict_status", inflictStatus)

	registerMove("bonus_damage_per_energy_attached", bonusPerEnergyAttached)
	registerMove("bonus_damage_for_each_energy_on_opponent", bonusPerOpponentEnergy)
	registerMove("bonus_damage_if_opponent_poisoned", bonusIf(func(ec *EffectContext) bool {
		d := ec.Defender()
		return d != nil && d.Status == StatusPoisoned
	}))
	registerMove("bonus_damage_if_evolution", bonusIf(func(ec *EffectContext) bool {
		d := ec.Defender()
		return d != nil && d.IsEvolved()
	}))
	registerMove("bonus_damage_if_damaged", bonusIf(func(ec *EffectContext) bool {
		return ec.Source.IsDamaged()
	}))
	registerMove("bonus_damage_if_multiple_energy_types", bonusIf(func(ec *EffectContext) bool {
		return len(ec.Energy().CountByType(ec.Source)) >= 2
	}))
	registerMove("bonus_damage_for_each_bench", bonusForEachBench)
	registerMove("bonus_damage_if_named_opponent", bonusIfNamedOpponent)
	registerMove("bonus_damage_if_named_bench", bonusIfNamedBench)
	registerMove("extra_damage_if_extra_energy_attached", extraEnergyBonus)
	registerMove("damage_equal_to_self_damage", damageEqualToSelfDamage)
	registerMove("stacking_damage_boost", stackingDamageBoost)

	registerMove("heal_self", healSelf)
	registerMove("heal_bench_one", healBenchOne)
	registerMove("bench_damage_one", benchDamageOne)
	registerMove("bench_damage_all_opponent", benchDamageAllOpponent)
	registerMove("self_damage_fixed_amount", selfDamage)
	registerMove("random_hits_opponent", randomHitsOpponent)
	fixedZeroKinds["random_hits_opponent"] = true

	registerMove("attach_energy_from_zone", attachEnergyFromZone)
	registerMove("discard_energy_specific", discardEnergySpecific)
	registerMove("discard_top_opponent_deck", discardTopDeck(true))
	registerMove("discard_top_own_deck", discardTopDeck(false))
	registerMove("switch_self_with_bench", switchSelfWithBench)
	registerMove("devolve_opponent", devolveOpponent)

	registerMove("prevent_supporter_next_turn", lockOpponent(EffectSupporterLock))
	registerMove("attack_lock_opponent_next_turn", lockOpponent(EffectAttackLock))
	registerMove("prevent_retreat_next_turn", lockOpponent(EffectRetreatLock))
	registerMove("increase_opponent_attack_cost", increaseOpponentAttackCost)
	registerMove("attack_lock_self_next_turn", attackLockSelfNextTurn)
	registerMove("reduce_damage_next_turn", reduceDamageNextTurn)
	registerMove("prevent_damage_and_effects_next_turn", preventDamageNextTurn)
}

// flipBonusDamageIfHeads: param1 coins, param2 bonus per heads. A row with
// only param1 is a single coin for that bonus.
func flipBonusDamageIfHeads(ctx context.Context, ec *EffectContext) (Outcome, error) {
	coins, bonus := ec.Row.IntParam1(1), ec.Row.IntParam2(0)
	if strings.TrimSpace(ec.Row.Param2) == "" {
		coins, bonus = 1, ec.Row.IntParam1(0)
	}
	heads, err := ec.FlipN(ctx, coins)
	if err != nil {
		return OK(), err
	}
	ec.Damage.AddBonus(heads * bonus)
	return OK(), nil
}

func applyHeadsMultiplier(ec *EffectContext, heads, perHeads int) {
	if ec.Damage.Multiplicative {
		ec.Damage.SetMultiplier(heads)
		return
	}
	ec.Damage.SetOverride(heads * perHeads)
}

// flipMultiplier: param1 coins, param2 damage per heads.
func flipMultiplier(ctx context.Context, ec *EffectContext) (Outcome, error) {
	heads, err := ec.FlipN(ctx, ec.Row.IntParam1(1))
	if err != nil {
		return OK(), err
	}
	applyHeadsMultiplier(ec, heads, ec.Row.IntParam2(ec.Damage.Base))
	return OK(), nil
}

// flipMultiplierBonus: param1 coins, param2 extra damage per heads.
func flipMultiplierBonus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	heads, err := ec.FlipN(ctx, ec.Row.IntParam1(1))
	if err != nil {
		return OK(), err
	}
	ec.Damage.AddBonus(heads * ec.Row.IntParam2(0))
	return OK(), nil
}

// flipUntilTailsMultiplier: param1 damage per heads.
func flipUntilTailsMultiplier(ctx context.Context, ec *EffectContext) (Outcome, error) {
	heads, err := ec.FlipUntilTails(ctx)
	if err != nil {
		return OK(), err
	}
	applyHeadsMultiplier(ec, heads, ec.Row.IntParam1(ec.Damage.Base))
	return OK(), nil
}

func flipDoNothingIfTails(ctx context.Context, ec *EffectContext) (Outcome, error) {
	r, err := ec.Flip(ctx)
	if err != nil {
		return OK(), err
	}
	if !r.IsHeads() {
		ec.Damage.SetOverride(0)
	}
	return OK(), nil
}

// flipBothHeadsBonus flips two coins; both heads adds param1.
func flipBothHeadsBonus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	heads, err := ec.FlipN(ctx, 2)
	if err != nil {
		return OK(), err
	}
	if heads == 2 {
		ec.Damage.AddBonus(ec.Row.IntParam1(0))
	}
	return OK(), nil
}

// parseStatuses reads "poisoned", "poisoned_paralyzed" or "burned;asleep".
func parseStatuses(s string) []Status {
	var out []Status
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ';' || r == '|' }) {
		if st, ok := ParseStatus(part); ok {
			out = append(out, st)
		}
	}
	return out
}

func inflictOnDefender(ctx context.Context, ec *EffectContext) {
	d := ec.Defender()
	for _, st := range parseStatuses(ec.Row.Param1) {
		ec.Engine.InflictStatus(ctx, d, st)
	}
}

func flipInflictStatus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	r, err := ec.Flip(ctx)
	if err != nil {
		return OK(), err
	}
	if r.IsHeads() && ec.Final() {
		inflictOnDefender(ctx, ec)
	}
	return OK(), nil
}

func inflictStatus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Final() {
		inflictOnDefender(ctx, ec)
	}
	return OK(), nil
}

// bonusPerEnergyAttached: param1 energy type, param2 bonus per token.
func bonusPerEnergyAttached(_ context.Context, ec *EffectContext) (Outcome, error) {
	t, ok := ParseEnergyType(ec.Row.Param1)
	if !ok {
		t = EnergyAny
	}
	ec.Damage.AddBonus(ec.Energy().Count(ec.Source, t) * ec.Row.IntParam2(0))
	return OK(), nil
}

// bonusPerOpponentEnergy: param1 bonus per token on the opposing Active.
func bonusPerOpponentEnergy(_ context.Context, ec *EffectContext) (Outcome, error) {
	d := ec.Defender()
	if d == nil {
		return OK(), nil
	}
	ec.Damage.AddBonus(ec.Energy().Count(d, EnergyAny) * ec.Row.IntParam1(0))
	return OK(), nil
}

// bonusIf adds param1 when cond holds.
func bonusIf(cond func(*EffectContext) bool) Handler {
	return func(_ context.Context, ec *EffectContext) (Outcome, error) {
		if cond(ec) {
			ec.Damage.AddBonus(ec.Row.IntParam1(0))
		}
		return OK(), nil
	}
}

func bonusForEachBench(_ context.Context, ec *EffectContext) (Outcome, error) {
	ec.Damage.AddBonus(len(ec.Me().Bench) * ec.Row.IntParam1(0))
	return OK(), nil
}

// bonusIfNamedOpponent: param1 name, param2 bonus when the opposing Active has that name.
func bonusIfNamedOpponent(_ context.Context, ec *EffectContext) (Outcome, error) {
	d := ec.Defender()
	if d != nil && effectdata.NormalizeName(d.Card.Name) == effectdata.NormalizeName(ec.Row.Param1) {
		ec.Damage.AddBonus(ec.Row.IntParam2(0))
	}
	return OK(), nil
}

// bonusIfNamedBench: param1 name, param2 bonus when it is on the attacker's bench.
func bonusIfNamedBench(_ context.Context, ec *EffectContext) (Outcome, error) {
	want := effectdata.NormalizeName(ec.Row.Param1)
	for _, b := range ec.Me().Bench {
		if effectdata.NormalizeName(b.Card.Name) == want {
			ec.Damage.AddBonus(ec.Row.IntParam2(0))
			break
		}
	}
	return OK(), nil
}

// extraEnergyBonus: param1 "extra|bonus", param2 energy type. The bonus
// applies when the attacker holds extra tokens of that type beyond the
// attack's own requirement.
func extraEnergyBonus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	extra, bonus := 1, 0
	parts := strings.SplitN(ec.Row.Param1, "|", 2)
	if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		extra = n
	}
	if len(parts) == 2 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			bonus = n
		}
	}
	if bonus == 0 {
		ec.Malformed(ctx, fmt.Sprintf("param1 %q has no bonus", ec.Row.Param1))
	}
	t, ok := ParseEnergyType(ec.Row.Param2)
	if !ok {
		t = EnergyAny
	}
	required := 0
	if atk, ok := ec.Source.Card.AttackByName(ec.Row.Name); ok {
		for _, c := range atk.Cost {
			if t.Matches(c) {
				required++
			}
		}
	}
	if ec.Energy().Count(ec.Source, t) >= required+extra {
		ec.Damage.AddBonus(bonus)
	}
	return OK(), nil
}

func damageEqualToSelfDamage(_ context.Context, ec *EffectContext) (Outcome, error) {
	ec.Damage.SetOverride(ec.Source.DamageCounters())
	return OK(), nil
}

// stackingDamageBoost: the attacker's next-turn attacks deal param1 more,
// stacking with earlier uses.
func stackingDamageBoost(_ context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	cur, _ := ec.Effects().InstanceValue(ec.Source.ID, InstanceDamageBoost)
	ec.Effects().SetInstance(ec.Source.ID, InstanceDamageBoost, cur+ec.Row.IntParam1(0), 3)
	return OK(), nil
}

func healSelf(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Final() {
		ec.Engine.Heal(ctx, ec.Source, ec.Row.IntParam1(0))
	}
	return OK(), nil
}

func damagedOf(list []*CardInstance) []*CardInstance {
	var out []*CardInstance
	for _, c := range list {
		if c.IsDamaged() {
			out = append(out, c)
		}
	}
	return out
}

func healBenchOne(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	pick, err := ec.Choose(ctx, "Choose a Benched Pokémon to heal", damagedOf(ec.Me().Bench), SelectInPlay)
	if err != nil || pick == nil {
		return OK(), err
	}
	ec.Engine.Heal(ctx, pick, ec.Row.IntParam1(0))
	return OK(), nil
}

func benchDamageOne(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	pick, err := ec.Choose(ctx, "Choose an opposing Benched Pokémon", ec.Opp().Bench, SelectInPlay)
	if err != nil || pick == nil {
		return OK(), err
	}
	_, err = ec.Engine.DealDamage(ctx, pick, ec.Row.IntParam1(0))
	return OK(), err
}

func benchDamageAllOpponent(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	amount := ec.Row.IntParam1(0)
	for _, b := range append([]*CardInstance(nil), ec.Opp().Bench...) {
		if _, err := ec.Engine.DealDamage(ctx, b, amount); err != nil {
			return OK(), err
		}
	}
	return OK(), nil
}

func selfDamage(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	_, err := ec.Engine.DealDamage(ctx, ec.Source, ec.Row.IntParam1(0))
	return OK(), err
}

// randomHitsOpponent: param1 hits, param2 damage per hit, each on a random
// opposing Pokémon. None of the attack's damage goes to the Active directly.
func randomHitsOpponent(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	hits, per := ec.Row.IntParam1(1), ec.Row.IntParam2(ec.Damage.Base)
	if per == 0 {
		per = ec.Row.DamageBase
	}
	for i := 0; i < hits; i++ {
		targets := ec.Opp().InPlay()
		if len(targets) == 0 || ec.State().Over {
			break
		}
		t := targets[ec.Engine.Coins.Intn(len(targets))]
		if _, err := ec.Engine.DealDamage(ctx, t, per); err != nil {
			return OK(), err
		}
	}
	return OK(), nil
}

// attachEnergyFromZone: param1 energy type, param2 count (default 1),
// attached to the attacker.
func attachEnergyFromZone(_ context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	t, ok := ParseEnergyType(ec.Row.Param1)
	if !ok || t == EnergyAny {
		t = ec.Source.Card.PrimaryType()
	}
	for i := 0; i < ec.Row.IntParam2(1); i++ {
		ec.Energy().Attach(ec.Source, t)
	}
	return OK(), nil
}

// discardEnergySpecific: param1 type or "all", param2 count or "all".
func discardEnergySpecific(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	t := EnergyAny
	if p := strings.ToLower(strings.TrimSpace(ec.Row.Param1)); p != "all" {
		if parsed, ok := ParseEnergyType(p); ok {
			t = parsed
		}
	}
	count := ec.Row.IntParam2(1)
	if strings.EqualFold(strings.TrimSpace(ec.Row.Param2), "all") {
		count = len(ec.Source.Energy)
	}
	n := ec.Energy().Remove(ec.Source, t, count)
	if n > 0 {
		ec.Engine.logDiscardEnergy(ctx, ec.Source, n)
	}
	return OK(), nil
}

// discardTopDeck: param1 number of cards.
func discardTopDeck(opponent bool) Handler {
	return func(_ context.Context, ec *EffectContext) (Outcome, error) {
		if !ec.Final() {
			return OK(), nil
		}
		p := ec.Me()
		if opponent {
			p = ec.Opp()
		}
		for i := 0; i < ec.Row.IntParam1(1) && len(p.Deck) > 0; i++ {
			top := p.Deck[len(p.Deck)-1]
			p.Deck = p.Deck[:len(p.Deck)-1]
			p.SendToDiscard(top)
		}
		return OK(), nil
	}
}

func switchSelfWithBench(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Final() {
		return OK(), nil
	}
	pick, err := ec.Choose(ctx, "Choose a Benched Pokémon to switch in", ec.Me().Bench, SelectInPlay)
	if err != nil || pick == nil {
		return OK(), err
	}
	ec.Engine.SwitchActive(ec.Player, pick)
	return OK(), nil
}

// devolveOpponent returns the top Stage of the opposing Active to its
// owner's hand. Damage carries over to the revealed card.
func devolveOpponent(ctx context.Context, ec *EffectContext) (Outcome, error) {
	d := ec.Defender()
	if !ec.Final() || d == nil || len(d.Evolutions) == 0 {
		return OK(), nil
	}
	owner := ec.Opp()
	damage := d.DamageCounters()
	toolBonus := 0
	if d.MaxHPOverride > 0 {
		toolBonus = d.MaxHPOverride - d.Card.HP
	}

	prev := d.Evolutions[len(d.Evolutions)-1]
	prev.Evolutions = d.Evolutions[:len(d.Evolutions)-1]
	prev.Energy = d.Energy
	prev.Tool = d.Tool
	prev.TurnPlaced = d.TurnPlaced
	prev.MaxHPOverride = 0
	if toolBonus > 0 {
		prev.MaxHPOverride = prev.Card.HP + toolBonus
	}
	prev.SetHP(prev.MaxHP() - damage)
	owner.PlaceActive(prev)

	d.Evolutions, d.Energy, d.Tool = nil, nil, nil
	d.MaxHPOverride = 0
	d.Status = StatusNone
	d.HP = d.Card.HP
	d.Zone = ZoneHand
	ec.Effects().ClearInstance(d.ID)
	owner.Hand = append(owner.Hand, d)
	if prev.HP == 0 {
		return OK(), ec.Engine.knockOut(ctx, prev)
	}
	return OK(), nil
}

func lockOpponent(name TurnEffect) Handler {
	return func(ctx context.Context, ec *EffectContext) (Outcome, error) {
		if ec.Final() {
			ec.Engine.ApplyTurnEffect(ctx, ec.Opponent(), name, 1)
		}
		return OK(), nil
	}
}

// increaseOpponentAttackCost: param1 extra colorless (default 1).
func increaseOpponentAttackCost(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Final() {
		ec.Engine.ApplyTurnEffect(ctx, ec.Opponent(), EffectAttackCostIncrease, ec.Row.IntParam1(1))
	}
	return OK(), nil
}

// attackLockSelfNextTurn keeps the attacker from attacking until its
// owner's next turn has ended.
func attackLockSelfNextTurn(_ context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Final() {
		ec.Effects().SetInstance(ec.Source.ID, InstanceCannotAttack, 1, 3)
	}
	return OK(), nil
}

// reduceDamageNextTurn: the attacker takes param1 less damage during the
// opponent's next turn.
func reduceDamageNextTurn(_ context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Final() {
		ec.Effects().SetInstance(ec.Source.ID, InstanceDamageReduction, ec.Row.IntParam1(0), 2)
	}
	return OK(), nil
}

// preventDamageNextTurn flips; on heads the attacker is shielded from
// damage and effects during the opponent's next turn.
func preventDamageNextTurn(ctx context.Context, ec *EffectContext) (Outcome, error) {
	r, err := ec.Flip(ctx)
	if err != nil {
		return OK(), err
	}
	if r.IsHeads() && ec.Final() {
		ec.Effects().SetInstance(ec.Source.ID, InstancePreventDamage, 1, 2)
	}
	return OK(), nil
}
