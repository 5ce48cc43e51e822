package game

import (
	"context"
	"strconv"
	"strings"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
)

func init() {
	registerTrainer("heal_one_pokemon", healOnePokemon)
	registerTrainer("heal_and_remove_status", healAndRemoveStatus)
	registerTrainer("reduce_retreat_cost", reduceRetreatCost)
	registerTrainer("draw_cards", drawCards)
	registerTrainer("shuffle_hand_draw", shuffleHandDraw)
	registerTrainer("search_basic_to_hand", searchDeckToHand(func(_ *effectdata.Row, c *Card) bool { return c.IsBasic() }))
	registerTrainer("search_pokemon_type_random", searchDeckToHand(func(row *effectdata.Row, c *Card) bool {
		t, ok := ParseEnergyType(row.Param1)
		return c.IsPokemon() && (!ok || t == EnergyAny || c.HasType(t))
	}))
	registerTrainer("switch_active", switchActive)
	registerTrainer("force_opponent_switch", forceOpponentSwitch)
	registerTrainer("attack_boost_this_turn", attackBoostThisTurn)
	registerTrainer("move_energy_to_active", moveEnergyToActive)
	registerTrainer("tool_max_hp_bonus", toolMaxHPBonus)
}

// healOnePokemon: param1 amount, param2 optional type restriction.
func healOnePokemon(ctx context.Context, ec *EffectContext) (Outcome, error) {
	var candidates []*CardInstance
	t, typed := ParseEnergyType(ec.Row.Param2)
	for _, c := range damagedOf(ec.Me().InPlay()) {
		if !typed || t == EnergyAny || c.Card.HasType(t) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return PreconditionFailed("no damaged Pokémon"), nil
	}
	pick, err := ec.Choose(ctx, "Choose a Pokémon to heal", candidates, SelectInPlay)
	if err != nil {
		return OK(), err
	}
	if pick == nil {
		return Cancelled(), nil
	}
	ec.Engine.Heal(ctx, pick, ec.Row.IntParam1(0))
	return OK(), nil
}

// healAndRemoveStatus heals the Active Pokémon by param1 and cures it.
func healAndRemoveStatus(ctx context.Context, ec *EffectContext) (Outcome, error) {
	active := ec.Me().Active
	if active == nil {
		return PreconditionFailed("%v", ErrNoActive), nil
	}
	if !active.IsDamaged() && active.Status == StatusNone {
		return PreconditionFailed("nothing to heal"), nil
	}
	ec.Engine.Heal(ctx, active, ec.Row.IntParam1(0))
	ec.Engine.CureStatus(ctx, active)
	return OK(), nil
}

// reduceRetreatCost accepts either "n" or "type,n". With a type, the
// Active Pokémon must be of that type.
func reduceRetreatCost(ctx context.Context, ec *EffectContext) (Outcome, error) {
	n, err := strconv.Atoi(strings.TrimSpace(ec.Row.Param1))
	if err != nil {
		t, ok := ParseEnergyType(ec.Row.Param1)
		active := ec.Me().Active
		if ok && t != EnergyAny && (active == nil || !active.Card.HasType(t)) {
			return PreconditionFailed("Active Pokémon is not %s", t), nil
		}
		n = ec.Row.IntParam2(1)
	}
	ec.Engine.ApplyTurnEffect(ctx, ec.Player, EffectRetreatReduction, ec.Effects().RetreatReduction(ec.Player)+n)
	return OK(), nil
}

// drawCards: param1 number of cards.
func drawCards(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if len(ec.Me().Deck) == 0 {
		return PreconditionFailed("deck is empty"), nil
	}
	ec.Engine.DrawCards(ctx, ec.Player, ec.Row.IntParam1(2))
	return OK(), nil
}

// shuffleHandDraw shuffles the hand into the deck and draws param1 cards
// (default: as many as were shuffled in).
func shuffleHandDraw(ctx context.Context, ec *EffectContext) (Outcome, error) {
	p := ec.Me()
	shuffled := 0
	for _, c := range p.Hand {
		c.Zone = ZoneDeck
		p.Deck = append(p.Deck, c)
		shuffled++
	}
	p.Hand = p.Hand[:0]
	ec.Engine.ShuffleDeck(ctx, ec.Player)
	ec.Engine.DrawCards(ctx, ec.Player, ec.Row.IntParam1(shuffled))
	return OK(), nil
}

// searchDeckToHand puts a random matching card from the deck into the hand.
func searchDeckToHand(match func(*effectdata.Row, *Card) bool) Handler {
	return func(ctx context.Context, ec *EffectContext) (Outcome, error) {
		p := ec.Me()
		var found []*CardInstance
		for _, c := range p.Deck {
			if match(&ec.Row, c.Card) {
				found = append(found, c)
			}
		}
		if len(found) == 0 {
			return PreconditionFailed("no matching card in deck"), nil
		}
		pick := found[ec.Engine.Coins.Intn(len(found))]
		p.RemoveFromDeck(pick)
		pick.Zone = ZoneHand
		p.Hand = append(p.Hand, pick)
		ec.Engine.ShuffleDeck(ctx, ec.Player)
		return OK(), nil
	}
}

func switchActive(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if len(ec.Me().Bench) == 0 {
		return PreconditionFailed("bench is empty"), nil
	}
	pick, err := ec.Choose(ctx, "Choose a Benched Pokémon to switch in", ec.Me().Bench, SelectInPlay)
	if err != nil {
		return OK(), err
	}
	if pick == nil {
		return Cancelled(), nil
	}
	ec.Engine.SwitchActive(ec.Player, pick)
	return OK(), nil
}

// forceOpponentSwitch makes the opponent choose a Benched Pokémon to
// switch in. A cancelled choice falls back to their first Benched Pokémon.
func forceOpponentSwitch(ctx context.Context, ec *EffectContext) (Outcome, error) {
	opp := ec.Opp()
	if len(opp.Bench) == 0 {
		return PreconditionFailed("opponent's bench is empty"), nil
	}
	pick, err := ec.Engine.Select.Await(ctx, ec.Opponent(), "Choose a Benched Pokémon to switch in", opp.Bench, SelectInPlay)
	if err != nil {
		return OK(), err
	}
	if pick == nil {
		pick = opp.Bench[0]
	}
	ec.Engine.SwitchActive(ec.Opponent(), pick)
	return OK(), nil
}

// attackBoostThisTurn: param1 extra damage for every attack this turn.
func attackBoostThisTurn(ctx context.Context, ec *EffectContext) (Outcome, error) {
	ec.Engine.ApplyTurnEffect(ctx, ec.Player, EffectAttackBoost, ec.Effects().AttackBoost(ec.Player)+ec.Row.IntParam1(10))
	return OK(), nil
}

// moveEnergyToActive moves every token of param1's type from a chosen
// Benched Pokémon to the Active Pokémon.
func moveEnergyToActive(ctx context.Context, ec *EffectContext) (Outcome, error) {
	t, ok := ParseEnergyType(ec.Row.Param1)
	if !ok {
		t = EnergyAny
	}
	active := ec.Me().Active
	if active == nil {
		return PreconditionFailed("%v", ErrNoActive), nil
	}
	var holders []*CardInstance
	for _, b := range ec.Me().Bench {
		if ec.Energy().Raw(b, t) > 0 {
			holders = append(holders, b)
		}
	}
	if len(holders) == 0 {
		return PreconditionFailed("no Benched Pokémon has %s energy", t), nil
	}
	from, err := ec.Choose(ctx, "Choose a Benched Pokémon to move energy from", holders, SelectInPlay)
	if err != nil {
		return OK(), err
	}
	if from == nil {
		return Cancelled(), nil
	}
	n := ec.Energy().Transfer(from, active, t)
	ec.Engine.logTransferEnergy(ctx, from, active, n)
	return OK(), nil
}

// toolMaxHPBonus attaches the tool to the target and raises its maximum HP
// by param1. The printed HP is untouched.
func toolMaxHPBonus(_ context.Context, ec *EffectContext) (Outcome, error) {
	target := ec.Target
	if target == nil || !target.InPlay() {
		return PreconditionFailed("no target"), nil
	}
	if target.Tool != nil {
		return PreconditionFailed("%s already holds a tool", target.Card.Name), nil
	}
	bonus := ec.Row.IntParam1(0)
	target.Tool = ec.Source
	target.MaxHPOverride = target.MaxHP() + bonus
	target.SetHP(target.HP + bonus)
	return OK(), nil
}
