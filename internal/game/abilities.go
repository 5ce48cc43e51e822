package game

import "context"

func init() {
	registerAbility("heal", healOneOfType)
	registerAbility("heal_self", abilityHealSelf)
	registerAbility("heal_all", healAll)
	registerAbility("draw_cards", abilityDraw)
	registerAbility("attach_energy_from_zone", abilityAttachEnergy)
	registerAbility("damage_opponent_active", damageOpponentActive)
	registerAbility("guarantee_next_heads", guaranteeNextHeads)
	registerAbility("switch_opponent_active", forceOpponentSwitch)
}

// healOneOfType: param1 amount, param2 optional type. Heals one chosen
// Pokémon of the owner.
func healOneOfType(ctx context.Context, ec *EffectContext) (Outcome, error) {
	return healOnePokemon(ctx, ec)
}

func abilityHealSelf(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if !ec.Source.IsDamaged() {
		return PreconditionFailed("%s has no damage", ec.Source.Card.Name), nil
	}
	ec.Engine.Heal(ctx, ec.Source, ec.Row.IntParam1(0))
	return OK(), nil
}

// healAll: param1 amount for each of the owner's Pokémon.
func healAll(ctx context.Context, ec *EffectContext) (Outcome, error) {
	damaged := damagedOf(ec.Me().InPlay())
	if len(damaged) == 0 {
		return PreconditionFailed("no damaged Pokémon"), nil
	}
	for _, c := range damaged {
		ec.Engine.Heal(ctx, c, ec.Row.IntParam1(0))
	}
	return OK(), nil
}

func abilityDraw(ctx context.Context, ec *EffectContext) (Outcome, error) {
	if len(ec.Me().Deck) == 0 {
		return PreconditionFailed("deck is empty"), nil
	}
	ec.Engine.DrawCards(ctx, ec.Player, ec.Row.IntParam1(1))
	return OK(), nil
}

// abilityAttachEnergy: param1 type, attached to this Pokémon. param2
// "active" restricts the ability to the Active Spot.
func abilityAttachEnergy(_ context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Row.Param2 == "active" && ec.Source.Zone != ZoneActive {
		return PreconditionFailed("%s must be Active", ec.Source.Card.Name), nil
	}
	t, ok := ParseEnergyType(ec.Row.Param1)
	if !ok || t == EnergyAny {
		t = ec.Source.Card.PrimaryType()
	}
	ec.Energy().Attach(ec.Source, t)
	return OK(), nil
}

// damageOpponentActive: param1 damage to the opposing Active Pokémon.
func damageOpponentActive(ctx context.Context, ec *EffectContext) (Outcome, error) {
	d := ec.Defender()
	if d == nil {
		return PreconditionFailed("%v", ErrNoActive), nil
	}
	_, err := ec.Engine.DealDamage(ctx, d, ec.Row.IntParam1(10))
	return OK(), err
}

// guaranteeNextHeads makes the owner's next coin flip heads.
func guaranteeNextHeads(_ context.Context, ec *EffectContext) (Outcome, error) {
	if ec.Engine.Coins.HasGuarantee(ec.Player) {
		return PreconditionFailed("next flip is already heads"), nil
	}
	ec.Engine.Coins.GuaranteeHeads(ec.Player)
	return OK(), nil
}
