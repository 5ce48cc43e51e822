package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

const damageMoves = `T1,25,Pikachu,Thunder Jolt,flip_bonus_damage_if_heads,30,,,20,20+
T1,26,Raichu,Gamble Bolt,flip_do_nothing_if_tails,,,,30,30
T1,33,Farfetch'd,Leek Slap,flip_multiplier,2,40,,0,40x
T1,50,Gardevoir,Psy Bench,bonus_damage_for_each_bench,10,,,30,30+
T1,51,Gardevoir,Echo,bonus_damage_for_each_bench,10,,,20,20x
T1,90,Sapper,Energy Sap,bonus_damage_for_each_energy_on_opponent,20,,,0,
T1,91,Mystery,Fizzle,no_such_kind,,,,30,30
T1,95,Bouncer,Random Shots,random_hits_opponent,3,10,,0,
`

func damageFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixture(t, tablesFromCSV(t, damageMoves,
		"T1,40,Coach,Fire Coach,passive,boost_type_damage,fire,20,\n", ""))
}

func computeFinal(t *testing.T, f *fixture, attacker *CardInstance, attack string, base int, mult bool) DamageResult {
	t.Helper()
	res, err := f.e.ComputeDamage(context.Background(), attacker, attack, base, Invocation{Final: true, Multiplicative: mult})
	require.NoError(t, err)
	return res
}

func computePreview(t *testing.T, f *fixture, attacker *CardInstance, attack string, base int, mult bool) DamageResult {
	t.Helper()
	res, err := f.e.ComputeDamage(context.Background(), attacker, attack, base, Invocation{Multiplicative: mult})
	require.NoError(t, err)
	return res
}

func TestDeterministicPreviewMatchesFinal(t *testing.T) {
	f := damageFixture(t)
	g := f.active(0, pokemon("T1", "50", "Gardevoir", 110, EnergyPsychic))
	f.bench(0, filler())
	f.bench(0, filler())
	f.active(1, filler())

	preview := computePreview(t, f, g, "Psy Bench", 30, false)
	_, _, pending := f.e.Deltas.Pending(0)
	assert.True(t, pending)

	final := computeFinal(t, f, g, "Psy Bench", 30, false)
	assert.Equal(t, 50, preview.Total())
	assert.Equal(t, preview.Total(), final.Total())
	_, _, pending = f.e.Deltas.Pending(0)
	assert.False(t, pending, "a final call clears the slot")
}

func TestSingleFlipBonusIsNotCountedTwice(t *testing.T) {
	const trials = 1000
	bonus := 0
	for i := 1; i <= trials; i++ {
		f := damageFixture(t)
		f.e.Coins = NewCoinFlipper(int64(i))
		p := f.active(0, pokemon("T1", "25", "Pikachu", 60, EnergyLightning))
		f.active(1, filler())

		computePreview(t, f, p, "Thunder Jolt", 20, false)
		final := computeFinal(t, f, p, "Thunder Jolt", 20, false)

		require.Contains(t, []int{20, 50}, final.Total(), "trial %d", i)
		if final.Total() == 50 {
			bonus++
		}
	}
	assert.InDelta(t, trials/2, bonus, 70, "bonus must track one fair flip")
}

func TestDoNothingIfTailsStaysInHandlerRange(t *testing.T) {
	const trials = 1000
	hits := 0
	for i := 1; i <= trials; i++ {
		f := damageFixture(t)
		f.e.Coins = NewCoinFlipper(int64(i))
		r := f.active(0, pokemon("T1", "26", "Raichu", 100, EnergyLightning))
		f.active(1, filler())

		computePreview(t, f, r, "Gamble Bolt", 30, false)
		final := computeFinal(t, f, r, "Gamble Bolt", 30, false)

		require.Contains(t, []int{0, 30}, final.Total(), "trial %d", i)
		if final.Total() == 30 {
			hits++
		}
	}
	assert.InDelta(t, trials/2, hits, 70)
}

func TestFinalForOtherAttackKeepsPendingDelta(t *testing.T) {
	f := damageFixture(t)
	g := f.active(0, pokemon("T1", "50", "Gardevoir", 110, EnergyPsychic))
	f.active(1, filler())

	computePreview(t, f, g, "Psy Bench", 30, false)
	computeFinal(t, f, g, "Fizzle", 30, false)

	name, _, ok := f.e.Deltas.Pending(0)
	assert.True(t, ok)
	assert.Equal(t, "psy bench", name)
}

func TestMultiplicativeFlipDamage(t *testing.T) {
	f := damageFixture(t)
	ff := f.active(0, pokemon("T1", "33", "Farfetch'd", 60, EnergyColorless))
	f.active(1, filler())

	res := computeFinal(t, f, ff, "Leek Slap", 40, true)
	heads := 0
	for _, ev := range f.logger.EventsOfType(log.EventCoinFlip) {
		heads += ev.Amount
	}
	assert.Len(t, f.logger.EventsOfType(log.EventCoinFlip), 2)
	assert.True(t, res.Multiplicative)
	assert.Equal(t, 40, res.PerUnit)
	assert.Equal(t, heads, res.Multiplier)
	assert.Equal(t, 40*heads, res.Total())
}

func TestMultiplicativeDefaultsToOneUnitAndKeepsBonusSeparate(t *testing.T) {
	f := damageFixture(t)
	g := f.active(0, pokemon("T1", "51", "Gardevoir", 110, EnergyPsychic))
	f.bench(0, filler())
	f.active(1, filler())

	res := computeFinal(t, f, g, "Echo", 20, true)
	assert.Equal(t, 1, res.Multiplier)
	assert.Equal(t, 10, res.TotalBonus)
	assert.Equal(t, 30, res.Total())
}

func TestBonusForEachEnergyOnOpponentEndToEnd(t *testing.T) {
	f := damageFixture(t)
	attacker := f.active(0, pokemon("T1", "90", "Sapper", 80, EnergyDarkness))
	defender := f.active(1, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(defender, EnergyFire, EnergyFire, EnergyColorless)
	f.e.State.Players[1].EnergyMultipliers = []EnergyMultiplier{{Energy: EnergyFire, Factor: 2}}

	require.Empty(t, attacker.Energy)
	assert.Equal(t, 100, computeFinal(t, f, attacker, "Energy Sap", 0, false).Total())
	assert.Equal(t, 130, computeFinal(t, f, attacker, "Energy Sap", 30, false).Total())
}

func TestUnknownKindFallsBackToBase(t *testing.T) {
	f := damageFixture(t)
	m := f.active(0, pokemon("T1", "91", "Mystery", 60, EnergyPsychic))
	f.active(1, filler())

	res := computeFinal(t, f, m, "Fizzle", 30, false)
	assert.Equal(t, 30, res.Total())
	failed := f.logger.EventsOfType(log.EventEffectFailed)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Details, ErrUnknownEffect.Error())
}

func TestLookupMissIsBaseDamage(t *testing.T) {
	f := damageFixture(t)
	p := f.active(0, pokemon("T1", "1", "Nobody", 60, EnergyGrass))
	f.active(1, filler())
	assert.Equal(t, 40, computeFinal(t, f, p, "Vine Whip", 40, false).Total())
	assert.Empty(t, f.logger.EventsOfType(log.EventEffectFailed))
}

func TestFixedZeroKindDealsItsOwnDamage(t *testing.T) {
	f := damageFixture(t)
	b := f.active(0, pokemon("T1", "95", "Bouncer", 60, EnergyFighting))
	opp := f.active(1, pokemon("T1", "1", "Target", 200, EnergyGrass))

	preview := computePreview(t, f, b, "Random Shots", 50, false)
	assert.Equal(t, 0, preview.Total())
	assert.Equal(t, 200, opp.HP, "previews never deal damage")
	_, _, pending := f.e.Deltas.Pending(0)
	assert.False(t, pending)

	final := computeFinal(t, f, b, "Random Shots", 50, false)
	assert.Equal(t, 0, final.Total())
	assert.Equal(t, 170, opp.HP)
}

func TestAttackBoostAndTypeCoach(t *testing.T) {
	f := damageFixture(t)
	p := f.active(0, pokemon("T1", "50", "Gardevoir", 110, EnergyPsychic))
	f.active(1, filler())

	f.e.Effects.Set(0, EffectAttackBoost, 10)
	assert.Equal(t, 40, computeFinal(t, f, p, "Psy Bench", 30, false).Total())

	// A fire coach only boosts fire attackers.
	f.bench(0, pokemon("T1", "40", "Coach", 70, EnergyFire))
	assert.Equal(t, 50, computeFinal(t, f, p, "Psy Bench", 30, false).Total())

	char := f.bench(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	assert.Equal(t, 60, computeFinal(t, f, char, "Ember", 30, false).Total())
}

func TestStackingDamageBoostPersistsOnInstance(t *testing.T) {
	f := newFixture(t, tablesFromCSV(t, "T1,60,Stacker,Build Up,stacking_damage_boost,20,,,10,10\n", "", ""))
	s := f.active(0, pokemon("T1", "60", "Stacker", 90, EnergyMetal))
	f.active(1, filler())

	assert.Equal(t, 10, computePreview(t, f, s, "Build Up", 10, false).Total())
	_, ok := f.e.Effects.InstanceValue(s.ID, InstanceDamageBoost)
	assert.False(t, ok, "previews do not stack")

	computeFinal(t, f, s, "Build Up", 10, false)
	assert.Equal(t, 30, computeFinal(t, f, s, "Build Up", 10, false).Total())
}
