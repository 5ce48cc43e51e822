package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

const handlerMoves = `T1,200,Venom,Toxic Grip,inflict_status,poisoned_paralyzed,,,10,10
T1,201,Storm,Thunderstorm,bench_damage_all_opponent,10,,,30,30
T1,202,Blaze,Overheat,discard_energy_specific,fire,all,,90,90
T1,203,Rewinder,Rewind,devolve_opponent,,,,0,
T1,204,Jammer,Jam,attack_lock_opponent_next_turn,,,,20,20
T1,205,Turtle,Withdraw,reduce_damage_next_turn,20,,,10,10
T1,206,Charger,Charge Up,attach_energy_from_zone,lightning,2,,0,
T1,207,Surplus,Overflow,extra_damage_if_extra_energy_attached,1|30,,,40,40
T1,208,Sloppy,Overflow,extra_damage_if_extra_energy_attached,1,,,40,40
`

const handlerTrainers = `T1-110,Giant Cape,Tool,tool_max_hp_bonus,20,,
T1-111,Switch,Item,switch_active,,,
T1-112,Sabrina,Supporter,force_opponent_switch,,,
T1-113,Poke Ball,Item,search_basic_to_hand,,,
T1-114,Dawn,Supporter,move_energy_to_active,any,,
T1-115,Red,Supporter,attack_boost_this_turn,20,,
`

const handlerAbilities = `T1,210,Lucky,Fortune,active,guarantee_next_heads,,,
T1,211,Nurse,Soothe,active,heal_all,20,,
`

func handlerFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixture(t, tablesFromCSV(t, handlerMoves, handlerAbilities, handlerTrainers))
}

// attacker puts a one-attack Pokémon into player 0's Active Spot with
// enough colorless energy to pay for it.
func (f *fixture) attacker(number, name, attack, damage string) *CardInstance {
	ci := f.active(0, pokemon("T1", number, name, 100, EnergyColorless, atk(attack, damage, EnergyColorless)))
	f.attach(ci, EnergyColorless)
	return ci
}

func (f *fixture) attack() AttackResult {
	f.t.Helper()
	res, err := f.e.ResolveAttack(context.Background(), 0, 0)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) playTrainer(number string, target *CardInstance) Outcome {
	f.t.Helper()
	row, ok := f.e.Tables.LookupTrainer("T1", number)
	require.True(f.t, ok)
	card := f.e.State.CreateCardInstance(trainer("T1", number, row.Name, row.TrainerType), 0)
	out, err := f.e.ApplyTrainerEffect(context.Background(), 0, row, card, target)
	require.NoError(f.t, err)
	return out
}

func TestInflictTwoStatusesLastWins(t *testing.T) {
	f := handlerFixture(t)
	f.attacker("200", "Venom", "Toxic Grip", "10")
	def := f.active(1, filler())

	f.attack()
	assert.Equal(t, StatusParalyzed, def.Status)
	assert.Equal(t, 40, def.HP)
}

func TestBenchDamageAllOpponent(t *testing.T) {
	f := handlerFixture(t)
	f.attacker("201", "Storm", "Thunderstorm", "30")
	def := f.active(1, filler())
	b1 := f.bench(1, filler())
	b2 := f.bench(1, filler())

	f.attack()
	assert.Equal(t, 20, def.HP)
	assert.Equal(t, 40, b1.HP)
	assert.Equal(t, 40, b2.HP)
}

func TestDiscardAllOfOneType(t *testing.T) {
	f := handlerFixture(t)
	blaze := f.attacker("202", "Blaze", "Overheat", "90")
	f.attach(blaze, EnergyFire, EnergyFire, EnergyFire)
	f.active(1, pokemon("T1", "1", "Wall", 200, EnergyWater))

	f.attack()
	require.Len(t, blaze.Energy, 1)
	assert.Equal(t, EnergyColorless, blaze.Energy[0].Type)
	assert.Equal(t, 3, f.e.State.Players[0].DiscardEnergy[EnergyFire])
	events := f.logger.EventsOfType(log.EventDiscardEnergy)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Amount)
}

func TestDevolveOpponentKeepsDamage(t *testing.T) {
	f := handlerFixture(t)
	f.attacker("203", "Rewinder", "Rewind", "")

	base := f.e.State.CreateCardInstance(pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass), 1)
	ivy := f.active(1, stage1("T1", "2", "Ivysaur", "Bulbasaur", 90, EnergyGrass))
	ivy.Evolutions = []*CardInstance{base}
	ivy.SetHP(60)
	f.attach(ivy, EnergyGrass)

	f.attack()
	p1 := f.e.State.Players[1]
	require.Equal(t, base, p1.Active)
	assert.Equal(t, 40, base.HP)
	assert.Len(t, base.Energy, 1)
	assert.Contains(t, p1.Hand, ivy)
	assert.Equal(t, ZoneHand, ivy.Zone)
}

func TestDevolveOpponentMovesToolBonus(t *testing.T) {
	f := handlerFixture(t)
	f.attacker("203", "Rewinder", "Rewind", "")

	base := f.e.State.CreateCardInstance(pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass), 1)
	ivy := f.active(1, stage1("T1", "2", "Ivysaur", "Bulbasaur", 90, EnergyGrass))
	ivy.Evolutions = []*CardInstance{base}
	cape := f.e.State.CreateCardInstance(&Card{Set: "A2", Number: "147", Name: "Giant Cape", Category: CategoryTrainer, TrainerType: TrainerTool}, 1)
	ivy.Tool = cape
	ivy.MaxHPOverride = 110
	ivy.SetHP(80)
	f.e.Effects.SetInstance(ivy.ID, InstanceDamageBoost, 10, 2)

	f.attack()
	p1 := f.e.State.Players[1]
	require.Equal(t, base, p1.Active)
	assert.Equal(t, cape, base.Tool)
	assert.Equal(t, 90, base.MaxHP())
	assert.Equal(t, 60, base.HP)

	assert.Equal(t, 90, ivy.MaxHP())
	assert.Equal(t, 90, ivy.HP)
	assert.False(t, ivy.IsDamaged())
	_, ok := f.e.Effects.InstanceValue(ivy.ID, InstanceDamageBoost)
	assert.False(t, ok)
}

func TestAttackLockOpponentCoversTheirNextTurn(t *testing.T) {
	f := handlerFixture(t)
	f.attacker("204", "Jammer", "Jam", "20")
	f.active(1, filler())

	f.attack()
	require.NoError(t, f.e.EndTurn(context.Background(), 0))
	assert.False(t, f.e.Effects.CanAttack(1))
	require.NoError(t, f.e.EndTurn(context.Background(), 1))
	assert.True(t, f.e.Effects.CanAttack(1))
}

func TestReduceDamageNextTurnShieldsAttacker(t *testing.T) {
	f := handlerFixture(t)
	turtle := f.attacker("205", "Turtle", "Withdraw", "10")
	opp := f.active(1, pokemon("T1", "9", "Hitter", 100, EnergyColorless, atk("Punch", "50", EnergyColorless)))
	f.attach(opp, EnergyColorless)

	f.attack()
	require.NoError(t, f.e.EndTurn(context.Background(), 0))

	res, err := f.e.ResolveAttack(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Damage)
	assert.Equal(t, 70, turtle.HP)
}

func TestAttachEnergyFromZoneOnFinalOnly(t *testing.T) {
	f := handlerFixture(t)
	c := f.attacker("206", "Charger", "Charge Up", "")
	f.active(1, filler())

	_, err := f.e.PreviewAttack(context.Background(), c, 0)
	require.NoError(t, err)
	assert.Len(t, c.Energy, 1)

	f.attack()
	assert.Equal(t, 2, f.e.Energy.Raw(c, EnergyLightning))
}

func TestToolRaisesMaxHPOnce(t *testing.T) {
	f := handlerFixture(t)
	bulba := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))

	assert.True(t, f.playTrainer("110", bulba).Succeeded())
	assert.Equal(t, 90, bulba.MaxHP())
	assert.Equal(t, 90, bulba.HP)
	assert.Equal(t, 70, bulba.Card.HP)
	require.NotNil(t, bulba.Tool)

	out := f.playTrainer("110", bulba)
	assert.Equal(t, OutcomePreconditionFailed, out.Kind)
}

func TestSwitchActiveTrainer(t *testing.T) {
	f := handlerFixture(t)
	a := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	assert.Equal(t, OutcomePreconditionFailed, f.playTrainer("111", nil).Kind)

	b := f.bench(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.p0.AddCardChoice("Charmander")
	assert.True(t, f.playTrainer("111", nil).Succeeded())
	assert.Equal(t, b, f.e.State.Players[0].Active)
	assert.Equal(t, ZoneBench, a.Zone)
}

func TestForceOpponentSwitchFallsBackOnCancel(t *testing.T) {
	f := handlerFixture(t)
	f.active(0, filler())
	f.active(1, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	first := f.bench(1, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.bench(1, pokemon("T1", "7", "Squirtle", 60, EnergyWater))
	f.p1.AddCardChoice()

	assert.True(t, f.playTrainer("112", nil).Succeeded())
	assert.Equal(t, first, f.e.State.Players[1].Active)
	require.Len(t, f.p1.prompts, 1, "the opponent makes the choice")
	assert.Empty(t, f.p0.prompts)
}

func TestSearchBasicToHand(t *testing.T) {
	f := handlerFixture(t)
	f.deck(0, trainer("T1", "113", "Poke Ball", TrainerItem))
	assert.Equal(t, OutcomePreconditionFailed, f.playTrainer("113", nil).Kind)

	basic := f.deck(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	assert.True(t, f.playTrainer("113", nil).Succeeded())
	assert.Contains(t, f.e.State.Players[0].Hand, basic)
	assert.Len(t, f.e.State.Players[0].Deck, 1)
}

func TestMoveEnergyToActive(t *testing.T) {
	f := handlerFixture(t)
	active := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	assert.Equal(t, OutcomePreconditionFailed, f.playTrainer("114", nil).Kind)

	b := f.bench(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(b, EnergyFire, EnergyFire)
	f.p0.AddCardChoice("Charmander")
	assert.True(t, f.playTrainer("114", nil).Succeeded())
	assert.Len(t, active.Energy, 2)
	assert.Empty(t, b.Energy)
	assert.Len(t, f.logger.EventsOfType(log.EventTransferEnergy), 1)
}

func TestAttackBoostThisTurnStacks(t *testing.T) {
	f := handlerFixture(t)
	f.playTrainer("115", nil)
	f.e.State.Players[0].SupporterPlayed = false
	f.playTrainer("115", nil)
	assert.Equal(t, 40, f.e.Effects.AttackBoost(0))

	require.NoError(t, f.e.EndTurn(context.Background(), 0))
	assert.Equal(t, 0, f.e.Effects.AttackBoost(0))
}

func TestGuaranteeNextHeadsAbility(t *testing.T) {
	f := handlerFixture(t)
	lucky := f.active(0, pokemon("T1", "210", "Lucky", 60, EnergyColorless))
	row, ok := f.e.ActiveAbility(lucky)
	require.True(t, ok)

	out, err := f.e.ApplyAbilityEffect(context.Background(), 0, row, lucky)
	require.NoError(t, err)
	require.True(t, out.Succeeded())
	assert.True(t, f.e.Coins.HasGuarantee(0))

	r, err := f.e.FlipVisible(context.Background(), 0)
	require.NoError(t, err)
	assert.True(t, r.IsHeads())
	assert.False(t, f.e.Coins.HasGuarantee(0))
}

func TestHealAllAbility(t *testing.T) {
	f := handlerFixture(t)
	nurse := f.active(0, pokemon("T1", "211", "Nurse", 80, EnergyPsychic))
	row, ok := f.e.ActiveAbility(nurse)
	require.True(t, ok)

	out, err := f.e.ApplyAbilityEffect(context.Background(), 0, row, nurse)
	require.NoError(t, err)
	assert.Equal(t, OutcomePreconditionFailed, out.Kind)
	assert.Zero(t, nurse.AbilityUsedTurn, "a failed use does not spend the ability")

	hurt := f.bench(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	hurt.SetHP(40)
	nurse.SetHP(70)
	out, err = f.e.ApplyAbilityEffect(context.Background(), 0, row, nurse)
	require.NoError(t, err)
	assert.True(t, out.Succeeded())
	assert.Equal(t, 60, hurt.HP)
	assert.Equal(t, 80, nurse.HP)
}

func TestExtraEnergyBonusNeedsSurplus(t *testing.T) {
	f := handlerFixture(t)
	c := f.attacker("207", "Surplus", "Overflow", "40")
	wall := f.active(1, pokemon("T1", "1", "Wall", 200, EnergyWater))

	assert.Equal(t, 40, f.attack().Damage)
	f.attach(c, EnergyColorless)
	assert.Equal(t, 70, f.attack().Damage)
	assert.Equal(t, 90, wall.HP)
}

func TestMalformedParamIsLoggedNotFatal(t *testing.T) {
	f := handlerFixture(t)
	c := f.attacker("208", "Sloppy", "Overflow", "40")
	f.attach(c, EnergyColorless)
	f.active(1, pokemon("T1", "1", "Wall", 200, EnergyWater))

	res := f.attack()
	assert.Equal(t, 40, res.Damage)
	failed := f.logger.EventsOfType(log.EventEffectFailed)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Details, ErrMalformedRow.Error())
}
