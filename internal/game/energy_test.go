package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

func TestEnergyRemoveNeverExceedsMatchingTokens(t *testing.T) {
	f := newFixture(t, nil)
	ci := f.active(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(ci, EnergyFire, EnergyWater, EnergyFire)

	tests := []struct {
		name    string
		t       EnergyType
		count   int
		want    int
		remains int
	}{
		{"none match", EnergyGrass, 3, 0, 3},
		{"fewer than asked", EnergyWater, 5, 1, 2},
		{"exact", EnergyFire, 2, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.e.State.Players[0].DiscardEnergy[tt.t]
			got := f.e.Energy.Remove(ci, tt.t, tt.count)
			assert.Equal(t, tt.want, got)
			assert.Len(t, ci.Energy, tt.remains)
			assert.Equal(t, before+tt.want, f.e.State.Players[0].DiscardEnergy[tt.t])
		})
	}
}

func TestEnergyRemoveZeroMatchesLeavesTallyAlone(t *testing.T) {
	f := newFixture(t, nil)
	ci := f.active(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	assert.Equal(t, 0, f.e.Energy.Remove(ci, EnergyAny, 2))
	assert.Empty(t, f.e.State.Players[0].DiscardEnergy)
}

func TestEnergyMultiplierRule(t *testing.T) {
	f := newFixture(t, nil)
	ci := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	f.attach(ci, EnergyGrass)

	assert.Equal(t, 1, f.e.Energy.Count(ci, EnergyGrass))

	f.e.State.Players[0].EnergyMultipliers = []EnergyMultiplier{{Energy: EnergyGrass, Factor: 2}}
	assert.Equal(t, 2, f.e.Energy.Count(ci, EnergyGrass))
	assert.Equal(t, 1, f.e.Energy.Raw(ci, EnergyGrass))

	// The rule belongs to the owner; the opponent's Grass Pokémon is unaffected.
	opp := f.active(1, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	f.attach(opp, EnergyGrass)
	assert.Equal(t, 1, f.e.Energy.Count(opp, EnergyGrass))
}

func TestEnergyMultiplierFromPassiveAbility(t *testing.T) {
	tables := tablesFromCSV(t, "",
		"T1,60,Venusaur ex,Lush Growth,passive,double_energy_type,grass,grass,\n", "")
	f := newFixture(t, tables)
	bulba := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	f.attach(bulba, EnergyGrass, EnergyGrass, EnergyColorless)
	assert.Equal(t, 3, f.e.Energy.Count(bulba, EnergyAny))

	venu := f.bench(0, pokemon("T1", "60", "Venusaur ex", 190, EnergyGrass))
	assert.Equal(t, 5, f.e.Energy.Count(bulba, EnergyAny))

	// Leaving play removes the rule.
	f.e.State.Players[0].RemoveFromBench(venu)
	assert.Equal(t, 3, f.e.Energy.Count(bulba, EnergyAny))
}

func TestEnergyTransferKeepsTokenIdentity(t *testing.T) {
	f := newFixture(t, nil)
	from := f.bench(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	to := f.active(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(from, EnergyFire, EnergyWater, EnergyFire)
	ids := []string{from.Energy[0].ID, from.Energy[2].ID}

	assert.Equal(t, 2, f.e.Energy.Transfer(from, to, EnergyFire))
	require.Len(t, to.Energy, 2)
	assert.Equal(t, ids, []string{to.Energy[0].ID, to.Energy[1].ID})
	assert.Len(t, from.Energy, 1)
	assert.Empty(t, f.e.State.Players[0].DiscardEnergy)

	assert.True(t, f.e.Energy.Move(from, to, from.Energy[0].ID))
	assert.False(t, f.e.Energy.Move(from, to, "missing"))
}

func TestEnergyCanPay(t *testing.T) {
	f := newFixture(t, nil)
	ci := f.active(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(ci, EnergyFire, EnergyWater)

	assert.True(t, f.e.Energy.CanPay(ci, []EnergyType{EnergyFire, EnergyColorless}, 0))
	assert.False(t, f.e.Energy.CanPay(ci, []EnergyType{EnergyFire, EnergyFire}, 0))
	assert.False(t, f.e.Energy.CanPay(ci, []EnergyType{EnergyFire, EnergyColorless}, 1))
}

func TestEnergyAttachIsLogged(t *testing.T) {
	f := newFixture(t, nil)
	ci := f.active(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	f.attach(ci, EnergyFire)
	events := f.logger.EventsOfType(log.EventAttachEnergy)
	require.Len(t, events, 1)
	assert.Equal(t, "Charmander", events[0].Card)
	assert.NotEmpty(t, ci.Energy[0].ID)
}
