package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

func TestApplyStatusReplacesPrevious(t *testing.T) {
	ci := &CardInstance{Card: pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass)}
	assert.True(t, ci.ApplyStatus(StatusPoisoned))
	assert.True(t, ci.ApplyStatus(StatusAsleep))
	assert.Equal(t, StatusAsleep, ci.StatusOf())
	assert.False(t, ci.CanAct())
	assert.False(t, ci.ApplyStatus(StatusNone))

	ci.SetStatusImmune(true)
	assert.False(t, ci.ApplyStatus(StatusBurned))
	assert.Equal(t, StatusAsleep, ci.StatusOf(), "immunity does not cure")
}

func TestInflictStatusRespectsPassiveImmunity(t *testing.T) {
	tables := tablesFromCSV(t, "", "T1,80,Guardian,Safeguard,passive,immune_to_status,,,\n", "")
	f := newFixture(t, tables)
	immune := f.active(1, pokemon("T1", "80", "Guardian", 100, EnergyMetal))
	assert.False(t, f.e.InflictStatus(context.Background(), immune, StatusPoisoned))
	assert.Equal(t, StatusNone, immune.Status)

	other := f.bench(1, pokemon("T1", "81", "Plain", 100, EnergyMetal))
	assert.True(t, f.e.InflictStatus(context.Background(), other, StatusPoisoned))
	assert.Len(t, f.logger.EventsOfType(log.EventStatus), 1)
}

func TestCheckupPoisonDamagesBothActives(t *testing.T) {
	f := newFixture(t, nil)
	a := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	b := f.active(1, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	a.ApplyStatus(StatusPoisoned)
	b.ApplyStatus(StatusPoisoned)

	require.NoError(t, f.e.Checkup(context.Background(), 0))
	assert.Equal(t, 70-PoisonDamage, a.HP)
	assert.Equal(t, 70-PoisonDamage, b.HP)
	assert.Equal(t, StatusPoisoned, a.Status)
}

func TestCheckupBurnDamagesThenFlips(t *testing.T) {
	f := newFixture(t, nil)
	a := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	a.ApplyStatus(StatusBurned)
	f.e.Coins.GuaranteeHeads(0)

	require.NoError(t, f.e.Checkup(context.Background(), 0))
	assert.Equal(t, 70-BurnDamage, a.HP)
	assert.Equal(t, StatusNone, a.Status, "heads cures the burn")
}

func TestParalysisWearsOffAfterOwnersTurn(t *testing.T) {
	f := newFixture(t, nil)
	b := f.active(1, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	b.ApplyStatus(StatusParalyzed)

	require.NoError(t, f.e.Checkup(context.Background(), 0))
	assert.Equal(t, StatusParalyzed, b.Status, "still paralyzed through its own coming turn")

	require.NoError(t, f.e.Checkup(context.Background(), 1))
	assert.Equal(t, StatusNone, b.Status)
}

func TestSwitchingOutClearsStatus(t *testing.T) {
	f := newFixture(t, nil)
	a := f.active(0, pokemon("T1", "1", "Bulbasaur", 70, EnergyGrass))
	b := f.bench(0, pokemon("T1", "4", "Charmander", 60, EnergyFire))
	a.ApplyStatus(StatusConfused)

	require.True(t, f.e.SwitchActive(0, b))
	assert.Equal(t, StatusNone, a.Status)
	assert.Equal(t, ZoneBench, a.Zone)
	assert.Equal(t, b, f.e.State.Players[0].Active)
}
