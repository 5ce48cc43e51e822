package net

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/game"
)

func testState() *game.GameState {
	gs := game.NewGameState()
	pika := &game.Card{Set: "A1", Number: "094", Name: "Pikachu", HP: 60, Types: []game.EnergyType{game.EnergyLightning}}
	bulba := &game.Card{Set: "A1", Number: "001", Name: "Bulbasaur", HP: 70, Types: []game.EnergyType{game.EnergyGrass}}
	potion := &game.Card{Set: "PA", Number: "001", Name: "Potion", Category: game.CategoryTrainer, TrainerType: "Item"}

	for i, p := range gs.Players {
		p.EnergyTypes = []game.EnergyType{game.EnergyLightning}
		p.CurrentEnergy = game.EnergyLightning
		p.NextEnergy = game.EnergyLightning
		hand := gs.CreateCardInstance(potion, i)
		hand.Zone = game.ZoneHand
		p.Hand = append(p.Hand, hand)
	}
	active := gs.CreateCardInstance(pika, 0)
	active.SetHP(40)
	active.Energy = []game.Energy{{ID: "e1", Type: game.EnergyLightning}}
	active.Status = game.StatusPoisoned
	gs.Players[0].PlaceActive(active)
	gs.Players[1].PlaceActive(gs.CreateCardInstance(bulba, 1))
	gs.Players[1].PlaceOnBench(gs.CreateCardInstance(pika, 1), game.MaxBenchSize)
	gs.Turn = 4
	gs.TurnPlayer = 1
	return gs
}

func TestBuildStateViewHidesOpponentSecrets(t *testing.T) {
	sv := BuildStateView(testState(), 0)

	assert.Equal(t, 4, sv.Turn)
	assert.False(t, sv.IsYourTurn)
	assert.Equal(t, []string{"Potion"}, sv.You.Hand)
	assert.Empty(t, sv.Opponent.Hand)
	assert.Equal(t, 1, sv.Opponent.HandCount)

	assert.NotEmpty(t, sv.You.NextEnergy)
	assert.Empty(t, sv.Opponent.NextEnergy)
	assert.NotEmpty(t, sv.Opponent.CurrentEnergy)

	require.NotNil(t, sv.You.Active)
	assert.Equal(t, PokemonView{
		Name:   "Pikachu",
		HP:     40,
		MaxHP:  60,
		Energy: []string{game.EnergyLightning.String()},
		Status: game.StatusPoisoned.String(),
	}, *sv.You.Active)
	require.Len(t, sv.Opponent.Bench, 1)
	assert.Equal(t, "Pikachu", sv.Opponent.Bench[0].Name)
}

func TestCandidateViewCarriesHPForPokemonOnly(t *testing.T) {
	gs := testState()
	cv := CandidateView(2, gs.Players[0].Active)
	assert.Equal(t, CardView{Index: 2, Name: "Pikachu", Zone: game.ZoneActive.String(), HP: 40, MaxHP: 60}, cv)

	tv := CandidateView(0, gs.Players[0].Hand[0])
	assert.Zero(t, tv.HP)
	assert.Equal(t, "Potion", tv.Name)
}

func TestNetworkControllerYesNo(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	nc := NewNetworkController(server, 0)

	go func() {
		var msg ServerMessage
		if err := json.NewDecoder(client).Decode(&msg); err != nil {
			return
		}
		assert.Equal(t, "choose_yes_no", msg.Type)
		assert.Equal(t, "Use Volt Charge?", msg.Prompt)
		_ = json.NewEncoder(client).Encode(ClientMessage{Type: "yes_no", Answer: true})
	}()

	ok, err := nc.ChooseYesNo(context.Background(), testState(), "Use Volt Charge?")
	require.NoError(t, err)
	assert.True(t, ok)
}
