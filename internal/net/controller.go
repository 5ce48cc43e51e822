package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/tcgpx/internal/game"
	"github.com/peterkuimelis/tcgpx/internal/log"
)

// NetworkController implements game.PlayerController over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// BuildStateView creates a StateView from the perspective of the given player.
func BuildStateView(state *game.GameState, player int) *StateView {
	me := player
	opp := 1 - me

	sv := &StateView{
		Turn:       state.Turn,
		IsYourTurn: state.TurnPlayer == me,
		You:        playerView(state.Players[me]),
		Opponent:   playerView(state.Players[opp]),
	}
	// Hand names (visible to you)
	for _, c := range state.Players[me].Hand {
		sv.You.Hand = append(sv.You.Hand, c.Card.Name)
	}
	// The opponent's upcoming energy is hidden.
	sv.Opponent.NextEnergy = ""
	return sv
}

func playerView(p *game.Player) PlayerView {
	pv := PlayerView{
		HandCount:    p.HandCount(),
		DiscardCount: len(p.Discard),
		DeckCount:    p.DeckCount(),
	}
	if len(p.EnergyTypes) > 0 {
		if p.CurrentEnergy != game.EnergyAny {
			pv.CurrentEnergy = p.CurrentEnergy.String()
		}
		pv.NextEnergy = p.NextEnergy.String()
	}
	if p.Active != nil {
		v := PokemonZoneView(p.Active)
		pv.Active = &v
	}
	for _, b := range p.Bench {
		pv.Bench = append(pv.Bench, PokemonZoneView(b))
	}
	return pv
}

// PokemonZoneView creates a PokemonView for a Pokémon in play.
func PokemonZoneView(ci *game.CardInstance) PokemonView {
	v := PokemonView{
		Name:  ci.Card.Name,
		HP:    ci.HP,
		MaxHP: ci.MaxHP(),
	}
	for _, en := range ci.Energy {
		v.Energy = append(v.Energy, en.Type.String())
	}
	if ci.Status != game.StatusNone {
		v.Status = ci.Status.String()
	}
	if ci.Tool != nil {
		v.Tool = ci.Tool.Card.Name
	}
	return v
}

// buildStateView creates a StateView from the perspective of this controller's player.
func (nc *NetworkController) buildStateView(state *game.GameState) *StateView {
	return BuildStateView(state, nc.player)
}

// CandidateView describes a selection candidate. Pokémon carry their HP.
func CandidateView(i int, c *game.CardInstance) CardView {
	cv := CardView{Index: i, Name: c.Card.Name, Zone: c.Zone.String()}
	if c.Card.IsPokemon() {
		cv.HP = c.HP
		cv.MaxHP = c.MaxHP()
	}
	return cv
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseAction implements game.PlayerController.
func (nc *NetworkController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []ActionView
	for i, a := range actions {
		views = append(views, ActionView{Index: i, Desc: a.String()})
	}

	msg := ServerMessage{
		Type:    "choose_action",
		Actions: views,
		State:   nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return game.Action{}, fmt.Errorf("send choose_action: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return game.Action{}, fmt.Errorf("recv action: %w", err)
	}

	if resp.Index < 0 || resp.Index >= len(actions) {
		return actions[0], nil // fallback to first action
	}
	return actions[resp.Index], nil
}

// ChooseCards implements game.PlayerController.
func (nc *NetworkController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	var views []CardView
	for i, c := range candidates {
		views = append(views, CandidateView(i, c))
	}

	msg := ServerMessage{
		Type:       "choose_cards",
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
		State:      nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return nil, fmt.Errorf("send choose_cards: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return nil, fmt.Errorf("recv cards: %w", err)
	}

	var result []*game.CardInstance
	for _, idx := range resp.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements game.PlayerController.
func (nc *NetworkController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type:   "choose_yes_no",
		Prompt: prompt,
		State:  nc.buildStateView(state),
	}
	if err := nc.send(msg); err != nil {
		return false, fmt.Errorf("send choose_yes_no: %w", err)
	}

	resp, err := nc.recv()
	if err != nil {
		return false, fmt.Errorf("recv yes_no: %w", err)
	}

	return resp.Answer, nil
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// Notify implements game.PlayerController.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	msg := ServerMessage{
		Type: "notify",
		Event: &EventView{
			Turn:    event.Turn,
			Player:  event.Player,
			Type:    event.Type.String(),
			Card:    event.Card,
			Amount:  event.Amount,
			Details: event.Details,
		},
	}
	return nc.send(msg)
}
