package mcp

import (
	"context"

	"github.com/peterkuimelis/tcgpx/internal/game"
	"github.com/peterkuimelis/tcgpx/internal/log"
	"github.com/peterkuimelis/tcgpx/internal/net"
)

// MCPController implements game.PlayerController by sending decisions
// to the MCP session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *GameSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// await publishes a decision and blocks until the tools answer it.
func (c *MCPController) await(ctx context.Context, pd *PendingDecision) (any, error) {
	select {
	case c.session.pendingCh <- pd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-c.responseCh:
		return resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseAction implements game.PlayerController.
func (c *MCPController) ChooseAction(ctx context.Context, state *game.GameState, actions []game.Action) (game.Action, error) {
	var views []net.ActionView
	for i, a := range actions {
		views = append(views, net.ActionView{Index: i, Desc: a.String()})
	}

	resp, err := c.await(ctx, &PendingDecision{
		Type:    DecisionChooseAction,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Actions: views,
	})
	if err != nil {
		return game.Action{}, err
	}
	ar := resp.(ActionResponse)

	if ar.Index < 0 || ar.Index >= len(actions) {
		return actions[0], nil
	}
	return actions[ar.Index], nil
}

// ChooseCards implements game.PlayerController.
func (c *MCPController) ChooseCards(ctx context.Context, state *game.GameState, prompt string, candidates []*game.CardInstance, min, max int) ([]*game.CardInstance, error) {
	var views []net.CardView
	for i, card := range candidates {
		views = append(views, net.CandidateView(i, card))
	}

	resp, err := c.await(ctx, &PendingDecision{
		Type:       DecisionChooseCards,
		Player:     c.player,
		State:      net.BuildStateView(state, c.player),
		Prompt:     prompt,
		Candidates: views,
		Min:        min,
		Max:        max,
	})
	if err != nil {
		return nil, err
	}
	cr := resp.(CardsResponse)

	var result []*game.CardInstance
	for _, idx := range cr.Indices {
		if idx >= 0 && idx < len(candidates) {
			result = append(result, candidates[idx])
		}
	}
	return result, nil
}

// ChooseYesNo implements game.PlayerController.
func (c *MCPController) ChooseYesNo(ctx context.Context, state *game.GameState, prompt string) (bool, error) {
	resp, err := c.await(ctx, &PendingDecision{
		Type:   DecisionChooseYesNo,
		Player: c.player,
		State:  net.BuildStateView(state, c.player),
		Prompt: prompt,
	})
	if err != nil {
		return false, err
	}
	yr := resp.(YesNoResponse)
	return yr.Answer, nil
}

// Notify implements game.PlayerController.
// Only the agent's controller appends events to avoid duplicates.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	if c.player == c.session.agentPlayer {
		c.session.appendEvent(net.EventView{
			Turn:    event.Turn,
			Player:  event.Player,
			Type:    event.Type.String(),
			Card:    event.Card,
			Amount:  event.Amount,
			Details: event.Details,
		})
	}
	return nil
}
