package game

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/peterkuimelis/tcgpx/internal/log"
)

// PlayerController is the interface that human (network) and AI (MCP)
// players implement.
type PlayerController interface {
	// ChooseAction presents available actions and waits for the player to pick one.
	ChooseAction(ctx context.Context, state *GameState, actions []Action) (Action, error)

	// ChooseCards asks the player to select between min and max cards from
	// candidates. An empty answer with min == 0 is a cancel.
	ChooseCards(ctx context.Context, state *GameState, prompt string, candidates []*CardInstance, min, max int) ([]*CardInstance, error)

	// ChooseYesNo asks the player a yes/no question.
	ChooseYesNo(ctx context.Context, state *GameState, prompt string) (bool, error)

	// Notify sends a game event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// SelectMode controls which candidates a selection may present.
type SelectMode int

const (
	// SelectInPlay drops hand cards from the candidate set.
	SelectInPlay SelectMode = iota
	// SelectAllowHand presents hand cards as well.
	SelectAllowHand
)

// selecting guards the single outstanding selection across all matches.
var selecting atomic.Bool

// Selector suspends effect resolution until a player picks one candidate.
type Selector struct {
	state       *GameState
	controllers *[2]PlayerController
	logf        func(ctx context.Context, ev log.GameEvent)
}

// NewSelector creates a selector that asks controllers and reports the
// outcome through logf.
func NewSelector(state *GameState, controllers *[2]PlayerController, logf func(context.Context, log.GameEvent)) *Selector {
	return &Selector{state: state, controllers: controllers, logf: logf}
}

// Await presents candidates to player and returns the chosen one, or nil if
// the player cancelled, answered outside the set, or nothing was eligible.
// A second Await while one is outstanding panics.
func (s *Selector) Await(ctx context.Context, player int, prompt string, candidates []*CardInstance, mode SelectMode) (*CardInstance, error) {
	eligible := filterCandidates(candidates, mode)
	if len(eligible) == 0 {
		return nil, nil
	}
	if !selecting.CompareAndSwap(false, true) {
		panic(ErrSelectionInProgress)
	}
	defer selecting.Store(false)

	ctrl := s.controllers[player]
	if ctrl == nil {
		return nil, fmt.Errorf("select for player %d: %w", player, ErrNoController)
	}
	picked, err := ctrl.ChooseCards(ctx, s.state, prompt, eligible, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", prompt, err)
	}
	if len(picked) == 0 || !containsInstance(eligible, picked[0]) {
		s.report(ctx, log.NewSelectionCancelledEvent(s.state.Turn, player, prompt))
		return nil, nil
	}
	s.report(ctx, log.NewSelectionEvent(s.state.Turn, player, picked[0].Card.Name))
	return picked[0], nil
}

func (s *Selector) report(ctx context.Context, ev log.GameEvent) {
	if s.logf != nil {
		s.logf(ctx, ev)
	}
}

func filterCandidates(candidates []*CardInstance, mode SelectMode) []*CardInstance {
	var out []*CardInstance
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if c.Zone == ZoneHand && mode != SelectAllowHand {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsInstance(list []*CardInstance, ci *CardInstance) bool {
	if ci == nil {
		return false
	}
	for _, c := range list {
		if c.ID == ci.ID {
			return true
		}
	}
	return false
}
