package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	stdnet "net"
	"sync"

	"github.com/peterkuimelis/tcgpx/internal/game"
	"github.com/peterkuimelis/tcgpx/internal/log"
	tcgpxnet "github.com/peterkuimelis/tcgpx/internal/net"
)

// DecisionType identifies what kind of decision the match is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCards  DecisionType = "choose_cards"
	DecisionChooseYesNo  DecisionType = "choose_yes_no"
	DecisionGameOver     DecisionType = "game_over"
)

// PendingDecision represents a decision the match is waiting for.
type PendingDecision struct {
	Type       DecisionType          `json:"type"`
	Player     int                   `json:"player"`
	State      *tcgpxnet.StateView   `json:"state"`
	Actions    []tcgpxnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []tcgpxnet.CardView   `json:"candidates,omitempty"`
	Min        int                   `json:"min,omitempty"`
	Max        int                   `json:"max,omitempty"`
}

// Response types sent back from MCP tools to controllers.

type ActionResponse struct {
	Index int
}

type CardsResponse struct {
	Indices []int
}

type YesNoResponse struct {
	Answer bool
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []tcgpxnet.EventView `json:"events"`
	State    *tcgpxnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView         `json:"pending,omitempty"`
	GameOver bool                 `json:"game_over"`
	Winner   int                  `json:"winner,omitempty"`
	Result   string               `json:"result,omitempty"`
	Port     string               `json:"port,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type       DecisionType          `json:"type"`
	ForPlayer  string                `json:"for_player"`
	Actions    []tcgpxnet.ActionView `json:"actions,omitempty"`
	Prompt     string                `json:"prompt,omitempty"`
	Candidates []tcgpxnet.CardView   `json:"candidates,omitempty"`
	Min        int                   `json:"min,omitempty"`
	Max        int                   `json:"max,omitempty"`
}

// GameSession holds the state of a single MCP match session.
type GameSession struct {
	match       *game.Match
	agentCtrl   *MCPController
	humanCtrl   *tcgpxnet.NetworkController
	agentPlayer int

	listener  stdnet.Listener
	humanConn stdnet.Conn

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []tcgpxnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewGameSession creates a new match session. It starts a TCP listener on
// srv.Port, waits for the human player to connect via `tcgpx-cli join`,
// then starts the match. srv.HostDeck is the agent's deck.
func NewGameSession(ctx context.Context, srv tcgpxnet.Server, agentPlayer int) (*GameSession, error) {
	// Start TCP listener for human player
	ln, err := stdnet.Listen("tcp", ":"+srv.Port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", srv.Port, err)
	}

	// Accept one connection (blocks until human runs `tcgpx-cli join`)
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		return nil, fmt.Errorf("accept: %w", err)
	}

	// Read join message to get human's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg tcgpxnet.ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		conn.Close()
		ln.Close()
		return nil, fmt.Errorf("read join message: %w", err)
	}
	humanDeck := joinMsg.DeckNumber
	if humanDeck == 0 {
		humanDeck = 2
	}

	agent, human, err := srv.LoadDecks(ctx, humanDeck)
	if err != nil {
		conn.Close()
		ln.Close()
		return nil, err
	}

	sess := &GameSession{
		agentPlayer: agentPlayer,
		pendingCh:   make(chan *PendingDecision, 1),
		winner:      -1,
		listener:    ln,
		humanConn:   conn,
	}

	humanPlayer := 1 - agentPlayer
	sess.agentCtrl = NewMCPController(agentPlayer, sess)
	sess.humanCtrl = tcgpxnet.NewNetworkController(conn, humanPlayer)

	// Assign decks to player indices
	deck0, deck1 := agent, human
	var ctrl0, ctrl1 game.PlayerController = sess.agentCtrl, sess.humanCtrl
	if agentPlayer == 1 {
		deck0, deck1 = human, agent
		ctrl0, ctrl1 = sess.humanCtrl, sess.agentCtrl
	}

	sess.match = game.NewMatch(srv.MatchConfig(deck0, deck1, log.NewMemoryLogger()), ctrl0, ctrl1)

	// Start the match in a goroutine
	go sess.run(context.WithoutCancel(ctx))

	return sess, nil
}

func (s *GameSession) run(ctx context.Context) {
	winner, err := s.match.Run(ctx)
	result := s.match.State.Result
	if err != nil {
		result = fmt.Sprintf("error: %v", err)
	}
	if result == "" {
		result = fmt.Sprintf("Match over. Winner: player %d", winner)
	}

	// Notify human over TCP
	_ = s.humanCtrl.SendGameOver(winner, result)

	// Clean up TCP resources
	s.humanConn.Close()
	s.listener.Close()

	s.mu.Lock()
	s.gameOver = true
	s.winner = winner
	s.result = result
	s.mu.Unlock()

	// Notify the agent via pending channel
	s.pendingCh <- &PendingDecision{
		Type:   DecisionGameOver,
		Player: winner,
		State:  tcgpxnet.BuildStateView(s.match.State, s.agentPlayer),
	}
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev tcgpxnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []tcgpxnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

// waitForPending blocks until the next decision arrives from the match,
// then builds a ToolResponse with accumulated events + the pending decision.
func (s *GameSession) waitForPending() (*ToolResponse, error) {
	pending := <-s.pendingCh
	s.currentPending = pending

	events := s.drainEvents()

	resp := &ToolResponse{
		Events: events,
	}

	if pending.Type == DecisionGameOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		resp.State = pending.State
		resp.Pending = nil
		return resp, nil
	}

	resp.State = pending.State
	resp.Pending = &PendingView{
		Type:       pending.Type,
		ForPlayer:  s.playerLabel(pending.Player),
		Actions:    pending.Actions,
		Prompt:     pending.Prompt,
		Candidates: pending.Candidates,
		Min:        pending.Min,
		Max:        pending.Max,
	}

	return resp, nil
}

// playerLabel returns "agent" or "human" for the given player index.
func (s *GameSession) playerLabel(player int) string {
	if player == s.agentPlayer {
		return "agent"
	}
	return "human"
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
