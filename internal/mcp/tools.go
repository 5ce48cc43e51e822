package mcp

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tcgpx/internal/game"
	tcgpxnet "github.com/peterkuimelis/tcgpx/internal/net"
)

// activeSession is the singleton match session (one per stdio process).
var activeSession *GameSession

// template holds the deck file, port and content every session starts
// from, set by main.
var template tcgpxnet.Server

// Configure sets the server template used by start_match.
func Configure(srv tcgpxnet.Server) {
	template = srv
}

// RegisterTools adds all match tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(startMatchTool(), handleStartMatch)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(selectCardTool(), handleSelectCard)
	s.AddTool(answerYesNoTool(), handleAnswerYesNo)
	s.AddTool(getMatchStateTool(), handleGetMatchState)
	s.AddTool(listEffectsTool(), handleListEffects)
}

// --- Tool definitions ---

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new Pokémon TCG Pocket match. Returns the initial match state and first pending decision. "+
			"The human player connects via `tcgpx-cli join --addr localhost:<port> --deck N` in a separate terminal. "+
			"This call blocks until the human connects."),
		mcp.WithNumber("agent_deck", mcp.Required(), mcp.Description("Deck number for the agent (1-indexed from decks.yaml)")),
		mcp.WithNumber("agent_player", mcp.Required(), mcp.Description("Which player the agent is: 0 = goes first, 1 = goes second")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list. Use this when the pending decision type is 'choose_action'."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Select cards from the pending candidates list. Use this when the pending decision type is 'choose_cards'."),
		mcp.WithString("indices", mcp.Required(), mcp.Description("Space-separated 0-based indices of cards to select (e.g. '0 2 3'), or empty string for no selection")),
	)
}

func answerYesNoTool() mcp.Tool {
	return mcp.NewTool("answer_yes_no",
		mcp.WithDescription("Answer a yes/no question. Use this when the pending decision type is 'choose_yes_no'."),
		mcp.WithBoolean("answer", mcp.Required(), mcp.Description("true for yes, false for no")),
	)
}

func getMatchStateTool() mcp.Tool {
	return mcp.NewTool("get_match_state",
		mcp.WithDescription("Get the current match state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func listEffectsTool() mcp.Tool {
	return mcp.NewTool("list_effects",
		mcp.WithDescription("List the move, trainer and ability effect kinds this simulator implements. Read-only."),
	)
}

// --- Tool handlers ---

func handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}

	agentDeck := request.GetInt("agent_deck", 0)
	agentPlayer := request.GetInt("agent_player", 0)

	if agentDeck < 1 {
		return mcp.NewToolResultError("agent_deck must be >= 1"), nil
	}
	if agentPlayer != 0 && agentPlayer != 1 {
		return mcp.NewToolResultError("agent_player must be 0 or 1"), nil
	}

	srv := template
	srv.HostDeck = agentDeck
	sess, err := NewGameSession(ctx, srv, agentPlayer)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}

	activeSession = sess

	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}

	resp.Port = srv.Port

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Player != sess.agentPlayer {
		return mcp.NewToolResultError("Waiting for human player to respond via their terminal."), nil
	}
	if pending.Type != DecisionChooseAction {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not 'choose_action'. Use the correct tool.", pending.Type), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	sess.agentCtrl.responseCh <- ActionResponse{Index: index}

	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Player != sess.agentPlayer {
		return mcp.NewToolResultError("Waiting for human player to respond via their terminal."), nil
	}
	if pending.Type != DecisionChooseCards {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not 'choose_cards'. Use the correct tool.", pending.Type), nil
	}

	indicesStr := request.GetString("indices", "")
	var indices []int
	if strings.TrimSpace(indicesStr) != "" {
		parts := strings.Fields(indicesStr)
		for _, p := range parts {
			idx, err := strconv.Atoi(p)
			if err != nil {
				return mcp.NewToolResultErrorf("Invalid index '%s': must be an integer.", p), nil
			}
			if idx < 0 || idx >= len(pending.Candidates) {
				return mcp.NewToolResultErrorf("Index %d out of range. Must be 0-%d.", idx, len(pending.Candidates)-1), nil
			}
			indices = append(indices, idx)
		}
	}

	if len(indices) < pending.Min {
		return mcp.NewToolResultErrorf("Must select at least %d card(s), got %d.", pending.Min, len(indices)), nil
	}
	if len(indices) > pending.Max {
		return mcp.NewToolResultErrorf("Must select at most %d card(s), got %d.", pending.Max, len(indices)), nil
	}

	sess.agentCtrl.responseCh <- CardsResponse{Indices: indices}

	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleAnswerYesNo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	if pending.Player != sess.agentPlayer {
		return mcp.NewToolResultError("Waiting for human player to respond via their terminal."), nil
	}
	if pending.Type != DecisionChooseYesNo {
		return mcp.NewToolResultErrorf("Wrong tool: pending decision is '%s', not 'choose_yes_no'. Use the correct tool.", pending.Type), nil
	}

	answer := request.GetBool("answer", false)

	sess.agentCtrl.responseCh <- YesNoResponse{Answer: answer}

	resp, err := sess.waitForPending()
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for next decision: %v", err), nil
	}

	if resp.GameOver {
		activeSession = nil
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetMatchState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	sess := activeSession
	events := sess.drainEvents()

	sess.mu.Lock()
	gameOver := sess.gameOver
	winner := sess.winner
	result := sess.result
	sess.mu.Unlock()

	resp := &ToolResponse{
		Events:   events,
		GameOver: gameOver,
		Winner:   winner,
		Result:   result,
	}

	if gameOver {
		if sess.currentPending != nil {
			resp.State = sess.currentPending.State
		}
	} else if sess.match != nil {
		// Build a fresh state view from the agent's perspective
		resp.State = tcgpxnet.BuildStateView(sess.match.State, sess.agentPlayer)
		if sess.currentPending != nil {
			if sess.currentPending.Player != sess.agentPlayer {
				resp.Pending = &PendingView{
					Type:      DecisionChooseAction,
					ForPlayer: "human",
				}
			} else {
				resp.Pending = &PendingView{
					Type:       sess.currentPending.Type,
					ForPlayer:  "agent",
					Actions:    sess.currentPending.Actions,
					Prompt:     sess.currentPending.Prompt,
					Candidates: sess.currentPending.Candidates,
					Min:        sess.currentPending.Min,
					Max:        sess.currentPending.Max,
				}
			}
		}
	}

	// Ensure events is never null in JSON
	if resp.Events == nil {
		resp.Events = []tcgpxnet.EventView{}
	}

	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// EffectKinds lists the registered effect kinds per table.
type EffectKinds struct {
	Moves     []string `json:"moves"`
	Trainers  []string `json:"trainers"`
	Abilities []string `json:"abilities"`
}

// RegisteredEffects snapshots the effect registries.
func RegisteredEffects() EffectKinds {
	return EffectKinds{
		Moves:     game.RegisteredKinds(game.MoveEffects),
		Trainers:  game.RegisteredKinds(game.TrainerEffects),
		Abilities: game.RegisteredKinds(game.AbilityEffects),
	}
}

func handleListEffects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(RegisteredEffects())
	if err != nil {
		return mcp.NewToolResultErrorf("marshal: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
