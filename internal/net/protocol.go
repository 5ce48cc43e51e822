package net

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_action"
	Actions []ActionView `json:"actions,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "choose_cards"
	Prompt     string     `json:"prompt,omitempty"`
	Candidates []CardView `json:"candidates,omitempty"`
	Min        int        `json:"min,omitempty"`
	Max        int        `json:"max,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified match event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// ActionView is a numbered action choice.
type ActionView struct {
	Index int    `json:"index"`
	Desc  string `json:"desc"`
}

// CardView describes a card candidate for selection.
type CardView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Zone  string `json:"zone,omitempty"`
	HP    int    `json:"hp,omitempty"`
	MaxHP int    `json:"max_hp,omitempty"`
}

// StateView is the match state from one player's perspective.
type StateView struct {
	You        PlayerView `json:"you"`
	Opponent   PlayerView `json:"opponent"`
	Turn       int        `json:"turn"`
	IsYourTurn bool       `json:"is_your_turn"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	HandCount     int           `json:"hand_count"`
	Hand          []string      `json:"hand,omitempty"` // card names (only for "you")
	Active        *PokemonView  `json:"active,omitempty"`
	Bench         []PokemonView `json:"bench,omitempty"`
	DiscardCount  int           `json:"discard_count"`
	DeckCount     int           `json:"deck_count"`
	CurrentEnergy string        `json:"current_energy,omitempty"`
	NextEnergy    string        `json:"next_energy,omitempty"`
}

// PokemonView describes one Pokémon in play.
type PokemonView struct {
	Name   string   `json:"name"`
	HP     int      `json:"hp"`
	MaxHP  int      `json:"max_hp"`
	Energy []string `json:"energy,omitempty"`
	Status string   `json:"status,omitempty"`
	Tool   string   `json:"tool,omitempty"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action"
	Index int `json:"index,omitempty"`

	// For "cards"
	Indices []int `json:"indices,omitempty"`

	// For "yes_no"
	Answer bool `json:"answer,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int `json:"deck_number,omitempty"`
}
