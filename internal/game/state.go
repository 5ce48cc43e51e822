package game

import (
	"github.com/google/uuid"
)

const (
	InitialHandSize = 5
	MaxBenchSize    = 3
	MaxHandSize     = 10
)

// EnergyMultiplier is an owner-scoped rule: each token of Energy attached to
// one of the owner's Pokémon of PokemonType counts Factor times.
type EnergyMultiplier struct {
	Energy      EnergyType
	PokemonType EnergyType // EnergyAny = the same type as Energy
	Factor      int
}

// Player represents one player's entire state.
type Player struct {
	Deck    []*CardInstance // top of deck is last element (pop from end)
	Hand    []*CardInstance
	Discard []*CardInstance

	Active *CardInstance
	Bench  []*CardInstance

	// DiscardEnergy tallies every energy token removed from this player's
	// Pokémon, bucketed by type.
	DiscardEnergy map[EnergyType]int

	// EnergyMultipliers are static rules granted for the whole match.
	// Rules coming from abilities in play are derived on every count.
	EnergyMultipliers []EnergyMultiplier

	// Energy Zone: the types this deck generates, the current and next token.
	EnergyTypes    []EnergyType
	CurrentEnergy  EnergyType
	NextEnergy     EnergyType
	EnergyAttached bool

	SupporterPlayed bool
	Retreated       bool
}

// NewPlayer creates an empty player.
func NewPlayer() *Player {
	return &Player{DiscardEnergy: make(map[EnergyType]int)}
}

// DeckCount returns the number of cards remaining in the deck.
func (p *Player) DeckCount() int {
	return len(p.Deck)
}

// HandCount returns the number of cards in hand.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// DrawCard removes the top card from the deck and adds it to the hand.
// Returns the drawn card, or nil if the deck is empty.
func (p *Player) DrawCard() *CardInstance {
	if len(p.Deck) == 0 {
		return nil
	}
	card := p.Deck[len(p.Deck)-1]
	p.Deck = p.Deck[:len(p.Deck)-1]
	card.Zone = ZoneHand
	p.Hand = append(p.Hand, card)
	return card
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *Player) RemoveFromHand(card *CardInstance) bool {
	for i, c := range p.Hand {
		if c.ID == card.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFromDeck removes a card from the deck by instance ID.
func (p *Player) RemoveFromDeck(card *CardInstance) bool {
	for i, c := range p.Deck {
		if c.ID == card.ID {
			p.Deck = append(p.Deck[:i], p.Deck[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFromBench removes a Pokémon from the bench by instance ID.
func (p *Player) RemoveFromBench(card *CardInstance) bool {
	for i, c := range p.Bench {
		if c.ID == card.ID {
			p.Bench = append(p.Bench[:i], p.Bench[i+1:]...)
			return true
		}
	}
	return false
}

// SendToDiscard moves a card to the discard pile, resetting its runtime
// state. Energy is not moved here; callers remove it through the ledger so
// the discard-energy tally stays correct.
func (p *Player) SendToDiscard(card *CardInstance) {
	card.Zone = ZoneDiscard
	card.Status = StatusNone
	card.StatusImmune = false
	card.MaxHPOverride = 0
	card.HP = card.Card.HP
	p.Discard = append(p.Discard, card)
}

// PlaceOnBench puts a card on the bench. Returns false if the bench is full.
func (p *Player) PlaceOnBench(card *CardInstance, benchSize int) bool {
	if len(p.Bench) >= benchSize {
		return false
	}
	card.Zone = ZoneBench
	p.Bench = append(p.Bench, card)
	return true
}

// PlaceActive puts a card into the Active Spot.
func (p *Player) PlaceActive(card *CardInstance) {
	card.Zone = ZoneActive
	p.Active = card
}

// InPlay returns the Active Pokémon followed by the bench.
func (p *Player) InPlay() []*CardInstance {
	var result []*CardInstance
	if p.Active != nil {
		result = append(result, p.Active)
	}
	return append(result, p.Bench...)
}

// HandBasics returns the Basic Pokémon in hand.
func (p *Player) HandBasics() []*CardInstance {
	var result []*CardInstance
	for _, c := range p.Hand {
		if c.Card.IsBasic() {
			result = append(result, c)
		}
	}
	return result
}

// ShuffleDeck randomizes the deck order.
func (p *Player) ShuffleDeck(coins *CoinFlipper) {
	coins.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

// ResetTurnFlags resets per-turn tracking for a new turn.
func (p *Player) ResetTurnFlags() {
	p.EnergyAttached = false
	p.SupporterPlayed = false
	p.Retreated = false
}

// --- GameState ---

// GameState holds the complete state of a match.
type GameState struct {
	Players    [2]*Player
	Turn       int // 1-based turn counter
	TurnPlayer int // 0 or 1: whose turn it is

	// Game result
	Winner int // 0, 1, or -1 (no winner yet)
	Over   bool
	Result string
}

// NewGameState creates a fresh match state.
func NewGameState() *GameState {
	return &GameState{
		Players: [2]*Player{NewPlayer(), NewPlayer()},
		Winner:  -1,
	}
}

// Opponent returns the index of the other player.
func (gs *GameState) Opponent(player int) int {
	return 1 - player
}

// CurrentPlayer returns the Player struct for the turn player.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.TurnPlayer]
}

// OpponentPlayer returns the Player struct for the non-turn player.
func (gs *GameState) OpponentPlayer() *Player {
	return gs.Players[gs.Opponent(gs.TurnPlayer)]
}

// FindInstance looks up a card instance anywhere in either player's zones.
func (gs *GameState) FindInstance(id string) *CardInstance {
	for _, p := range gs.Players {
		for _, zone := range [][]*CardInstance{p.InPlay(), p.Hand, p.Deck, p.Discard} {
			for _, c := range zone {
				if c.ID == id {
					return c
				}
			}
		}
	}
	return nil
}

// AllInPlay returns every Pokémon in play, player 0 first.
func (gs *GameState) AllInPlay() []*CardInstance {
	return append(gs.Players[0].InPlay(), gs.Players[1].InPlay()...)
}

// CreateCardInstance creates a CardInstance from a Card definition, assigned to a player.
func (gs *GameState) CreateCardInstance(card *Card, owner int) *CardInstance {
	return &CardInstance{
		Card:  card,
		ID:    uuid.NewString(),
		Owner: owner,
		Zone:  ZoneDeck,
		HP:    card.HP,
	}
}
