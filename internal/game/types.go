package game

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// --- Enums ---

// EnergyType is one of the nine element types. The zero value, EnergyAny,
// matches every type in ledger queries and is never carried by a token.
type EnergyType int

const (
	EnergyAny EnergyType = iota
	EnergyGrass
	EnergyFire
	EnergyWater
	EnergyLightning
	EnergyPsychic
	EnergyFighting
	EnergyDarkness
	EnergyMetal
	EnergyColorless
)

// AllEnergyTypes lists the concrete energy types in display order.
var AllEnergyTypes = []EnergyType{
	EnergyGrass, EnergyFire, EnergyWater, EnergyLightning, EnergyPsychic,
	EnergyFighting, EnergyDarkness, EnergyMetal, EnergyColorless,
}

func (e EnergyType) String() string {
	switch e {
	case EnergyGrass:
		return "grass"
	case EnergyFire:
		return "fire"
	case EnergyWater:
		return "water"
	case EnergyLightning:
		return "lightning"
	case EnergyPsychic:
		return "psychic"
	case EnergyFighting:
		return "fighting"
	case EnergyDarkness:
		return "darkness"
	case EnergyMetal:
		return "metal"
	case EnergyColorless:
		return "colorless"
	default:
		return "any"
	}
}

// Matches reports whether a token of type t satisfies a query for e.
func (e EnergyType) Matches(t EnergyType) bool {
	return e == EnergyAny || e == t
}

// ParseEnergyType parses an energy name ("Fire", "fire", "dark").
func ParseEnergyType(s string) (EnergyType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grass":
		return EnergyGrass, true
	case "fire":
		return EnergyFire, true
	case "water":
		return EnergyWater, true
	case "lightning", "electric":
		return EnergyLightning, true
	case "psychic":
		return EnergyPsychic, true
	case "fighting":
		return EnergyFighting, true
	case "darkness", "dark":
		return EnergyDarkness, true
	case "metal", "steel":
		return EnergyMetal, true
	case "colorless", "normal":
		return EnergyColorless, true
	case "", "any":
		return EnergyAny, true
	default:
		return EnergyAny, false
	}
}

// Status is the single special condition a Pokémon may have.
type Status int

const (
	StatusNone Status = iota
	StatusPoisoned
	StatusBurned
	StatusAsleep
	StatusParalyzed
	StatusConfused
)

func (s Status) String() string {
	switch s {
	case StatusPoisoned:
		return "Poisoned"
	case StatusBurned:
		return "Burned"
	case StatusAsleep:
		return "Asleep"
	case StatusParalyzed:
		return "Paralyzed"
	case StatusConfused:
		return "Confused"
	default:
		return "None"
	}
}

// ParseStatus accepts both the noun and adjective forms ("poison", "poisoned").
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "poison", "poisoned":
		return StatusPoisoned, true
	case "burn", "burned":
		return StatusBurned, true
	case "sleep", "asleep":
		return StatusAsleep, true
	case "paralysis", "paralyzed":
		return StatusParalyzed, true
	case "confusion", "confused":
		return StatusConfused, true
	default:
		return StatusNone, false
	}
}

type Category int

const (
	CategoryPokemon Category = iota
	CategoryTrainer
)

func (c Category) String() string {
	if c == CategoryTrainer {
		return "Trainer"
	}
	return "Pokemon"
}

type Stage int

const (
	StageBasic Stage = iota
	Stage1
	Stage2
)

func (s Stage) String() string {
	switch s {
	case Stage1:
		return "Stage 1"
	case Stage2:
		return "Stage 2"
	default:
		return "Basic"
	}
}

// Trainer subtypes as printed.
const (
	TrainerItem      = "Item"
	TrainerSupporter = "Supporter"
	TrainerTool      = "Tool"
	TrainerStadium   = "Stadium"
)

// --- Card definition (static, from the catalog) ---

// Attack is a printed attack.
type Attack struct {
	Name   string
	Cost   []EnergyType
	Damage string // printed notation: "30", "50+", "20x", ""
}

// BaseDamage returns the numeric part of the printed damage.
func (a Attack) BaseDamage() int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, a.Damage)
	n, _ := strconv.Atoi(digits)
	return n
}

// Multiplicative reports whether the printed damage is "per heads" style.
func (a Attack) Multiplicative() bool {
	d := strings.TrimSpace(a.Damage)
	return strings.HasSuffix(d, "x") || strings.HasSuffix(d, "×")
}

type Card struct {
	Set         string
	Number      string
	Name        string
	Category    Category
	Types       []EnergyType
	Stage       Stage
	EvolvesFrom string
	HP          int
	RetreatCost int
	Weakness    EnergyType // EnergyAny = none
	Attacks     []Attack
	Abilities   []string
	TrainerType string // trainers only
}

func (c *Card) String() string {
	return c.Name
}

// Key returns the "SET-NNN" identity of the card.
func (c *Card) Key() string {
	return c.Set + "-" + c.Number
}

// IsEx reports whether the card is an "ex" Pokémon.
func (c *Card) IsEx() bool {
	return strings.HasSuffix(strings.ToLower(c.Name), " ex")
}

// IsPokemon reports whether the card is a Pokémon.
func (c *Card) IsPokemon() bool {
	return c.Category == CategoryPokemon
}

// IsBasic reports whether the card is a Basic Pokémon.
func (c *Card) IsBasic() bool {
	return c.Category == CategoryPokemon && c.Stage == StageBasic
}

// HasType reports whether the card's printed types include t.
func (c *Card) HasType(t EnergyType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// PrimaryType returns the first printed type, or EnergyColorless.
func (c *Card) PrimaryType() EnergyType {
	if len(c.Types) == 0 {
		return EnergyColorless
	}
	return c.Types[0]
}

// AttackByName returns the printed attack with the given name.
func (c *Card) AttackByName(name string) (Attack, bool) {
	for _, a := range c.Attacks {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attack{}, false
}

// --- Energy tokens ---

// Energy is one attached energy unit. ID is stable across transfers.
type Energy struct {
	ID   string
	Type EnergyType
}

// --- CardInstance (runtime card in deck/hand/play/discard) ---

type CardInstance struct {
	Card  *Card
	ID    string // unique instance ID within a match
	Owner int    // player index (0 or 1)
	Zone  ZoneType

	HP            int // current HP
	MaxHPOverride int // effective max while a modifier is attached (0 = printed)

	Status       Status
	StatusImmune bool

	Energy []Energy
	Tool   *CardInstance

	// Evolution stack, oldest first.
	Evolutions []*CardInstance

	TurnPlaced      int
	TurnEvolved     int
	AbilityUsedTurn int
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return ci.Card.Name
}

// DisplayString returns a human-readable description for the event log.
func (ci *CardInstance) DisplayString() string {
	if ci == nil {
		return "(empty)"
	}
	if !ci.Card.IsPokemon() {
		return ci.Card.Name
	}
	s := fmt.Sprintf("%s (%d/%d HP", ci.Card.Name, ci.HP, ci.MaxHP())
	if len(ci.Energy) > 0 {
		s += fmt.Sprintf(", %d energy", len(ci.Energy))
	}
	if ci.Status != StatusNone {
		s += ", " + ci.Status.String()
	}
	return s + ")"
}

// MaxHP returns the effective maximum HP. The printed HP is never modified.
func (ci *CardInstance) MaxHP() int {
	if ci.MaxHPOverride > 0 {
		return ci.MaxHPOverride
	}
	return ci.Card.HP
}

// DamageCounters returns the damage currently on the Pokémon.
func (ci *CardInstance) DamageCounters() int {
	return ci.MaxHP() - ci.HP
}

// IsDamaged reports whether the Pokémon has any damage on it.
func (ci *CardInstance) IsDamaged() bool {
	return ci.HP < ci.MaxHP()
}

// IsEvolved reports whether this Pokémon evolved from another card in play.
func (ci *CardInstance) IsEvolved() bool {
	return len(ci.Evolutions) > 0 || ci.Card.Stage != StageBasic
}

// InPlay reports whether the instance is Active or on the Bench.
func (ci *CardInstance) InPlay() bool {
	return ci.Zone == ZoneActive || ci.Zone == ZoneBench
}

// SetHP sets current HP clamped to [0, MaxHP].
func (ci *CardInstance) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	if max := ci.MaxHP(); hp > max {
		hp = max
	}
	ci.HP = hp
}

// --- Zone types ---

type ZoneType int

const (
	ZoneDeck ZoneType = iota
	ZoneHand
	ZoneActive
	ZoneBench
	ZoneDiscard
)

func (z ZoneType) String() string {
	switch z {
	case ZoneDeck:
		return "Deck"
	case ZoneHand:
		return "Hand"
	case ZoneActive:
		return "Active Spot"
	case ZoneBench:
		return "Bench"
	case ZoneDiscard:
		return "Discard Pile"
	default:
		return "Unknown"
	}
}

// --- Action types ---

type ActionType int

const (
	ActionPlayBasic ActionType = iota
	ActionEvolve
	ActionAttachEnergy
	ActionPlayTrainer
	ActionUseAbility
	ActionRetreat
	ActionAttack
	ActionEndTurn
	ActionPromote
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayBasic:
		return "Play Basic"
	case ActionEvolve:
		return "Evolve"
	case ActionAttachEnergy:
		return "Attach Energy"
	case ActionPlayTrainer:
		return "Play Trainer"
	case ActionUseAbility:
		return "Use Ability"
	case ActionRetreat:
		return "Retreat"
	case ActionAttack:
		return "Attack"
	case ActionEndTurn:
		return "End Turn"
	case ActionPromote:
		return "Promote"
	default:
		return "Unknown"
	}
}

// Action represents a player action with all necessary details.
type Action struct {
	Type    ActionType
	Player  int
	Card    *CardInstance // card being played/used
	Target  *CardInstance // evolution base, energy target, retreat replacement
	Attack  int           // index into Card.Card.Attacks
	Ability string        // ability name for ActionUseAbility
	Preview int           // projected damage for ActionAttack
	Desc    string        // human-readable description
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}
	return a.Type.String()
}
