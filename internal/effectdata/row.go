// Package effectdata loads the tabular card-effect definitions (moves,
// abilities, trainers) and resolves them by normalized card identity.
package effectdata

import (
	"strconv"
	"strings"
)

// TableKind identifies which effect table a row came from.
type TableKind int

const (
	TableMoves TableKind = iota
	TableAbilities
	TableTrainers
)

func (k TableKind) String() string {
	switch k {
	case TableMoves:
		return "moves"
	case TableAbilities:
		return "abilities"
	case TableTrainers:
		return "trainers"
	default:
		return "unknown"
	}
}

// AbilityType distinguishes abilities that are scanned passively from ones
// the player activates.
type AbilityType string

const (
	AbilityPassive AbilityType = "passive"
	AbilityActive  AbilityType = "active"
)

// Row is one immutable effect definition.
//
// Kind and the two string parameters drive the handler; the remaining fields
// identify the card the row belongs to and are used only for lookup and
// display.
type Row struct {
	Kind   string
	Param1 string
	Param2 string

	Set         string
	Number      string // zero-padded to NumberWidth
	PokemonName string
	Name        string // attack, ability or trainer name

	AbilityType AbilityType // abilities only
	TrainerType string      // trainers only: Item, Supporter, Tool, Stadium

	DamageBase     int    // moves only
	DamageNotation string // moves only, e.g. "30", "50+", "20x"

	Text string
}

// IsZero reports whether r is the empty row.
func (r Row) IsZero() bool {
	return r.Kind == "" && r.Name == "" && r.Set == ""
}

// Multiplicative reports whether the printed damage is "flips x per-flip".
func (r Row) Multiplicative() bool {
	n := strings.TrimSpace(r.DamageNotation)
	return strings.HasSuffix(n, "×") || strings.HasSuffix(n, "x") || strings.HasSuffix(n, "X")
}

// IntParam1 parses Param1 as an integer, returning def when it is empty or
// malformed. Effect tables are external content; a bad cell must not stop a
// match.
func (r Row) IntParam1(def int) int {
	return parseIntOr(r.Param1, def)
}

// IntParam2 parses Param2 as an integer, returning def when it is empty or
// malformed.
func (r Row) IntParam2(def int) int {
	return parseIntOr(r.Param2, def)
}

// ListParam1 splits Param1 on ';' and returns the normalized, non-empty items.
func (r Row) ListParam1() []string {
	return splitList(r.Param1)
}

// ListParam2 splits Param2 on ';' and returns the normalized, non-empty items.
func (r Row) ListParam2() []string {
	return splitList(r.Param2)
}

func parseIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = NormalizeName(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
