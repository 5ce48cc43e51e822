package effectdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NumberWidth is the width card numbers are left-padded to.
const NumberWidth = 3

var folder = cases.Fold()

var apostrophes = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"ʼ", "'",
	"`", "'",
)

// NormalizeName canonicalizes a card, attack or ability name for lookup:
// NFKC, case-folded, apostrophe variants unified, trimmed, internal
// whitespace collapsed to one space.
func NormalizeName(s string) string {
	s = norm.NFKC.String(s)
	s = folder.String(s)
	s = apostrophes.Replace(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// NormalizeSet canonicalizes a set code ("a1 " -> "A1").
func NormalizeSet(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PadNumber left-pads a numeric card number with zeros to NumberWidth.
// Non-numeric numbers (promo suffixes) are returned trimmed but otherwise
// unchanged.
func PadNumber(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	s = strings.TrimLeft(s, "0")
	if len(s) >= NumberWidth {
		return s
	}
	return strings.Repeat("0", NumberWidth-len(s)) + s
}

// CardKey builds the normalized "SET-NNN" identity of a printed card.
func CardKey(set, number string) string {
	return NormalizeSet(set) + "-" + PadNumber(number)
}

func moveKey(cardName, attackName string) string {
	return NormalizeName(cardName) + "|" + NormalizeName(attackName)
}

func abilityKey(set, number, abilityName string) string {
	return CardKey(set, number) + "|" + NormalizeName(abilityName)
}
