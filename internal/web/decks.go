package web

import (
	"github.com/peterkuimelis/tcgpx/internal/game"
	"gopkg.in/yaml.v3"
)

func parseDeckFileYAML(data []byte) (game.DeckFile, error) {
	var df game.DeckFile
	err := yaml.Unmarshal(data, &df)
	return df, err
}

// deckCardNames lists the unique card names of a deck entry, covering both
// structured entries and the pasted list.
func deckCardNames(d game.DeckEntry) []string {
	entries := append([]game.CardEntry(nil), d.Cards...)
	if d.List != "" {
		if listed, err := game.ParseDecklist(d.List); err == nil {
			entries = append(entries, listed...)
		}
	}
	var names []string
	seen := make(map[string]bool)
	for _, c := range entries {
		if !seen[c.Name] {
			names = append(names, c.Name)
			seen[c.Name] = true
		}
	}
	return names
}
