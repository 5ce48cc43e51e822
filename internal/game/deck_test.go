package game

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/effectdata"
)

// mapCatalog resolves cards from a fixed set.
type mapCatalog map[string]*Card

func (c mapCatalog) FetchCard(_ context.Context, set, number string) (*Card, error) {
	if card, ok := c[effectdata.CardKey(set, number)]; ok {
		return card, nil
	}
	return nil, fmt.Errorf("card %s %s not found", set, number)
}

func (c mapCatalog) CardByName(name string) (*Card, bool) {
	for _, card := range c {
		if effectdata.NormalizeName(card.Name) == effectdata.NormalizeName(name) {
			return card, true
		}
	}
	return nil, false
}

func testCatalog() mapCatalog {
	cat := mapCatalog{}
	for _, c := range []*Card{
		pokemon("A1", "1", "Bulbasaur", 70, EnergyGrass),
		pokemon("A1", "33", "Charmander", 60, EnergyFire),
		pokemon("A1", "94", "Pikachu", 60, EnergyLightning),
		pokemon("A1", "186", "Snorlax", 150, EnergyColorless),
		stage1("A1", "2", "Ivysaur", "Bulbasaur", 90, EnergyGrass),
		trainer("PA", "7", "Professor's Research", TrainerSupporter),
		trainer("PA", "5", "Poké Ball", TrainerItem),
	} {
		cat[effectdata.CardKey(c.Set, c.Number)] = c
	}
	return cat
}

func TestParseDecklist(t *testing.T) {
	text := `Pokémon: 3
2 Bulbasaur A1 1
1 Ivysaur A1 2

# comment
Trainer: 2
2 Professor's Research PA 7
not a card line
`
	cards, err := ParseDecklist(text)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, CardEntry{Name: "Bulbasaur", Set: "A1", Number: "1", Count: 2}, cards[0])
	assert.Equal(t, "Professor's Research", cards[2].Name)
	assert.Equal(t, "PA", cards[2].Set)
}

func TestResolveDeckByNumberAndName(t *testing.T) {
	d, err := ResolveDeck(context.Background(), DeckEntry{
		Name:  "mixed",
		Cards: []CardEntry{{Name: "pikachu", Count: 2}},
		List:  "2 Bulbasaur A1 1\n",
	}, testCatalog())
	require.NoError(t, err)
	require.Len(t, d.Cards, 4)
	assert.Equal(t, "Pikachu", d.Cards[0].Name)
	assert.Equal(t, "Bulbasaur", d.Cards[3].Name)
	assert.Equal(t, []EnergyType{EnergyLightning, EnergyGrass}, d.Energy)
}

func TestResolveDeckErrors(t *testing.T) {
	ctx := context.Background()
	_, err := ResolveDeck(ctx, DeckEntry{Name: "x", Cards: []CardEntry{{Name: "Mewtwo", Count: 1}}}, testCatalog())
	assert.ErrorContains(t, err, "cannot resolve")

	_, err = ResolveDeck(ctx, DeckEntry{Name: "x", Energy: []string{"plasma"}}, testCatalog())
	assert.ErrorContains(t, err, "unknown energy")

	_, err = ResolveDeck(ctx, DeckEntry{Name: "x"}, nil)
	assert.Error(t, err)
}

func TestDeckValidate(t *testing.T) {
	cat := testCatalog()
	bulba := cat[effectdata.CardKey("A1", "1")]
	char := cat[effectdata.CardKey("A1", "33")]
	ball := cat[effectdata.CardKey("PA", "5")]

	legal := func() []*Card {
		var cards []*Card
		for i := 0; i < 10; i++ {
			cards = append(cards, pokemon("A1", fmt.Sprint(200+i), fmt.Sprintf("Mon %d", i), 60, EnergyGrass))
		}
		for i := 0; i < 10; i++ {
			cards = append(cards, trainer("PA", fmt.Sprint(100+i), fmt.Sprintf("Item %d", i), TrainerItem))
		}
		return cards
	}

	tests := []struct {
		name    string
		cards   []*Card
		wantErr string
	}{
		{"legal", legal(), ""},
		{"too small", legal()[:19], "has 19 cards"},
		{"three copies", append(legal()[:17], bulba, bulba, bulba), "more than 2 copies"},
		{"three trainers", append(legal()[:17], ball, ball, ball), "more than 2 copies"},
		{"basic present", append(legal()[:18], char, char), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Deck{Name: tt.name, Cards: tt.cards}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDeckValidateRequiresBasic(t *testing.T) {
	var cards []*Card
	for i := 0; i < DeckSize; i++ {
		cards = append(cards, trainer("PA", fmt.Sprint(100+i), fmt.Sprintf("Item %d", i), TrainerItem))
	}
	assert.ErrorContains(t, (&Deck{Name: "trainers", Cards: cards}).Validate(), "no Basic")
}

func TestDeckByNumber(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`decks:
  - name: Grass
    energy: [grass]
    cards:
      - {name: Bulbasaur, set: A1, number: "1", count: 2}
  - name: Fire
    list: |
      2 Charmander A1 33
`), 0o644))

	ctx := context.Background()
	d, err := DeckByNumber(ctx, path, 2, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Fire", d.Name)
	assert.Equal(t, []EnergyType{EnergyFire}, d.Energy)

	_, err = DeckByNumber(ctx, path, 3, testCatalog())
	assert.ErrorContains(t, err, "not found")

	all, err := ParseDeckFile(ctx, path, testCatalog())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, []EnergyType{EnergyGrass}, all["Grass"].Energy)
}
