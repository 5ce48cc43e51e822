package config

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/tcgpx/internal/game"
)

func shippedConfig() Simulator {
	cfg := Default()
	root := filepath.Join("..", "..")
	cfg.TablesDir = filepath.Join(root, cfg.TablesDir)
	cfg.CatalogFile = filepath.Join(root, cfg.CatalogFile)
	cfg.DecksFile = filepath.Join(root, cfg.DecksFile)
	return cfg
}

func TestShippedDecksAreLegal(t *testing.T) {
	ctx := context.Background()
	cfg := shippedConfig()
	content, err := cfg.LoadContent(ctx)
	require.NoError(t, err)

	decks, err := game.ParseDeckFile(ctx, cfg.DecksFile, content.Catalog)
	require.NoError(t, err)
	require.Len(t, decks, 3)
	for name, d := range decks {
		assert.NoError(t, d.Validate(), name)
	}
	assert.Equal(t, []game.EnergyType{game.EnergyLightning}, decks["Raichu Magneton"].Energy)
}

func TestShippedTablesUseRegisteredKinds(t *testing.T) {
	content, err := shippedConfig().LoadContent(context.Background())
	require.NoError(t, err)

	for _, key := range content.Catalog.Keys() {
		i := strings.LastIndex(key, "-")
		set, number := key[:i], key[i+1:]
		card, err := content.Catalog.FetchCard(context.Background(), set, number)
		require.NoError(t, err)
		for _, a := range card.Attacks {
			row, ok := content.Tables.LookupMove(card.Name, a.Name)
			if !ok || row.Kind == "" {
				continue
			}
			assert.Contains(t, game.MoveEffects, row.Kind, "%s %s", card.Name, a.Name)
		}
		for _, name := range card.Abilities {
			row, ok := content.Tables.LookupAbility(card.Set, card.Number, name)
			require.True(t, ok, "%s %s", card.Name, name)
			assert.Contains(t, game.AbilityEffects, row.Kind)
		}
		if card.Category == game.CategoryTrainer {
			row, ok := content.Tables.LookupTrainer(card.Set, card.Number)
			require.True(t, ok, card.Name)
			assert.Contains(t, game.TrainerEffects, row.Kind)
		}
	}
}

func TestLoadContentMissingFiles(t *testing.T) {
	cfg := Default()
	cfg.CatalogFile = filepath.Join(t.TempDir(), "none.yaml")
	cfg.TablesDir = t.TempDir()
	_, err := cfg.LoadContent(context.Background())
	assert.ErrorContains(t, err, "load catalog")
}

func TestRulesCarriesMatchSettings(t *testing.T) {
	m := Default().Match
	m.Seed = 9
	rules := m.Rules()
	assert.Equal(t, int64(9), rules.Seed)
	assert.Equal(t, 60, rules.MaxTurns)
	assert.Equal(t, 20, rules.WeaknessBonus)
	assert.Nil(t, rules.Tables)
}
