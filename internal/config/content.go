package config

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/peterkuimelis/tcgpx/internal/catalog"
	"github.com/peterkuimelis/tcgpx/internal/effectdata"
	"github.com/peterkuimelis/tcgpx/internal/game"
)

// Content is the static data every match reads from.
type Content struct {
	Catalog *catalog.Catalog
	Tables  *effectdata.Tables
}

// LoadContent reads the card catalog and the effect tables in parallel.
func (s Simulator) LoadContent(ctx context.Context) (*Content, error) {
	var c Content
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat, err := catalog.Load(s.CatalogFile)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", s.CatalogFile, err)
		}
		c.Catalog = cat
		return nil
	})
	g.Go(func() error {
		t, err := effectdata.LoadDir(ctx, s.TablesDir)
		if err != nil {
			return fmt.Errorf("load effect tables %s: %w", s.TablesDir, err)
		}
		c.Tables = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Rules converts the match settings into a match template. Decks,
// controllers and content are filled in per match.
func (m MatchConfig) Rules() game.MatchConfig {
	return game.MatchConfig{
		Seed:            m.Seed,
		NoShuffle:       m.NoShuffle,
		MaxTurns:        m.MaxTurns,
		InitialHandSize: m.InitialHandSize,
		BenchSize:       m.BenchSize,
		WeaknessBonus:   m.WeaknessBonus,
	}
}
