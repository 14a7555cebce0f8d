package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/teeline/internal/model"
	"github.com/verte-zerg/teeline/internal/store"
)

// Report holds everything the stats views render for one filter.
type Report struct {
	Attempts []model.Attempt
	Glyphs   []GlyphRow
	Levels   []LevelTally
	Piles    model.PileSet
}

// BuildReport loads attempts and piles for cfg.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list attempts: %w", err)
	}
	piles, err := st.Piles(ctx, cfg.Profile)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load piles: %w", err)
	}
	return Report{
		Attempts: attempts,
		Glyphs:   GlyphRows(attempts, piles),
		Levels:   TallyLevels(attempts),
		Piles:    piles,
	}, nil
}
