package engine

import (
	"math"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// AdjustedValue computes a player's inflation- and scarcity-adjusted dollar
// value. A multi-position player benefits from its scarcest eligible
// position. The result is rounded to whole dollars and floored at the league
// minimum bid. Idempotent for an unchanged stats artifact.
func AdjustedValue(p *models.Player, stats *models.EnhancedInflationStats, settings *models.LeagueSettings) float64 {
	scarcityMult := 1.0
	for _, pos := range p.Positions {
		if s, ok := stats.Scarcity[pos]; ok && s.InflationAdjustment > scarcityMult {
			scarcityMult = s.InflationAdjustment
		}
	}

	adjusted := math.Round(p.ProjectedValue * stats.BaseMultiplier * scarcityMult)
	if adjusted < settings.MinBid {
		adjusted = settings.MinBid
	}
	return adjusted
}

// AdjustAll computes adjusted values for every available player, keyed by
// player ID. Drafted players are skipped; their price is already settled.
func AdjustAll(players []models.Player, stats *models.EnhancedInflationStats, settings *models.LeagueSettings) map[string]float64 {
	values := make(map[string]float64)
	for i := range players {
		if players[i].Status != models.StatusAvailable {
			continue
		}
		values[players[i].ID] = AdjustedValue(&players[i], stats, settings)
	}
	return values
}
