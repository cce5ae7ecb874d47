package engine

import (
	"sort"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// CalculateInflation computes the market-wide inflation picture from already
// drafted players. A positive rate means the market is paying above
// projection. Rates guard against a zero denominator by resolving to 0.
func CalculateInflation(drafted []models.Player) models.InflationStats {
	stats := models.InflationStats{}

	type tierAgg struct {
		projected float64
		actual    float64
		count     int
	}
	tiers := make(map[int]*tierAgg)

	weightedSum := 0.0
	weightTotal := 0.0

	for i := range drafted {
		p := &drafted[i]
		stats.TotalProjected += p.ProjectedValue
		stats.TotalActual += p.DraftedPrice
		stats.DraftedCount++

		tier := p.EffectiveTier()
		agg := tiers[tier]
		if agg == nil {
			agg = &tierAgg{}
			tiers[tier] = agg
		}
		agg.projected += p.ProjectedValue
		agg.actual += p.DraftedPrice
		agg.count++

		// Price-weighted rate: expensive players move it more than $1
		// fillers. Display-only; the base multiplier never uses it.
		if p.ProjectedValue > 0 && p.DraftedPrice > 0 {
			playerRate := (p.DraftedPrice - p.ProjectedValue) / p.ProjectedValue
			weightedSum += playerRate * p.DraftedPrice
			weightTotal += p.DraftedPrice
		}
	}

	if stats.TotalProjected > 0 {
		stats.OverallRate = (stats.TotalActual - stats.TotalProjected) / stats.TotalProjected
	}
	if weightTotal > 0 {
		stats.WeightedRate = weightedSum / weightTotal
	}

	tierKeys := make([]int, 0, len(tiers))
	for t := range tiers {
		tierKeys = append(tierKeys, t)
	}
	sort.Ints(tierKeys)

	for _, t := range tierKeys {
		agg := tiers[t]
		rate := 0.0
		if agg.projected > 0 {
			rate = (agg.actual - agg.projected) / agg.projected
		}
		stats.Tiers = append(stats.Tiers, models.TierInflation{
			Tier:           t,
			Label:          models.TierLabel(t),
			DraftedCount:   agg.count,
			TotalProjected: agg.projected,
			TotalActual:    agg.actual,
			Rate:           rate,
		})
	}

	return stats
}

// ComputeEnhancedInflationStats builds the full artifact the value adjuster
// consumes: inflation, scarcity, and budget constraints for one snapshot.
// Deterministic and side-effect free; call it once per snapshot refresh.
func ComputeEnhancedInflationStats(drafted, available []models.Player, settings *models.LeagueSettings, snapshot *models.AuctionSnapshot, cfg ScarcityConfig) models.EnhancedInflationStats {
	inflation := CalculateInflation(drafted)
	budgets := ResolveBudgets(snapshot, drafted, settings)
	leagueBudget := LeagueEffectiveBudget(budgets)
	remainingValue := RemainingProjectedValue(available)

	// The primary base multiplier: how many effective dollars chase each
	// remaining projected dollar. With no remaining inventory it falls back
	// to 1 + overall rate so the multiplier stays sane.
	base := 1 + inflation.OverallRate
	if remainingValue > 0 {
		base = leagueBudget / remainingValue
	}

	return models.EnhancedInflationStats{
		InflationStats:          inflation,
		Scarcity:                AnalyzeScarcity(available, drafted, settings, cfg),
		TeamBudgets:             budgets,
		LeagueEffectiveBudget:   leagueBudget,
		RemainingProjectedValue: remainingValue,
		BaseMultiplier:          base,
	}
}
