package engine

import (
	"fmt"
	"math"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// BidConfig holds the strategic-bid thresholds so tests can probe the
// boundaries instead of chasing magic numbers.
type BidConfig struct {
	MinBid float64

	// Risk classification by the share of effective budget the adjusted
	// value represents: below SafeShare is safe, below AggressiveShare is
	// aggressive, everything else is dangerous.
	SafeShare       float64
	AggressiveShare float64

	// AbsoluteMaxShare caps any single bid at this fraction of the
	// effective budget.
	AbsoluteMaxShare float64

	// Headroom above adjusted value allowed per risk level when
	// recommending a max bid.
	SafeHeadroom       float64
	AggressiveHeadroom float64
}

// DefaultBidConfig returns the production thresholds.
func DefaultBidConfig() BidConfig {
	return BidConfig{
		MinBid:             1,
		SafeShare:          0.25,
		AggressiveShare:    0.50,
		AbsoluteMaxShare:   0.50,
		SafeHeadroom:       1.15,
		AggressiveHeadroom: 1.05,
	}
}

// StrategicBid recommends a maximum bid for one player against the user's
// own remaining budget. Every roster spot except the last must keep the
// minimum bid in reserve; the last spot may absorb everything left.
func StrategicBid(moneyRemaining float64, rosterSpotsRemaining int, adjustedValue, projectedValue float64, cfg BidConfig) models.BidRecommendation {
	reserve := float64(rosterSpotsRemaining-1) * cfg.MinBid
	if reserve < 0 {
		reserve = 0
	}

	effective := moneyRemaining - reserve
	if effective < 0 {
		effective = 0
	}

	rec := models.BidRecommendation{
		MandatoryReserve: reserve,
		EffectiveBudget:  effective,
		AbsoluteMax:      math.Floor(effective * cfg.AbsoluteMaxShare),
	}

	if effective <= 0 {
		rec.RiskLevel = models.RiskDangerous
		rec.Advice = "No spendable budget left: every remaining spot needs the minimum bid."
		return rec
	}

	share := adjustedValue / effective
	switch {
	case share < cfg.SafeShare:
		rec.RiskLevel = models.RiskSafe
		rec.RecommendedMax = math.Round(adjustedValue * cfg.SafeHeadroom)
	case share < cfg.AggressiveShare:
		rec.RiskLevel = models.RiskAggressive
		rec.RecommendedMax = math.Round(adjustedValue * cfg.AggressiveHeadroom)
	default:
		rec.RiskLevel = models.RiskDangerous
		rec.RecommendedMax = math.Round(adjustedValue)
	}

	// Never recommend below the adjusted value or above what is spendable.
	if rec.RecommendedMax < adjustedValue {
		rec.RecommendedMax = math.Round(adjustedValue)
	}
	if rec.RecommendedMax > effective {
		rec.RecommendedMax = effective
	}

	premium := ""
	if projectedValue > 0 && adjustedValue > projectedValue {
		premium = fmt.Sprintf(" Market premium: $%.0f over the $%.0f projection.", adjustedValue-projectedValue, projectedValue)
	}

	switch rec.RiskLevel {
	case models.RiskSafe:
		rec.Advice = fmt.Sprintf("Comfortable bid: $%.0f is %.0f%% of your effective budget.%s", adjustedValue, share*100, premium)
	case models.RiskAggressive:
		rec.Advice = fmt.Sprintf("Aggressive bid: $%.0f would take %.0f%% of your effective budget.%s", adjustedValue, share*100, premium)
	default:
		rec.Advice = fmt.Sprintf("High risk: $%.0f would consume %.0f%% of your effective budget.%s", adjustedValue, share*100, premium)
	}

	return rec
}
