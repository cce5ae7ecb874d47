package engine

import (
	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// ScarcityConfig holds the tunable boundaries for positional scarcity
// classification. Use DefaultScarcityConfig rather than constructing one
// field by field.
type ScarcityConfig struct {
	// QualityValueFloor is the projected dollar value at or above which a
	// player counts toward the quality supply ($11 = the mid-tier band).
	QualityValueFloor float64

	// Classification band lower bounds on scarcityRatio.
	SurplusRatio  float64
	NormalRatio   float64
	ModerateRatio float64

	// Inflation bumps per band. Surplus is always 1.0; the rest must be
	// non-decreasing as the band gets scarcer.
	NormalBump   float64
	ModerateBump float64
	SevereBump   float64
}

// DefaultScarcityConfig returns the production thresholds.
func DefaultScarcityConfig() ScarcityConfig {
	return ScarcityConfig{
		QualityValueFloor: 11,
		SurplusRatio:      1.5,
		NormalRatio:       0.8,
		ModerateRatio:     0.4,
		NormalBump:        1.05,
		ModerateBump:      1.15,
		SevereBump:        1.30,
	}
}

// Classify maps a scarcity ratio to its band.
func (c ScarcityConfig) Classify(ratio float64) models.ScarcityLevel {
	switch {
	case ratio >= c.SurplusRatio:
		return models.ScarcitySurplus
	case ratio >= c.NormalRatio:
		return models.ScarcityNormal
	case ratio >= c.ModerateRatio:
		return models.ScarcityModerate
	default:
		return models.ScarcitySevere
	}
}

// Multiplier maps a band to its inflation adjustment, >= 1.0 and
// non-decreasing as supply gets scarcer.
func (c ScarcityConfig) Multiplier(level models.ScarcityLevel) float64 {
	switch level {
	case models.ScarcityNormal:
		return c.NormalBump
	case models.ScarcityModerate:
		return c.ModerateBump
	case models.ScarcitySevere:
		return c.SevereBump
	default:
		return 1.0
	}
}

// AnalyzeScarcity computes the supply/demand picture for every position the
// league rosters. Pure function of the snapshot: nothing is cached between
// calls.
func AnalyzeScarcity(available, drafted []models.Player, settings *models.LeagueSettings, cfg ScarcityConfig) map[string]models.PositionalScarcity {
	result := make(map[string]models.PositionalScarcity, len(settings.RosterSlots))

	for pos, slots := range settings.RosterSlots {
		availableCount := 0
		qualityCount := 0
		for i := range available {
			p := &available[i]
			if p.Status != models.StatusAvailable || !p.HasPosition(pos) {
				continue
			}
			availableCount++
			if p.ProjectedValue >= cfg.QualityValueFloor {
				qualityCount++
			}
		}

		totalSlots := slots * settings.TeamCount
		filled := 0
		for i := range drafted {
			if drafted[i].HasPosition(pos) {
				filled++
			}
		}
		if filled > totalSlots {
			filled = totalSlots
		}
		need := totalSlots - filled

		denom := need
		if denom < 1 {
			denom = 1
		}
		ratio := float64(qualityCount) / float64(denom)
		level := cfg.Classify(ratio)

		result[pos] = models.PositionalScarcity{
			Position:            pos,
			AvailableCount:      availableCount,
			QualityCount:        qualityCount,
			LeagueNeed:          need,
			ScarcityRatio:       ratio,
			Level:               level,
			InflationAdjustment: cfg.Multiplier(level),
		}
	}

	return result
}
