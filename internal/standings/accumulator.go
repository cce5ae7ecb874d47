package standings

import (
	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// RatioSentinel is the worst-possible stand-in for ERA/WHIP when a team has
// no projected innings. It keeps sorting well-defined where NaN would not.
const RatioSentinel = 99.99

// teamAccumulator folds a roster's per-player projections into the raw
// components team-level categories are rebuilt from. Ratio categories are
// never summed directly; only their numerator/denominator parts accumulate
// here, and the ratio is taken once at resolve time (a weighted average, not
// an average of averages).
type teamAccumulator struct {
	playerCount int
	counting    map[models.Category]float64

	// Hitting components. At-bats are estimated as H / AVG per player since
	// the projection feed does not carry AB directly. HBP and SF are not
	// available per player, so OBP knowingly omits them.
	hits       float64
	estAB      float64
	walks      float64
	totalBases float64 // SLG x estimated AB

	// Pitching components, reconstructed from the rate stats:
	// earned runs = ERA x IP / 9, walks+hits = WHIP x IP.
	earnedRuns float64
	walksHits  float64
	innings    float64
}

func newTeamAccumulator() *teamAccumulator {
	return &teamAccumulator{counting: make(map[models.Category]float64)}
}

// add folds one player's projection into the accumulator. Missing stats are
// skipped, never zero-filled.
func (a *teamAccumulator) add(p *models.Player, categories []models.Category) {
	a.playerCount++

	for _, c := range categories {
		if c.IsRatio() {
			continue
		}
		if v, ok := p.Stat(c); ok {
			a.counting[c] += v
		}
	}

	hits, hasHits := p.Stat(models.CategoryHits)
	avg, hasAvg := p.Stat(models.CategoryAvg)
	walks, hasWalks := p.Stat(models.CategoryWalks)
	slg, hasSlg := p.Stat(models.CategorySlg)

	// A zero AVG would blow up the AB estimate; skip that player's
	// contribution to AB-derived stats instead.
	if hasHits && hasAvg && avg > 0 {
		estAB := hits / avg
		a.hits += hits
		a.estAB += estAB
		if hasSlg {
			a.totalBases += slg * estAB
		}
	}
	if hasWalks {
		a.walks += walks
	}

	ip, hasIP := p.Stat(models.CategoryInnings)
	if hasIP && ip > 0 {
		a.innings += ip
		if era, ok := p.Stat(models.CategoryERA); ok {
			a.earnedRuns += era * ip / 9
		}
		if whip, ok := p.Stat(models.CategoryWHIP); ok {
			a.walksHits += whip * ip
		}
	}
}

// resolve produces the final team value for one category. The second return
// is false when the category could not be computed for this team; Value then
// carries the sentinel (ERA/WHIP) or 0 (everything else) so ranking stays
// total.
func (a *teamAccumulator) resolve(c models.Category) (float64, bool) {
	if !c.IsRatio() {
		return a.counting[c], true
	}

	switch c {
	case models.CategoryAvg:
		if a.estAB > 0 {
			return a.hits / a.estAB, true
		}
		return 0, false
	case models.CategoryOBP:
		if den := a.estAB + a.walks; den > 0 {
			return (a.hits + a.walks) / den, true
		}
		return 0, false
	case models.CategorySlg:
		if a.estAB > 0 {
			return a.totalBases / a.estAB, true
		}
		return 0, false
	case models.CategoryOPS:
		obp, okOBP := a.resolve(models.CategoryOBP)
		slg, okSLG := a.resolve(models.CategorySlg)
		if okOBP && okSLG {
			return obp + slg, true
		}
		return 0, false
	case models.CategoryERA:
		if a.innings > 0 {
			return 9 * a.earnedRuns / a.innings, true
		}
		return RatioSentinel, false
	case models.CategoryWHIP:
		if a.innings > 0 {
			return a.walksHits / a.innings, true
		}
		return RatioSentinel, false
	default:
		// Ratio categories without a reconstruction formula (K/BB, BB/9,
		// K/BF%) are rejected at configuration time; if one slips through
		// it resolves to 0 and is flagged not computable.
		return 0, false
	}
}
