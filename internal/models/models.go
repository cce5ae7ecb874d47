package models

// PlayerStatus is the lifecycle state of a player within one auction.
type PlayerStatus string

const (
	StatusAvailable PlayerStatus = "available"
	StatusDrafted   PlayerStatus = "drafted"
	StatusOnMyTeam  PlayerStatus = "onMyTeam"
)

// Price tier bands, derived from historical auction spending patterns.
// Tier 1 is elite ($31+), tier 6 is replacement-level filler ($1-$5).
const (
	TierElite   = 1
	TierStar    = 2
	TierQuality = 3
	TierMid     = 4
	TierValue   = 5
	TierFiller  = 6
)

// TierForValue buckets a projected dollar value into a price tier.
func TierForValue(value float64) int {
	switch {
	case value >= 31:
		return TierElite
	case value >= 21:
		return TierStar
	case value >= 16:
		return TierQuality
	case value >= 11:
		return TierMid
	case value >= 6:
		return TierValue
	default:
		return TierFiller
	}
}

// TierLabel returns the display name for a price tier.
func TierLabel(tier int) string {
	switch tier {
	case TierElite:
		return "Elite ($31+)"
	case TierStar:
		return "Star ($21-$30)"
	case TierQuality:
		return "Quality ($16-$20)"
	case TierMid:
		return "Mid-tier ($11-$15)"
	case TierValue:
		return "Value ($6-$10)"
	default:
		return "Filler ($1-$5)"
	}
}

// Player is one entry in the projection catalog. ProjectedValue comes from
// the projection import; AdjustedValue is recomputed by the valuation engine.
// Status, DraftedPrice and DraftedBy change only on draft events.
type Player struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Positions      []string             `json:"positions"`
	ProjectedValue float64              `json:"projectedValue"`
	AdjustedValue  float64              `json:"adjustedValue"`
	Stats          map[Category]float64 `json:"stats,omitempty"`
	Status         PlayerStatus         `json:"status"`
	DraftedPrice   float64              `json:"draftedPrice,omitempty"`
	DraftedBy      string               `json:"draftedBy,omitempty"`
	Tier           int                  `json:"tier,omitempty"`
}

// EffectiveTier returns the player's assigned tier, falling back to the
// price-band bucket for the projected value when no tier was imported.
func (p *Player) EffectiveTier() int {
	if p.Tier > 0 {
		return p.Tier
	}
	return TierForValue(p.ProjectedValue)
}

// HasPosition reports whether the player is eligible at pos.
func (p *Player) HasPosition(pos string) bool {
	for _, pp := range p.Positions {
		if pp == pos {
			return true
		}
	}
	return false
}

// Stat returns the projected value for a category and whether it was present
// in the (sparse) projection. Missing stats are skipped, not zero-filled.
func (p *Player) Stat(c Category) (float64, bool) {
	v, ok := p.Stats[c]
	return v, ok
}

// LeagueSettings is the immutable league configuration every computation
// receives. It is owned by the league-configuration store and read-only here.
type LeagueSettings struct {
	Name          string               `json:"name"`
	TeamCount     int                  `json:"teamCount"`
	BudgetPerTeam float64              `json:"budgetPerTeam"`
	MinBid        float64              `json:"minBid"`
	RosterSlots   map[string]int       `json:"rosterSlots"`
	Categories    []Category           `json:"categories"`
	Weights       map[Category]float64 `json:"weights,omitempty"`
}

// TotalRosterSlots is the number of players each team must roster.
func (s *LeagueSettings) TotalRosterSlots() int {
	total := 0
	for _, n := range s.RosterSlots {
		total += n
	}
	return total
}

// Validate checks the settings at configuration time so calculation code can
// trust them. Category codes are validated against the closed enumeration.
func (s *LeagueSettings) Validate() error {
	return ValidateCategories(s.Categories)
}

// TeamSync is one team's row in the live auction snapshot. Remaining is a
// pointer because the sync feed sometimes omits it; callers fall back to
// budget minus spent.
type TeamSync struct {
	Name      string   `json:"name"`
	Spent     float64  `json:"spent"`
	Remaining *float64 `json:"remaining,omitempty"`
	IsOnline  bool     `json:"isOnline"`
}

// OpenBid is a nomination currently being bid on.
type OpenBid struct {
	PlayerID string  `json:"playerId"`
	Team     string  `json:"team"`
	Amount   float64 `json:"amount"`
}

// AuctionSnapshot is the rolling state scraped from the live auction room.
// The engine never retains one between calls; a fresh snapshot is passed to
// every computation.
type AuctionSnapshot struct {
	RoomID   string     `json:"roomId,omitempty"`
	Teams    []TeamSync `json:"teams"`
	OpenBids []OpenBid  `json:"openBids,omitempty"`
}

// Team looks up a team's sync row by name.
func (s *AuctionSnapshot) Team(name string) (TeamSync, bool) {
	for _, t := range s.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return TeamSync{}, false
}

// ScarcityLevel classifies how thin the remaining supply is at a position.
type ScarcityLevel string

const (
	ScarcitySurplus  ScarcityLevel = "surplus"
	ScarcityNormal   ScarcityLevel = "normal"
	ScarcityModerate ScarcityLevel = "moderate"
	ScarcitySevere   ScarcityLevel = "severe"
)

// PositionalScarcity is the per-position supply/demand picture, recomputed
// from scratch on every call.
type PositionalScarcity struct {
	Position            string        `json:"position"`
	AvailableCount      int           `json:"availableCount"`
	QualityCount        int           `json:"qualityCount"`
	LeagueNeed          int           `json:"leagueNeed"`
	ScarcityRatio       float64       `json:"scarcityRatio"`
	Level               ScarcityLevel `json:"scarcityLevel"`
	InflationAdjustment float64       `json:"inflationAdjustment"`
}

// TeamBudgetConstraint is one team's spendable picture after reserving the
// minimum bid for every open roster spot except the last.
type TeamBudgetConstraint struct {
	Team                 string  `json:"team"`
	RawRemaining         float64 `json:"rawRemaining"`
	RosterSpotsRemaining int     `json:"rosterSpotsRemaining"`
	EffectiveBudget      float64 `json:"effectiveBudget"`
	MaxSingleBid         float64 `json:"maxSingleBid"`
}

// TierInflation is the inflation breakdown for one price tier.
type TierInflation struct {
	Tier           int     `json:"tier"`
	Label          string  `json:"label"`
	DraftedCount   int     `json:"draftedCount"`
	TotalProjected float64 `json:"totalProjected"`
	TotalActual    float64 `json:"totalActual"`
	Rate           float64 `json:"rate"`
}

// InflationStats summarizes how the market is paying relative to projection.
// OverallRate is the display rate; the multiplier applied downstream comes
// from EnhancedInflationStats.BaseMultiplier instead.
type InflationStats struct {
	OverallRate    float64         `json:"overallRate"`
	WeightedRate   float64         `json:"weightedRate"`
	TotalProjected float64         `json:"totalProjected"`
	TotalActual    float64         `json:"totalActual"`
	DraftedCount   int             `json:"draftedCount"`
	Tiers          []TierInflation `json:"tiers"`
}

// EnhancedInflationStats is the single artifact the value adjuster consumes.
// It has no lifecycle of its own; it is rebuilt on demand from a snapshot.
type EnhancedInflationStats struct {
	InflationStats
	Scarcity                map[string]PositionalScarcity `json:"scarcity"`
	TeamBudgets             []TeamBudgetConstraint        `json:"teamBudgets"`
	LeagueEffectiveBudget   float64                       `json:"leagueEffectiveBudget"`
	RemainingProjectedValue float64                       `json:"remainingProjectedValue"`
	// BaseMultiplier is leagueEffectiveBudget / remainingProjectedValue,
	// falling back to 1 + OverallRate when no projected value remains.
	BaseMultiplier float64 `json:"baseMultiplier"`
}

// CategoryValue is a team's resolved value for one category. Computable is
// false when the category could not be rebuilt for the team; the sentinel in
// Value keeps sorting well-defined, and callers can tell "bad at this" apart
// from "could not compute this".
type CategoryValue struct {
	Value       float64 `json:"value"`
	Rank        float64 `json:"rank"`
	Points      float64 `json:"points"`
	LowerBetter bool    `json:"isLowerBetter"`
	Computable  bool    `json:"computable"`
}

// TeamProjectedStats is one team's projected rotisserie line. Ranks are only
// meaningful relative to the other teams produced by the same invocation.
type TeamProjectedStats struct {
	Team            string                     `json:"team"`
	Categories      map[Category]CategoryValue `json:"categories"`
	TotalRotoPoints float64                    `json:"totalRotoPoints"`
	OverallRank     int                        `json:"overallRank"`
	PlayerCount     int                        `json:"playerCount"`
}

// Diagnostic is a reported, non-fatal input-shape problem (for example a
// roster referencing a team the snapshot does not know about).
type Diagnostic struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// RiskLevel classifies how much of a budget one bid would consume.
type RiskLevel string

const (
	RiskSafe       RiskLevel = "safe"
	RiskAggressive RiskLevel = "aggressive"
	RiskDangerous  RiskLevel = "dangerous"
)

// BidRecommendation is the strategic max-bid contract for the user's own
// remaining budget.
type BidRecommendation struct {
	MandatoryReserve float64   `json:"mandatoryReserve"`
	EffectiveBudget  float64   `json:"effectiveBudget"`
	RecommendedMax   float64   `json:"recommendedMax"`
	AbsoluteMax      float64   `json:"absoluteMax"`
	RiskLevel        RiskLevel `json:"riskLevel"`
	Advice           string    `json:"advice"`
}
