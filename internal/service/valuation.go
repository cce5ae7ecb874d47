package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/afinewinecompany/auction-calculator/internal/dal"
	"github.com/afinewinecompany/auction-calculator/internal/engine"
	"github.com/afinewinecompany/auction-calculator/internal/feed"
	"github.com/afinewinecompany/auction-calculator/internal/history"
	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/models"
	"github.com/afinewinecompany/auction-calculator/internal/pubsub"
	"github.com/afinewinecompany/auction-calculator/internal/standings"
)

// Valuation orchestrates the auction engine: it reads the player store
// and the live room snapshot, recomputes values, persists them, and
// announces the results on the bus.
type Valuation struct {
	store       dal.LeagueStore
	tracker     *feed.Tracker
	ps          *pubsub.PubSub
	history     *history.Client // nil outside production
	scarcityCfg engine.ScarcityConfig
	bidCfg      engine.BidConfig
}

func NewValuation(store dal.LeagueStore, tracker *feed.Tracker, ps *pubsub.PubSub, hist *history.Client) *Valuation {
	return &Valuation{
		store:       store,
		tracker:     tracker,
		ps:          ps,
		history:     hist,
		scarcityCfg: engine.DefaultScarcityConfig(),
		bidCfg:      engine.DefaultBidConfig(),
	}
}

// loadState fetches players and settings and partitions the catalog into
// the still-available pool and everything already sold.
func (v *Valuation) loadState() (available, drafted []models.Player, settings *models.LeagueSettings, err error) {
	players, err := v.store.GetPlayers()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load players: %w", err)
	}
	settings, err = v.store.GetSettings()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load league settings: %w", err)
	}

	for _, p := range players {
		if p.Status == models.StatusAvailable {
			available = append(available, p)
		} else {
			drafted = append(drafted, p)
		}
	}
	return available, drafted, settings, nil
}

// InflationStats computes the full market picture for the current
// snapshot without persisting anything.
func (v *Valuation) InflationStats() (*models.EnhancedInflationStats, error) {
	available, drafted, settings, err := v.loadState()
	if err != nil {
		return nil, err
	}

	stats := engine.ComputeEnhancedInflationStats(drafted, available, settings, v.tracker.Current(), v.scarcityCfg)
	return &stats, nil
}

// Revalue recomputes adjusted values for every available player, writes
// them to the store, and publishes a values:updated event.
func (v *Valuation) Revalue() (*models.EnhancedInflationStats, error) {
	available, drafted, settings, err := v.loadState()
	if err != nil {
		return nil, err
	}

	stats := engine.ComputeEnhancedInflationStats(drafted, available, settings, v.tracker.Current(), v.scarcityCfg)
	values := engine.AdjustAll(available, &stats, settings)

	if err := v.store.SetAdjustedValues(values); err != nil {
		return nil, fmt.Errorf("failed to persist adjusted values: %w", err)
	}

	v.ps.Publish(pubsub.NewEvent(pubsub.EventValuesUpdated, map[string]any{
		"count":          len(values),
		"overallRate":    stats.OverallRate,
		"baseMultiplier": stats.BaseMultiplier,
	}))

	logger.Info("Revalued player pool",
		"players", len(values),
		"overallRate", stats.OverallRate,
		"baseMultiplier", stats.BaseMultiplier)

	return &stats, nil
}

// PlayerValuation is one player's full valuation picture.
type PlayerValuation struct {
	Player        *models.Player                       `json:"player"`
	AdjustedValue float64                              `json:"adjustedValue"`
	Tier          int                                  `json:"tier"`
	TierLabel     string                               `json:"tierLabel"`
	Scarcity      map[string]models.PositionalScarcity `json:"scarcity"`
}

// ValuePlayer computes the adjusted value for a single player against
// the current market.
func (v *Valuation) ValuePlayer(id string) (*PlayerValuation, error) {
	p, err := v.store.GetPlayer(id)
	if err != nil {
		return nil, err
	}

	stats, err := v.InflationStats()
	if err != nil {
		return nil, err
	}

	settings, err := v.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load league settings: %w", err)
	}

	scarcity := make(map[string]models.PositionalScarcity, len(p.Positions))
	for _, pos := range p.Positions {
		if s, ok := stats.Scarcity[pos]; ok {
			scarcity[pos] = s
		}
	}

	tier := p.EffectiveTier()
	return &PlayerValuation{
		Player:        p,
		AdjustedValue: engine.AdjustedValue(p, stats, settings),
		Tier:          tier,
		TierLabel:     models.TierLabel(tier),
		Scarcity:      scarcity,
	}, nil
}

// RecommendBid builds the strategic max-bid recommendation for a team
// bidding on a player.
func (v *Valuation) RecommendBid(playerID, team string) (*models.BidRecommendation, error) {
	p, err := v.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.StatusAvailable {
		return nil, fmt.Errorf("player already drafted")
	}

	stats, err := v.InflationStats()
	if err != nil {
		return nil, err
	}

	settings, err := v.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load league settings: %w", err)
	}

	var constraint *models.TeamBudgetConstraint
	for i := range stats.TeamBudgets {
		if stats.TeamBudgets[i].Team == team {
			constraint = &stats.TeamBudgets[i]
			break
		}
	}
	if constraint == nil {
		return nil, fmt.Errorf("team %q not present in auction snapshot", team)
	}

	adjusted := engine.AdjustedValue(p, stats, settings)
	rec := engine.StrategicBid(constraint.RawRemaining, constraint.RosterSpotsRemaining, adjusted, p.ProjectedValue, v.bidCfg)
	return &rec, nil
}

// ProjectStandings ranks every snapshot team across the league's scoring
// categories using rosters reconstructed from drafted players.
func (v *Valuation) ProjectStandings() ([]models.TeamProjectedStats, []models.Diagnostic, error) {
	_, drafted, settings, err := v.loadState()
	if err != nil {
		return nil, nil, err
	}

	table, diags := standings.Project(drafted, settings, v.tracker.Current())
	return table, diags, nil
}

// SearchPlayers fuzzy-matches the query against player names, best
// matches first. An empty query returns the whole catalog.
func (v *Valuation) SearchPlayers(query string) ([]models.Player, error) {
	players, err := v.store.GetPlayers()
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return players, nil
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	matched := make([]models.Player, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, players[r.OriginalIndex])
	}
	return matched, nil
}

// TeamSpending compares every team's spending position: raw budget,
// reserve-adjusted effective budget, and drafted roster value.
type TeamSpending struct {
	models.TeamBudgetConstraint
	Spent          float64 `json:"spent"`
	RosterValue    float64 `json:"rosterValue"`
	ValueSurplus   float64 `json:"valueSurplus"`
	PlayersDrafted int     `json:"playersDrafted"`
}

func (v *Valuation) TeamSpendingReport() ([]TeamSpending, error) {
	_, drafted, settings, err := v.loadState()
	if err != nil {
		return nil, err
	}

	snapshot := v.tracker.Current()
	constraints := engine.ResolveBudgets(snapshot, drafted, settings)

	report := make([]TeamSpending, 0, len(constraints))
	for _, c := range constraints {
		entry := TeamSpending{TeamBudgetConstraint: c}
		for _, p := range drafted {
			if p.DraftedBy != c.Team {
				continue
			}
			entry.Spent += p.DraftedPrice
			entry.RosterValue += p.ProjectedValue
			entry.PlayersDrafted++
		}
		entry.ValueSurplus = entry.RosterValue - entry.Spent
		report = append(report, entry)
	}
	return report, nil
}

// ApplySync replaces the tracked snapshot and broadcasts it so every
// instance converges on the same room state, then revalues the pool.
func (v *Valuation) ApplySync(snapshot *models.AuctionSnapshot) error {
	v.tracker.Update(snapshot)
	v.ps.Publish(pubsub.NewEvent(pubsub.EventAuctionSync, snapshot))

	if _, err := v.Revalue(); err != nil {
		return fmt.Errorf("revalue after sync failed: %w", err)
	}
	return nil
}

// RecordResult marks a player sold, appends the sale to history when a
// history client is wired, broadcasts the result, and revalues the pool.
func (v *Valuation) RecordResult(ctx context.Context, playerID, team string, price float64) (*models.Player, error) {
	p, err := v.store.RecordSale(playerID, team, price)
	if err != nil {
		return nil, err
	}

	if v.history != nil {
		roomID := v.tracker.Current().RoomID
		if err := v.history.RecordPlayerSale(ctx, roomID, p); err != nil {
			// History is best-effort; the auction must not stall on it.
			logger.Warn("Failed to record sale in history", "player", p.ID, "error", err)
		}
	}

	v.ps.Publish(pubsub.NewEvent(pubsub.EventAuctionResult, map[string]any{
		"playerId": p.ID,
		"name":     p.Name,
		"team":     team,
		"price":    price,
	}))

	if _, err := v.Revalue(); err != nil {
		return nil, fmt.Errorf("revalue after sale failed: %w", err)
	}
	return p, nil
}
