package service

import (
	"context"
	"testing"
	"time"

	"github.com/afinewinecompany/auction-calculator/internal/dal"
	"github.com/afinewinecompany/auction-calculator/internal/feed"
	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/models"
	"github.com/afinewinecompany/auction-calculator/internal/pubsub"
)

func init() {
	logger.Init("error")
}

func newTestValuation(t *testing.T) (*Valuation, dal.LeagueStore, *feed.Tracker, *pubsub.PubSub) {
	t.Helper()

	store := dal.NewMemoryStore(dal.DefaultSettings(2, 260, 1))
	tracker := feed.NewTracker()
	ps := pubsub.New()
	return NewValuation(store, tracker, ps, nil), store, tracker, ps
}

func seedPlayers(t *testing.T, store dal.LeagueStore) []models.Player {
	t.Helper()

	seed := []models.Player{
		{Name: "Slugger", Positions: []string{"OF"}, ProjectedValue: 30},
		{Name: "Ace", Positions: []string{"P"}, ProjectedValue: 25},
		{Name: "Utility Knife", Positions: []string{"2B", "SS"}, ProjectedValue: 12},
		{Name: "Bench Bat", Positions: []string{"1B"}, ProjectedValue: 3},
	}

	out := make([]models.Player, 0, len(seed))
	for i := range seed {
		p, err := store.UpsertPlayer(&seed[i])
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
		out = append(out, *p)
	}
	return out
}

func testSnapshot() *models.AuctionSnapshot {
	return &models.AuctionSnapshot{
		RoomID: "room-1",
		Teams: []models.TeamSync{
			{Name: "Team A", Spent: 0},
			{Name: "Team B", Spent: 0},
		},
	}
}

func TestRevaluePersistsAdjustedValues(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	stats, err := svc.Revalue()
	if err != nil {
		t.Fatalf("Revalue failed: %v", err)
	}
	if stats.BaseMultiplier <= 0 {
		t.Errorf("expected positive base multiplier, got %v", stats.BaseMultiplier)
	}

	for _, seeded := range players {
		got, err := store.GetPlayer(seeded.ID)
		if err != nil {
			t.Fatalf("GetPlayer failed: %v", err)
		}
		if got.AdjustedValue < 1 {
			t.Errorf("player %s: adjusted value %v below the minimum bid", got.Name, got.AdjustedValue)
		}
	}
}

func TestRevaluePublishesEvent(t *testing.T) {
	svc, store, tracker, ps := newTestValuation(t)
	seedPlayers(t, store)
	tracker.Update(testSnapshot())

	ch := ps.Subscribe()
	if _, err := svc.Revalue(); err != nil {
		t.Fatalf("Revalue failed: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Type != pubsub.EventValuesUpdated {
			t.Errorf("expected %s, got %s", pubsub.EventValuesUpdated, ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("values:updated event never published")
	}
}

func TestValuePlayer(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	pv, err := svc.ValuePlayer(players[0].ID)
	if err != nil {
		t.Fatalf("ValuePlayer failed: %v", err)
	}
	if pv.Player.Name != "Slugger" {
		t.Errorf("expected Slugger, got %s", pv.Player.Name)
	}
	if pv.AdjustedValue < 1 {
		t.Errorf("adjusted value %v below minimum bid", pv.AdjustedValue)
	}
	if pv.TierLabel == "" {
		t.Error("expected a tier label")
	}
	if _, ok := pv.Scarcity["OF"]; !ok {
		t.Error("expected OF scarcity for an OF player")
	}
}

func TestRecommendBidUnknownTeam(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	if _, err := svc.RecommendBid(players[0].ID, "Nobody"); err == nil {
		t.Error("expected error for team missing from snapshot")
	}
}

func TestRecommendBid(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	rec, err := svc.RecommendBid(players[0].ID, "Team A")
	if err != nil {
		t.Fatalf("RecommendBid failed: %v", err)
	}
	if rec.EffectiveBudget <= 0 {
		t.Errorf("expected positive effective budget, got %v", rec.EffectiveBudget)
	}
	if rec.RecommendedMax > rec.EffectiveBudget {
		t.Errorf("recommended max %v exceeds effective budget %v", rec.RecommendedMax, rec.EffectiveBudget)
	}
	if rec.Advice == "" {
		t.Error("expected advice text")
	}
}

func TestRecordResult(t *testing.T) {
	svc, store, tracker, ps := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	ch := ps.Subscribe()
	sold, err := svc.RecordResult(context.Background(), players[1].ID, "Team B", 28)
	if err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}
	if sold.Status != models.StatusDrafted || sold.DraftedBy != "Team B" || sold.DraftedPrice != 28 {
		t.Errorf("sale not recorded: %+v", sold)
	}

	// Expect auction:result then values:updated
	var types []string
	for i := 0; i < 2; i++ {
		select {
		case ev := <-ch:
			types = append(types, ev.Type)
		case <-time.After(time.Second):
			t.Fatalf("only received %v", types)
		}
	}
	if types[0] != pubsub.EventAuctionResult || types[1] != pubsub.EventValuesUpdated {
		t.Errorf("unexpected event order: %v", types)
	}

	// A second sale of the same player must fail
	if _, err := svc.RecordResult(context.Background(), players[1].ID, "Team A", 5); err == nil {
		t.Error("expected error re-selling a drafted player")
	}
}

func TestApplySync(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	seedPlayers(t, store)

	if err := svc.ApplySync(testSnapshot()); err != nil {
		t.Fatalf("ApplySync failed: %v", err)
	}
	if snap := tracker.Current(); snap == nil || snap.RoomID != "room-1" {
		t.Errorf("snapshot not tracked: %+v", snap)
	}
}

func TestSearchPlayers(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	seedPlayers(t, store)
	tracker.Update(testSnapshot())

	results, err := svc.SearchPlayers("slug")
	if err != nil {
		t.Fatalf("SearchPlayers failed: %v", err)
	}
	if len(results) == 0 || results[0].Name != "Slugger" {
		t.Errorf("expected Slugger first, got %+v", results)
	}

	all, err := svc.SearchPlayers("")
	if err != nil {
		t.Fatalf("SearchPlayers empty query failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("empty query should return the full catalog, got %d", len(all))
	}
}

func TestFreshInstanceBeforeFirstSync(t *testing.T) {
	svc, store, _, _ := newTestValuation(t)
	seedPlayers(t, store)

	stats, err := svc.InflationStats()
	if err != nil {
		t.Fatalf("InflationStats failed before first sync: %v", err)
	}
	if len(stats.TeamBudgets) != 0 {
		t.Errorf("expected no team budgets before first sync, got %d", len(stats.TeamBudgets))
	}
	// No teams means no effective dollars chasing the pool.
	if stats.BaseMultiplier != 0 {
		t.Errorf("expected base multiplier 0 before first sync, got %v", stats.BaseMultiplier)
	}

	table, diags, err := svc.ProjectStandings()
	if err != nil {
		t.Fatalf("ProjectStandings failed before first sync: %v", err)
	}
	if len(table) != 0 || len(diags) != 0 {
		t.Errorf("expected empty standings before first sync, got %d rows, %d diagnostics", len(table), len(diags))
	}

	report, err := svc.TeamSpendingReport()
	if err != nil {
		t.Fatalf("TeamSpendingReport failed before first sync: %v", err)
	}
	if len(report) != 0 {
		t.Errorf("expected empty spending report before first sync, got %d rows", len(report))
	}
}

func TestTeamSpendingReport(t *testing.T) {
	svc, store, tracker, _ := newTestValuation(t)
	players := seedPlayers(t, store)
	tracker.Update(testSnapshot())

	if _, err := svc.RecordResult(context.Background(), players[0].ID, "Team A", 35); err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	report, err := svc.TeamSpendingReport()
	if err != nil {
		t.Fatalf("TeamSpendingReport failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(report))
	}

	var teamA *TeamSpending
	for i := range report {
		if report[i].Team == "Team A" {
			teamA = &report[i]
		}
	}
	if teamA == nil {
		t.Fatal("Team A missing from report")
	}
	if teamA.Spent != 35 || teamA.PlayersDrafted != 1 {
		t.Errorf("unexpected Team A spending: %+v", teamA)
	}
	if teamA.ValueSurplus != 30-35 {
		t.Errorf("expected value surplus -5, got %v", teamA.ValueSurplus)
	}
}
