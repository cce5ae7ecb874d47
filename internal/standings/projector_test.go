package standings

import (
	"math"
	"testing"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

func snapshotWith(names ...string) *models.AuctionSnapshot {
	teams := make([]models.TeamSync, len(names))
	for i, n := range names {
		teams[i] = models.TeamSync{Name: n}
	}
	return &models.AuctionSnapshot{RoomID: "room-1", Teams: teams}
}

func hitter(team string, hr float64) models.Player {
	return models.Player{
		Positions: []string{"OF"},
		Status:    models.StatusDrafted,
		DraftedBy: team,
		Stats: map[models.Category]float64{
			models.CategoryHomerun: hr,
		},
	}
}

func settingsWith(cats ...models.Category) *models.LeagueSettings {
	return &models.LeagueSettings{
		Name:          "Test League",
		TeamCount:     len(cats),
		BudgetPerTeam: 260,
		MinBid:        1,
		RosterSlots:   map[string]int{"OF": 3},
		Categories:    cats,
	}
}

func TestProjectEmptyInputs(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)

	table, _ := Project(nil, settings, &models.AuctionSnapshot{})
	if len(table) != 0 {
		t.Errorf("no teams should give an empty table, got %d rows", len(table))
	}

	table, _ = Project(nil, settingsWith(), snapshotWith("Team A"))
	if len(table) != 0 {
		t.Errorf("no categories should give an empty table, got %d rows", len(table))
	}
}

func TestProjectNilSnapshot(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)

	table, diags := Project(nil, settings, nil)
	if len(table) != 0 {
		t.Errorf("nil snapshot with no rosters should give an empty table, got %d rows", len(table))
	}
	if len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %d", len(diags))
	}

	// Drafted players still project onto their owners, reported as
	// missing from the snapshot.
	drafted := []models.Player{hitter("Team A", 30)}
	table, diags = Project(drafted, settings, nil)
	if len(table) != 1 || table[0].Team != "Team A" {
		t.Fatalf("expected Team A projected from its roster alone, got %+v", table)
	}
	if len(diags) != 1 {
		t.Errorf("expected a diagnostic for the unknown owner, got %d", len(diags))
	}
}

func TestProjectCountingCategoryRanks(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{
		hitter("Team A", 40),
		hitter("Team B", 30),
		hitter("Team C", 20),
	}

	table, diags := Project(drafted, settings, snapshotWith("Team A", "Team B", "Team C"))
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if len(table) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table))
	}

	// Best HR total ranks first and earns N points
	if table[0].Team != "Team A" || table[0].TotalRotoPoints != 3 {
		t.Errorf("expected Team A with 3 points first, got %+v", table[0])
	}
	if table[2].Team != "Team C" || table[2].TotalRotoPoints != 1 {
		t.Errorf("expected Team C with 1 point last, got %+v", table[2])
	}

	cv := table[0].Categories[models.CategoryHomerun]
	if cv.Value != 40 || cv.Rank != 1 {
		t.Errorf("unexpected category value: %+v", cv)
	}
}

func TestProjectPointsSumInvariant(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun, models.CategorySteals)
	drafted := []models.Player{
		{Status: models.StatusDrafted, DraftedBy: "Team A", Stats: map[models.Category]float64{models.CategoryHomerun: 40, models.CategorySteals: 5}},
		{Status: models.StatusDrafted, DraftedBy: "Team B", Stats: map[models.Category]float64{models.CategoryHomerun: 25, models.CategorySteals: 30}},
		{Status: models.StatusDrafted, DraftedBy: "Team C", Stats: map[models.Category]float64{models.CategoryHomerun: 10, models.CategorySteals: 20}},
		{Status: models.StatusDrafted, DraftedBy: "Team D", Stats: map[models.Category]float64{models.CategoryHomerun: 5, models.CategorySteals: 1}},
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B", "Team C", "Team D"))

	// Each category hands out 1+2+3+4 = 10 points regardless of ties
	total := 0.0
	for _, row := range table {
		total += row.TotalRotoPoints
	}
	if total != 20 {
		t.Errorf("expected 20 total points across 2 categories, got %v", total)
	}
}

func TestProjectTiedCategoryValuesShareAveragedRank(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{
		hitter("Team A", 30),
		hitter("Team B", 30),
		hitter("Team C", 10),
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B", "Team C"))

	for _, row := range table {
		cv := row.Categories[models.CategoryHomerun]
		switch row.Team {
		case "Team A", "Team B":
			if cv.Rank != 1.5 {
				t.Errorf("%s: expected shared rank 1.5, got %v", row.Team, cv.Rank)
			}
			// Points: (3 - 1.5 + 1) = 2.5 each
			if cv.Points != 2.5 {
				t.Errorf("%s: expected 2.5 points, got %v", row.Team, cv.Points)
			}
		case "Team C":
			if cv.Rank != 3 {
				t.Errorf("Team C: expected rank 3, got %v", cv.Rank)
			}
		}
	}
}

func TestProjectWeightedAverageRatio(t *testing.T) {
	settings := settingsWith(models.CategoryAvg)

	// 300 estimated AB at .300 plus 100 estimated AB at .200:
	// (90+20)/(300+100) = .275, not the .250 average of averages
	drafted := []models.Player{
		{Status: models.StatusDrafted, DraftedBy: "Team A", Stats: map[models.Category]float64{
			models.CategoryHits: 90, models.CategoryAvg: 0.300,
		}},
		{Status: models.StatusDrafted, DraftedBy: "Team A", Stats: map[models.Category]float64{
			models.CategoryHits: 20, models.CategoryAvg: 0.200,
		}},
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A"))
	got := table[0].Categories[models.CategoryAvg].Value
	if math.Abs(got-0.275) > 1e-9 {
		t.Errorf("expected weighted AVG 0.275, got %v", got)
	}
}

func TestProjectERAWeightedAndSentinel(t *testing.T) {
	settings := settingsWith(models.CategoryERA)

	drafted := []models.Player{
		{Status: models.StatusDrafted, DraftedBy: "Team A", Stats: map[models.Category]float64{
			models.CategoryInnings: 180, models.CategoryERA: 3.00,
		}},
		{Status: models.StatusDrafted, DraftedBy: "Team A", Stats: map[models.Category]float64{
			models.CategoryInnings: 60, models.CategoryERA: 6.00,
		}},
		// Team B drafted no pitchers
		hitter("Team B", 30),
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B"))

	var teamA, teamB models.TeamProjectedStats
	for _, row := range table {
		switch row.Team {
		case "Team A":
			teamA = row
		case "Team B":
			teamB = row
		}
	}

	// (60 + 40 earned runs) * 9 / 240 IP = 3.75
	gotA := teamA.Categories[models.CategoryERA]
	if math.Abs(gotA.Value-3.75) > 1e-9 {
		t.Errorf("expected weighted ERA 3.75, got %v", gotA.Value)
	}
	if !gotA.Computable {
		t.Error("Team A ERA should be computable")
	}
	// Lower is better: 3.75 ranks first
	if gotA.Rank != 1 {
		t.Errorf("expected Team A ranked 1 in ERA, got %v", gotA.Rank)
	}

	// No innings: sentinel value, flagged not computable, ranked last
	gotB := teamB.Categories[models.CategoryERA]
	if gotB.Value != RatioSentinel {
		t.Errorf("expected sentinel %v, got %v", RatioSentinel, gotB.Value)
	}
	if gotB.Computable {
		t.Error("Team B ERA must be flagged not computable")
	}
	if gotB.Rank != 2 {
		t.Errorf("expected Team B ranked last in ERA, got %v", gotB.Rank)
	}
}

func TestProjectEmptyRosterStillRanked(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{hitter("Team A", 30)}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B"))
	if len(table) != 2 {
		t.Fatalf("expected both teams in the table, got %d", len(table))
	}
	last := table[1]
	if last.Team != "Team B" || last.PlayerCount != 0 {
		t.Errorf("empty roster should still appear: %+v", last)
	}
	if last.TotalRotoPoints != 1 {
		t.Errorf("empty roster still earns last-place points, got %v", last.TotalRotoPoints)
	}
}

func TestProjectUnknownOwnerDiagnostic(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{
		hitter("Team A", 30),
		hitter("Ghosts", 20),
	}

	table, diags := Project(drafted, settings, snapshotWith("Team A"))
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Subject != "Ghosts" {
		t.Errorf("expected Ghosts diagnostic, got %+v", diags[0])
	}

	// The orphaned roster is still projected
	if len(table) != 2 {
		t.Errorf("expected the unknown team to be projected anyway, got %d rows", len(table))
	}
}

func TestProjectOverallRankTiesNoGap(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{
		hitter("Team A", 30),
		hitter("Team B", 30),
		hitter("Team C", 10),
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B", "Team C"))

	// A and B tie on points: both rank 1; C takes rank 2, not 3
	if table[0].OverallRank != 1 || table[1].OverallRank != 1 {
		t.Errorf("tied teams must share rank 1: %v, %v", table[0].OverallRank, table[1].OverallRank)
	}
	if table[2].OverallRank != 2 {
		t.Errorf("next distinct total takes rank 2, got %d", table[2].OverallRank)
	}
}

func TestProjectCategoryWeights(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	settings.Weights = map[models.Category]float64{models.CategoryHomerun: 2}

	drafted := []models.Player{
		hitter("Team A", 30),
		hitter("Team B", 10),
	}

	table, _ := Project(drafted, settings, snapshotWith("Team A", "Team B"))
	if table[0].TotalRotoPoints != 4 {
		t.Errorf("expected weighted points 2x2=4, got %v", table[0].TotalRotoPoints)
	}
}

func TestProjectDeterministicOrdering(t *testing.T) {
	settings := settingsWith(models.CategoryHomerun)
	drafted := []models.Player{
		hitter("Team B", 20),
		hitter("Team A", 20),
	}
	snap := snapshotWith("Team B", "Team A")

	first, _ := Project(drafted, settings, snap)
	for i := 0; i < 5; i++ {
		again, _ := Project(drafted, settings, snap)
		for j := range first {
			if first[j].Team != again[j].Team || first[j].TotalRotoPoints != again[j].TotalRotoPoints {
				t.Fatalf("ordering jittered between runs: %+v vs %+v", first, again)
			}
		}
	}

	// Tied teams order alphabetically
	if first[0].Team != "Team A" {
		t.Errorf("tied teams must order by name, got %s first", first[0].Team)
	}
}
