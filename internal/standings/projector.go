package standings

import (
	"fmt"
	"sort"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// Project aggregates partial rosters into projected rotisserie standings.
// Teams come from the auction snapshot; drafted players are grouped onto them
// by owner. The result is deterministic for byte-identical inputs, including
// tie handling, so repeated recomputation cannot jitter.
//
// Diagnostics report input-shape problems (a roster owner the snapshot does
// not know) without failing the projection.
func Project(drafted []models.Player, settings *models.LeagueSettings, snapshot *models.AuctionSnapshot) ([]models.TeamProjectedStats, []models.Diagnostic) {
	var diagnostics []models.Diagnostic

	if snapshot == nil {
		snapshot = &models.AuctionSnapshot{}
	}
	teamNames := make([]string, 0, len(snapshot.Teams))
	known := make(map[string]bool, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		teamNames = append(teamNames, t.Name)
		known[t.Name] = true
	}
	sort.Strings(teamNames)

	if len(teamNames) == 0 || len(settings.Categories) == 0 {
		return []models.TeamProjectedStats{}, diagnostics
	}

	accs := make(map[string]*teamAccumulator, len(teamNames))
	for _, name := range teamNames {
		accs[name] = newTeamAccumulator()
	}

	for i := range drafted {
		p := &drafted[i]
		owner := p.DraftedBy
		if owner == "" {
			continue
		}
		if !known[owner] {
			diagnostics = append(diagnostics, models.Diagnostic{
				Subject: owner,
				Message: fmt.Sprintf("roster references team %q missing from the auction snapshot", owner),
			})
			// Still project the orphaned roster so no spend disappears.
			known[owner] = true
			teamNames = append(teamNames, owner)
			sort.Strings(teamNames)
			accs[owner] = newTeamAccumulator()
		}
		accs[owner].add(p, settings.Categories)
	}

	results := make(map[string]*models.TeamProjectedStats, len(teamNames))
	for _, name := range teamNames {
		results[name] = &models.TeamProjectedStats{
			Team:        name,
			Categories:  make(map[models.Category]models.CategoryValue, len(settings.Categories)),
			PlayerCount: accs[name].playerCount,
		}
	}

	n := len(teamNames)
	for _, cat := range settings.Categories {
		values := make(map[string]models.CategoryValue, n)
		for _, name := range teamNames {
			v, ok := accs[name].resolve(cat)
			values[name] = models.CategoryValue{
				Value:       v,
				LowerBetter: cat.LowerBetter(),
				Computable:  ok,
			}
		}

		ranked := rankCategory(teamNames, values, cat.LowerBetter())
		weight := 1.0
		if w, ok := settings.Weights[cat]; ok && w > 0 {
			weight = w
		}

		for name, cv := range ranked {
			cv.Points = (float64(n) - cv.Rank + 1) * weight
			results[name].Categories[cat] = cv
			results[name].TotalRotoPoints += cv.Points
		}
	}

	ordered := make([]models.TeamProjectedStats, 0, n)
	for _, name := range teamNames {
		ordered = append(ordered, *results[name])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalRotoPoints != ordered[j].TotalRotoPoints {
			return ordered[i].TotalRotoPoints > ordered[j].TotalRotoPoints
		}
		return ordered[i].Team < ordered[j].Team
	})

	// Tied totals share an overall rank; the next distinct total takes the
	// next rank with no gap.
	rank := 0
	for i := range ordered {
		if i == 0 || ordered[i].TotalRotoPoints != ordered[i-1].TotalRotoPoints {
			rank++
		}
		ordered[i].OverallRank = rank
	}

	return ordered, diagnostics
}

// rankCategory assigns tied-rank positions for one category: teams with
// identical values receive the average of the positions they jointly occupy,
// so two teams tied for first both rank 1.5.
func rankCategory(teamNames []string, values map[string]models.CategoryValue, lowerBetter bool) map[string]models.CategoryValue {
	sorted := make([]string, len(teamNames))
	copy(sorted, teamNames)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := values[sorted[i]].Value, values[sorted[j]].Value
		if vi != vj {
			if lowerBetter {
				return vi < vj
			}
			return vi > vj
		}
		return sorted[i] < sorted[j]
	})

	out := make(map[string]models.CategoryValue, len(sorted))
	i := 0
	for i < len(sorted) {
		j := i
		for j+1 < len(sorted) && values[sorted[j+1]].Value == values[sorted[i]].Value {
			j++
		}
		// Positions i+1..j+1 are jointly occupied; everyone gets the mean.
		avgRank := float64(i+1+j+1) / 2
		for k := i; k <= j; k++ {
			cv := values[sorted[k]]
			cv.Rank = avgRank
			out[sorted[k]] = cv
		}
		i = j + 1
	}

	return out
}
