package engine

import (
	"sort"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// ResolveBudgets computes each team's spendable budget after reserving the
// league-minimum bid for every open roster spot except the last. The last
// spot may absorb whatever is left, so the reserve is (spots-1) x minBid.
// Teams are returned sorted by name so identical inputs produce identical
// output ordering.
func ResolveBudgets(snapshot *models.AuctionSnapshot, drafted []models.Player, settings *models.LeagueSettings) []models.TeamBudgetConstraint {
	if snapshot == nil {
		snapshot = &models.AuctionSnapshot{}
	}
	totalSlots := settings.TotalRosterSlots()

	draftedByTeam := make(map[string]int)
	for i := range drafted {
		if drafted[i].DraftedBy != "" {
			draftedByTeam[drafted[i].DraftedBy]++
		}
	}
	openByTeam := make(map[string]int)
	for _, bid := range snapshot.OpenBids {
		if bid.Team != "" {
			openByTeam[bid.Team]++
		}
	}

	constraints := make([]models.TeamBudgetConstraint, 0, len(snapshot.Teams))
	for _, team := range snapshot.Teams {
		raw := settings.BudgetPerTeam - team.Spent
		if team.Remaining != nil {
			raw = *team.Remaining
		}
		if raw < 0 {
			raw = 0
		}

		spots := totalSlots - draftedByTeam[team.Name] - openByTeam[team.Name]
		if spots < 0 {
			spots = 0
		}

		reserve := float64(spots-1) * settings.MinBid
		if reserve < 0 {
			reserve = 0
		}

		effective := raw - reserve
		if effective < 0 {
			effective = 0
		}

		constraints = append(constraints, models.TeamBudgetConstraint{
			Team:                 team.Name,
			RawRemaining:         raw,
			RosterSpotsRemaining: spots,
			EffectiveBudget:      effective,
			MaxSingleBid:         effective,
		})
	}

	sort.Slice(constraints, func(i, j int) bool {
		return constraints[i].Team < constraints[j].Team
	})

	return constraints
}

// LeagueEffectiveBudget sums the effective budgets across all teams.
func LeagueEffectiveBudget(constraints []models.TeamBudgetConstraint) float64 {
	total := 0.0
	for _, c := range constraints {
		total += c.EffectiveBudget
	}
	return total
}

// RemainingProjectedValue sums projected value over still-available players.
func RemainingProjectedValue(available []models.Player) float64 {
	total := 0.0
	for i := range available {
		if available[i].Status == models.StatusAvailable {
			total += available[i].ProjectedValue
		}
	}
	return total
}
