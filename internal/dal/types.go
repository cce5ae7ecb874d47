package dal

import "github.com/afinewinecompany/auction-calculator/internal/models"

// LeagueStore defines the interface for the league-configuration and
// player-catalog data access layer
type LeagueStore interface {
	GetPlayers() ([]models.Player, error)
	GetPlayer(id string) (*models.Player, error)
	UpsertPlayer(player *models.Player) (*models.Player, error)
	RecordSale(playerID, team string, price float64) (*models.Player, error)
	SetAdjustedValues(values map[string]float64) error
	GetSettings() (*models.LeagueSettings, error)
	SaveSettings(settings *models.LeagueSettings) error
	Reset() error
}

// DefaultSettings builds a standard 5x5 rotisserie league configuration.
// Stored settings replace these once the league is configured.
func DefaultSettings(teamCount int, budgetPerTeam, minBid float64) *models.LeagueSettings {
	return &models.LeagueSettings{
		Name:          "Default League",
		TeamCount:     teamCount,
		BudgetPerTeam: budgetPerTeam,
		MinBid:        minBid,
		RosterSlots: map[string]int{
			"C":  2,
			"1B": 1,
			"2B": 1,
			"3B": 1,
			"SS": 1,
			"CI": 1,
			"MI": 1,
			"OF": 5,
			"UT": 1,
			"P":  9,
		},
		Categories: []models.Category{
			models.CategoryRuns,
			models.CategoryHomerun,
			models.CategoryRBI,
			models.CategorySteals,
			models.CategoryAvg,
			models.CategoryWins,
			models.CategorySaves,
			models.CategoryStrikeouts,
			models.CategoryERA,
			models.CategoryWHIP,
		},
	}
}
