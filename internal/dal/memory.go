package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// MemoryStore implements LeagueStore using in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	players  []models.Player
	settings models.LeagueSettings
	defaults models.LeagueSettings
}

// NewMemoryStore creates a new in-memory league store seeded with the given
// settings. The catalog starts empty; players arrive from the projection
// import.
func NewMemoryStore(settings *models.LeagueSettings) *MemoryStore {
	return &MemoryStore{
		players:  []models.Player{},
		settings: *settings,
		defaults: *settings,
	}
}

func (m *MemoryStore) GetPlayers() ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copies, so callers can never mutate store state through a snapshot.
	players := make([]models.Player, len(m.players))
	copy(players, m.players)
	return players, nil
}

func (m *MemoryStore) GetPlayer(id string) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.players {
		if m.players[i].ID == id {
			p := m.players[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player not found")
}

func (m *MemoryStore) UpsertPlayer(player *models.Player) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if player.ID == "" {
		player.ID = genID("player")
	}
	if player.Status == "" {
		player.Status = models.StatusAvailable
	}

	for i := range m.players {
		if m.players[i].ID == player.ID {
			m.players[i] = *player
			return player, nil
		}
	}

	m.players = append(m.players, *player)
	return player, nil
}

func (m *MemoryStore) RecordSale(playerID, team string, price float64) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.players {
		if m.players[i].ID == playerID {
			if m.players[i].Status != models.StatusAvailable {
				return nil, fmt.Errorf("player already drafted")
			}
			m.players[i].Status = models.StatusDrafted
			m.players[i].DraftedPrice = price
			m.players[i].DraftedBy = team

			p := m.players[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("player not found")
}

func (m *MemoryStore) SetAdjustedValues(values map[string]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.players {
		if v, ok := values[m.players[i].ID]; ok {
			m.players[i].AdjustedValue = v
		}
	}
	return nil
}

func (m *MemoryStore) GetSettings() (*models.LeagueSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.settings
	return &s, nil
}

func (m *MemoryStore) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = *settings
	return nil
}

func (m *MemoryStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.players = []models.Player{}
	m.settings = m.defaults
	return nil
}

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
