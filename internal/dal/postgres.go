package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// PostgresStore implements LeagueStore using PostgreSQL
type PostgresStore struct {
	db       *sql.DB
	defaults models.LeagueSettings
}

// NewPostgresStore creates a new PostgreSQL league store.
// connStr is a standard libpq connection string or URL.
func NewPostgresStore(connStr string, defaults *models.LeagueSettings) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	store := &PostgresStore{
		db:       db,
		defaults: *defaults,
	}

	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		positions JSONB NOT NULL,
		projected_value DOUBLE PRECISION NOT NULL,
		adjusted_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		stats JSONB NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'available',
		drafted_price DOUBLE PRECISION,
		drafted_by TEXT,
		tier INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS league_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data JSONB NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	if _, err := s.db.Exec(`ALTER TABLE players ADD COLUMN IF NOT EXISTS tier INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("failed to add tier column: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM league_settings").Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		if err := s.SaveSettings(&s.defaults); err != nil {
			return err
		}
	}

	return nil
}

func (s *PostgresStore) GetPlayers() ([]models.Player, error) {
	rows, err := s.db.Query(`
		SELECT id, name, positions, projected_value, adjusted_value, stats, status, drafted_price, drafted_by, tier
		FROM players ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}

	return players, rows.Err()
}

func (s *PostgresStore) GetPlayer(id string) (*models.Player, error) {
	row := s.db.QueryRow(`
		SELECT id, name, positions, projected_value, adjusted_value, stats, status, drafted_price, drafted_by, tier
		FROM players WHERE id = $1
	`, id)
	return scanPlayer(row.Scan)
}

func (s *PostgresStore) UpsertPlayer(player *models.Player) (*models.Player, error) {
	if player.ID == "" {
		player.ID = genID("player")
	}
	if player.Status == "" {
		player.Status = models.StatusAvailable
	}

	positionsJSON, err := json.Marshal(player.Positions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal positions: %w", err)
	}
	statsJSON, err := json.Marshal(player.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}

	draftedPrice, draftedBy := saleColumns(player)
	_, err = s.db.Exec(`
		INSERT INTO players (id, name, positions, projected_value, adjusted_value, stats, status, drafted_price, drafted_by, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			positions = EXCLUDED.positions,
			projected_value = EXCLUDED.projected_value,
			adjusted_value = EXCLUDED.adjusted_value,
			stats = EXCLUDED.stats,
			status = EXCLUDED.status,
			drafted_price = EXCLUDED.drafted_price,
			drafted_by = EXCLUDED.drafted_by,
			tier = EXCLUDED.tier
	`, player.ID, player.Name, string(positionsJSON), player.ProjectedValue, player.AdjustedValue,
		string(statsJSON), string(player.Status), draftedPrice, draftedBy, player.Tier)

	return player, err
}

func (s *PostgresStore) RecordSale(playerID, team string, price float64) (*models.Player, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRow(`SELECT status FROM players WHERE id = $1 FOR UPDATE`, playerID).Scan(&status); err != nil {
		return nil, err
	}
	if models.PlayerStatus(status) != models.StatusAvailable {
		return nil, fmt.Errorf("player already drafted")
	}

	_, err = tx.Exec(`
		UPDATE players SET status = $1, drafted_price = $2, drafted_by = $3 WHERE id = $4
	`, string(models.StatusDrafted), price, team, playerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetPlayer(playerID)
}

func (s *PostgresStore) SetAdjustedValues(values map[string]float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE players SET adjusted_value = $1 WHERE id = $2`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, v := range values {
		if _, err := stmt.Exec(v, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) GetSettings() (*models.LeagueSettings, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM league_settings WHERE id = 1`).Scan(&data)
	if err != nil {
		return nil, err
	}

	var settings models.LeagueSettings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal league settings: %w", err)
	}
	return &settings, nil
}

func (s *PostgresStore) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal league settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO league_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, string(data))
	return err
}

func (s *PostgresStore) Reset() error {
	if _, err := s.db.Exec("DELETE FROM players"); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM league_settings"); err != nil {
		return err
	}
	return s.SaveSettings(&s.defaults)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
