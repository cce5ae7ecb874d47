package dal

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// SQLiteStore implements LeagueStore using SQLite
type SQLiteStore struct {
	db       *sql.DB
	defaults models.LeagueSettings
}

// NewSQLiteStore creates a new SQLite league store
func NewSQLiteStore(dbPath string, defaults *models.LeagueSettings) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{
		db:       db,
		defaults: *defaults,
	}

	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		positions TEXT NOT NULL,
		projected_value REAL NOT NULL,
		adjusted_value REAL NOT NULL DEFAULT 0,
		stats TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL DEFAULT 'available',
		drafted_price REAL,
		drafted_by TEXT,
		tier INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS league_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Add tier column to existing databases (migration)
	// SQLite doesn't support IF NOT EXISTS for ALTER TABLE, so we check first
	var tierExists int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('players')
		WHERE name='tier'
	`).Scan(&tierExists)
	if err != nil {
		return fmt.Errorf("failed to check tier column existence: %w", err)
	}

	if tierExists == 0 {
		_, err = s.db.Exec(`ALTER TABLE players ADD COLUMN tier INTEGER NOT NULL DEFAULT 0`)
		if err != nil {
			return fmt.Errorf("failed to add tier column: %w", err)
		}
	}

	// Seed default settings if none are stored yet
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

func (s *SQLiteStore) GetPlayers() ([]models.Player, error) {
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

func (s *SQLiteStore) GetPlayer(id string) (*models.Player, error) {
	row := s.db.QueryRow(`
		SELECT id, name, positions, projected_value, adjusted_value, stats, status, drafted_price, drafted_by, tier
		FROM players WHERE id = ?
	`, id)
	return scanPlayer(row.Scan)
}

func (s *SQLiteStore) UpsertPlayer(player *models.Player) (*models.Player, error) {
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			positions = excluded.positions,
			projected_value = excluded.projected_value,
			adjusted_value = excluded.adjusted_value,
			stats = excluded.stats,
			status = excluded.status,
			drafted_price = excluded.drafted_price,
			drafted_by = excluded.drafted_by,
			tier = excluded.tier
	`, player.ID, player.Name, string(positionsJSON), player.ProjectedValue, player.AdjustedValue,
		string(statsJSON), string(player.Status), draftedPrice, draftedBy, player.Tier)

	return player, err
}

func (s *SQLiteStore) RecordSale(playerID, team string, price float64) (*models.Player, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRow(`SELECT status FROM players WHERE id = ?`, playerID).Scan(&status); err != nil {
		return nil, err
	}
	if models.PlayerStatus(status) != models.StatusAvailable {
		return nil, fmt.Errorf("player already drafted")
	}

	_, err = tx.Exec(`
		UPDATE players SET status = ?, drafted_price = ?, drafted_by = ? WHERE id = ?
	`, string(models.StatusDrafted), price, team, playerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetPlayer(playerID)
}

func (s *SQLiteStore) SetAdjustedValues(values map[string]float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE players SET adjusted_value = ? WHERE id = ?`)
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

func (s *SQLiteStore) GetSettings() (*models.LeagueSettings, error) {
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

func (s *SQLiteStore) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal league settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO league_settings (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, string(data))
	return err
}

func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec("DELETE FROM players"); err != nil {
		return err
	}
	if _, err := s.db.Exec("DELETE FROM league_settings"); err != nil {
		return err
	}
	return s.SaveSettings(&s.defaults)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanPlayer decodes one players row regardless of backend.
func scanPlayer(scan func(dest ...any) error) (*models.Player, error) {
	var p models.Player
	var positionsJSON, statsJSON, status string
	var draftedPrice sql.NullFloat64
	var draftedBy sql.NullString

	err := scan(&p.ID, &p.Name, &positionsJSON, &p.ProjectedValue, &p.AdjustedValue,
		&statsJSON, &status, &draftedPrice, &draftedBy, &p.Tier)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(positionsJSON), &p.Positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &p.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	p.Status = models.PlayerStatus(status)
	if draftedPrice.Valid {
		p.DraftedPrice = draftedPrice.Float64
	}
	if draftedBy.Valid {
		p.DraftedBy = draftedBy.String
	}

	return &p, nil
}

// saleColumns maps a player's sale fields to their stored form: NULL until
// the player is drafted, so an explicit $0 price survives a round-trip.
func saleColumns(p *models.Player) (price, owner any) {
	if p.Status == models.StatusAvailable {
		return nil, nil
	}
	return p.DraftedPrice, nullString(p.DraftedBy)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
