package history

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/afinewinecompany/auction-calculator/internal/models"
)

// Client records completed auction sales in ClickHouse and serves the
// historical inflation aggregates used to sanity-check live rates.
type Client struct {
	conn driver.Conn
}

// Sale is one completed auction purchase as stored in history.
type Sale struct {
	RoomID         string
	PlayerID       string
	PlayerName     string
	Positions      []string
	Tier           int
	ProjectedValue float64
	Price          float64
	Team           string
	SoldAt         time.Time
}

// InflationSummary aggregates per-room overall inflation across past
// auctions.
type InflationSummary struct {
	Rooms       uint64  `json:"rooms"`
	AvgRate     float64 `json:"avgRate"`
	MinRate     float64 `json:"minRate"`
	MaxRate     float64 `json:"maxRate"`
	StdDevRate  float64 `json:"stdDevRate"`
	SampleSales uint64  `json:"sampleSales"`
}

// GroupInflation is one aggregate bucket: a tier, a price band, or a
// position.
type GroupInflation struct {
	Group   string  `json:"group"`
	Sales   uint64  `json:"sales"`
	AvgRate float64 `json:"avgRate"`
}

// HistoricalInflation packs every aggregate view in one response.
type HistoricalInflation struct {
	Summary    InflationSummary `json:"summary"`
	ByTier     []GroupInflation `json:"byTier"`
	ByBand     []GroupInflation `json:"byBand"`
	ByPosition []GroupInflation `json:"byPosition"`
}

// NewClient creates a new ClickHouse history client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// RecordSale appends one sale to the history table.
func (c *Client) RecordSale(ctx context.Context, sale Sale) error {
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}

	query := `
		INSERT INTO auction_sales
			(room_id, player_id, player_name, positions, tier, projected_value, price, team, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	return c.conn.Exec(ctx, query,
		sale.RoomID, sale.PlayerID, sale.PlayerName, sale.Positions,
		sale.Tier, sale.ProjectedValue, sale.Price, sale.Team, sale.SoldAt)
}

// RecordPlayerSale is a convenience that builds a Sale from a drafted
// player.
func (c *Client) RecordPlayerSale(ctx context.Context, roomID string, p *models.Player) error {
	return c.RecordSale(ctx, Sale{
		RoomID:         roomID,
		PlayerID:       p.ID,
		PlayerName:     p.Name,
		Positions:      p.Positions,
		Tier:           p.EffectiveTier(),
		ProjectedValue: p.ProjectedValue,
		Price:          p.DraftedPrice,
		Team:           p.DraftedBy,
	})
}

// Summary returns overall inflation statistics across past auction rooms.
// Rooms with no projected value on record are excluded.
func (c *Client) Summary(ctx context.Context) (*InflationSummary, error) {
	query := `
		SELECT
			count() AS rooms,
			avg(rate) AS avg_rate,
			min(rate) AS min_rate,
			max(rate) AS max_rate,
			stddevPop(rate) AS stddev_rate,
			sum(sales) AS sample_sales
		FROM (
			SELECT
				room_id,
				(sum(price) - sum(projected_value)) / sum(projected_value) AS rate,
				count() AS sales
			FROM auction_sales
			GROUP BY room_id
			HAVING sum(projected_value) > 0
		)
	`

	var s InflationSummary
	row := c.conn.QueryRow(ctx, query)
	if err := row.Scan(&s.Rooms, &s.AvgRate, &s.MinRate, &s.MaxRate, &s.StdDevRate, &s.SampleSales); err != nil {
		return nil, err
	}
	return &s, nil
}

// ByTier returns average inflation per value tier across all recorded
// sales.
func (c *Client) ByTier(ctx context.Context) ([]GroupInflation, error) {
	query := `
		SELECT
			concat('tier_', toString(tier)) AS grp,
			count() AS sales,
			(sum(price) - sum(projected_value)) / sum(projected_value) AS avg_rate
		FROM auction_sales
		WHERE projected_value > 0
		GROUP BY tier
		ORDER BY tier
	`
	return c.groupQuery(ctx, query)
}

// ByPriceBand returns average inflation per projected-price band.
func (c *Client) ByPriceBand(ctx context.Context) ([]GroupInflation, error) {
	query := `
		SELECT
			multiIf(
				projected_value <= 5, '$1-5',
				projected_value <= 10, '$6-10',
				projected_value <= 15, '$11-15',
				projected_value <= 20, '$16-20',
				projected_value <= 30, '$21-30',
				'$31+'
			) AS grp,
			count() AS sales,
			(sum(price) - sum(projected_value)) / sum(projected_value) AS avg_rate
		FROM auction_sales
		WHERE projected_value > 0
		GROUP BY grp
		ORDER BY min(projected_value)
	`
	return c.groupQuery(ctx, query)
}

// ByPosition returns average inflation per position. Multi-position
// players count toward each of their positions.
func (c *Client) ByPosition(ctx context.Context) ([]GroupInflation, error) {
	query := `
		SELECT
			arrayJoin(positions) AS grp,
			count() AS sales,
			(sum(price) - sum(projected_value)) / sum(projected_value) AS avg_rate
		FROM auction_sales
		WHERE projected_value > 0
		GROUP BY grp
		ORDER BY grp
	`
	return c.groupQuery(ctx, query)
}

// HistoricalInflation runs every aggregate view and packs the result.
func (c *Client) HistoricalInflation(ctx context.Context) (*HistoricalInflation, error) {
	summary, err := c.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inflation summary: %w", err)
	}
	byTier, err := c.ByTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier inflation: %w", err)
	}
	byBand, err := c.ByPriceBand(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price band inflation: %w", err)
	}
	byPosition, err := c.ByPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load position inflation: %w", err)
	}

	return &HistoricalInflation{
		Summary:    *summary,
		ByTier:     byTier,
		ByBand:     byBand,
		ByPosition: byPosition,
	}, nil
}

func (c *Client) groupQuery(ctx context.Context, query string) ([]GroupInflation, error) {
	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []GroupInflation{}
	for rows.Next() {
		var g GroupInflation
		if err := rows.Scan(&g.Group, &g.Sales, &g.AvgRate); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
