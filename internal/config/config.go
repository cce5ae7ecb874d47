package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full service configuration, processed once at startup.
// Every default the calculators rely on is named here instead of being
// re-derived inside computation code.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Server     Server
	DB         DB
	NATS       NATS
	ClickHouse ClickHouse
	League     League
	Scheduler  Scheduler
}

type Server struct {
	Port string `envconfig:"PORT" default:"3000"`
}

type DB struct {
	// Driver selects the league store backend: memory, sqlite or postgres.
	Driver      string `envconfig:"DB_DRIVER" default:"memory"`
	SQLiteFile  string `envconfig:"SQLITE_FILE" default:"dev.sqlite"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
}

type NATS struct {
	URL     string `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	Subject string `envconfig:"NATS_SUBJECT" default:"auction.events"`
	Stream  string `envconfig:"NATS_STREAM" default:"AUCTION_EVENTS"`
}

type ClickHouse struct {
	Addr     string `envconfig:"CLICKHOUSE_ADDR" default:"localhost:9000"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"default"`
	Username string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
}

type League struct {
	// MinBid is the league minimum bid reserved per open roster spot.
	MinBid float64 `envconfig:"LEAGUE_MIN_BID" default:"1"`
	// BudgetPerTeam seeds new leagues; stored settings win once saved.
	BudgetPerTeam float64 `envconfig:"LEAGUE_BUDGET" default:"260"`
	TeamCount     int     `envconfig:"LEAGUE_TEAMS" default:"12"`
}

type Scheduler struct {
	// RevalueInterval is how often adjusted values are recomputed from the
	// latest snapshot.
	RevalueInterval time.Duration `envconfig:"REVALUE_INTERVAL" default:"30s"`
}

// New processes the environment into a Config.
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// IsDevelopment reports whether the service runs with in-process stand-ins
// (embedded NATS, no ClickHouse).
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}
