package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/afinewinecompany/auction-calculator/internal/config"
	"github.com/afinewinecompany/auction-calculator/internal/dal"
	"github.com/afinewinecompany/auction-calculator/internal/feed"
	"github.com/afinewinecompany/auction-calculator/internal/handlers"
	"github.com/afinewinecompany/auction-calculator/internal/history"
	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/pubsub"
	"github.com/afinewinecompany/auction-calculator/internal/scheduler"
	"github.com/afinewinecompany/auction-calculator/internal/service"
)

var (
	dataStore  dal.LeagueStore
	histClient *history.Client
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)
	logger.Info("Starting auction calculator", "environment", cfg.Environment)

	defaults := dal.DefaultSettings(cfg.League.TeamCount, cfg.League.BudgetPerTeam, cfg.League.MinBid)

	// Initialize league store
	switch cfg.DB.Driver {
	case "memory":
		dataStore = dal.NewMemoryStore(defaults)
		logger.Info("Using in-memory league store")
	case "sqlite":
		store, err := dal.NewSQLiteStore(cfg.DB.SQLiteFile, defaults)
		if err != nil {
			logger.Error("Failed to initialize SQLite", "error", err)
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		dataStore = store
		logger.Info("Connected to SQLite database", "file", cfg.DB.SQLiteFile)
	case "postgres":
		if cfg.DB.DatabaseURL == "" {
			logger.Error("DATABASE_URL environment variable is required for postgres driver")
			log.Fatal("DATABASE_URL environment variable is required for postgres driver")
		}
		store, err := dal.NewPostgresStore(cfg.DB.DatabaseURL, defaults)
		if err != nil {
			logger.Error("Failed to initialize Postgres", "error", err)
			log.Fatalf("Failed to initialize Postgres: %v", err)
		}
		dataStore = store
		logger.Info("Connected to Postgres database")
	default:
		logger.Error("Unknown DB_DRIVER", "driver", cfg.DB.Driver)
		log.Fatalf("Unknown DB_DRIVER: %s (valid: memory, sqlite, postgres)", cfg.DB.Driver)
	}

	// Initialize pub/sub: embedded NATS in development, real NATS in production
	var upstream pubsub.Upstream
	if cfg.IsDevelopment() {
		logger.Info("Starting embedded NATS server for local development")
		embedded, err := pubsub.NewEmbeddedNATSPubSub(pubsub.EmbeddedNATSOptions{
			Port:       0, // Random available port
			Subject:    cfg.NATS.Subject,
			StreamName: cfg.NATS.Stream,
			StoreDir:   "", // In-memory storage
		})
		if err != nil {
			logger.Error("Failed to initialize embedded NATS", "error", err)
			log.Fatalf("Failed to initialize embedded NATS: %v", err)
		}
		upstream = embedded
		logger.Info("Embedded NATS server ready", "url", embedded.ServerURL())
	} else {
		realNats, err := pubsub.NewNATSPubSub(cfg.NATS.URL, cfg.NATS.Subject, cfg.NATS.Stream)
		if err != nil {
			logger.Error("Failed to initialize NATS", "error", err)
			log.Fatalf("Failed to initialize NATS: %v", err)
		}
		upstream = realNats
		logger.Info("Connected to NATS", "url", cfg.NATS.URL)
	}

	ps := pubsub.NewWithUpstream(upstream)

	// Track auction snapshots arriving from other instances
	tracker := feed.NewTracker()
	go tracker.Listen(ps.Subscribe())

	// ClickHouse history is production-only; development runs without it
	if cfg.IsDevelopment() {
		logger.Info("Skipping ClickHouse history (development mode)")
	} else {
		histClient, err = history.NewClient(cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.Username, cfg.ClickHouse.Password)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouse.Addr)
			log.Fatalf("Failed to initialize ClickHouse: %v", err)
		}
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouse.Addr, "database", cfg.ClickHouse.Database)
	}

	svc := service.NewValuation(dataStore, tracker, ps, histClient)

	// Periodic revalue keeps adjusted values fresh between auction events
	sched, err := scheduler.NewScheduler(svc, cfg.Scheduler.RevalueInterval)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	api := handlers.NewAPIHandlers(svc, dataStore, ps, histClient)

	mux := http.NewServeMux()

	// Valuation API
	mux.HandleFunc("/api/valuation/inflation", api.GetInflation)
	mux.HandleFunc("/api/valuation/adjust", api.Revalue)
	mux.HandleFunc("/api/valuation/player", api.GetPlayerValuation)
	mux.HandleFunc("/api/valuation/bid", api.RecommendBid)

	// Standings API
	mux.HandleFunc("/api/standings/projected", api.GetProjectedStandings)

	// Auction feed API
	mux.HandleFunc("/api/auction/sync", api.SyncAuction)
	mux.HandleFunc("/api/auction/result", api.RecordResult)
	mux.HandleFunc("/api/auction/teams", api.GetTeamSpending)

	// Player catalog API
	mux.HandleFunc("/api/players", api.ListPlayers)
	mux.HandleFunc("/api/players/add", api.AddPlayer)
	mux.HandleFunc("/api/players/search", api.SearchPlayers)

	// League settings API
	mux.HandleFunc("/api/settings", settingsHandler(api))
	mux.HandleFunc("/api/reset", api.Reset)

	// Historical aggregates (ClickHouse-backed, production only)
	mux.HandleFunc("/api/history/inflation", api.GetHistoricalInflation)

	// Server-Sent Events for realtime updates
	mux.HandleFunc("/api/events", api.EventsSSE)

	// Health endpoints
	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/healthz", livenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", readinessHandler) // Kubernetes readiness probe

	addr := "0.0.0.0:" + cfg.Server.Port
	logger.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Server failed", "error", err)
		log.Fatal(err)
	}
}

// settingsHandler routes GET and POST for /api/settings
func settingsHandler(api *handlers.APIHandlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			api.SaveSettings(w, r)
			return
		}
		api.GetSettings(w, r)
	}
}

// healthHandler reports overall health with per-dependency checks
func healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if dataStore != nil {
		if _, err := dataStore.GetSettings(); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["database"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	if histClient != nil {
		if _, err := histClient.Summary(r.Context()); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks["clickhouse"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
		} else {
			checks["clickhouse"] = map[string]interface{}{
				"status": "healthy",
			}
		}
	} else {
		checks["clickhouse"] = map[string]interface{}{
			"status": "not_configured",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// livenessHandler handles Kubernetes liveness probes
// Returns 200 if the application is running (doesn't check dependencies)
func livenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// readinessHandler handles Kubernetes readiness probes
// Returns 200 if the application is ready to serve traffic (checks critical dependencies)
func readinessHandler(w http.ResponseWriter, r *http.Request) {
	if dataStore != nil {
		if _, err := dataStore.GetSettings(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
