package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/afinewinecompany/auction-calculator/internal/dal"
	"github.com/afinewinecompany/auction-calculator/internal/history"
	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/models"
	"github.com/afinewinecompany/auction-calculator/internal/pubsub"
	"github.com/afinewinecompany/auction-calculator/internal/service"
)

// APIHandlers contains the HTTP surface of the calculator.
type APIHandlers struct {
	svc     *service.Valuation
	store   dal.LeagueStore
	ps      *pubsub.PubSub
	history *history.Client // nil outside production
}

func NewAPIHandlers(svc *service.Valuation, store dal.LeagueStore, ps *pubsub.PubSub, hist *history.Client) *APIHandlers {
	return &APIHandlers{svc: svc, store: store, ps: ps, history: hist}
}

// GetInflation returns the full market picture for the current snapshot
func (h *APIHandlers) GetInflation(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.InflationStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// Revalue recomputes and persists adjusted values for the whole pool
func (h *APIHandlers) Revalue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.svc.Revalue()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// GetPlayerValuation returns one player's adjusted value and context
func (h *APIHandlers) GetPlayerValuation(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	pv, err := h.svc.ValuePlayer(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pv)
}

// RecommendBid returns the strategic max-bid recommendation
func (h *APIHandlers) RecommendBid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
		Team     string `json:"team"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" || req.Team == "" {
		http.Error(w, "playerId and team are required", http.StatusBadRequest)
		return
	}

	rec, err := h.svc.RecommendBid(req.PlayerID, req.Team)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// GetProjectedStandings returns the category-by-category roto table
func (h *APIHandlers) GetProjectedStandings(w http.ResponseWriter, r *http.Request) {
	table, diags, err := h.svc.ProjectStandings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"standings":   table,
		"diagnostics": diags,
	})
}

// SyncAuction ingests a fresh auction room snapshot
func (h *APIHandlers) SyncAuction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var snapshot models.AuctionSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ApplySync(&snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("Auction snapshot synced", "room", snapshot.RoomID, "teams", len(snapshot.Teams))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// RecordResult records one completed sale
func (h *APIHandlers) RecordResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		PlayerID string  `json:"playerId"`
		Team     string  `json:"team"`
		Price    float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" || req.Team == "" {
		http.Error(w, "playerId and team are required", http.StatusBadRequest)
		return
	}
	if req.Price < 0 {
		http.Error(w, "price cannot be negative", http.StatusBadRequest)
		return
	}

	player, err := h.svc.RecordResult(r.Context(), req.PlayerID, req.Team, req.Price)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

// GetTeamSpending returns the budget comparison across snapshot teams
func (h *APIHandlers) GetTeamSpending(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TeamSpendingReport()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// ListPlayers returns the whole player catalog
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.store.GetPlayers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(players)
}

// AddPlayer upserts one player projection
func (h *APIHandlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if player.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if len(player.Positions) == 0 {
		http.Error(w, "at least one position is required", http.StatusBadRequest)
		return
	}

	saved, err := h.store.UpsertPlayer(&player)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(saved)
}

// SearchPlayers fuzzy-matches player names
func (h *APIHandlers) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.SearchPlayers(r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetSettings returns the league configuration
func (h *APIHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// SaveSettings replaces the league configuration. Category validation
// happens here, so a bad category list never reaches the scoring path.
func (h *APIHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var settings models.LeagueSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveSettings(&settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

// Reset clears the catalog and restores default settings
func (h *APIHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.store.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// GetHistoricalInflation serves ClickHouse aggregates from past auctions
func (h *APIHandlers) GetHistoricalInflation(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "historical data not available in this environment", http.StatusServiceUnavailable)
		return
	}

	agg, err := h.history.HistoricalInflation(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agg)
}

// EventsSSE provides Server-Sent Events for realtime value updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.ps.Subscribe()
	defer h.ps.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Send keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
