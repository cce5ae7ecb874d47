package feed

import (
	"encoding/json"
	"sync"

	"github.com/afinewinecompany/auction-calculator/internal/logger"
	"github.com/afinewinecompany/auction-calculator/internal/models"
	"github.com/afinewinecompany/auction-calculator/internal/pubsub"
)

// Tracker holds the most recent auction room snapshot. The snapshot is
// the only live-auction state the engine reads; everything else comes
// from the player store.
type Tracker struct {
	mu       sync.RWMutex
	snapshot *models.AuctionSnapshot
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Update replaces the tracked snapshot.
func (t *Tracker) Update(snapshot *models.AuctionSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot = snapshot
}

// Current returns the latest snapshot, or an empty snapshot when no sync
// has arrived yet. Callers get a copy; mutating it does not affect the
// tracker.
func (t *Tracker) Current() *models.AuctionSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.snapshot == nil {
		return &models.AuctionSnapshot{}
	}

	snap := *t.snapshot
	snap.Teams = make([]models.TeamSync, len(t.snapshot.Teams))
	copy(snap.Teams, t.snapshot.Teams)
	snap.OpenBids = make([]models.OpenBid, len(t.snapshot.OpenBids))
	copy(snap.OpenBids, t.snapshot.OpenBids)
	return &snap
}

// Listen applies auction sync events from the bus until the channel
// closes. Run it in its own goroutine.
func (t *Tracker) Listen(events chan pubsub.Event) {
	for event := range events {
		if event.Type != pubsub.EventAuctionSync {
			continue
		}

		var snapshot models.AuctionSnapshot
		if err := json.Unmarshal(event.Payload, &snapshot); err != nil {
			logger.Error("Failed to decode auction sync event", "error", err)
			continue
		}

		t.Update(&snapshot)
		logger.Debug("Auction snapshot updated", "room", snapshot.RoomID, "teams", len(snapshot.Teams))
	}
}
