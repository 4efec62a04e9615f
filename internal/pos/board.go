package pos

import (
	"context"
	"sync"
	"time"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// BoardStore is the read side the live board needs.
type BoardStore interface {
	OrdersByDate(ctx context.Context, date string) ([]model.Order, error)
}

// Board holds the latest full snapshot of the day's orders for the
// kitchen board.  Change notifications from the live channel trigger a
// coarse, whole-collection Refresh, not an incremental patch, because
// the notification does not carry enough to diff correctly.  Refreshes
// triggered by successive notifications may overlap; neither is
// cancelled and the later-completing one wins.
type Board struct {
	store BoardStore

	mu       sync.RWMutex
	date     string
	orders   []model.Order
	loadedAt time.Time
}

// NewBoard returns a board scoped to today's business date.
func NewBoard(store BoardStore) *Board {
	return &Board{
		store: store,
		date:  time.Now().UTC().Format("2006-01-02"),
	}
}

// SetDate rescopes the board to another business date.  The stale
// snapshot stays visible until the next Refresh.
func (b *Board) SetDate(date string) {
	b.mu.Lock()
	b.date = date
	b.mu.Unlock()
}

// Date returns the business date the board is scoped to.
func (b *Board) Date() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.date
}

// Refresh re-fetches the full order collection for the board's date.
// On failure the previous snapshot is kept.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.RLock()
	date := b.date
	b.mu.RUnlock()

	orders, err := b.store.OrdersByDate(ctx, date)
	if err != nil {
		return err
	}

	b.mu.Lock()
	// The date may have moved while we were fetching; a refresh for the
	// old date must not clobber the new scope.
	if b.date == date {
		b.orders = orders
		b.loadedAt = time.Now().UTC()
	}
	b.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current orders and when they were
// loaded.  The zero time means no successful refresh has happened yet.
func (b *Board) Snapshot() ([]model.Order, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Order, len(b.orders))
	copy(out, b.orders)
	return out, b.loadedAt
}
