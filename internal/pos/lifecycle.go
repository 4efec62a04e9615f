package pos

import (
	"context"
	"strconv"
	"strings"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// nextStatus maps each status to its successor on the board.  The
// sequence is strictly linear and one-directional; delivered and
// cancelled have no successor.  cancelled is reached only through an
// explicit edit, never through Advance.
var nextStatus = map[string]string{
	model.StatusPending:   model.StatusPreparing,
	model.StatusPreparing: model.StatusReady,
	model.StatusReady:     model.StatusDelivered,
}

// NextStatus returns the successor of a status and whether one exists.
func NextStatus(status string) (string, bool) {
	n, ok := nextStatus[status]
	return n, ok
}

// BoardStatuses are the visible board buckets, in column order.
// Cancelled orders are excluded from the board entirely.
var BoardStatuses = []string{
	model.StatusPending,
	model.StatusPreparing,
	model.StatusReady,
	model.StatusDelivered,
}

// LifecycleStore is the slice of the data layer the lifecycle
// controller needs.
type LifecycleStore interface {
	UpdateOrderStatus(ctx context.Context, id uint64, status string) error
	UpdateOrder(ctx context.Context, id uint64, patch model.OrderPatch) error
	DeleteOrder(ctx context.Context, id uint64) error
	OrderItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error)
}

// Lifecycle drives orders through the fixed status sequence and
// applies administrative edits.
type Lifecycle struct {
	store LifecycleStore
}

// NewLifecycle returns a Lifecycle backed by the given store.
func NewLifecycle(store LifecycleStore) *Lifecycle { return &Lifecycle{store: store} }

// Advance moves an order to the next status in the sequence and
// persists the transition.  An order already in a terminal state is a
// no-op: no remote call is made and false is returned.  On success the
// in-memory order is updated alongside the persisted one.
func (l *Lifecycle) Advance(ctx context.Context, order *model.Order) (bool, error) {
	next, ok := nextStatus[order.Status]
	if !ok {
		return false, nil
	}
	if err := l.store.UpdateOrderStatus(ctx, order.ID, next); err != nil {
		return false, err
	}
	order.Status = next
	return true, nil
}

// Edit replaces the editable header fields of an order.  This is the
// privileged override path: it may set any status directly, including
// cancelled from pending, bypassing the linear advance rule.  A table
// binding is only meaningful for dine-in and is cleared otherwise.
// The order total is never recomputed by an edit.
func (l *Lifecycle) Edit(ctx context.Context, order *model.Order, patch model.OrderPatch) error {
	if patch.OrderType != model.OrderTypeDineIn {
		patch.TableID = nil
	}
	if err := l.store.UpdateOrder(ctx, order.ID, patch); err != nil {
		return err
	}
	order.OrderType = patch.OrderType
	order.TableID = patch.TableID
	order.PaymentMethod = patch.PaymentMethod
	order.Status = patch.Status
	order.CustomerName = patch.CustomerName
	order.CustomerPhone = patch.CustomerPhone
	order.Notes = patch.Notes
	order.SmacPassed = patch.SmacPassed
	return nil
}

// Remove deletes an order permanently.  There is no soft delete.  The
// owning session's running total, if any, is not recomputed here: that
// matches the observed workflow and is flagged as a gap rather than
// silently fixed.
func (l *Lifecycle) Remove(ctx context.Context, orderID uint64) error {
	return l.store.DeleteOrder(ctx, orderID)
}

// Detail fetches an order's line items for read-only display.
func (l *Lifecycle) Detail(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	return l.store.OrderItems(ctx, orderID)
}

// FilterOrders applies a status-equality filter (empty or "all" keeps
// everything) and a free-text search before board partitioning.  The
// search matches the numeric order id as a substring, and the customer
// name or bound table name case-insensitively.
func FilterOrders(orders []model.Order, status, query string) []model.Order {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != "all" && o.Status != status {
			continue
		}
		if query != "" && !matchesQuery(o, query) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesQuery(o model.Order, query string) bool {
	if strings.Contains(strconv.FormatUint(o.ID, 10), query) {
		return true
	}
	if o.CustomerName != nil && strings.Contains(strings.ToLower(*o.CustomerName), query) {
		return true
	}
	if o.TableName != nil && strings.Contains(strings.ToLower(*o.TableName), query) {
		return true
	}
	return false
}

// PartitionByStatus groups orders into the fixed board buckets.
// Cancelled orders are dropped.  Relative order within a bucket is
// preserved.
func PartitionByStatus(orders []model.Order) map[string][]model.Order {
	buckets := make(map[string][]model.Order, len(BoardStatuses))
	for _, s := range BoardStatuses {
		buckets[s] = []model.Order{}
	}
	for _, o := range orders {
		if _, ok := buckets[o.Status]; ok {
			buckets[o.Status] = append(buckets[o.Status], o)
		}
	}
	return buckets
}
