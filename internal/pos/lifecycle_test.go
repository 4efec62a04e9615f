package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

type fakeLifecycleStore struct {
	statusCalls []string // "id:status"
	updateErr   error
	patches     map[uint64]model.OrderPatch
	deleted     []uint64
	items       map[uint64][]model.OrderItem
}

func newFakeLifecycleStore() *fakeLifecycleStore {
	return &fakeLifecycleStore{
		patches: map[uint64]model.OrderPatch{},
		items:   map[uint64][]model.OrderItem{},
	}
}

func (f *fakeLifecycleStore) UpdateOrderStatus(_ context.Context, id uint64, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

func (f *fakeLifecycleStore) UpdateOrder(_ context.Context, id uint64, patch model.OrderPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.patches[id] = patch
	return nil
}

func (f *fakeLifecycleStore) DeleteOrder(_ context.Context, id uint64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLifecycleStore) OrderItems(_ context.Context, orderID uint64) ([]model.OrderItem, error) {
	return f.items[orderID], nil
}

func TestAdvanceWalksTheFullSequence(t *testing.T) {
	st := newFakeLifecycleStore()
	lc := NewLifecycle(st)
	order := &model.Order{ID: 1, Status: model.StatusPending}

	want := []string{model.StatusPreparing, model.StatusReady, model.StatusDelivered}
	for _, s := range want {
		moved, err := lc.Advance(context.Background(), order)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if !moved || order.Status != s {
			t.Fatalf("expected transition to %s, got moved=%v status=%s", s, moved, order.Status)
		}
	}
	if len(st.statusCalls) != 3 {
		t.Fatalf("expected 3 persisted transitions, got %d", len(st.statusCalls))
	}
}

func TestAdvanceTerminalIsANoOp(t *testing.T) {
	st := newFakeLifecycleStore()
	lc := NewLifecycle(st)
	for _, s := range []string{model.StatusDelivered, model.StatusCancelled} {
		order := &model.Order{ID: 1, Status: s}
		moved, err := lc.Advance(context.Background(), order)
		if err != nil {
			t.Fatalf("Advance(%s): %v", s, err)
		}
		if moved || order.Status != s {
			t.Fatalf("terminal %s must not move, got moved=%v status=%s", s, moved, order.Status)
		}
	}
	if len(st.statusCalls) != 0 {
		t.Fatalf("terminal advance must not reach the store")
	}
}

func TestAdvanceFailureKeepsStatus(t *testing.T) {
	st := newFakeLifecycleStore()
	st.updateErr = errors.New("db down")
	lc := NewLifecycle(st)
	order := &model.Order{ID: 1, Status: model.StatusPending}

	moved, err := lc.Advance(context.Background(), order)
	if err == nil || moved {
		t.Fatalf("expected failed advance, got moved=%v err=%v", moved, err)
	}
	if order.Status != model.StatusPending {
		t.Fatalf("failed advance must not change the in-memory status")
	}
}

func TestEditCanCancelFromPending(t *testing.T) {
	st := newFakeLifecycleStore()
	lc := NewLifecycle(st)
	tid := uint64(3)
	order := &model.Order{ID: 1, Status: model.StatusPending, OrderType: model.OrderTypeDineIn, TableID: &tid, TotalCents: 2340}

	patch := model.OrderPatch{
		OrderType:     model.OrderTypeDineIn,
		TableID:       &tid,
		PaymentMethod: model.PaymentCash,
		Status:        model.StatusCancelled,
	}
	if err := lc.Edit(context.Background(), order, patch); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if order.Status != model.StatusCancelled {
		t.Fatalf("edit must allow cancelled directly from pending, got %s", order.Status)
	}
	if order.TotalCents != 2340 {
		t.Fatalf("edit must never touch the total")
	}
}

func TestEditClearsTableForNonDineIn(t *testing.T) {
	st := newFakeLifecycleStore()
	lc := NewLifecycle(st)
	tid := uint64(3)
	order := &model.Order{ID: 1, Status: model.StatusPending, OrderType: model.OrderTypeDineIn, TableID: &tid}

	patch := model.OrderPatch{
		OrderType:     model.OrderTypeTakeaway,
		TableID:       &tid, // stale binding from the edit form
		PaymentMethod: model.PaymentCard,
		Status:        model.StatusPending,
	}
	if err := lc.Edit(context.Background(), order, patch); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if order.TableID != nil {
		t.Fatalf("takeaway order must not keep a table binding")
	}
	if st.patches[1].TableID != nil {
		t.Fatalf("persisted patch must have the table cleared too")
	}
}

func TestRemoveDelegatesToStore(t *testing.T) {
	st := newFakeLifecycleStore()
	lc := NewLifecycle(st)
	if err := lc.Remove(context.Background(), 42); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(st.deleted) != 1 || st.deleted[0] != 42 {
		t.Fatalf("expected order 42 deleted, got %v", st.deleted)
	}
}

func boardOrder(id uint64, status string, customer, table string) model.Order {
	o := model.Order{ID: id, Status: status}
	if customer != "" {
		o.CustomerName = &customer
	}
	if table != "" {
		o.TableName = &table
	}
	return o
}

func TestFilterOrders(t *testing.T) {
	orders := []model.Order{
		boardOrder(101, model.StatusPending, "Mario Rossi", ""),
		boardOrder(12, model.StatusReady, "", "Tavolo 4"),
		boardOrder(33, model.StatusDelivered, "Bianchi", ""),
	}

	if got := FilterOrders(orders, "", ""); len(got) != 3 {
		t.Fatalf("empty filter must keep everything, got %d", len(got))
	}
	if got := FilterOrders(orders, "all", ""); len(got) != 3 {
		t.Fatalf("'all' must keep everything, got %d", len(got))
	}
	if got := FilterOrders(orders, model.StatusReady, ""); len(got) != 1 || got[0].ID != 12 {
		t.Fatalf("status filter failed: %v", got)
	}
	// Id substring.
	if got := FilterOrders(orders, "", "01"); len(got) != 1 || got[0].ID != 101 {
		t.Fatalf("id substring search failed: %v", got)
	}
	// Customer, case-insensitive.
	if got := FilterOrders(orders, "", "ROSSI"); len(got) != 1 || got[0].ID != 101 {
		t.Fatalf("customer search failed: %v", got)
	}
	// Table name.
	if got := FilterOrders(orders, "", "tavolo"); len(got) != 1 || got[0].ID != 12 {
		t.Fatalf("table search failed: %v", got)
	}
	// Status and search combine.
	if got := FilterOrders(orders, model.StatusPending, "bianchi"); len(got) != 0 {
		t.Fatalf("combined filter failed: %v", got)
	}
}

func TestPartitionByStatusDropsCancelled(t *testing.T) {
	orders := []model.Order{
		{ID: 1, Status: model.StatusPending},
		{ID: 2, Status: model.StatusCancelled},
		{ID: 3, Status: model.StatusPending},
		{ID: 4, Status: model.StatusReady},
	}
	buckets := PartitionByStatus(orders)

	if len(buckets) != len(BoardStatuses) {
		t.Fatalf("expected %d buckets, got %d", len(BoardStatuses), len(buckets))
	}
	if _, ok := buckets[model.StatusCancelled]; ok {
		t.Fatalf("cancelled must have no board bucket")
	}
	pending := buckets[model.StatusPending]
	if len(pending) != 2 || pending[0].ID != 1 || pending[1].ID != 3 {
		t.Fatalf("pending bucket wrong or out of order: %v", pending)
	}
	if len(buckets[model.StatusPreparing]) != 0 {
		t.Fatalf("empty bucket must still exist")
	}
}
