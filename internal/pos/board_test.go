package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

type fakeBoardStore struct {
	byDate  map[string][]model.Order
	loadErr error
	asked   []string
}

func (f *fakeBoardStore) OrdersByDate(_ context.Context, date string) ([]model.Order, error) {
	f.asked = append(f.asked, date)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.byDate[date], nil
}

func TestBoardRefreshAndSnapshot(t *testing.T) {
	st := &fakeBoardStore{byDate: map[string][]model.Order{}}
	b := NewBoard(st)
	st.byDate[b.Date()] = []model.Order{{ID: 1, Status: model.StatusPending}}

	if _, loadedAt := b.Snapshot(); !loadedAt.IsZero() {
		t.Fatalf("expected zero loadedAt before first refresh")
	}
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	orders, loadedAt := b.Snapshot()
	if len(orders) != 1 || orders[0].ID != 1 {
		t.Fatalf("unexpected snapshot %v", orders)
	}
	if loadedAt.IsZero() {
		t.Fatalf("expected loadedAt set after refresh")
	}
}

func TestBoardRefreshFailureKeepsSnapshot(t *testing.T) {
	st := &fakeBoardStore{byDate: map[string][]model.Order{}}
	b := NewBoard(st)
	st.byDate[b.Date()] = []model.Order{{ID: 1}}
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	st.loadErr = errors.New("db down")
	if err := b.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh failure")
	}
	orders, _ := b.Snapshot()
	if len(orders) != 1 {
		t.Fatalf("failed refresh must keep the previous snapshot, got %v", orders)
	}
}

func TestBoardSetDateRescopesNextRefresh(t *testing.T) {
	st := &fakeBoardStore{byDate: map[string][]model.Order{
		"2026-08-29": {{ID: 1}},
		"2026-08-30": {{ID: 2}, {ID: 3}},
	}}
	b := NewBoard(st)
	b.SetDate("2026-08-29")
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	b.SetDate("2026-08-30")
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	orders, _ := b.Snapshot()
	if len(orders) != 2 {
		t.Fatalf("expected rescoped snapshot, got %v", orders)
	}
	if len(st.asked) != 2 || st.asked[1] != "2026-08-30" {
		t.Fatalf("unexpected fetched dates %v", st.asked)
	}
}
