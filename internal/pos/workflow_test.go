package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// fakeStore is a hand-rolled Store for workflow tests.  Every call is
// recorded; errors can be injected per method.
type fakeStore struct {
	sessions      map[uint64]*model.TableSession
	byTable       map[uint64]*model.TableSession
	sessionOrders map[uint64][]model.Order
	nextTicket    uint32

	createErr    error
	recomputeErr error

	created     []model.Order
	createdItem [][]model.OrderItem
	recomputed  []uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:      map[uint64]*model.TableSession{},
		byTable:       map[uint64]*model.TableSession{},
		sessionOrders: map[uint64][]model.Order{},
		nextTicket:    1,
	}
}

func (f *fakeStore) addSession(s *model.TableSession) {
	f.sessions[s.ID] = s
	f.byTable[s.TableID] = s
}

func (f *fakeStore) TableSession(_ context.Context, id uint64) (*model.TableSession, error) {
	return f.sessions[id], nil
}

func (f *fakeStore) ActiveSessionForTable(_ context.Context, tableID uint64) (*model.TableSession, error) {
	return f.byTable[tableID], nil
}

func (f *fakeStore) SessionOrders(_ context.Context, sessionID uint64) ([]model.Order, error) {
	return f.sessionOrders[sessionID], nil
}

func (f *fakeStore) NextTicketNumber(_ context.Context, sessionID uint64) (uint32, error) {
	return f.nextTicket, nil
}

func (f *fakeStore) RecomputeSessionTotal(_ context.Context, sessionID uint64) error {
	if f.recomputeErr != nil {
		return f.recomputeErr
	}
	f.recomputed = append(f.recomputed, sessionID)
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, o *model.Order, items []model.OrderItem) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = uint64(len(f.created) + 1)
	f.created = append(f.created, *o)
	f.createdItem = append(f.createdItem, items)
	return nil
}

func strp(s string) *string { return &s }

func TestSelectFreeTableBindsDirectly(t *testing.T) {
	st := newFakeStore()
	w := NewWorkflow(st, 17)

	tab, err := w.SelectTable(context.Background(), 5)
	if err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	if tab != nil {
		t.Fatalf("expected no tab on a free table")
	}
	if w.TableID != 5 || w.ActiveSession != nil {
		t.Fatalf("expected table 5 bound with no session, got table %d session %v", w.TableID, w.ActiveSession)
	}
}

func TestSubmitStandaloneIncludesTax(t *testing.T) {
	st := newFakeStore()
	w := NewWorkflow(st, 17)
	w.Cart.AddItem(menuItem(1, "Margherita", 1000))
	w.Cart.UpdateQuantity(1, 1) // quantity 2 -> subtotal 2000
	if _, err := w.SelectTable(context.Background(), 5); err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	w.PaymentMethod = model.PaymentCard
	w.SmacPassed = true
	w.CustomerName = "Rossi"

	order, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.TotalCents != 2340 {
		t.Fatalf("expected total 2340 (2000 + 17%% tax), got %d", order.TotalCents)
	}
	if order.PaymentMethod != model.PaymentCard || !order.SmacPassed {
		t.Fatalf("expected user payment method and SMAC flag, got %q / %v", order.PaymentMethod, order.SmacPassed)
	}
	if order.SessionID != nil || order.OrderNumber != nil {
		t.Fatalf("standalone order must not carry session binding")
	}
	if order.TableID == nil || *order.TableID != 5 {
		t.Fatalf("expected table 5 on order")
	}
	if order.CustomerName == nil || *order.CustomerName != "Rossi" {
		t.Fatalf("expected customer name on order")
	}
	if !w.Cart.IsEmpty() {
		t.Fatalf("expected cart cleared after successful submit")
	}
	if len(st.recomputed) != 0 {
		t.Fatalf("standalone submit must not recompute any session total")
	}
	if len(st.createdItem) != 1 || len(st.createdItem[0]) != 1 {
		t.Fatalf("expected one order with one item, got %v", st.createdItem)
	}
	it := st.createdItem[0][0]
	if it.Quantity != 2 || it.PriceCents != 1000 || it.Name != "Margherita" {
		t.Fatalf("unexpected item snapshot %+v", it)
	}
}

func TestSelectOccupiedTableDetectsTab(t *testing.T) {
	st := newFakeStore()
	sess := &model.TableSession{ID: 7, TableID: 3, TableName: "Tavolo 3", Covers: 4, CustomerName: strp("Bianchi")}
	st.addSession(sess)
	prior := model.Order{ID: 40, Status: model.StatusDelivered, TotalCents: 1500}
	st.sessionOrders[7] = []model.Order{prior}
	st.nextTicket = 2

	w := NewWorkflow(st, 17)
	tab, err := w.SelectTable(context.Background(), 3)
	if err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	if tab == nil || tab.Session.ID != 7 || len(tab.Orders) != 1 {
		t.Fatalf("expected detected tab with one prior ticket, got %+v", tab)
	}
	// Nothing is bound until the user decides.
	if w.ActiveSession != nil || w.TableID != 0 {
		t.Fatalf("nothing must bind before confirm/decline")
	}
	if w.PendingTableID != 3 {
		t.Fatalf("expected pending table 3, got %d", w.PendingTableID)
	}
}

func TestConfirmAttachSubmitsTabTicket(t *testing.T) {
	st := newFakeStore()
	st.addSession(&model.TableSession{ID: 7, TableID: 3, CustomerName: strp("Bianchi"), CustomerPhone: strp("333 1234567")})
	st.sessionOrders[7] = []model.Order{{ID: 40, TotalCents: 1500}}
	st.nextTicket = 2

	w := NewWorkflow(st, 17)
	if _, err := w.SelectTable(context.Background(), 3); err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	if err := w.ConfirmAttach(context.Background()); err != nil {
		t.Fatalf("ConfirmAttach: %v", err)
	}
	if w.ActiveSession == nil || w.ActiveSession.ID != 7 {
		t.Fatalf("expected session 7 bound")
	}
	if w.NextTicketNumber != 2 {
		t.Fatalf("expected next ticket number 2, got %d", w.NextTicketNumber)
	}
	if w.OrderType != model.OrderTypeDineIn || w.TableID != 3 {
		t.Fatalf("attach must force dine-in on the session's table")
	}
	if w.CustomerName != "Bianchi" || w.CustomerPhone != "333 1234567" {
		t.Fatalf("expected customer details pre-filled from the session")
	}
	if w.PendingTableID != 0 {
		t.Fatalf("pending selection must be cleared after confirm")
	}

	w.Cart.AddItem(menuItem(2, "Carbonara", 1200))
	w.PaymentMethod = model.PaymentCard // ignored on the tab path
	w.SmacPassed = true                 // ignored on the tab path

	order, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.TotalCents != 1200 {
		t.Fatalf("tab ticket total must equal the subtotal, got %d", order.TotalCents)
	}
	if order.PaymentMethod != model.PaymentCash || order.SmacPassed {
		t.Fatalf("tab ticket must carry the cash placeholder and no SMAC, got %q / %v", order.PaymentMethod, order.SmacPassed)
	}
	if order.SessionID == nil || *order.SessionID != 7 {
		t.Fatalf("expected session binding on tab ticket")
	}
	if order.OrderNumber == nil || *order.OrderNumber != 2 {
		t.Fatalf("expected ticket number 2, got %v", order.OrderNumber)
	}
	if len(st.recomputed) != 1 || st.recomputed[0] != 7 {
		t.Fatalf("expected session 7 total recomputed once, got %v", st.recomputed)
	}
}

func TestDeclineAttachKeepsTableWithoutSession(t *testing.T) {
	st := newFakeStore()
	st.addSession(&model.TableSession{ID: 7, TableID: 3})
	w := NewWorkflow(st, 17)
	if _, err := w.SelectTable(context.Background(), 3); err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	w.DeclineAttach()

	if w.ActiveSession != nil {
		t.Fatalf("decline must not bind the session")
	}
	if w.TableID != 3 {
		t.Fatalf("decline must keep the table selection, got %d", w.TableID)
	}
	if w.PendingTableID != 0 {
		t.Fatalf("pending selection must be cleared after decline")
	}

	w.Cart.AddItem(menuItem(1, "Margherita", 1000))
	order, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if order.SessionID != nil {
		t.Fatalf("declined order must be standalone")
	}
	if order.TotalCents != 1170 { // 1000 + 17% tax
		t.Fatalf("expected taxed standalone total 1170, got %d", order.TotalCents)
	}
}

func TestSelectTableIgnoredWhileSessionBound(t *testing.T) {
	st := newFakeStore()
	st.addSession(&model.TableSession{ID: 7, TableID: 3})
	w := NewWorkflow(st, 17)
	if err := w.ResumeSession(context.Background(), 7); err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	tab, err := w.SelectTable(context.Background(), 9)
	if err != nil {
		t.Fatalf("SelectTable: %v", err)
	}
	if tab != nil || w.TableID != 3 {
		t.Fatalf("table selection must be ignored while a session is bound")
	}
}

func TestResumeMissingSessionDegradesToStandalone(t *testing.T) {
	st := newFakeStore()
	w := NewWorkflow(st, 17)
	if err := w.ResumeSession(context.Background(), 99); err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	if w.ActiveSession != nil {
		t.Fatalf("missing session must leave the workflow unbound")
	}
}

func TestResumeKeepsTypedCustomerDetails(t *testing.T) {
	st := newFakeStore()
	st.addSession(&model.TableSession{ID: 7, TableID: 3, CustomerName: strp("Bianchi")})
	w := NewWorkflow(st, 17)
	w.CustomerName = "Verdi"
	if err := w.ResumeSession(context.Background(), 7); err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	if w.CustomerName != "Verdi" {
		t.Fatalf("user-typed customer name must win over the session's, got %q", w.CustomerName)
	}
}

func TestSubmitEmptyCartMakesNoRemoteCall(t *testing.T) {
	st := newFakeStore()
	w := NewWorkflow(st, 17)
	w.TableID = 5
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(st.created) != 0 {
		t.Fatalf("empty cart must not reach the store")
	}
}

func TestSubmitDineInWithoutTableFails(t *testing.T) {
	st := newFakeStore()
	w := NewWorkflow(st, 17)
	w.Cart.AddItem(menuItem(1, "Margherita", 1000))
	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrTableRequired) {
		t.Fatalf("expected ErrTableRequired, got %v", err)
	}
	// Takeaway never needs a table.
	w.OrderType = model.OrderTypeTakeaway
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("takeaway submit: %v", err)
	}
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	st := newFakeStore()
	st.createErr = errors.New("db down")
	w := NewWorkflow(st, 17)
	w.Cart.AddItem(menuItem(1, "Margherita", 1000))
	w.TableID = 5

	if _, err := w.Submit(context.Background()); err == nil {
		t.Fatalf("expected persistence error")
	}
	if w.Cart.IsEmpty() {
		t.Fatalf("failed submit must keep the cart for retry")
	}
	if w.TableID != 5 {
		t.Fatalf("failed submit must keep the workflow state")
	}
}

func TestSubmitRecomputeFailureReportedButOrderPersisted(t *testing.T) {
	st := newFakeStore()
	st.addSession(&model.TableSession{ID: 7, TableID: 3})
	st.recomputeErr = errors.New("db down")
	w := NewWorkflow(st, 17)
	if err := w.ResumeSession(context.Background(), 7); err != nil {
		t.Fatalf("ResumeSession: %v", err)
	}
	w.Cart.AddItem(menuItem(1, "Margherita", 1000))

	order, err := w.Submit(context.Background())
	if err == nil {
		t.Fatalf("expected recompute error to surface")
	}
	if order == nil {
		t.Fatalf("the persisted ticket must still be returned")
	}
	if len(st.created) != 1 {
		t.Fatalf("expected the ticket persisted, got %d", len(st.created))
	}
}
