package pos

import (
	"context"
	"errors"
	"time"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

// Validation failures detected before any remote call.
var (
	// ErrEmptyCart rejects a submission with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrTableRequired rejects a dine-in submission with neither a
	// bound table nor a bound session.
	ErrTableRequired = errors.New("dine-in order requires a table")
)

// SessionStore is the slice of the data layer the workflow needs to
// reconcile an order against open tabs.  Absence of a session is a
// normal answer and is reported as (nil, nil), never as an error.
type SessionStore interface {
	TableSession(ctx context.Context, id uint64) (*model.TableSession, error)
	ActiveSessionForTable(ctx context.Context, tableID uint64) (*model.TableSession, error)
	SessionOrders(ctx context.Context, sessionID uint64) ([]model.Order, error)
	NextTicketNumber(ctx context.Context, sessionID uint64) (uint32, error)
	RecomputeSessionTotal(ctx context.Context, sessionID uint64) error
}

// OrderWriter persists a new order atomically with its line items.
type OrderWriter interface {
	CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) error
}

// Store combines everything the workflow touches.
type Store interface {
	SessionStore
	OrderWriter
}

// DetectedTab describes an open tab found on a table the user just
// selected.  The workflow never attaches to it silently: the caller
// must surface these details and come back with ConfirmAttach or
// DeclineAttach.
type DetectedTab struct {
	Session *model.TableSession `json:"session"`
	Orders  []model.Order       `json:"orders"` // prior tickets, earliest first
}

// Workflow owns the state of one order under construction: the cart,
// the session binding, pending table selections and the header fields
// the user fills in.  One instance serves one order; nothing here is a
// process-wide singleton.
type Workflow struct {
	store   Store
	taxRate int

	Cart *Cart

	// ActiveSession, when non-nil, binds this order as the next ticket
	// of an open tab.  NextTicketNumber is fetched at binding time, not
	// at submission: two tickets prepared concurrently for the same tab
	// can observe the same number.  Known gap, kept deliberately.
	ActiveSession    *model.TableSession
	NextTicketNumber uint32

	// PendingTableID holds a table selection awaiting the user's
	// attach/decline decision; pendingSession is the tab detected on it.
	PendingTableID uint64
	pendingSession *model.TableSession

	OrderType     string
	TableID       uint64 // 0 = none
	PaymentMethod string
	CustomerName  string
	CustomerPhone string
	Notes         string
	SmacPassed    bool
}

// NewWorkflow returns a workflow with an empty cart and the defaults
// the order-entry screen starts from: dine-in, cash.
func NewWorkflow(store Store, taxRate int) *Workflow {
	return &Workflow{
		store:         store,
		taxRate:       taxRate,
		Cart:          NewCart(),
		OrderType:     model.OrderTypeDineIn,
		PaymentMethod: model.PaymentCash,
	}
}

// ResumeSession is the deep-link entry point: the caller already knows
// the session identity.  A session that no longer exists degrades
// silently to a standalone order instead of failing hard.
func (w *Workflow) ResumeSession(ctx context.Context, sessionID uint64) error {
	s, err := w.store.TableSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	return w.bindSession(ctx, s)
}

// SelectTable handles a table tap while no session is bound.  When the
// table is free it is bound directly and (nil, nil) is returned.  When
// an open tab is detected, nothing is bound yet: the tab's details are
// returned for the user to confirm or decline.  A workflow already
// bound to a session ignores table selection.
func (w *Workflow) SelectTable(ctx context.Context, tableID uint64) (*DetectedTab, error) {
	if w.ActiveSession != nil {
		return nil, nil
	}
	s, err := w.store.ActiveSessionForTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		w.TableID = tableID
		w.clearPending()
		return nil, nil
	}
	orders, err := w.store.SessionOrders(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	w.PendingTableID = tableID
	w.pendingSession = s
	return &DetectedTab{Session: s, Orders: orders}, nil
}

// ConfirmAttach binds the workflow to the tab detected by SelectTable.
// Post-state is identical to ResumeSession.  No-op without a pending
// detection.
func (w *Workflow) ConfirmAttach(ctx context.Context) error {
	if w.pendingSession == nil || w.PendingTableID == 0 {
		return nil
	}
	if err := w.bindSession(ctx, w.pendingSession); err != nil {
		return err
	}
	w.clearPending()
	return nil
}

// DeclineAttach keeps the table selection but refuses the tab: the
// order proceeds standalone on an already-occupied table.  A table
// carrying both a tab and independent walk-up tickets is allowed.
func (w *Workflow) DeclineAttach() {
	if w.PendingTableID != 0 {
		w.TableID = w.PendingTableID
	}
	w.clearPending()
}

// bindSession attaches the workflow to an open tab: dine-in becomes
// mandatory, the table comes from the session, the next ticket number
// is fetched now, and customer details are pre-populated when the user
// has not typed their own.
func (w *Workflow) bindSession(ctx context.Context, s *model.TableSession) error {
	n, err := w.store.NextTicketNumber(ctx, s.ID)
	if err != nil {
		return err
	}
	w.ActiveSession = s
	w.NextTicketNumber = n
	w.OrderType = model.OrderTypeDineIn
	w.TableID = s.TableID
	if s.CustomerName != nil && w.CustomerName == "" {
		w.CustomerName = *s.CustomerName
	}
	if s.CustomerPhone != nil && w.CustomerPhone == "" {
		w.CustomerPhone = *s.CustomerPhone
	}
	return nil
}

func (w *Workflow) clearPending() {
	w.PendingTableID = 0
	w.pendingSession = nil
}

// Submit validates and persists the order.
//
// Tab path: total is the cart subtotal (tax is treated as embedded in
// menu prices for tickets under an open tab), payment method is a
// placeholder and SMAC is false until the tab is settled, and the
// session's running total is recomputed afterwards.
//
// Standalone path: total is the grand total including tax, with the
// user's payment method and SMAC flag.
//
// Validation failures return before any remote call.  A persistence
// failure leaves the cart and all workflow state untouched so the user
// can retry; success clears the cart.
func (w *Workflow) Submit(ctx context.Context) (*model.Order, error) {
	if w.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if w.OrderType == model.OrderTypeDineIn && w.TableID == 0 && w.ActiveSession == nil {
		return nil, ErrTableRequired
	}

	order := model.Order{
		Date:      time.Now().UTC().Format("2006-01-02"),
		OrderType: w.OrderType,
		Status:    model.StatusPending,
	}
	if w.OrderType == model.OrderTypeDineIn && w.TableID != 0 {
		id := w.TableID
		order.TableID = &id
	}
	if w.CustomerName != "" {
		v := w.CustomerName
		order.CustomerName = &v
	}
	if w.CustomerPhone != "" {
		v := w.CustomerPhone
		order.CustomerPhone = &v
	}
	if w.Notes != "" {
		v := w.Notes
		order.Notes = &v
	}

	if w.ActiveSession != nil {
		order.TotalCents = w.Cart.SubtotalCents()
		order.PaymentMethod = model.PaymentCash // placeholder until settlement
		order.SmacPassed = false
		sid := w.ActiveSession.ID
		order.SessionID = &sid
		num := w.NextTicketNumber
		order.OrderNumber = &num
	} else {
		order.TotalCents = w.Cart.GrandTotalCents(w.taxRate)
		order.PaymentMethod = w.PaymentMethod
		order.SmacPassed = w.SmacPassed
	}

	lines := w.Cart.Lines()
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		it := model.OrderItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   uint32(l.Quantity),
			PriceCents: l.PriceCents,
		}
		if l.Notes != "" {
			v := l.Notes
			it.Notes = &v
		}
		items = append(items, it)
	}

	if err := w.store.CreateOrder(ctx, &order, items); err != nil {
		return nil, err
	}
	if w.ActiveSession != nil {
		if err := w.store.RecomputeSessionTotal(ctx, w.ActiveSession.ID); err != nil {
			// The ticket is persisted; the stale running total is
			// reported so the caller can surface it, but the cart is
			// kept for context like any other failure.
			return &order, err
		}
	}
	w.Cart.Clear()
	return &order, nil
}
