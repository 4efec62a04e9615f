package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
	"github.com/andreafabbri97/restaurant-manager/internal/pos"
	"github.com/andreafabbri97/restaurant-manager/internal/queue"
	"github.com/andreafabbri97/restaurant-manager/internal/repository"
)

// POSStore adapts the repositories to the store interfaces of the pos
// package.  One facade serves the workflow, the lifecycle controller
// and the board.
type POSStore struct {
	orders   *repository.OrderRepo
	sessions *repository.SessionRepo
}

// NewPOSStore returns the repository-backed store the pos core runs on.
func NewPOSStore(orders *repository.OrderRepo, sessions *repository.SessionRepo) *POSStore {
	return &POSStore{orders: orders, sessions: sessions}
}

func (s *POSStore) TableSession(ctx context.Context, id uint64) (*model.TableSession, error) {
	return s.sessions.GetByID(ctx, id)
}
func (s *POSStore) ActiveSessionForTable(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	return s.sessions.ActiveForTable(ctx, tableID)
}
func (s *POSStore) SessionOrders(ctx context.Context, sessionID uint64) ([]model.Order, error) {
	return s.orders.SessionOrders(ctx, sessionID)
}
func (s *POSStore) NextTicketNumber(ctx context.Context, sessionID uint64) (uint32, error) {
	return s.orders.NextTicketNumber(ctx, sessionID)
}
func (s *POSStore) RecomputeSessionTotal(ctx context.Context, sessionID uint64) error {
	return s.sessions.RecomputeTotal(ctx, sessionID)
}
func (s *POSStore) CreateOrder(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	return s.orders.Create(ctx, o, items)
}
func (s *POSStore) UpdateOrderStatus(ctx context.Context, id uint64, status string) error {
	return s.orders.UpdateStatus(ctx, id, status)
}
func (s *POSStore) UpdateOrder(ctx context.Context, id uint64, patch model.OrderPatch) error {
	return s.orders.Update(ctx, id, patch)
}
func (s *POSStore) DeleteOrder(ctx context.Context, id uint64) error {
	return s.orders.Delete(ctx, id)
}
func (s *POSStore) OrderItems(ctx context.Context, orderID uint64) ([]model.OrderItem, error) {
	return s.orders.Items(ctx, orderID)
}
func (s *POSStore) OrdersByDate(ctx context.Context, date string) ([]model.Order, error) {
	return s.orders.ListByDate(ctx, date)
}

// OrderHandler serves the order endpoints: creation through the
// workflow, the kitchen board and the lifecycle operations.
type OrderHandler struct {
	Store    *POSStore
	Orders   *repository.OrderRepo
	Menu     *repository.MenuRepo
	Settings *repository.SettingsRepo
	Pub      *queue.Publisher
	Board    *pos.Board
	// Live reports whether the change-notification consumer currently
	// holds a broker connection.
	Live func() bool
}

func NewOrderHandler(store *POSStore, orders *repository.OrderRepo, menu *repository.MenuRepo, settings *repository.SettingsRepo, pub *queue.Publisher, board *pos.Board, live func() bool) *OrderHandler {
	return &OrderHandler{Store: store, Orders: orders, Menu: menu, Settings: settings, Pub: pub, Board: board, Live: live}
}

type orderItemReq struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

type createOrderReq struct {
	OrderType     string         `json:"order_type"`
	TableID       uint64         `json:"table_id"`
	SessionID     uint64         `json:"session_id"`
	Attach        *bool          `json:"attach"` // decision for a detected tab
	PaymentMethod string         `json:"payment_method"`
	SmacPassed    bool           `json:"smac_passed"`
	CustomerName  string         `json:"customer_name"`
	CustomerPhone string         `json:"customer_phone"`
	Notes         string         `json:"notes"`
	Items         []orderItemReq `json:"items"`
}

// Create runs the full order workflow: cart build from the menu,
// session reconciliation (resume / detect / attach / decline) and
// submission.  When a tab is detected on the requested table and no
// attach decision is present, 409 returns the tab details and nothing
// is persisted; the client repeats the request with "attach" set.
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OrderType == "" {
		req.OrderType = model.OrderTypeDineIn
	}
	if !model.ValidOrderType(req.OrderType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order_type"})
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = model.PaymentCash
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_method"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cart is empty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}

	w := pos.NewWorkflow(h.Store, settings.TaxRate)
	w.OrderType = req.OrderType
	w.PaymentMethod = req.PaymentMethod
	w.SmacPassed = req.SmacPassed
	w.CustomerName = req.CustomerName
	w.CustomerPhone = req.CustomerPhone
	w.Notes = req.Notes

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "quantity must be positive"})
		}
		item, err := h.Menu.ItemByID(ctx, line.MenuItemID)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown menu item"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load menu item failed"})
		}
		if !item.Available {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "menu item not available"})
		}
		w.Cart.AddItem(*item)
		if line.Quantity > 1 {
			w.Cart.UpdateQuantity(item.ID, line.Quantity-1)
		}
		if line.Notes != "" {
			w.Cart.SetLineNotes(item.ID, line.Notes)
		}
	}

	switch {
	case req.SessionID != 0:
		if err := w.ResumeSession(ctx, req.SessionID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load session failed"})
		}
	case req.TableID != 0:
		tab, err := w.SelectTable(ctx, req.TableID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "table lookup failed"})
		}
		if tab != nil {
			if req.Attach == nil {
				return c.JSON(http.StatusConflict, echo.Map{"error": "open tab on table", "tab": tab})
			}
			if *req.Attach {
				if err := w.ConfirmAttach(ctx); err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "attach failed"})
				}
			} else {
				w.DeclineAttach()
			}
		}
	}

	order, err := w.Submit(ctx)
	switch {
	case err == pos.ErrEmptyCart:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "cart is empty"})
	case err == pos.ErrTableRequired:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "dine-in order requires a table"})
	case err != nil && order == nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	h.publish(order, queue.ChangeCreated)

	resp := echo.Map{"order": order}
	if err != nil {
		// The ticket exists but the tab's running total is stale.
		resp["warning"] = "session total not updated"
	}
	return c.JSON(http.StatusCreated, resp)
}

// List returns the orders of one business date (default today),
// optionally narrowed by status and free-text search.
func (h *OrderHandler) List(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	orders, err := h.Orders.ListByDate(ctx, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list orders failed"})
	}
	orders = pos.FilterOrders(orders, c.QueryParam("status"), c.QueryParam("q"))
	return c.JSON(http.StatusOK, echo.Map{"date": date, "orders": orders})
}

// BoardView returns the kanban snapshot: the four status buckets plus
// the live-channel indicator.  A date parameter rescopes the board.
func (h *OrderHandler) BoardView(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rescoped := false
	if date := c.QueryParam("date"); date != "" && date != h.Board.Date() {
		h.Board.SetDate(date)
		rescoped = true
	}
	if _, loadedAt := h.Board.Snapshot(); rescoped || loadedAt.IsZero() {
		if err := h.Board.Refresh(ctx); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load board failed"})
		}
	}

	orders, loadedAt := h.Board.Snapshot()
	orders = pos.FilterOrders(orders, c.QueryParam("status"), c.QueryParam("q"))
	return c.JSON(http.StatusOK, echo.Map{
		"date":      h.Board.Date(),
		"buckets":   pos.PartitionByStatus(orders),
		"loaded_at": loadedAt,
		"live":      h.Live(),
	})
}

// Items returns the persisted line items of one order.
func (h *OrderHandler) Items(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := pos.NewLifecycle(h.Store).Detail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load items failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Advance moves an order one step along the status sequence.  Terminal
// orders return moved=false and are otherwise untouched.
func (h *OrderHandler) Advance(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}

	moved, err := pos.NewLifecycle(h.Store).Advance(ctx, order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "advance failed"})
	}
	if moved {
		h.publish(order, queue.ChangeUpdated)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order, "moved": moved})
}

// Patch applies the administrative edit: full replacement of the
// header fields, any status allowed, total untouched.
func (h *OrderHandler) Patch(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch model.OrderPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidOrderType(patch.OrderType) || !model.ValidPaymentMethod(patch.PaymentMethod) || !model.ValidStatus(patch.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order_type/payment_method/status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}

	if err := pos.NewLifecycle(h.Store).Edit(ctx, order, patch); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update order failed"})
	}
	h.publish(order, queue.ChangeUpdated)
	return c.JSON(http.StatusOK, echo.Map{"order": order})
}

// Delete removes an order permanently.  The owning session's running
// total is not recomputed.
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load order failed"})
	}

	if err := pos.NewLifecycle(h.Store).Remove(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete order failed"})
	}
	h.publish(order, queue.ChangeDeleted)
	return c.NoContent(http.StatusNoContent)
}

// publish emits order.changed best-effort; failures are logged by the
// publisher and never fail the request.
func (h *OrderHandler) publish(o *model.Order, change string) {
	if h.Pub == nil {
		return
	}
	ev := queue.OrderChangedEvent{
		OrderID:   o.ID,
		Change:    change,
		Status:    o.Status,
		Date:      o.Date,
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if o.SessionID != nil {
		ev.SessionID = *o.SessionID
	}
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()
	_ = h.Pub.Publish(ctx, ev)
}
