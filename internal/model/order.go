package model

import "time"

// Order type values stored in orders.order_type.
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

// Payment method values stored in orders.payment_method.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

// Order status values.  pending, preparing, ready and delivered form a
// strictly linear sequence; cancelled is a terminal state reachable only
// through an explicit edit.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// ValidOrderType reports whether s is a known order type.
func ValidOrderType(s string) bool {
	return s == OrderTypeDineIn || s == OrderTypeTakeaway || s == OrderTypeDelivery
}

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	return s == PaymentCash || s == PaymentCard || s == PaymentOnline
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is one submitted ticket.  When SessionID is set the order is a
// "comanda" inside an open tab and OrderNumber carries its 1-based
// sequence within that tab; otherwise it is a standalone ticket.
// TotalCents is captured at creation and is never recomputed from the
// line items afterwards.
//
// Fields:
//  ID            – primary key identifier.
//  Date          – business date (YYYY-MM-DD) the order belongs to.
//  OrderType     – dine_in, takeaway or delivery.
//  TableID       – bound table; only meaningful for dine_in.
//  TableName     – joined from tables for display and search.
//  SessionID     – owning open tab, if any.
//  OrderNumber   – ticket sequence within the session, if any.
//  PaymentMethod – cash, card or online.  A placeholder ("cash") for
//                  tab tickets, where payment is deferred to settlement.
//  Status        – lifecycle status.
//  TotalCents    – order total in cents.
//  CustomerName  – optional customer name.
//  CustomerPhone – optional customer phone.
//  Notes         – optional free-text order notes.
//  SmacPassed    – loyalty-card flag; deferred to settlement for tab tickets.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Order struct {
	ID            uint64    `json:"id"`                       // orders.id
	Date          string    `json:"date"`                     // orders.date
	OrderType     string    `json:"order_type"`               // orders.order_type
	TableID       *uint64   `json:"table_id,omitempty"`       // orders.table_id (nullable)
	TableName     *string   `json:"table_name,omitempty"`     // tables.name (joined)
	SessionID     *uint64   `json:"session_id,omitempty"`     // orders.session_id (nullable)
	OrderNumber   *uint32   `json:"order_number,omitempty"`   // orders.order_number (nullable)
	PaymentMethod string    `json:"payment_method"`           // orders.payment_method
	Status        string    `json:"status"`                   // orders.status
	TotalCents    int64     `json:"total_cents"`              // orders.total_cents
	CustomerName  *string   `json:"customer_name,omitempty"`  // orders.customer_name (nullable)
	CustomerPhone *string   `json:"customer_phone,omitempty"` // orders.customer_phone (nullable)
	Notes         *string   `json:"notes,omitempty"`          // orders.notes (nullable)
	SmacPassed    bool      `json:"smac_passed"`              // orders.smac_passed
	CreatedAt     time.Time `json:"created_at"`               // orders.created_at
	UpdatedAt     time.Time `json:"updated_at"`               // orders.updated_at
}

// OrderItem is one persisted order line.  Name and PriceCents are
// snapshots captured when the line was added to the cart, independent
// of later menu changes.
type OrderItem struct {
	ID         uint64  `json:"id"`              // order_items.id
	OrderID    uint64  `json:"order_id"`        // order_items.order_id
	MenuItemID uint64  `json:"menu_item_id"`    // order_items.menu_item_id
	Name       string  `json:"name"`            // order_items.name (snapshot)
	Quantity   uint32  `json:"quantity"`        // order_items.quantity
	PriceCents int64   `json:"price_cents"`     // order_items.price_cents (snapshot)
	Notes      *string `json:"notes,omitempty"` // order_items.notes (nullable)
}

// OrderPatch carries the full replacement values applied by an
// administrative edit.  Every field is written; the patch is not a
// partial update.  The order total is deliberately absent: editing
// never recomputes or changes it.
type OrderPatch struct {
	OrderType     string  `json:"order_type"`
	TableID       *uint64 `json:"table_id"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	CustomerName  *string `json:"customer_name"`
	CustomerPhone *string `json:"customer_phone"`
	Notes         *string `json:"notes"`
	SmacPassed    bool    `json:"smac_passed"`
}
