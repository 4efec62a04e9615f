// Package queue defines the order.changed event and the RabbitMQ
// publisher and consumer around it.  The event carries only identity
// and change kind: consumers react by re-reading the order collection,
// never by patching state from the message body.
package queue

// Change kinds carried by OrderChangedEvent.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// OrderChangedEvent is published after every order mutation.  SessionID
// is zero for standalone orders.
type OrderChangedEvent struct {
	OrderID   uint64 `json:"order_id"`
	SessionID uint64 `json:"session_id,omitempty"`
	Change    string `json:"change"`
	Status    string `json:"status,omitempty"`
	Date      string `json:"date"`
	ChangedAt string `json:"changed_at"`
}
