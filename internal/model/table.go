package model

import "time"

// Table represents a physical dining table as stored in the `tables`
// table.  Tables are reference data: they are created once during
// setup and never mutated by the ordering workflow.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown on the floor plan (e.g. "Tavolo 4").
//  Capacity  – number of seats at the table.
//  CreatedAt – creation timestamp.
type Table struct {
	ID        uint64    `json:"id"`         // tables.id
	Name      string    `json:"name"`       // tables.name
	Capacity  uint32    `json:"capacity"`   // tables.capacity
	CreatedAt time.Time `json:"created_at"` // tables.created_at
}

// TableSession is an open tab ("conto aperto"): an ongoing dine-in
// engagement that aggregates multiple tickets under one table visit.
// A session is open while ClosedAt is nil; at most one open session
// may exist per table at any time.  TotalCents is a running total
// recomputed from the session's tickets every time a new one is
// attached.
//
// Fields:
//  ID            – primary key identifier.
//  TableID       – owning table.
//  TableName     – joined from tables for display; not a column of
//                  table_sessions itself.
//  Covers        – number of covers (guests) seated.
//  CustomerName  – optional customer name recorded when the tab opened.
//  CustomerPhone – optional customer phone.
//  TotalCents    – running total of all tickets, in cents.
//  OpenedAt      – when the tab was opened.
//  ClosedAt      – when the tab was settled (nil while open).
type TableSession struct {
	ID            uint64     `json:"id"`                       // table_sessions.id
	TableID       uint64     `json:"table_id"`                 // table_sessions.table_id
	TableName     string     `json:"table_name,omitempty"`     // tables.name (joined)
	Covers        uint32     `json:"covers"`                   // table_sessions.covers
	CustomerName  *string    `json:"customer_name,omitempty"`  // table_sessions.customer_name (nullable)
	CustomerPhone *string    `json:"customer_phone,omitempty"` // table_sessions.customer_phone (nullable)
	TotalCents    int64      `json:"total_cents"`              // table_sessions.total_cents
	OpenedAt      time.Time  `json:"opened_at"`                // table_sessions.opened_at
	ClosedAt      *time.Time `json:"closed_at,omitempty"`      // table_sessions.closed_at (nullable)
}
