// Package pos implements the order-entry core of the POS: the in-memory
// cart, the session reconciliation workflow that routes a new ticket
// toward a fresh order or an existing open tab, the order lifecycle
// state machine and the live order board.  The package is pure domain
// logic; persistence is reached only through the small store interfaces
// declared here, which the repository layer satisfies.
package pos

import "github.com/andreafabbri97/restaurant-manager/internal/model"

// CartLine is one line of an order under construction.  PriceCents and
// Name are snapshotted from the menu item when the line is first added;
// later menu edits do not touch them.
type CartLine struct {
	MenuItemID uint64 `json:"menu_item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

// Cart accumulates line items for an order not yet submitted.  Lines
// are kept in insertion order and keyed by menu-item identity: adding
// the same item twice increments its quantity instead of appending a
// duplicate line.  A cart belongs to exactly one workflow instance and
// is not safe for concurrent use.
type Cart struct {
	lines      []CartLine
	expandedID uint64 // menu-item id of the line open for note editing, 0 = none
}

// NewCart returns an empty cart.
func NewCart() *Cart { return &Cart{} }

// AddItem adds one unit of a menu item.  If a line for the item already
// exists its quantity is incremented; otherwise a new line is appended
// with quantity 1 and the price snapshotted from the menu item.
func (c *Cart) AddItem(item model.MenuItem) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		PriceCents: item.PriceCents,
		Quantity:   1,
	})
}

// UpdateQuantity adds delta (positive or negative) to a line's
// quantity, clamped at zero.  A line that reaches zero is removed, not
// retained.  Unknown line ids are a no-op.
func (c *Cart) UpdateQuantity(menuItemID uint64, delta int) {
	for i := range c.lines {
		if c.lines[i].MenuItemID != menuItemID {
			continue
		}
		q := c.lines[i].Quantity + delta
		if q <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = q
		}
		return
	}
}

// RemoveItem removes a line unconditionally if present.
func (c *Cart) RemoveItem(menuItemID uint64) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetLineNotes replaces the free-text preparation notes of a line.
// Composing suggestions onto existing notes (comma-appending) is the
// caller's job; the cart stores whatever it is given.
func (c *Cart) SetLineNotes(menuItemID uint64, notes string) {
	for i := range c.lines {
		if c.lines[i].MenuItemID == menuItemID {
			c.lines[i].Notes = notes
			return
		}
	}
}

// Clear empties the cart and resets the expanded-line selection.
func (c *Cart) Clear() {
	c.lines = nil
	c.expandedID = 0
}

// ExpandLine records which line is open for note editing (0 collapses).
func (c *Cart) ExpandLine(menuItemID uint64) { c.expandedID = menuItemID }

// ExpandedLine returns the menu-item id of the expanded line, 0 if none.
func (c *Cart) ExpandedLine() uint64 { return c.expandedID }

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// SubtotalCents is the sum of price x quantity over all lines.
func (c *Cart) SubtotalCents() int64 {
	var sum int64
	for _, l := range c.lines {
		sum += l.PriceCents * int64(l.Quantity)
	}
	return sum
}

// TaxCents returns the tax on the current subtotal at the given integer
// percentage rate, rounded half-up to the cent.
func (c *Cart) TaxCents(rate int) int64 {
	return (c.SubtotalCents()*int64(rate) + 50) / 100
}

// GrandTotalCents is subtotal plus tax at the given rate.
func (c *Cart) GrandTotalCents(rate int) int64 {
	return c.SubtotalCents() + c.TaxCents(rate)
}
