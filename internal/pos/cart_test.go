package pos

import (
	"testing"

	"github.com/andreafabbri97/restaurant-manager/internal/model"
)

func menuItem(id uint64, name string, price int64) model.MenuItem {
	return model.MenuItem{ID: id, Name: name, PriceCents: price, Available: true}
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 850))
	c.AddItem(menuItem(1, "Margherita", 850))

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if c.ItemCount() != 2 {
		t.Fatalf("expected item count 2, got %d", c.ItemCount())
	}
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(3, "Tiramisu", 500))
	c.AddItem(menuItem(1, "Margherita", 850))
	c.AddItem(menuItem(2, "Carbonara", 1100))
	c.AddItem(menuItem(1, "Margherita", 850))

	lines := c.Lines()
	want := []uint64{3, 1, 2}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, id := range want {
		if lines[i].MenuItemID != id {
			t.Fatalf("line %d: expected menu item %d, got %d", i, id, lines[i].MenuItemID)
		}
	}
}

func TestUpdateQuantityClampsAndRemovesAtZero(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 850))
	c.UpdateQuantity(1, 2) // -> 3
	if got := c.Lines()[0].Quantity; got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}

	c.UpdateQuantity(1, -5) // clamps to 0 -> removed
	if !c.IsEmpty() {
		t.Fatalf("expected line removed at quantity 0")
	}

	// Unknown line is a no-op.
	c.UpdateQuantity(42, 1)
	if !c.IsEmpty() {
		t.Fatalf("expected no-op for unknown line")
	}
}

func TestItemCountMatchesQuantities(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 850))
	c.AddItem(menuItem(2, "Carbonara", 1100))
	c.AddItem(menuItem(2, "Carbonara", 1100))
	c.UpdateQuantity(1, 3)
	c.RemoveItem(2)
	c.AddItem(menuItem(3, "Tiramisu", 500))

	sum := 0
	for _, l := range c.Lines() {
		if l.Quantity <= 0 {
			t.Fatalf("line %d has non-positive quantity %d", l.MenuItemID, l.Quantity)
		}
		sum += l.Quantity
	}
	if c.ItemCount() != sum {
		t.Fatalf("item count %d does not match quantity sum %d", c.ItemCount(), sum)
	}
}

func TestTotals(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 1000))
	c.UpdateQuantity(1, 1) // quantity 2

	if got := c.SubtotalCents(); got != 2000 {
		t.Fatalf("expected subtotal 2000, got %d", got)
	}
	if got := c.TaxCents(17); got != 340 {
		t.Fatalf("expected tax 340, got %d", got)
	}
	if got := c.GrandTotalCents(17); got != 2340 {
		t.Fatalf("expected grand total 2340, got %d", got)
	}
}

func TestTaxRoundsHalfUpToTheCent(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Espresso", 1005))
	// 1005 * 17% = 170.85 -> 171
	if got := c.TaxCents(17); got != 171 {
		t.Fatalf("expected tax 171, got %d", got)
	}

	c2 := NewCart()
	c2.AddItem(menuItem(1, "Acqua", 101))
	// 101 * 17% = 17.17 -> 17
	if got := c2.TaxCents(17); got != 17 {
		t.Fatalf("expected tax 17, got %d", got)
	}
}

func TestSetLineNotesReplacesText(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 850))
	c.SetLineNotes(1, "senza cipolla")
	c.SetLineNotes(1, "senza cipolla, piccante")

	if got := c.Lines()[0].Notes; got != "senza cipolla, piccante" {
		t.Fatalf("unexpected notes %q", got)
	}
	// Unknown line is a no-op.
	c.SetLineNotes(99, "x")
	if len(c.Lines()) != 1 {
		t.Fatalf("unexpected line added by SetLineNotes")
	}
}

func TestClearResetsExpandedSelection(t *testing.T) {
	c := NewCart()
	c.AddItem(menuItem(1, "Margherita", 850))
	c.ExpandLine(1)
	if c.ExpandedLine() != 1 {
		t.Fatalf("expected line 1 expanded")
	}
	c.Clear()
	if !c.IsEmpty() || c.ExpandedLine() != 0 {
		t.Fatalf("expected empty cart and no expanded line after Clear")
	}
}
