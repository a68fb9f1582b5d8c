// Package cart holds the client-side shopping cart model: an ordered set of
// line items keyed by product, size and fulfillment.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

// Quantity bounds applied on every mutation.
const (
	MinQty = 1
	MaxQty = 99
)

// Key identifies a line. A ledger holds at most one line per key.
type Key struct {
	ProductID   string
	Size        string
	Fulfillment product.Fulfillment
}

// Line is one cart entry. Price is the unit price captured when the line was
// first added; it is not re-derived from the catalog afterwards.
type Line struct {
	Key
	Title string
	Qty   int
	Price decimal.Decimal
}

// Total returns Price * Qty.
func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Pricer prices a product selection.
type Pricer interface {
	UnitPrice(p *product.Product, size string, f product.Fulfillment) decimal.Decimal
}

// ClampQty forces qty into [MinQty, MaxQty].
func ClampQty(qty int) int {
	return min(max(qty, MinQty), MaxQty)
}

// Ledger is an ordered collection of cart lines. It is not safe for
// concurrent use; a ledger belongs to a single client interaction.
type Ledger struct {
	prices Pricer
	lines  []Line
}

// NewLedger returns an empty ledger.
func NewLedger(prices Pricer) *Ledger {
	return &Ledger{prices: prices}
}

// Restore rebuilds a ledger from a previously taken snapshot. Quantities are
// clamped and lines sharing a key are merged into the first occurrence.
func Restore(prices Pricer, lines []Line) *Ledger {
	l := NewLedger(prices)
	for _, line := range lines {
		if i := l.index(line.Key); i >= 0 {
			l.lines[i].Qty = ClampQty(l.lines[i].Qty + line.Qty)
			continue
		}
		line.Qty = ClampQty(line.Qty)
		l.lines = append(l.lines, line)
	}
	return l
}

func (l *Ledger) index(k Key) int {
	return slices.IndexFunc(l.lines, func(line Line) bool { return line.Key == k })
}

// Add puts one print of the selection in the cart. An existing line is
// incremented and clamped at MaxQty; otherwise a new line is appended with the
// current unit price.
func (l *Ledger) Add(p *product.Product, size string, f product.Fulfillment) Line {
	k := Key{ProductID: p.ID, Size: size, Fulfillment: f}
	if i := l.index(k); i >= 0 {
		l.lines[i].Qty = ClampQty(l.lines[i].Qty + 1)
		return l.lines[i]
	}
	line := Line{
		Key:   k,
		Title: p.Title,
		Qty:   1,
		Price: l.prices.UnitPrice(p, size, f),
	}
	l.lines = append(l.lines, line)
	return line
}

// Remove deletes the line with key k. It reports whether a line was removed.
func (l *Ledger) Remove(k Key) bool {
	i := l.index(k)
	if i < 0 {
		return false
	}
	l.lines = slices.Delete(l.lines, i, i+1)
	return true
}

// SetQty stores a clamped quantity on the line with key k. It reports whether
// the line exists.
func (l *Ledger) SetQty(k Key, qty int) bool {
	i := l.index(k)
	if i < 0 {
		return false
	}
	l.lines[i].Qty = ClampQty(qty)
	return true
}

// Clear removes every line.
func (l *Ledger) Clear() {
	l.lines = nil
}

// Lines returns a snapshot of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	return slices.Clone(l.lines)
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Subtotal returns the sum of price * qty over all lines.
func (l *Ledger) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, line := range l.lines {
		sum = sum.Add(line.Total())
	}
	return sum
}

// Count returns the total number of prints in the cart.
func (l *Ledger) Count() int {
	n := 0
	for _, line := range l.lines {
		n += line.Qty
	}
	return n
}
