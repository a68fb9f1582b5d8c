// Package pricing computes unit prices for a product selection.
//
// Prices are two-dimensional: a base price keyed by size, plus a framing
// surcharge (also keyed by size) when the framed fulfillment is chosen. Every
// lookup degrades to zero on missing data instead of failing.
package pricing

import (
	"maps"
	"math"

	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

// DefaultFrameAddOns is the shared framing surcharge by size, used when a
// product does not define its own.
var DefaultFrameAddOns = map[string]decimal.Decimal{
	"8×10":  decimal.NewFromInt(80),
	"11×14": decimal.NewFromInt(110),
	"16×20": decimal.NewFromInt(150),
}

// Engine computes prices. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	base  []Source
	addon []Source
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	frameDefaults map[string]decimal.Decimal
}

// WithFrameDefaults replaces the shared framing surcharge table.
func WithFrameDefaults(table map[string]decimal.Decimal) Option {
	return func(o *engineOptions) {
		o.frameDefaults = maps.Clone(table)
	}
}

// NewEngine creates an Engine. Base price resolves per-size price, then the
// flat fallback price, then zero. Framing surcharge resolves the product's
// own table, then the shared default table, then zero.
func NewEngine(opts ...Option) *Engine {
	o := engineOptions{frameDefaults: maps.Clone(DefaultFrameAddOns)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{
		base:  []Source{PriceBySize, FlatPrice},
		addon: []Source{ProductFrameAddOn, Table(o.frameDefaults)},
	}
}

// FrameAddon returns the framing surcharge for size.
func (e *Engine) FrameAddon(p *product.Product, size string) decimal.Decimal {
	return Resolve(p, size, e.addon...)
}

// BasePrice returns the unframed price for size.
func (e *Engine) BasePrice(p *product.Product, size string) decimal.Decimal {
	return Resolve(p, size, e.base...)
}

// UnitPrice returns the price of one print of the given size and fulfillment.
func (e *Engine) UnitPrice(p *product.Product, size string, f product.Fulfillment) decimal.Decimal {
	price := e.BasePrice(p, size)
	if f == product.FulfillmentFramed {
		price = price.Add(e.FrameAddon(p, size))
	}
	return price
}

// FromPrice returns the lowest flat price across the product's sizes. A
// product without sizes is priced at the empty size, which falls through the
// same chain as any missing size.
func (e *Engine) FromPrice(p *product.Product) decimal.Decimal {
	if len(p.Sizes) == 0 {
		return e.UnitPrice(p, "", product.FulfillmentFlat)
	}
	lowest := e.UnitPrice(p, p.Sizes[0], product.FulfillmentFlat)
	for _, size := range p.Sizes[1:] {
		lowest = decimal.Min(lowest, e.UnitPrice(p, size, product.FulfillmentFlat))
	}
	return lowest
}

// FromFloat converts a float to a price. NaN and infinities become zero so a
// non-finite value can never reach a displayed price.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
