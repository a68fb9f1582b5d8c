package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

// Source is one step of a price fallback chain. It reports false when it has
// no defined value for the product and size.
type Source func(p *product.Product, size string) (decimal.Decimal, bool)

// Resolve evaluates sources in order and returns the first defined value, or
// zero when none is defined.
func Resolve(p *product.Product, size string, sources ...Source) decimal.Decimal {
	for _, src := range sources {
		if v, ok := src(p, size); ok {
			return v
		}
	}
	return decimal.Zero
}

// PriceBySize reads the product's per-size base price.
func PriceBySize(p *product.Product, size string) (decimal.Decimal, bool) {
	return defined(p.PriceBySize, size)
}

// FlatPrice reads the product's single fallback price.
func FlatPrice(p *product.Product, _ string) (decimal.Decimal, bool) {
	if !p.Price.Valid || p.Price.Decimal.IsNegative() {
		return decimal.Zero, false
	}
	return p.Price.Decimal, true
}

// ProductFrameAddOn reads the product's own framing surcharge for a size.
func ProductFrameAddOn(p *product.Product, size string) (decimal.Decimal, bool) {
	return defined(p.FrameAddOnBySize, size)
}

// Table returns a Source backed by a shared size-keyed table.
func Table(table map[string]decimal.Decimal) Source {
	return func(_ *product.Product, size string) (decimal.Decimal, bool) {
		return defined(table, size)
	}
}

// defined treats absent and negative entries as undefined.
func defined(m map[string]decimal.Decimal, size string) (decimal.Decimal, bool) {
	v, ok := m[size]
	if !ok || v.IsNegative() {
		return decimal.Zero, false
	}
	return v, true
}
