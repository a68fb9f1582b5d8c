package product

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrInvalidFulfillment is returned when a fulfillment label is not one of
// the supported options.
var ErrInvalidFulfillment = errors.New("invalid fulfillment option")

// Fulfillment is the delivery/presentation choice for a print.
type Fulfillment string

const (
	// FulfillmentFlat ships the print flat, unframed. It is the default.
	FulfillmentFlat Fulfillment = "Print (Flat)"
	// FulfillmentFramed ships the print framed; it carries a size-dependent surcharge.
	FulfillmentFramed Fulfillment = "Framed Print"
)

// Fulfillments lists the supported options in display order.
var Fulfillments = []Fulfillment{FulfillmentFlat, FulfillmentFramed}

// ParseFulfillment maps a label or short alias to a Fulfillment. An empty
// string yields the default FulfillmentFlat.
func ParseFulfillment(s string) (Fulfillment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat", "print", strings.ToLower(string(FulfillmentFlat)):
		return FulfillmentFlat, nil
	case "framed", "frame", strings.ToLower(string(FulfillmentFramed)):
		return FulfillmentFramed, nil
	default:
		return "", errors.Wrapf(ErrInvalidFulfillment, "%q", s)
	}
}

// Product is an immutable catalog entry.
type Product struct {
	ID     string
	Title  string
	Series string
	Year   int

	// Sizes defines the valid size selections, in display order.
	Sizes       []string
	PriceBySize map[string]decimal.Decimal
	// Price is a flat fallback used when PriceBySize has no entry for a size.
	Price decimal.NullDecimal
	// FrameAddOnBySize overrides the shared default framing surcharge.
	FrameAddOnBySize map[string]decimal.Decimal

	InStock bool
	// CheckoutLinks maps size -> fulfillment -> external payment URL.
	CheckoutLinks map[string]map[Fulfillment]string
	// ImageSrcs is an ordered fallback chain of candidate image URLs.
	ImageSrcs []string

	Edition     string
	Description string
	Shipping    string
}

// HasSize reports whether size is one of the product's offered sizes.
func (p *Product) HasSize(size string) bool {
	return slices.Contains(p.Sizes, size)
}

// CheckoutLink returns the raw checkout link configured for a selection.
func (p *Product) CheckoutLink(size string, f Fulfillment) (string, bool) {
	bySize, ok := p.CheckoutLinks[size]
	if !ok {
		return "", false
	}
	link, ok := bySize[f]
	return link, ok
}

// Clone returns a deep copy of p.
func (p Product) Clone() Product {
	p.Sizes = slices.Clone(p.Sizes)
	p.PriceBySize = maps.Clone(p.PriceBySize)
	p.FrameAddOnBySize = maps.Clone(p.FrameAddOnBySize)
	p.ImageSrcs = slices.Clone(p.ImageSrcs)
	if p.CheckoutLinks != nil {
		links := make(map[string]map[Fulfillment]string, len(p.CheckoutLinks))
		for size, bySize := range p.CheckoutLinks {
			links[size] = maps.Clone(bySize)
		}
		p.CheckoutLinks = links
	}
	return p
}

// Source loads the full product list a Catalog is built from.
type Source interface {
	Load(ctx context.Context) ([]Product, error)
}
