// Package checkout maps a cart selection to an external payment link.
package checkout

import (
	"strings"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

// Source reports where a resolved link came from.
type Source string

const (
	SourceProduct  Source = "product"
	SourceFallback Source = "fallback"
)

// Link is a resolved checkout destination.
type Link struct {
	URL    string
	Source Source
}

// Fallback reports whether the link is the shared fallback rather than a
// per-selection link.
func (l Link) Fallback() bool {
	return l.Source == SourceFallback
}

type strategy func(p *product.Product, size string, f product.Fulfillment) (Link, bool)

// Resolver resolves checkout links. It never performs network requests.
type Resolver struct {
	chain []strategy
}

// NewResolver creates a Resolver. fallback is used for selections without a
// product link; it is ignored unless it looks like an http(s) URL.
func NewResolver(fallback string) *Resolver {
	chain := []strategy{productLink}
	if isLink(fallback) {
		chain = append(chain, func(*product.Product, string, product.Fulfillment) (Link, bool) {
			return Link{URL: fallback, Source: SourceFallback}, true
		})
	}
	return &Resolver{chain: chain}
}

func isLink(s string) bool {
	return strings.HasPrefix(s, "http")
}

func productLink(p *product.Product, size string, f product.Fulfillment) (Link, bool) {
	link, ok := p.CheckoutLink(size, f)
	if !ok || !isLink(link) {
		return Link{}, false
	}
	return Link{URL: link, Source: SourceProduct}, true
}

// Resolve returns the checkout link for a selection, or false when neither
// the product nor the fallback provides one.
func (r *Resolver) Resolve(p *product.Product, size string, f product.Fulfillment) (Link, bool) {
	for _, s := range r.chain {
		if link, ok := s(p, size, f); ok {
			return link, true
		}
	}
	return Link{}, false
}
