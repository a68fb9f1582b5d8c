package checkout

import (
	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/product"
)

// Catalog looks up products by id.
type Catalog interface {
	Get(id string) (*product.Product, error)
}

// LineLink is the resolution of a single cart line.
type LineLink struct {
	Line cart.Line
	Link Link
	// Found is false when the line's product is unknown or has no link.
	Found bool
}

// CartLinks is the resolution of a whole cart.
type CartLinks struct {
	Lines []LineLink
	// Missing holds the keys of lines without a checkout link.
	Missing []cart.Key
}

// ResolveCart resolves every line of a cart in order. Lines referring to
// products missing from the catalog are reported as missing.
func (r *Resolver) ResolveCart(catalog Catalog, lines []cart.Line) CartLinks {
	res := CartLinks{
		Lines:   make([]LineLink, 0, len(lines)),
		Missing: []cart.Key{},
	}
	for _, line := range lines {
		ll := LineLink{Line: line}
		if p, err := catalog.Get(line.ProductID); err == nil {
			ll.Link, ll.Found = r.Resolve(p, line.Size, line.Fulfillment)
		}
		if !ll.Found {
			res.Missing = append(res.Missing, line.Key)
		}
		res.Lines = append(res.Lines, ll)
	}
	return res
}
