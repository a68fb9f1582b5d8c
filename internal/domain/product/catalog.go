package product

import (
	"slices"

	"github.com/go-faster/errors"
)

// ErrInvalidCatalog is returned when a product list cannot form a catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is the read-only set of purchasable products. It is built once and
// never mutated afterwards, so it is safe for concurrent use.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// NewCatalog builds a Catalog from products, preserving their order. The
// products are deep-copied. Empty and duplicate IDs are rejected.
func NewCatalog(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		if p.ID == "" {
			return nil, errors.Wrapf(ErrInvalidCatalog, "product at index %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidCatalog, "duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p.Clone())
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// List returns the products in catalog order. The returned slice is a copy;
// the maps inside each product are shared and must be treated as read-only.
func (c *Catalog) List() []Product {
	return slices.Clone(c.products)
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := c.products[i]
	return &p, nil
}
