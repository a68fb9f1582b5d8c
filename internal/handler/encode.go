package handler

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/checkout"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/domain/search"
)

// money writes a price as a JSON number.
func money(e *jx.Encoder, v decimal.Decimal) {
	e.Raw([]byte(v.String()))
}

func strs(e *jx.Encoder, vs []string) {
	e.ArrStart()
	for _, v := range vs {
		e.Str(v)
	}
	e.ArrEnd()
}

func (h *Handler) images(p *product.Product) []string {
	out := make([]string, len(p.ImageSrcs))
	for i, src := range p.ImageSrcs {
		out[i] = product.ResolveImageURL(h.imageBaseURL, src)
	}
	return out
}

// productFields writes the fields shared by list items and details, without
// the enclosing object.
func (h *Handler) productFields(e *jx.Encoder, p *product.Product) {
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("series")
	e.Str(p.Series)
	e.FieldStart("year")
	e.Int(p.Year)
	e.FieldStart("edition")
	e.Str(p.Edition)
	e.FieldStart("inStock")
	e.Bool(p.InStock)
	e.FieldStart("sizes")
	strs(e, p.Sizes)
	e.FieldStart("fromPrice")
	money(e, h.prices.FromPrice(p))
	e.FieldStart("imageSrcs")
	strs(e, h.images(p))
}

func (h *Handler) encodeProducts(e *jx.Encoder, products []product.Product) {
	e.ObjStart()
	e.FieldStart("count")
	e.Int(len(products))
	e.FieldStart("products")
	e.ArrStart()
	for i := range products {
		e.ObjStart()
		h.productFields(e, &products[i])
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
}

// encodeProduct writes a product with its description and the full price
// matrix over sizes and fulfillments.
func (h *Handler) encodeProduct(e *jx.Encoder, p *product.Product) {
	e.ObjStart()
	h.productFields(e, p)
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("shipping")
	e.Str(p.Shipping)

	e.FieldStart("fulfillments")
	e.ArrStart()
	for _, f := range product.Fulfillments {
		e.Str(string(f))
	}
	e.ArrEnd()

	e.FieldStart("options")
	e.ArrStart()
	for _, size := range p.Sizes {
		for _, f := range product.Fulfillments {
			_, linked := h.checkout.Resolve(p, size, f)

			e.ObjStart()
			e.FieldStart("size")
			e.Str(size)
			e.FieldStart("fulfillment")
			e.Str(string(f))
			e.FieldStart("price")
			money(e, h.prices.UnitPrice(p, size, f))
			e.FieldStart("frameAddOn")
			money(e, h.prices.FrameAddon(p, size))
			e.FieldStart("checkoutAvailable")
			e.Bool(linked)
			e.ObjEnd()
		}
	}
	e.ArrEnd()
	e.ObjEnd()
}

func encodeFacets(e *jx.Encoder, f search.Facets) {
	e.ObjStart()
	e.FieldStart("series")
	strs(e, f.Series)
	e.FieldStart("availability")
	strs(e, f.Availabilities)
	e.FieldStart("sorts")
	e.ArrStart()
	for _, s := range f.Sorts {
		e.Str(string(s))
	}
	e.ArrEnd()
	e.FieldStart("inStock")
	e.Int(f.InStock)
	e.FieldStart("outOfStock")
	e.Int(f.OutOfStock)
	e.FieldStart("minPrice")
	money(e, f.MinPrice)
	e.FieldStart("maxPrice")
	money(e, f.MaxPrice)
	e.ObjEnd()
}

func encodeKeyFields(e *jx.Encoder, k cart.Key) {
	e.FieldStart("productId")
	e.Str(k.ProductID)
	e.FieldStart("size")
	e.Str(k.Size)
	e.FieldStart("fulfillment")
	e.Str(string(k.Fulfillment))
}

func encodeLine(e *jx.Encoder, l cart.Line) {
	e.ObjStart()
	encodeKeyFields(e, l.Key)
	e.FieldStart("title")
	e.Str(l.Title)
	e.FieldStart("qty")
	e.Int(l.Qty)
	e.FieldStart("price")
	money(e, l.Price)
	e.FieldStart("lineTotal")
	money(e, l.Total())
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, l *cart.Ledger) {
	e.ObjStart()
	e.FieldStart("lines")
	e.ArrStart()
	for _, line := range l.Lines() {
		encodeLine(e, line)
	}
	e.ArrEnd()
	e.FieldStart("count")
	e.Int(l.Count())
	e.FieldStart("subtotal")
	money(e, l.Subtotal())
	e.ObjEnd()
}

func encodeLinkFields(e *jx.Encoder, link checkout.Link) {
	e.FieldStart("url")
	e.Str(link.URL)
	e.FieldStart("fallback")
	e.Bool(link.Fallback())
}

func encodeCartLinks(e *jx.Encoder, res checkout.CartLinks, subtotal decimal.Decimal) {
	e.ObjStart()
	e.FieldStart("lines")
	e.ArrStart()
	for _, ll := range res.Lines {
		e.ObjStart()
		encodeKeyFields(e, ll.Line.Key)
		e.FieldStart("qty")
		e.Int(ll.Line.Qty)
		if ll.Found {
			encodeLinkFields(e, ll.Link)
		} else {
			e.FieldStart("url")
			e.Null()
			e.FieldStart("fallback")
			e.Bool(false)
		}
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("missing")
	e.ArrStart()
	for _, k := range res.Missing {
		e.ObjStart()
		encodeKeyFields(e, k)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("complete")
	e.Bool(len(res.Missing) == 0)
	e.FieldStart("subtotal")
	money(e, subtotal)
	e.ObjEnd()
}

func encodeBrand(e *jx.Encoder, b Brand) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(b.Name)
	e.FieldStart("tagline")
	e.Str(b.Tagline)
	e.FieldStart("location")
	e.Str(b.Location)
	e.FieldStart("email")
	e.Str(b.Email)
	e.FieldStart("heroNote")
	e.Str(b.HeroNote)
	e.FieldStart("logoSrcs")
	strs(e, b.LogoSrcs)
	e.ObjEnd()
}
