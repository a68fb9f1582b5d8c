package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/checkout"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/domain/search"
)

// GetBrand returns storefront identity and contact details.
func (h *Handler) GetBrand(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeBrand(e, h.brand)
	})
}

// ListProducts filters and sorts the catalog.
// Query parameters: q, series, availability, sort.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sort, err := search.ParseSort(q.Get("sort"))
	if err != nil {
		fail(w, r, err)
		return
	}

	products, err := h.search.Query(r.Context(), search.Request{
		Text:         q.Get("q"),
		Series:       q.Get("series"),
		Availability: q.Get("availability"),
		Sort:         sort,
	})
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProducts(e, products)
	})
}

// GetFacets returns the filter and sort options for the catalog.
func (h *Handler) GetFacets(w http.ResponseWriter, _ *http.Request) {
	facets := h.search.Facets()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeFacets(e, facets)
	})
}

// GetProduct returns a product with its price matrix.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, p)
	})
}

// selection resolves the product in the path and the size and fulfillment
// query parameters. An empty size selects the product's first size.
func (h *Handler) selection(r *http.Request) (*product.Product, string, product.Fulfillment, error) {
	p, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		return nil, "", "", err
	}
	f, err := product.ParseFulfillment(r.URL.Query().Get("fulfillment"))
	if err != nil {
		return nil, "", "", err
	}
	size := r.URL.Query().Get("size")
	if size == "" && len(p.Sizes) > 0 {
		size = p.Sizes[0]
	}
	if len(p.Sizes) > 0 && !p.HasSize(size) {
		return nil, "", "", errors.Wrapf(cart.ErrUnknownSize, "%q for product %q", size, p.ID)
	}
	return p, size, f, nil
}

// GetPrice returns the unit price of a selection.
func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	p, size, f, err := h.selection(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		encodeKeyFields(e, cart.Key{ProductID: p.ID, Size: size, Fulfillment: f})
		e.FieldStart("basePrice")
		money(e, h.prices.BasePrice(p, size))
		e.FieldStart("frameAddOn")
		money(e, h.prices.FrameAddon(p, size))
		e.FieldStart("price")
		money(e, h.prices.UnitPrice(p, size, f))
		e.ObjEnd()
	})
}

// GetCheckout resolves the payment link for a selection.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	p, size, f, err := h.selection(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	link, ok := h.resolve(r, p, size, f)
	if !ok {
		fail(w, r, errLinkMissing)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		encodeLinkFields(e, link)
		e.ObjEnd()
	})
}

func (h *Handler) resolve(r *http.Request, p *product.Product, size string, f product.Fulfillment) (checkout.Link, bool) {
	link, ok := h.checkout.Resolve(p, size, f)
	h.recordResolution(r, link, ok)
	return link, ok
}

func (h *Handler) recordResolution(r *http.Request, link checkout.Link, ok bool) {
	source := "missing"
	if ok {
		source = string(link.Source)
	}
	h.resolutions.Add(r.Context(), 1, metric.WithAttributes(attribute.String("source", source)))
}
