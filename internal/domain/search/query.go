// Package search filters and sorts the product catalog for storefront
// listings.
package search

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
)

// ErrInvalidQuery is returned for unknown sort or availability values.
var ErrInvalidQuery = errors.New("invalid query")

// All is the sentinel that disables the series and availability filters.
const All = "All"

// InStock is the availability filter that keeps purchasable products only.
const InStock = "In stock"

// Sort orders a result set.
type Sort string

const (
	// SortFeatured keeps catalog order.
	SortFeatured Sort = "Featured"
	// SortNewest orders by year, newest first.
	SortNewest Sort = "Newest"
	// SortPriceLow orders by from price, cheapest first.
	SortPriceLow Sort = "Price: Low"
	// SortPriceHigh orders by from price, most expensive first.
	SortPriceHigh Sort = "Price: High"
)

// Sorts lists the supported sort modes in display order.
var Sorts = []Sort{SortFeatured, SortNewest, SortPriceLow, SortPriceHigh}

// Availabilities lists the supported availability filters.
var Availabilities = []string{All, InStock}

// ParseSort maps a label to a Sort. Empty means SortFeatured.
func ParseSort(s string) (Sort, error) {
	if s == "" {
		return SortFeatured, nil
	}
	for _, v := range Sorts {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidQuery, "unknown sort %q", s)
}

// Request describes a listing query.
type Request struct {
	Text         string
	Series       string
	Availability string
	Sort         Sort
}

// Service answers listing queries over an immutable catalog.
type Service struct {
	catalog []product.Product
	index   []entry
	from    []decimal.Decimal
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider enables tracing of queries.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer("github.com/xenking/ojo-prints/internal/domain/search")
	}
}

// NewService indexes the catalog. The catalog never changes after
// construction, so from prices and search entries are computed once.
func NewService(catalog *product.Catalog, prices *pricing.Engine, opts ...Option) *Service {
	s := &Service{
		catalog: catalog.List(),
		tracer:  noop.NewTracerProvider().Tracer(""),
	}
	s.index = make([]entry, len(s.catalog))
	s.from = make([]decimal.Decimal, len(s.catalog))
	for i := range s.catalog {
		s.index[i] = newEntry(&s.catalog[i])
		s.from[i] = prices.FromPrice(&s.catalog[i])
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query filters the catalog by text, series and availability, then sorts the
// matches. The result is never nil; an empty slice means nothing matched.
func (s *Service) Query(ctx context.Context, req Request) ([]product.Product, error) {
	_, span := s.tracer.Start(ctx, "search.Query", trace.WithAttributes(
		attribute.String("search.series", req.Series),
		attribute.String("search.availability", req.Availability),
		attribute.String("search.sort", string(req.Sort)),
	))
	defer span.End()

	sort := req.Sort
	if sort == "" {
		sort = SortFeatured
	}
	if !slices.Contains(Sorts, sort) {
		return nil, errors.Wrapf(ErrInvalidQuery, "unknown sort %q", sort)
	}

	inStockOnly := false
	switch req.Availability {
	case "", All:
	case InStock:
		inStockOnly = true
	default:
		return nil, errors.Wrapf(ErrInvalidQuery, "unknown availability %q", req.Availability)
	}

	needle := strings.ToLower(strings.TrimSpace(req.Text))
	series := req.Series
	if series == "" {
		series = All
	}

	hits := make([]int, 0, len(s.catalog))
	for i := range s.catalog {
		p := &s.catalog[i]
		if series != All && p.Series != series {
			continue
		}
		if inStockOnly && !p.InStock {
			continue
		}
		if !s.index[i].match(needle) {
			continue
		}
		hits = append(hits, i)
	}

	s.sort(hits, sort)

	out := make([]product.Product, len(hits))
	for i, pos := range hits {
		out[i] = s.catalog[pos]
	}
	span.SetAttributes(attribute.Int("search.results", len(out)))
	return out, nil
}

// sort orders catalog positions in place. Ties keep catalog order.
func (s *Service) sort(hits []int, mode Sort) {
	switch mode {
	case SortNewest:
		slices.SortStableFunc(hits, func(a, b int) int {
			return cmp.Compare(s.catalog[b].Year, s.catalog[a].Year)
		})
	case SortPriceLow:
		slices.SortStableFunc(hits, func(a, b int) int {
			return s.from[a].Cmp(s.from[b])
		})
	case SortPriceHigh:
		slices.SortStableFunc(hits, func(a, b int) int {
			return s.from[b].Cmp(s.from[a])
		})
	}
}
