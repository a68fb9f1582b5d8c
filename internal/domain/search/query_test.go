package search

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
)

func newTestProduct(id, title, series string, year int, price int64, inStock bool) product.Product {
	return product.Product{
		ID:          id,
		Title:       title,
		Series:      series,
		Year:        year,
		Sizes:       []string{"8×10"},
		PriceBySize: map[string]decimal.Decimal{"8×10": decimal.NewFromInt(price)},
		InStock:     inStock,
	}
}

func newTestService(t *testing.T, products ...product.Product) *Service {
	t.Helper()
	c, err := product.NewCatalog(products)
	require.NoError(t, err)
	return NewService(c, pricing.NewEngine())
}

func ids(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func storefront(t *testing.T) *Service {
	return newTestService(t,
		newTestProduct("p1", "silencio en la sala", "Street", 2014, 180, true),
		newTestProduct("p2", "en la entrada", "Landscape", 2014, 180, true),
		newTestProduct("p3", "la calle mojada", "Street", 2019, 220, true),
		newTestProduct("p4", "calle de noche", "Street", 2021, 150, false),
		newTestProduct("p5", "mar abierto", "Landscape", 2017, 150, true),
	)
}

func TestQuery_Filters(t *testing.T) {
	s := storefront(t)

	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{name: "empty request returns catalog", req: Request{}, want: []string{"p1", "p2", "p3", "p4", "p5"}},
		{name: "series All", req: Request{Series: All}, want: []string{"p1", "p2", "p3", "p4", "p5"}},
		{name: "series exact", req: Request{Series: "Landscape"}, want: []string{"p2", "p5"}},
		{name: "series is case sensitive", req: Request{Series: "street"}, want: []string{}},
		{name: "in stock", req: Request{Availability: InStock}, want: []string{"p1", "p2", "p3", "p5"}},
		{name: "text matches title case insensitive", req: Request{Text: "CALLE"}, want: []string{"p3", "p4"}},
		{name: "text matches series", req: Request{Text: "landsc"}, want: []string{"p2", "p5"}},
		{name: "text matches year", req: Request{Text: "2019"}, want: []string{"p3"}},
		{name: "short text", req: Request{Text: "la"}, want: []string{"p1", "p2", "p3", "p5"}},
		{name: "text trims whitespace", req: Request{Text: "  mar "}, want: []string{"p5"}},
		{name: "no match", req: Request{Text: "zebra"}, want: []string{}},
		{
			name: "all predicates combined",
			req:  Request{Text: "calle", Series: "Street", Availability: InStock},
			want: []string{"p3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(context.Background(), tt.req)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_Sort(t *testing.T) {
	s := storefront(t)

	tests := []struct {
		sort Sort
		want []string
	}{
		{sort: SortFeatured, want: []string{"p1", "p2", "p3", "p4", "p5"}},
		{sort: SortNewest, want: []string{"p4", "p3", "p5", "p1", "p2"}},
		{sort: SortPriceLow, want: []string{"p4", "p5", "p1", "p2", "p3"}},
		{sort: SortPriceHigh, want: []string{"p3", "p1", "p2", "p4", "p5"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got, err := s.Query(context.Background(), Request{Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestQuery_DoesNotReorderCatalog(t *testing.T) {
	s := storefront(t)

	_, err := s.Query(context.Background(), Request{Sort: SortPriceHigh})
	require.NoError(t, err)

	got, err := s.Query(context.Background(), Request{Sort: SortFeatured})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(got))
}

func TestQuery_InvalidRequest(t *testing.T) {
	s := storefront(t)

	_, err := s.Query(context.Background(), Request{Sort: "Random"})
	require.ErrorIs(t, err, ErrInvalidQuery)

	_, err = s.Query(context.Background(), Request{Availability: "Sold out"})
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestQuery_EmptyCatalog(t *testing.T) {
	s := newTestService(t)

	got, err := s.Query(context.Background(), Request{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseSort(t *testing.T) {
	got, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, got)

	got, err = ParseSort("price: low")
	require.NoError(t, err)
	assert.Equal(t, SortPriceLow, got)

	_, err = ParseSort("oldest")
	require.ErrorIs(t, err, ErrInvalidQuery)
}

func TestFacets(t *testing.T) {
	s := storefront(t)

	f := s.Facets()
	assert.Equal(t, []string{All, "Street", "Landscape"}, f.Series)
	assert.Equal(t, 4, f.InStock)
	assert.Equal(t, 1, f.OutOfStock)
	assert.True(t, decimal.NewFromInt(150).Equal(f.MinPrice))
	assert.True(t, decimal.NewFromInt(220).Equal(f.MaxPrice))
	assert.Equal(t, Sorts, f.Sorts)
}

func TestFacets_EmptyCatalog(t *testing.T) {
	f := newTestService(t).Facets()
	assert.Equal(t, []string{All}, f.Series)
	assert.True(t, f.MinPrice.IsZero())
	assert.True(t, f.MaxPrice.IsZero())
}
