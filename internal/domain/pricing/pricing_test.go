package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func printProduct() *product.Product {
	return &product.Product{
		ID:    "p1",
		Sizes: []string{"8×10", "11×14", "16×20"},
		PriceBySize: map[string]decimal.Decimal{
			"8×10":  d("180"),
			"11×14": d("185"),
			"16×20": d("200"),
		},
	}
}

func TestEngine_UnitPrice(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name    string
		product *product.Product
		size    string
		f       product.Fulfillment
		want    decimal.Decimal
	}{
		{
			name:    "flat uses price by size",
			product: printProduct(),
			size:    "11×14",
			f:       product.FulfillmentFlat,
			want:    d("185"),
		},
		{
			name:    "framed adds shared default addon",
			product: printProduct(),
			size:    "8×10",
			f:       product.FulfillmentFramed,
			want:    d("260"),
		},
		{
			name: "framed prefers product addon",
			product: func() *product.Product {
				p := printProduct()
				p.FrameAddOnBySize = map[string]decimal.Decimal{"8×10": d("65")}
				return p
			}(),
			size: "8×10",
			f:    product.FulfillmentFramed,
			want: d("245"),
		},
		{
			name: "missing size falls back to flat price",
			product: func() *product.Product {
				p := printProduct()
				p.Price = decimal.NewNullDecimal(d("150"))
				return p
			}(),
			size: "24×30",
			f:    product.FulfillmentFlat,
			want: d("150"),
		},
		{
			name:    "missing size and no flat price is zero",
			product: printProduct(),
			size:    "24×30",
			f:       product.FulfillmentFlat,
			want:    decimal.Zero,
		},
		{
			name:    "framed unknown size has no addon",
			product: &product.Product{ID: "p2"},
			size:    "24×30",
			f:       product.FulfillmentFramed,
			want:    decimal.Zero,
		},
		{
			name: "negative base price is treated as missing",
			product: &product.Product{
				ID:          "p3",
				Sizes:       []string{"8×10"},
				PriceBySize: map[string]decimal.Decimal{"8×10": d("-5")},
				Price:       decimal.NewNullDecimal(d("90")),
			},
			size: "8×10",
			f:    product.FulfillmentFlat,
			want: d("90"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.UnitPrice(tt.product, tt.size, tt.f)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestEngine_FrameAddon(t *testing.T) {
	e := NewEngine()
	p := printProduct()

	assert.True(t, d("80").Equal(e.FrameAddon(p, "8×10")))
	assert.True(t, d("110").Equal(e.FrameAddon(p, "11×14")))
	assert.True(t, d("150").Equal(e.FrameAddon(p, "16×20")))
	assert.True(t, decimal.Zero.Equal(e.FrameAddon(p, "A3")))

	custom := NewEngine(WithFrameDefaults(map[string]decimal.Decimal{"8×10": d("40")}))
	assert.True(t, d("40").Equal(custom.FrameAddon(p, "8×10")))
	assert.True(t, decimal.Zero.Equal(custom.FrameAddon(p, "11×14")))
}

func TestEngine_FromPrice(t *testing.T) {
	e := NewEngine()

	t.Run("minimum flat price across sizes", func(t *testing.T) {
		p := printProduct()
		p.PriceBySize["11×14"] = d("175")
		assert.True(t, d("175").Equal(e.FromPrice(p)))
	})

	t.Run("no sizes uses flat fallback", func(t *testing.T) {
		p := &product.Product{ID: "p", Price: decimal.NewNullDecimal(d("99"))}
		assert.True(t, d("99").Equal(e.FromPrice(p)))
	})

	t.Run("no sizes and no data is zero", func(t *testing.T) {
		assert.True(t, decimal.Zero.Equal(e.FromPrice(&product.Product{ID: "p"})))
	})

	t.Run("size missing from price table counts as zero", func(t *testing.T) {
		p := printProduct()
		p.Sizes = append(p.Sizes, "24×30")
		assert.True(t, decimal.Zero.Equal(e.FromPrice(p)))
	})
}

func TestEngine_Properties(t *testing.T) {
	e := NewEngine()
	products := []*product.Product{
		printProduct(),
		{
			ID:               "custom",
			Sizes:            []string{"8×10", "A2"},
			PriceBySize:      map[string]decimal.Decimal{"8×10": d("120.50")},
			FrameAddOnBySize: map[string]decimal.Decimal{"A2": d("0")},
		},
	}

	for _, p := range products {
		var prices []decimal.Decimal
		for _, size := range p.Sizes {
			flat := e.UnitPrice(p, size, product.FulfillmentFlat)
			framed := e.UnitPrice(p, size, product.FulfillmentFramed)
			assert.True(t, flat.LessThanOrEqual(framed), "%s/%s: framing lowered price", p.ID, size)
			prices = append(prices, flat)
		}
		want := decimal.Min(prices[0], prices[1:]...)
		assert.True(t, want.Equal(e.FromPrice(p)), "%s: from price", p.ID)
	}
}

func TestResolve_Order(t *testing.T) {
	p := &product.Product{ID: "p"}
	var calls []string
	src := func(name string, v decimal.Decimal, ok bool) Source {
		return func(*product.Product, string) (decimal.Decimal, bool) {
			calls = append(calls, name)
			return v, ok
		}
	}

	got := Resolve(p, "8×10",
		src("a", decimal.Zero, false),
		src("b", d("7"), true),
		src("c", d("9"), true),
	)
	assert.True(t, d("7").Equal(got))
	assert.Equal(t, []string{"a", "b"}, calls)

	require.True(t, decimal.Zero.Equal(Resolve(p, "8×10")))
}

func TestFromFloat(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(FromFloat(math.NaN())))
	assert.True(t, decimal.Zero.Equal(FromFloat(math.Inf(1))))
	assert.True(t, decimal.Zero.Equal(FromFloat(math.Inf(-1))))
	assert.True(t, d("185.5").Equal(FromFloat(185.5)))
}

func TestBound(t *testing.T) {
	huge, err := decimal.NewFromString("1e900000000")
	require.NoError(t, err)
	tiny, err := decimal.NewFromString("1e-900000000")
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      decimal.Decimal
		want    decimal.Decimal
		wantErr bool
	}{
		{name: "zero", in: decimal.Zero, want: decimal.Zero},
		{name: "price", in: d("185.50"), want: d("185.50")},
		{name: "negative kept", in: decimal.NewFromInt(-20), want: decimal.NewFromInt(-20)},
		{name: "largest accepted", in: d("99999999999999"), want: d("99999999999999")},
		{name: "1e19", in: d("1e19"), wantErr: true},
		{name: "-1e19", in: d("-1e19"), wantErr: true},
		{name: "huge exponent", in: huge, wantErr: true},
		{name: "tiny exponent", in: tiny, want: decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bound(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
