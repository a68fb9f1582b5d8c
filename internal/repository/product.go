package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

const (
	productColumns = `id, title, series, year, sizes, price_by_size, price, frame_addon_by_size,
		in_stock, checkout_links, image_srcs, edition, description, shipping`

	listProductsSQL = `SELECT ` + productColumns + `
		FROM products ORDER BY position, id`

	upsertProductSQL = `INSERT INTO products (position, ` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			title = EXCLUDED.title,
			series = EXCLUDED.series,
			year = EXCLUDED.year,
			sizes = EXCLUDED.sizes,
			price_by_size = EXCLUDED.price_by_size,
			price = EXCLUDED.price,
			frame_addon_by_size = EXCLUDED.frame_addon_by_size,
			in_stock = EXCLUDED.in_stock,
			checkout_links = EXCLUDED.checkout_links,
			image_srcs = EXCLUDED.image_srcs,
			edition = EXCLUDED.edition,
			description = EXCLUDED.description,
			shipping = EXCLUDED.shipping`
)

var _ product.Source = (*ProductRepository)(nil)

// ProductRepository stores the catalog in PostgreSQL. The API server reads it
// once at startup; seed-db writes it.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Load returns all products in catalog order.
func (r *ProductRepository) Load(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("scanning products: %w", err)
	}
	return products, nil
}

// Upsert inserts or replaces a product. position determines catalog order.
func (r *ProductRepository) Upsert(ctx context.Context, position int, p product.Product) error {
	_, err := r.pool.Exec(ctx, upsertProductSQL,
		position,
		p.ID, p.Title, p.Series, p.Year,
		nonNil(p.Sizes),
		nonNilMap(p.PriceBySize),
		p.Price,
		nonNilMap(p.FrameAddOnBySize),
		p.InStock,
		nonNilMap(p.CheckoutLinks),
		nonNil(p.ImageSrcs),
		p.Edition, p.Description, p.Shipping,
	)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Series, &p.Year, &p.Sizes,
		&p.PriceBySize, &price, &p.FrameAddOnBySize,
		&p.InStock, &p.CheckoutLinks, &p.ImageSrcs,
		&p.Edition, &p.Description, &p.Shipping,
	)
	p.Price = price
	return p, err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nonNilMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
