package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/ojo-prints/db"
	"github.com/xenking/ojo-prints/internal/catalogfile"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/repository"
)

const upsertWorkers = 4

func main() {
	var (
		databaseURL string
		catalogPath string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogPath, "catalog-file", "", "catalog JSON file, optionally gzip compressed (embedded catalog when empty)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogPath); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogPath string) error {
	var source product.Source = catalogfile.Bytes(db.Catalog)
	if catalogPath != "" {
		slog.Info("reading catalog file", slog.String("path", catalogPath))
		source = catalogfile.File(catalogPath)
	}

	products, err := source.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	// Duplicate ids would make the upserts race on one row.
	if _, err := product.NewCatalog(products); err != nil {
		return errors.Wrap(err, "validate catalog")
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return seedProducts(ctx, repository.NewProductRepository(pool), products)
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, products []product.Product) error {
	slog.Info("upserting products", slog.Int("count", len(products)))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(upsertWorkers)

	for i, p := range products {
		g.Go(func() error {
			if err := repo.Upsert(gCtx, i, p); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
			slog.Info("upserted product", slog.String("id", p.ID), slog.String("title", p.Title))
			return nil
		})
	}

	return g.Wait()
}
