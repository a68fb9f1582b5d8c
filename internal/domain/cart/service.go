package cart

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/xenking/ojo-prints/internal/domain/product"
)

var (
	// ErrUnknownOp is returned for an unsupported cart operation.
	ErrUnknownOp = errors.New("unknown cart operation")
	// ErrUnknownSize is returned when a product is not offered in the requested size.
	ErrUnknownSize = errors.New("size not offered for product")
	// ErrOutOfStock is returned when adding a product that cannot be purchased.
	ErrOutOfStock = errors.New("product out of stock")
)

// OpType names a cart mutation.
type OpType string

const (
	OpAdd    OpType = "add"
	OpRemove OpType = "remove"
	OpSetQty OpType = "setQty"
	OpClear  OpType = "clear"
)

// Op is a single mutation applied to a cart snapshot.
type Op struct {
	Type OpType
	Key
	// Qty is only read by OpSetQty.
	Qty int
}

// Catalog looks up products by id.
type Catalog interface {
	Get(id string) (*product.Product, error)
}

// Service applies cart operations against the catalog. It keeps no cart
// state: callers pass the current lines and receive the resulting ledger.
type Service struct {
	catalog Catalog
	prices  Pricer
	ops     metric.Int64Counter
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider sets the provider used for cart operation metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *serviceOptions) {
		o.meterProvider = mp
	}
}

// NewService creates a cart Service.
func NewService(catalog Catalog, prices Pricer, opts ...Option) (*Service, error) {
	o := serviceOptions{meterProvider: noop.NewMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter("github.com/xenking/ojo-prints/internal/domain/cart")
	ops, err := meter.Int64Counter("shop.cart.operations",
		metric.WithDescription("Cart operations applied, by type and outcome"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cart operations counter")
	}

	return &Service{
		catalog: catalog,
		prices:  prices,
		ops:     ops,
	}, nil
}

// Apply restores a ledger from lines and applies op to it. Only OpAdd consults
// the catalog; remove and set-quantity on unknown lines are no-ops.
func (s *Service) Apply(ctx context.Context, lines []Line, op Op) (*Ledger, error) {
	ledger := Restore(s.prices, lines)
	err := s.apply(ledger, op)

	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	s.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", string(op.Type)),
		attribute.String("outcome", outcome),
	))

	if err != nil {
		return nil, err
	}
	return ledger, nil
}

func (s *Service) apply(ledger *Ledger, op Op) error {
	switch op.Type {
	case OpAdd:
		p, err := s.catalog.Get(op.ProductID)
		if err != nil {
			return errors.Wrapf(err, "product %q", op.ProductID)
		}
		if !p.HasSize(op.Size) {
			return errors.Wrapf(ErrUnknownSize, "%q for product %q", op.Size, p.ID)
		}
		if !p.InStock {
			return errors.Wrapf(ErrOutOfStock, "product %q", p.ID)
		}
		ledger.Add(p, op.Size, op.Fulfillment)
	case OpRemove:
		ledger.Remove(op.Key)
	case OpSetQty:
		ledger.SetQty(op.Key, op.Qty)
	case OpClear:
		ledger.Clear()
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", op.Type)
	}
	return nil
}
