package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
)

// cartRequest is the body of POST /cart and POST /cart/checkout.
type cartRequest struct {
	Lines []cart.Line
	Op    cart.Op
	HasOp bool
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, malformed(errors.Wrap(err, "read body"))
	}
	return data, nil
}

func decodeCartRequest(data []byte) (cartRequest, error) {
	var req cartRequest
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "lines":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				line, err := decodeLine(d)
				if err != nil {
					return errors.Wrapf(err, "line #%d", len(req.Lines))
				}
				req.Lines = append(req.Lines, line)
				return nil
			})
		case "op":
			req.HasOp = true
			return decodeOp(d, &req.Op)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		if errors.Is(err, product.ErrInvalidFulfillment) {
			return cartRequest{}, err
		}
		return cartRequest{}, malformed(err)
	}
	return req, nil
}

// decodeKeyField reads one of the line key fields into k. It reports false
// for keys that are not part of a line key.
func decodeKeyField(d *jx.Decoder, key string, k *cart.Key) (bool, error) {
	var err error
	switch key {
	case "productId":
		k.ProductID, err = d.Str()
	case "size":
		k.Size, err = d.Str()
	case "fulfillment":
		var s string
		if s, err = d.Str(); err == nil {
			k.Fulfillment, err = product.ParseFulfillment(s)
		}
	default:
		return false, nil
	}
	return true, err
}

func decodeLine(d *jx.Decoder) (cart.Line, error) {
	line := cart.Line{Key: cart.Key{Fulfillment: product.FulfillmentFlat}}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if ok, err := decodeKeyField(d, key, &line.Key); ok {
			return err
		}
		var err error
		switch key {
		case "title":
			line.Title, err = d.Str()
		case "qty":
			line.Qty, err = decodeQty(d)
		case "price":
			line.Price, err = decodeMoney(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return line, err
}

func decodeOp(d *jx.Decoder, op *cart.Op) error {
	op.Fulfillment = product.FulfillmentFlat
	return d.Obj(func(d *jx.Decoder, key string) error {
		if ok, err := decodeKeyField(d, key, &op.Key); ok {
			return err
		}
		var err error
		switch key {
		case "type":
			var s string
			s, err = d.Str()
			op.Type = cart.OpType(s)
		case "qty":
			op.Qty, err = decodeQty(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "op field %q", key)
		}
		return nil
	})
}

// decodeQty reads a quantity clamped into [cart.MinQty, cart.MaxQty].
// Fractions are truncated; values too large to represent clamp to the bound
// matching their sign.
func decodeQty(d *jx.Decoder) (int, error) {
	n, err := d.Num()
	if err != nil {
		return 0, err
	}
	v, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", n.String())
	}
	b, err := pricing.Bound(v)
	if err != nil {
		if v.Sign() < 0 {
			return cart.MinQty, nil
		}
		return cart.MaxQty, nil
	}
	return cart.ClampQty(int(b.IntPart())), nil
}

// decodeMoney reads a number or numeric string. Values that do not parse as a
// finite number, and negative values, become zero. Values too large to be a
// price are rejected.
func decodeMoney(d *jx.Decoder) (decimal.Decimal, error) {
	var s string
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		s = n.String()
	case jx.String:
		var err error
		if s, err = d.Str(); err != nil {
			return decimal.Zero, err
		}
	default:
		return decimal.Zero, d.Skip()
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, nil
	}
	v, err = pricing.Bound(v)
	if err != nil {
		return decimal.Zero, err
	}
	if v.IsNegative() {
		return decimal.Zero, nil
	}
	return v, nil
}
