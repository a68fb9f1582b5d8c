// Package catalogfile reads product catalogs from JSON documents.
//
// A document is either an array of products or an object with a "products"
// array. Numeric fields are lenient: values that do not parse as finite
// numbers, or are too large to be a price or year, decode as zero.
package catalogfile

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
)

// Decode parses a catalog document.
func Decode(data []byte) ([]product.Product, error) {
	d := jx.DecodeBytes(data)

	var (
		products []product.Product
		err      error
	)
	switch tt := d.Next(); tt {
	case jx.Array:
		products, err = decodeProducts(d)
	case jx.Object:
		err = d.Obj(func(d *jx.Decoder, key string) error {
			if key != "products" {
				return d.Skip()
			}
			var err error
			products, err = decodeProducts(d)
			return err
		})
	default:
		return nil, errors.Errorf("catalog: unexpected %s at top level", tt)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

func decodeProducts(d *jx.Decoder) ([]product.Product, error) {
	products := []product.Product{}
	err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return errors.Wrapf(err, "product #%d", len(products))
		}
		products = append(products, p)
		return nil
	})
	return products, err
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var (
		p                  product.Product
		image              string
		driveID, driveRKey string
	)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = decodeString(d)
		case "title":
			p.Title, err = decodeString(d)
		case "series":
			p.Series, err = decodeString(d)
		case "year":
			var year decimal.Decimal
			year, _, err = decodeNumber(d)
			p.Year = int(year.IntPart())
		case "sizes":
			p.Sizes, err = decodeStrings(d)
		case "priceBySize":
			p.PriceBySize, err = decodePriceTable(d)
		case "price":
			var (
				price decimal.Decimal
				ok    bool
			)
			price, ok, err = decodeNumber(d)
			p.Price = decimal.NullDecimal{Decimal: price, Valid: ok}
		case "frameAddOnBySize":
			p.FrameAddOnBySize, err = decodePriceTable(d)
		case "inStock":
			p.InStock, err = decodeBool(d)
		case "checkoutLinks":
			p.CheckoutLinks, err = decodeCheckoutLinks(d)
		case "imageSrcs":
			p.ImageSrcs, err = decodeStrings(d)
		case "image":
			image, err = decodeString(d)
		case "driveFileId":
			driveID, err = decodeString(d)
		case "driveResourceKey":
			driveRKey, err = decodeString(d)
		case "edition":
			p.Edition, err = decodeString(d)
		case "description":
			p.Description, err = decodeString(d)
		case "shipping":
			p.Shipping, err = decodeString(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	if err != nil {
		return product.Product{}, err
	}

	if len(p.ImageSrcs) == 0 {
		switch {
		case driveID != "":
			p.ImageSrcs = product.DriveImageURLs(driveID, driveRKey)
		case image != "":
			p.ImageSrcs = []string{image}
		}
	}
	return p, nil
}

func decodeString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func decodeBool(d *jx.Decoder) (bool, error) {
	if d.Next() != jx.Bool {
		return false, d.Skip()
	}
	return d.Bool()
}

func decodeStrings(d *jx.Decoder) ([]string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	out := []string{}
	err := d.Arr(func(d *jx.Decoder) error {
		s, err := decodeString(d)
		if err != nil {
			return err
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

// decodeNumber reads a price-like value. ok is false only for null. Numbers
// and numeric strings that fail to parse become zero.
func decodeNumber(d *jx.Decoder) (v decimal.Decimal, ok bool, err error) {
	switch d.Next() {
	case jx.Null:
		return decimal.Zero, false, d.Null()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, false, err
		}
		return parseDecimal(n.String()), true, nil
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, false, err
		}
		return parseDecimal(s), true, nil
	default:
		return decimal.Zero, true, d.Skip()
	}
}

func parseDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if v, err = pricing.Bound(v); err != nil {
		return decimal.Zero
	}
	return v
}

// decodePriceTable reads a size -> price object. Null entries are left out so
// lookups fall through to the next price source.
func decodePriceTable(d *jx.Decoder) (map[string]decimal.Decimal, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	table := map[string]decimal.Decimal{}
	err := d.Obj(func(d *jx.Decoder, size string) error {
		v, ok, err := decodeNumber(d)
		if err != nil {
			return errors.Wrapf(err, "size %q", size)
		}
		if ok {
			table[size] = v
		}
		return nil
	})
	return table, err
}

func decodeCheckoutLinks(d *jx.Decoder) (map[string]map[product.Fulfillment]string, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	links := map[string]map[product.Fulfillment]string{}
	err := d.Obj(func(d *jx.Decoder, size string) error {
		bySize := map[product.Fulfillment]string{}
		err := d.Obj(func(d *jx.Decoder, label string) error {
			f, err := product.ParseFulfillment(label)
			if err != nil {
				return err
			}
			link, err := decodeString(d)
			if err != nil {
				return err
			}
			if link != "" {
				bySize[f] = link
			}
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "size %q", size)
		}
		links[size] = bySize
		return nil
	})
	return links, err
}
