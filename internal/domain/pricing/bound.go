package pricing

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// MaxDigits bounds the integer digits of amounts read from untrusted input.
const MaxDigits = 15

// ErrOutOfRange reports an amount with more than MaxDigits integer digits.
var ErrOutOfRange = errors.New("amount out of range")

// Bound rejects v when its integer part is longer than about MaxDigits digits
// and maps values below 10^-MaxDigits to zero. It never rescales v, so it is
// cheap even for exponents like 1e900000000. A rejected v is still safe to
// call Sign on.
func Bound(v decimal.Decimal) (decimal.Decimal, error) {
	if v.Sign() == 0 {
		return decimal.Zero, nil
	}
	// Upper estimate of the coefficient's decimal digits: bits × log10(2) + 1.
	digits := int64(v.Coefficient().BitLen())*30103/100000 + 1
	magnitude := digits + int64(v.Exponent())
	switch {
	case magnitude > MaxDigits:
		return decimal.Zero, errors.Wrapf(ErrOutOfRange, "about %d digits", magnitude)
	case magnitude < -MaxDigits:
		return decimal.Zero, nil
	}
	return v, nil
}
