package engine

import "github.com/shopspring/decimal"

// divisionScale is the number of fractional digits kept by division. Digits
// beyond it are truncated toward zero.
const divisionScale = 16

var minusOne = decimal.NewFromInt(-1)

// compute evaluates a op b. ok is false when an operand does not parse or the
// divisor is zero; the result is then "0".
func compute(op Operator, a, b string) (result string, ok bool) {
	x, err := decimal.NewFromString(a)
	if err != nil {
		return zero, false
	}
	y, err := decimal.NewFromString(b)
	if err != nil {
		return zero, false
	}

	var r decimal.Decimal
	switch op {
	case OpAdd:
		r = x.Add(y)
	case OpSubtract:
		r = x.Sub(y)
	case OpMultiply:
		r = x.Mul(y)
	case OpDivide:
		if y.IsZero() {
			return zero, false
		}
		r, _ = x.QuoRem(y, divisionScale)
	default:
		return zero, false
	}
	return plain(r), true
}

// percent divides by 100. Shifting the exponent keeps it exact.
func percent(d decimal.Decimal) decimal.Decimal {
	return d.Shift(-2)
}

func negate(d decimal.Decimal) decimal.Decimal {
	return d.Mul(minusOne)
}

// transform parses operand, applies f and renders the result.
func transform(operand string, f func(decimal.Decimal) decimal.Decimal) (string, bool) {
	d, err := decimal.NewFromString(operand)
	if err != nil {
		return zero, false
	}
	return plain(f(d)), true
}

// plain renders d without exponent and without trailing fractional zeros.
func plain(d decimal.Decimal) string {
	return d.String()
}
