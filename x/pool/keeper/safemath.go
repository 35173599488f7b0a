package keeper

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// maxIntBits bounds every intermediate product. Deposits are capped far below this.
const maxIntBits = 256

var maxInt = new(big.Int).Lsh(big.NewInt(1), maxIntBits)

// SafeSub subtracts two math.Int values with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, fmt.Errorf("underflow: cannot subtract %s from %s", b, a)
	}
	return a.Sub(b), nil
}

// SafeMulDiv computes floor(a * b / c) with overflow protection
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, fmt.Errorf("division by zero")
	}

	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if intermediate.CmpAbs(maxInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow in multiplication step")
	}

	return math.NewIntFromBigInt(intermediate.Quo(intermediate, c.BigInt())), nil
}

// SqrtProduct returns floor(sqrt(a * b)).
func SqrtProduct(a, b math.Int) (math.Int, error) {
	if a.IsNegative() || b.IsNegative() {
		return math.Int{}, fmt.Errorf("sqrt of negative product %s * %s", a, b)
	}
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if product.Cmp(maxInt) >= 0 {
		return math.Int{}, fmt.Errorf("overflow: product exceeds maximum value")
	}
	return math.NewIntFromBigInt(product.Sqrt(product)), nil
}

// exceedsBps reports whether value > base * bps / FeeDenominator, without rounding base down.
func exceedsBps(value, base math.Int, bps uint32, denominator int64) bool {
	return value.MulRaw(denominator).GT(base.MulRaw(int64(bps)))
}
