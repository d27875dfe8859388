// Package expr defines the affine expression every circuit value carries.
package expr

import (
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/zkfoundry/plonk-compiler/utils"
)

// LinComb represents Coeff*witness[VID] + Constant.
//
// There is exactly one variable reference per combination; multi-term sums
// are reduced to this normal form by the builder at the moment they are
// created. A combination with Coeff == 0 is a constant, and its VID is a
// placeholder (always 0).
type LinComb struct {
	Coeff    constraint.Element
	VID      int
	Constant constraint.Element
}

// NewVariable returns coeff * v
func NewVariable(v int, coeff constraint.Element) LinComb {
	return LinComb{Coeff: coeff, VID: v}
}

// NewConstant returns c
func NewConstant(c constraint.Element) LinComb {
	return LinComb{Constant: c}
}

// IsConstant returns true if the combination references no variable.
func (l LinComb) IsConstant() bool {
	return l.Coeff.IsZero()
}

// HashCode returns a fast-to-compute but NOT collision resistant hash code
// identifier for the combination.
func (l LinComb) HashCode() uint64 {
	x := l.Coeff[0] ^ l.Coeff[1] ^ l.Coeff[2] ^ l.Coeff[3] ^ l.Coeff[4] ^ l.Coeff[5]
	x ^= l.Constant[0] ^ l.Constant[1] ^ l.Constant[2] ^ l.Constant[3] ^ l.Constant[4] ^ l.Constant[5]
	x ^= uint64(l.VID) * 998244353
	return x
}

// EqualI is the utils.Hashable equality; it allows combinations to key a
// utils.Map.
func (l LinComb) EqualI(o utils.Hashable) bool {
	return l == o.(LinComb)
}

// ToBigIntRegular implements the interface expected by utils.FromInterface.
// A combination referencing a variable has no big.Int value; catching the
// call here gives a better message than a reflection panic when a circuit
// variable leaks into a constant-only code path.
func (l LinComb) ToBigIntRegular(*big.Int) *big.Int {
	panic("conversion from expr.LinComb to big.Int triggered, check the type of the API call here")
}
