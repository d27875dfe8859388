// Package field abstracts the coefficient field of a constraint system and
// provides conversion of canonical values between fields of equal serialized
// width.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/zkfoundry/plonk-compiler/field/bls12381"
	"github.com/zkfoundry/plonk-compiler/field/bn254"
	"github.com/zkfoundry/plonk-compiler/field/tiny"
)

// Field is the arithmetic engine of a constraint system. It extends gnark's
// constraint.Field with the metadata and the canonical byte encoding needed
// to move values across fields.
type Field interface {
	constraint.Field
	Field() *big.Int
	FieldBitLen() int
	// SerializedLen is the fixed width in bytes of the canonical encoding.
	SerializedLen() int
	// ToCanonicalBytes returns the little-endian fixed-width encoding of a
	// reduced element. The result always has length SerializedLen.
	ToCanonicalBytes(constraint.Element) []byte
	// FromCanonicalBytes decodes a little-endian fixed-width encoding. It
	// returns false if the input length is wrong or the value is not a
	// canonical representative (>= modulus).
	FromCanonicalBytes([]byte) (constraint.Element, bool)
}

func GetFieldFromOrder(x *big.Int) Field {
	if x.Cmp(bn254.ScalarField) == 0 {
		return &bn254.Field{}
	}
	if x.Cmp(bls12381.ScalarField) == 0 {
		return &bls12381.Field{}
	}
	if x.Cmp(tiny.ScalarField) == 0 {
		return &tiny.Field{}
	}
	panic(fmt.Sprintf("unknown field %v", x))
}
