package field

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
)

// IncompatibleWidthError is returned by Convert when the two fields do not
// share the same canonical encoding width.
type IncompatibleWidthError struct {
	FromLen int
	ToLen   int
}

func (e IncompatibleWidthError) Error() string {
	return fmt.Sprintf("incompatible field widths: %d != %d bytes", e.FromLen, e.ToLen)
}

// DecodeError is returned by Convert when the source value is not a canonical
// representative of the destination field.
type DecodeError struct {
	Value string
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("value %s does not decode canonically in the destination field", e.Value)
}

// Convert reinterprets a reduced element of the source field as an element of
// the destination field through the canonical little-endian byte encoding.
// The byte image is preserved exactly; values at or above the destination
// modulus are rejected rather than reduced.
func Convert(from, to Field, e constraint.Element) (constraint.Element, error) {
	if from.SerializedLen() != to.SerializedLen() {
		return constraint.Element{}, IncompatibleWidthError{FromLen: from.SerializedLen(), ToLen: to.SerializedLen()}
	}
	b := from.ToCanonicalBytes(e)
	r, ok := to.FromCanonicalBytes(b)
	if !ok {
		return constraint.Element{}, DecodeError{Value: from.String(e)}
	}
	return r, nil
}
