package builder

import (
	"github.com/consensys/gnark/constraint"
)

// Gate is one quadratic constraint over three witness indices:
//
//	A*w[X] + B*w[Y] + C*w[Z] + D*w[X]*w[Y] + E == 0
//
// Coefficients are reduced elements of the engine field. An index whose
// coefficients are all zero is a placeholder and its witness value does not
// matter.
type Gate struct {
	A, B, C, D, E constraint.Element
	X, Y, Z       int
}
