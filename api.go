package plonkcompiler

import (
	"math/big"

	"github.com/zkfoundry/plonk-compiler/builder"
	"github.com/zkfoundry/plonk-compiler/checker"
	"github.com/zkfoundry/plonk-compiler/field"
	"github.com/zkfoundry/plonk-compiler/layout"
)

// ToLayout synthesizes a frozen constraint system onto an in-memory circuit
// over the target field with the given row capacity, and returns it together
// with the ordered public values.
func ToLayout(cs *builder.BuildCS, target field.Field, rows int) (*layout.Circuit, []*big.Int, error) {
	return layout.Synthesize(cs, target, rows)
}

// MockVerify checks a synthesized circuit against the claimed public values
// by direct evaluation, without producing a proof.
func MockVerify(c *layout.Circuit, public []*big.Int) (bool, error) {
	return checker.CheckCircuit(c, public)
}
