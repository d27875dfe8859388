package builder

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"

	"github.com/zkfoundry/plonk-compiler/expr"
)

type instrOp int

const (
	opAdd instrOp = iota
	opMul
	opHint
)

// instruction records how a non-input variable is computed so that SetInputs
// can replay the circuit on a concrete witness.
type instruction struct {
	op  instrOp
	f   solver.Hint
	in  []expr.LinComb
	out []int
}

// SetInputs returns a copy of the finalized constraint system with the
// external input variables set to the given values and every derived
// variable recomputed. The copy has every gate checked; a violated gate
// yields an UnsatisfiedConstraintError.
func (r *Root) SetInputs(inputs []constraint.Element) (*BuildCS, error) {
	if r.finalized == nil {
		return nil, errors.New("constraint system is not finalized")
	}
	if len(inputs) != r.builder.nbExternalInput {
		return nil, fmt.Errorf("expected %d input values, got %d", r.builder.nbExternalInput, len(inputs))
	}

	cs := r.finalized.clone()
	for i, v := range inputs {
		cs.setValue(i, v)
	}

	f := r.engine
	for _, insn := range r.builder.instructions {
		switch insn.op {
		case opAdd, opMul:
			x, okx := cs.evalLC(insn.in[0])
			y, oky := cs.evalLC(insn.in[1])
			if !okx || !oky {
				return nil, fmt.Errorf("variable %d depends on an unknown value", insn.out[0])
			}
			if insn.op == opAdd {
				cs.setValue(insn.out[0], f.Add(x, y))
			} else {
				cs.setValue(insn.out[0], f.Mul(x, y))
			}
		case opHint:
			in := make([]*big.Int, len(insn.in))
			for i, e := range insn.in {
				v, ok := cs.evalLC(e)
				if !ok {
					return nil, fmt.Errorf("hint output %d depends on an unknown value", insn.out[0])
				}
				in[i] = f.ToBigInt(v)
			}
			out := make([]*big.Int, len(insn.out))
			for i := range out {
				out[i] = big.NewInt(0)
			}
			if err := insn.f(f.Field(), in, out); err != nil {
				return nil, err
			}
			for i, idx := range insn.out {
				cs.setValue(idx, f.FromInterface(out[i]))
			}
		}
	}

	if err := cs.checkGates(); err != nil {
		return nil, err
	}
	return cs, nil
}
