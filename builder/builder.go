// Some content of this file is copied from gnark/frontend/cs/r1cs/builder.go

// Package builder compiles circuits written against the gnark frontend into
// quadratic gates of the form a*x + b*y + c*z + d*x*y + e == 0 over single
// witness variables. Every frontend value is a linear combination
// coeff*w[vid] + constant; combining two distinct variables allocates a fresh
// result variable behind one gate.
package builder

import (
	"math/big"
	"reflect"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"

	"github.com/zkfoundry/plonk-compiler/expr"
	"github.com/zkfoundry/plonk-compiler/field"
	"github.com/zkfoundry/plonk-compiler/utils"
)

// builder implements frontend.API and frontend.Compiler on top of a BuildCS.
type builder struct {
	engine field.Field

	// accumulated constraint system
	cs *BuildCS

	root *Root

	// deferred boolean constraints: known-true combinations are marked,
	// required ones are asserted and flushed as x*(1-x) == 0 gates in
	// Finalize
	booleans utils.Map

	// widely used values
	tOne        constraint.Element
	eZero, eOne expr.LinComb

	// how each non-input variable is computed, in allocation order, so a
	// concrete witness can be replayed from the external inputs
	instructions []instruction

	nbExternalInput int

	// defers (for gnark API)
	defers []func(frontend.API) error

	// we have to implement kvstore.Store (required by gnark/internal/circuitdefer/defer.go:30)
	db map[any]any
}

func (r *Root) newBuilder() *builder {
	b := builder{
		engine:   r.engine,
		root:     r,
		booleans: make(utils.Map),
		db:       make(map[any]any),
	}
	b.cs = NewBuildCS(r.engine, true)
	b.tOne = r.engine.One()
	b.eZero = expr.NewConstant(constraint.Element{})
	b.eOne = expr.NewConstant(b.tOne)
	return &b
}

type constraintStatus int

const (
	_ constraintStatus = iota
	marked
	asserted
)

// newAdd allocates x+y as a fresh variable constrained by one addition gate.
func (builder *builder) newAdd(x, y expr.LinComb) expr.LinComb {
	vx, okx := builder.cs.evalLC(x)
	vy, oky := builder.cs.evalLC(y)
	var out expr.LinComb
	if okx && oky {
		out = expr.NewVariable(builder.cs.allocVar(builder.engine.Add(vx, vy), true), builder.tOne)
	} else {
		out = expr.NewVariable(builder.cs.allocVar(constraint.Element{}, false), builder.tOne)
	}
	if err := builder.cs.EnforceAdd(x, y, out); err != nil {
		panic(err)
	}
	builder.instructions = append(builder.instructions, instruction{
		op:  opAdd,
		in:  []expr.LinComb{x, y},
		out: []int{out.VID},
	})
	return out
}

// newMul allocates x*y as a fresh variable constrained by one
// multiplication gate.
func (builder *builder) newMul(x, y expr.LinComb) expr.LinComb {
	vx, okx := builder.cs.evalLC(x)
	vy, oky := builder.cs.evalLC(y)
	var out expr.LinComb
	if okx && oky {
		out = expr.NewVariable(builder.cs.allocVar(builder.engine.Mul(vx, vy), true), builder.tOne)
	} else {
		out = expr.NewVariable(builder.cs.allocVar(constraint.Element{}, false), builder.tOne)
	}
	if err := builder.cs.EnforceMul(x, y, out); err != nil {
		panic(err)
	}
	builder.instructions = append(builder.instructions, instruction{
		op:  opMul,
		in:  []expr.LinComb{x, y},
		out: []int{out.VID},
	})
	return out
}

// Field returns the value of the current field being used.
func (builder *builder) Field() *big.Int {
	return builder.engine.Field()
}

// FieldBitLen returns the bit length of the current field being used.
func (builder *builder) FieldBitLen() int {
	return builder.engine.FieldBitLen()
}

// MarkBoolean sets (but do not **constraint**!) v to be boolean
// This is useful in scenarios where a variable is known to be boolean through a constraint
// that is not api.AssertIsBoolean. If v is a constant, this is a no-op.
func (builder *builder) MarkBoolean(v frontend.Variable) {
	if b, ok := builder.constantValue(v); ok {
		if !(b.IsZero() || builder.engine.IsOne(b)) {
			panic("MarkBoolean called a non-boolean constant")
		}
		return
	}
	builder.booleans.Set(builder.toVariable(v), marked)
}

// IsBoolean returns true if given variable was marked as boolean in the compiler (see MarkBoolean)
// Use with care; variable may not have been **constrained** to be boolean
// This returns true if the v is a constant and v == 0 || v == 1.
func (builder *builder) IsBoolean(v frontend.Variable) bool {
	if b, ok := builder.constantValue(v); ok {
		return (b.IsZero() || builder.engine.IsOne(b))
	}
	_, ok := builder.booleans.Find(builder.toVariable(v))
	return ok
}

// Compile is a placeholder for gnark API compatibility; it does nothing.
func (builder *builder) Compile() (constraint.ConstraintSystem, error) {
	return nil, nil
}

// ConstantValue returns the big.Int value of v; ok is false if v is not a
// constant.
func (builder *builder) ConstantValue(v frontend.Variable) (*big.Int, bool) {
	coeff, ok := builder.constantValue(v)
	if !ok {
		return nil, false
	}
	return builder.engine.ToBigInt(coeff), true
}

func (builder *builder) constantValue(v frontend.Variable) (constraint.Element, bool) {
	if _v, ok := v.(expr.LinComb); ok {
		if !_v.IsConstant() {
			return constraint.Element{}, false
		}
		return _v.Constant, true
	}
	return builder.engine.FromInterface(v), true
}

// toVariable will return (and allocate if neccesary) a LinComb from given value
//
// if input is already a LinComb, does nothing
// else, attempts to convert input to a big.Int (see utils.FromInterface) and
// returns a constant LinComb
func (builder *builder) toVariable(input interface{}) expr.LinComb {
	switch t := input.(type) {
	case expr.LinComb:
		return t
	case *expr.LinComb:
		return *t
	case constraint.Element:
		return expr.NewConstant(t)
	case *constraint.Element:
		return expr.NewConstant(*t)
	default:
		// try to make it into a constant
		return expr.NewConstant(builder.engine.FromInterface(t))
	}
}

// toVariables returns the LinComb corresponding to each input.
func (builder *builder) toVariables(in ...frontend.Variable) []expr.LinComb {
	r := make([]expr.LinComb, 0, len(in))
	for i := 0; i < len(in); i++ {
		r = append(r, builder.toVariable(in[i]))
	}
	return r
}

// NewHint initializes internal variables whose value will be evaluated using
// the provided hint function from the inputs. Inputs must be either variables
// or convertible to *big.Int.
//
// The output values are computed at circuit construction time when every
// input value is already known; otherwise they stay unknown until the circuit
// is assigned a witness.
//
// No new constraints are added to the newly created wire and must be added
// manually in the circuit. Failing to do so leads to an underconstrained
// circuit.
func (builder *builder) NewHint(f solver.Hint, nbOutputs int, inputs ...frontend.Variable) ([]frontend.Variable, error) {
	return builder.newHint(f, nbOutputs, inputs)
}

// NewHintForId is not implemented and will panic if called.
func (builder *builder) NewHintForId(id solver.HintID, nbOutputs int, inputs ...frontend.Variable) ([]frontend.Variable, error) {
	panic("unimplemented")
}

func (builder *builder) newHint(f solver.Hint, nbOutputs int, inputs []frontend.Variable) ([]frontend.Variable, error) {
	hintInputs := make([]expr.LinComb, len(inputs))
	for i, in := range inputs {
		hintInputs[i] = builder.toVariable(in)
	}

	known := true
	in := make([]*big.Int, len(hintInputs))
	for i, e := range hintInputs {
		v, ok := builder.cs.evalLC(e)
		if !ok {
			known = false
			break
		}
		in[i] = builder.engine.ToBigInt(v)
	}

	outIdx := make([]int, nbOutputs)
	if known {
		out := make([]*big.Int, nbOutputs)
		for i := range out {
			out[i] = big.NewInt(0)
		}
		if err := f(builder.engine.Field(), in, out); err != nil {
			return nil, err
		}
		for i := range outIdx {
			outIdx[i] = builder.cs.allocVar(builder.engine.FromInterface(out[i]), true)
		}
	} else {
		for i := range outIdx {
			outIdx[i] = builder.cs.allocVar(constraint.Element{}, false)
		}
	}

	builder.instructions = append(builder.instructions, instruction{
		op:  opHint,
		f:   f,
		in:  hintInputs,
		out: outIdx,
	})

	res := make([]frontend.Variable, nbOutputs)
	for i, idx := range outIdx {
		res[i] = expr.NewVariable(idx, builder.tOne)
	}
	return res, nil
}

// Defer adds a callback function to the defer list to be processed later.
func (builder *builder) Defer(cb func(frontend.API) error) {
	builder.defers = append(builder.defers, cb)
}

// AddInstruction is not implemented and will panic if called.
func (builder *builder) AddInstruction(bID constraint.BlueprintID, calldata []uint32) []uint32 {
	panic("unimplemented")
}

// AddBlueprint is not implemented and will panic if called.
func (builder *builder) AddBlueprint(b constraint.Blueprint) constraint.BlueprintID {
	panic("unimplemented")
}

// InternalVariable is not implemented and will panic if called.
func (builder *builder) InternalVariable(wireID uint32) frontend.Variable {
	panic("unimplemented")
}

// ToCanonicalVariable is not implemented and will panic if called.
func (builder *builder) ToCanonicalVariable(in frontend.Variable) frontend.CanonicalVariable {
	panic("unimplemented")
}

// SetKeyValue implements kvstore for the gnark frontend.
func (builder *builder) SetKeyValue(key, value any) {
	if !reflect.TypeOf(key).Comparable() {
		panic("key type not comparable")
	}
	builder.db[key] = value
}

// GetKeyValue implements kvstore for the gnark frontend.
func (builder *builder) GetKeyValue(key any) any {
	if !reflect.TypeOf(key).Comparable() {
		panic("key type not comparable")
	}
	return builder.db[key]
}
