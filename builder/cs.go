package builder

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/consensys/gnark/constraint"

	"github.com/zkfoundry/plonk-compiler/expr"
	"github.com/zkfoundry/plonk-compiler/field"
)

// BuildCS accumulates witness variables and quadratic gates. The witness
// vector and the gate list are append-only; once Freeze is called the system
// becomes immutable and can be synthesized into a circuit layout.
//
// A BuildCS is not safe for concurrent mutation. Construction is
// single-threaded; all read accessors are safe once the system is frozen.
type BuildCS struct {
	engine field.Field

	// witness vector; known[i] is false for variables whose value has not
	// been supplied yet
	values []constraint.Element
	known  []bool

	gates []Gate

	// witness indices bound to the instance column, in binding order
	public   []int
	isPublic map[int]bool

	// when tracking, every gate is checked against the known witness values
	// at the moment it is pushed
	tracking bool
	frozen   bool
}

// NewBuildCS returns an empty constraint system over the given engine field.
// With tracking enabled, constraints whose operand values are all known are
// checked eagerly and rejected if violated.
func NewBuildCS(engine field.Field, tracking bool) *BuildCS {
	return &BuildCS{
		engine:   engine,
		isPublic: make(map[int]bool),
		tracking: tracking,
	}
}

// Engine returns the arithmetic engine of the system.
func (cs *BuildCS) Engine() field.Field {
	return cs.engine
}

// Alloc appends a fresh witness variable and returns it as a pure linear
// combination. A nil value allocates an unknown variable whose value must be
// supplied before the witness can be checked.
func (cs *BuildCS) Alloc(value *big.Int) expr.LinComb {
	if value == nil {
		return expr.NewVariable(cs.allocVar(constraint.Element{}, false), cs.engine.One())
	}
	return expr.NewVariable(cs.allocVar(cs.engine.FromInterface(value), true), cs.engine.One())
}

func (cs *BuildCS) allocVar(v constraint.Element, known bool) int {
	if cs.frozen {
		panic("alloc on a frozen constraint system")
	}
	idx := len(cs.values)
	cs.values = append(cs.values, v)
	cs.known = append(cs.known, known)
	return idx
}

// evalLC returns the concrete value of a linear combination, and whether the
// referenced witness value is known.
func (cs *BuildCS) evalLC(l expr.LinComb) (constraint.Element, bool) {
	if l.IsConstant() {
		return l.Constant, true
	}
	if !cs.known[l.VID] {
		return constraint.Element{}, false
	}
	return cs.engine.Add(cs.engine.Mul(l.Coeff, cs.values[l.VID]), l.Constant), true
}

// EnforceMul adds the constraint x*y == z.
func (cs *BuildCS) EnforceMul(x, y, z expr.LinComb) error {
	f := cs.engine
	return cs.pushGate(Gate{
		A: f.Mul(x.Coeff, y.Constant),
		B: f.Mul(y.Coeff, x.Constant),
		C: f.Neg(z.Coeff),
		D: f.Mul(x.Coeff, y.Coeff),
		E: f.Sub(f.Mul(x.Constant, y.Constant), z.Constant),
		X: x.VID, Y: y.VID, Z: z.VID,
	})
}

// EnforceAdd adds the constraint x+y == z.
func (cs *BuildCS) EnforceAdd(x, y, z expr.LinComb) error {
	f := cs.engine
	return cs.pushGate(Gate{
		A: x.Coeff,
		B: y.Coeff,
		C: f.Neg(z.Coeff),
		E: f.Sub(f.Add(x.Constant, y.Constant), z.Constant),
		X: x.VID, Y: y.VID, Z: z.VID,
	})
}

// EnforceGeneric adds the constraint a*x + b*y + c*z + d*x*y + e == 0 on the
// given combinations.
func (cs *BuildCS) EnforceGeneric(x, y, z expr.LinComb, a, b, c, d, e constraint.Element) error {
	f := cs.engine
	cst := f.Mul(a, x.Constant)
	cst = f.Add(cst, f.Mul(b, y.Constant))
	cst = f.Add(cst, f.Mul(c, z.Constant))
	cst = f.Add(cst, f.Mul(d, f.Mul(x.Constant, y.Constant)))
	cst = f.Add(cst, e)
	return cs.pushGate(Gate{
		A: f.Add(f.Mul(a, x.Coeff), f.Mul(d, f.Mul(x.Coeff, y.Constant))),
		B: f.Add(f.Mul(b, y.Coeff), f.Mul(d, f.Mul(y.Coeff, x.Constant))),
		C: f.Mul(c, z.Coeff),
		D: f.Mul(d, f.Mul(x.Coeff, y.Coeff)),
		E: cst,
		X: x.VID, Y: y.VID, Z: z.VID,
	})
}

func (cs *BuildCS) pushGate(g Gate) error {
	if cs.frozen {
		panic("constraint on a frozen constraint system")
	}
	if g.A.IsZero() && g.B.IsZero() && g.C.IsZero() && g.D.IsZero() {
		// fully constant gate; nothing to place on a row, but the identity
		// must still hold
		if !g.E.IsZero() {
			return UnsatisfiedConstraintError{Gate: len(cs.gates), Residual: cs.engine.String(g.E)}
		}
		return nil
	}
	if cs.tracking {
		if r, ok := cs.evalGate(g); ok && !r.IsZero() {
			return UnsatisfiedConstraintError{Gate: len(cs.gates), Residual: cs.engine.String(r)}
		}
	}
	cs.gates = append(cs.gates, g)
	return nil
}

// evalGate returns the residual of the gate identity, and whether every
// witness value the gate actually depends on is known.
func (cs *BuildCS) evalGate(g Gate) (constraint.Element, bool) {
	f := cs.engine
	need := func(i int) (constraint.Element, bool) {
		if i < 0 || i >= len(cs.values) || !cs.known[i] {
			return constraint.Element{}, false
		}
		return cs.values[i], true
	}
	var x, y, z constraint.Element
	var ok bool
	if !g.A.IsZero() || !g.D.IsZero() {
		if x, ok = need(g.X); !ok {
			return constraint.Element{}, false
		}
	}
	if !g.B.IsZero() || !g.D.IsZero() {
		if y, ok = need(g.Y); !ok {
			return constraint.Element{}, false
		}
	}
	if !g.C.IsZero() {
		if z, ok = need(g.Z); !ok {
			return constraint.Element{}, false
		}
	}
	res := g.E
	res = f.Add(res, f.Mul(g.A, x))
	res = f.Add(res, f.Mul(g.B, y))
	res = f.Add(res, f.Mul(g.C, z))
	res = f.Add(res, f.Mul(g.D, f.Mul(x, y)))
	return res, true
}

// checkGates evaluates every gate and errs on the first unknown or violated
// one.
func (cs *BuildCS) checkGates() error {
	for i, g := range cs.gates {
		r, ok := cs.evalGate(g)
		if !ok {
			return fmt.Errorf("gate %d references an unknown witness value", i)
		}
		if !r.IsZero() {
			return UnsatisfiedConstraintError{Gate: i, Residual: cs.engine.String(r)}
		}
	}
	return nil
}

// Inputize binds the combination to the instance column and returns the
// witness index that carries it. A pure variable is bound directly; any other
// combination is first equated to a fresh variable through one gate.
func (cs *BuildCS) Inputize(l expr.LinComb) (int, error) {
	if cs.frozen {
		panic("inputize on a frozen constraint system")
	}
	if !l.IsConstant() && cs.engine.IsOne(l.Coeff) && l.Constant.IsZero() {
		return cs.addPublic(l.VID)
	}
	v, known := cs.evalLC(l)
	var idx int
	if known {
		idx = cs.allocVar(v, true)
	} else {
		idx = cs.allocVar(constraint.Element{}, false)
	}
	if err := cs.EnforceAdd(l, expr.NewConstant(constraint.Element{}), expr.NewVariable(idx, cs.engine.One())); err != nil {
		return 0, err
	}
	return cs.addPublic(idx)
}

func (cs *BuildCS) addPublic(idx int) (int, error) {
	if cs.isPublic[idx] {
		return 0, DuplicatePublicIndexError{Index: idx}
	}
	cs.isPublic[idx] = true
	cs.public = append(cs.public, idx)
	return idx, nil
}

// Value returns the witness value at index i, or nil when the value is
// unknown.
func (cs *BuildCS) Value(i int) (*big.Int, error) {
	if i < 0 || i >= len(cs.values) {
		return nil, IndexOutOfRangeError{Index: i, Size: len(cs.values)}
	}
	if !cs.known[i] {
		return nil, nil
	}
	return cs.engine.ToBigInt(cs.values[i]), nil
}

// WitnessElement returns the raw witness element at index i and whether it is
// known. It panics on an out-of-range index.
func (cs *BuildCS) WitnessElement(i int) (constraint.Element, bool) {
	if i < 0 || i >= len(cs.values) {
		panic(IndexOutOfRangeError{Index: i, Size: len(cs.values)})
	}
	return cs.values[i], cs.known[i]
}

func (cs *BuildCS) NumGates() int {
	return len(cs.gates)
}

func (cs *BuildCS) NumPublic() int {
	return len(cs.public)
}

func (cs *BuildCS) NumVariables() int {
	return len(cs.values)
}

func (cs *BuildCS) NumAux() int {
	return len(cs.values) - len(cs.public)
}

// Gates returns a copy of the gate list.
func (cs *BuildCS) Gates() []Gate {
	g := make([]Gate, len(cs.gates))
	copy(g, cs.gates)
	return g
}

// PublicIndices returns the public witness indices in increasing order.
func (cs *BuildCS) PublicIndices() []int {
	p := make([]int, len(cs.public))
	copy(p, cs.public)
	sort.Ints(p)
	return p
}

// Freeze makes the system immutable. Further Alloc, Enforce or Inputize
// calls panic.
func (cs *BuildCS) Freeze() {
	cs.frozen = true
}

func (cs *BuildCS) IsFrozen() bool {
	return cs.frozen
}

// clone returns a deep copy sharing only the engine. The copy keeps the
// frozen flag so the gate list stays immutable; witness values may still be
// filled in through setValue.
func (cs *BuildCS) clone() *BuildCS {
	c := &BuildCS{
		engine:   cs.engine,
		values:   make([]constraint.Element, len(cs.values)),
		known:    make([]bool, len(cs.known)),
		gates:    make([]Gate, len(cs.gates)),
		public:   make([]int, len(cs.public)),
		isPublic: make(map[int]bool, len(cs.isPublic)),
		tracking: cs.tracking,
		frozen:   cs.frozen,
	}
	copy(c.values, cs.values)
	copy(c.known, cs.known)
	copy(c.gates, cs.gates)
	copy(c.public, cs.public)
	for k, v := range cs.isPublic {
		c.isPublic[k] = v
	}
	return c
}

func (cs *BuildCS) setValue(i int, v constraint.Element) {
	cs.values[i] = v
	cs.known[i] = true
}
