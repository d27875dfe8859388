package builder

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark/constraint"

	"github.com/zkfoundry/plonk-compiler/expr"
	"github.com/zkfoundry/plonk-compiler/field/tiny"
)

func e(v uint64) constraint.Element {
	return constraint.Element{v}
}

func TestEnforceMulCompilation(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(3))
	y := cs.Alloc(big.NewInt(5))
	z := cs.Alloc(big.NewInt(15))

	if err := cs.EnforceMul(x, y, z); err != nil {
		t.Fatal(err)
	}
	if cs.NumGates() != 1 {
		t.Fatalf("expected 1 gate, got %d", cs.NumGates())
	}

	g := cs.Gates()[0]
	if !g.A.IsZero() || !g.B.IsZero() {
		t.Fatal("pure operands must not produce linear coefficients on x and y")
	}
	if g.C != e(96) {
		t.Fatalf("expected C = -1 = 96, got %v", g.C)
	}
	if g.D != e(1) {
		t.Fatalf("expected D = 1, got %v", g.D)
	}
	if g.E != e(82) {
		t.Fatalf("expected E = -15 = 82, got %v", g.E)
	}
	if g.X != 0 || g.Y != 1 || g.Z != 2 {
		t.Fatalf("wrong operand indices (%d,%d,%d)", g.X, g.Y, g.Z)
	}
}

func TestEnforceMulComposite(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	cs.Alloc(big.NewInt(3)) // w0
	cs.Alloc(big.NewInt(5)) // w1
	cs.Alloc(big.NewInt(15)) // w2

	// (2*w0+1) * (3*w1+2) == w2+7, i.e. 7*17 == 22 mod 97
	x := expr.LinComb{Coeff: e(2), VID: 0, Constant: e(1)}
	y := expr.LinComb{Coeff: e(3), VID: 1, Constant: e(2)}
	z := expr.LinComb{Coeff: e(1), VID: 2, Constant: e(7)}
	if err := cs.EnforceMul(x, y, z); err != nil {
		t.Fatal(err)
	}

	g := cs.Gates()[0]
	if g.A != e(4) { // 2*2
		t.Fatalf("A: got %v", g.A)
	}
	if g.B != e(3) { // 3*1
		t.Fatalf("B: got %v", g.B)
	}
	if g.C != e(96) { // -1
		t.Fatalf("C: got %v", g.C)
	}
	if g.D != e(6) { // 2*3
		t.Fatalf("D: got %v", g.D)
	}
	if g.E != e(92) { // 1*2-7 = -5
		t.Fatalf("E: got %v", g.E)
	}
}

func TestEnforceMulTracking(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(3))
	y := cs.Alloc(big.NewInt(5))
	bad := cs.Alloc(big.NewInt(16))

	err := cs.EnforceMul(x, y, bad)
	var target UnsatisfiedConstraintError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnsatisfiedConstraintError, got %v", err)
	}
	if cs.NumGates() != 0 {
		t.Fatal("a rejected gate must not be recorded")
	}
}

func TestEnforceAdd(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(3))
	y := cs.Alloc(big.NewInt(5))
	z := cs.Alloc(big.NewInt(8))

	if err := cs.EnforceAdd(x, y, z); err != nil {
		t.Fatal(err)
	}
	g := cs.Gates()[0]
	if g.A != e(1) || g.B != e(1) || g.C != e(96) || !g.D.IsZero() || !g.E.IsZero() {
		t.Fatalf("unexpected addition gate %+v", g)
	}
}

func TestEnforceGeneric(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(2))
	y := cs.Alloc(big.NewInt(3))
	z := cs.Alloc(big.NewInt(4))

	// 1*2 + 2*3 + 3*4 + 4*6 + 53 == 97 == 0
	if err := cs.EnforceGeneric(x, y, z, e(1), e(2), e(3), e(4), e(53)); err != nil {
		t.Fatal(err)
	}
	g := cs.Gates()[0]
	if g.A != e(1) || g.B != e(2) || g.C != e(3) || g.D != e(4) || g.E != e(53) {
		t.Fatalf("unexpected generic gate %+v", g)
	}
}

func TestDegenerateConstantGate(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)

	two := expr.NewConstant(e(2))
	three := expr.NewConstant(e(3))
	five := expr.NewConstant(e(5))
	six := expr.NewConstant(e(6))

	// no witness variables exist; a satisfied constant gate must not touch
	// the witness vector at all
	if err := cs.EnforceAdd(two, three, five); err != nil {
		t.Fatal(err)
	}
	if cs.NumGates() != 0 {
		t.Fatal("constant gate must not be recorded")
	}

	err := cs.EnforceAdd(two, three, six)
	var target UnsatisfiedConstraintError
	if !errors.As(err, &target) {
		t.Fatalf("expected UnsatisfiedConstraintError, got %v", err)
	}
}

func TestInputizePure(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(7))

	idx, err := cs.Inputize(x)
	if err != nil {
		t.Fatal(err)
	}
	if idx != x.VID {
		t.Fatalf("pure variable must be exposed directly, got index %d", idx)
	}
	if cs.NumGates() != 0 {
		t.Fatal("exposing a pure variable must not add gates")
	}
	if cs.NumPublic() != 1 {
		t.Fatalf("expected 1 public input, got %d", cs.NumPublic())
	}
}

func TestInputizeComposite(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(7))

	l := expr.LinComb{Coeff: e(2), VID: x.VID, Constant: e(1)}
	idx, err := cs.Inputize(l)
	if err != nil {
		t.Fatal(err)
	}
	if idx == x.VID {
		t.Fatal("composite combination must be rebound to a fresh variable")
	}
	if cs.NumGates() != 1 {
		t.Fatalf("expected 1 equality gate, got %d", cs.NumGates())
	}
	v, err := cs.Value(idx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != 15 {
		t.Fatalf("expected 2*7+1 = 15, got %s", v)
	}
}

func TestInputizeDuplicate(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(7))

	if _, err := cs.Inputize(x); err != nil {
		t.Fatal(err)
	}
	_, err := cs.Inputize(x)
	var target DuplicatePublicIndexError
	if !errors.As(err, &target) {
		t.Fatalf("expected DuplicatePublicIndexError, got %v", err)
	}
	if target.Index != x.VID {
		t.Fatalf("wrong duplicate index %d", target.Index)
	}
}

func TestValue(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	known := cs.Alloc(big.NewInt(42))
	unknown := cs.Alloc(nil)

	v, err := cs.Value(known.VID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Int64() != 42 {
		t.Fatalf("expected 42, got %s", v)
	}

	v, err = cs.Value(unknown.VID)
	if err != nil {
		t.Fatal(err)
	}
	if v != nil {
		t.Fatal("unknown value must be nil")
	}

	_, err = cs.Value(5)
	var target IndexOutOfRangeError
	if !errors.As(err, &target) {
		t.Fatalf("expected IndexOutOfRangeError, got %v", err)
	}
}

func TestFrozen(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(1))
	cs.Freeze()

	if !cs.IsFrozen() {
		t.Fatal("expected frozen system")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on alloc after freeze")
		}
	}()
	_ = x
	cs.Alloc(big.NewInt(2))
}

func TestPublicIndicesSorted(t *testing.T) {
	cs := NewBuildCS(&tiny.Field{}, true)
	a := cs.Alloc(big.NewInt(1))
	b := cs.Alloc(big.NewInt(2))
	c := cs.Alloc(big.NewInt(3))

	for _, l := range []expr.LinComb{c, a, b} {
		if _, err := cs.Inputize(l); err != nil {
			t.Fatal(err)
		}
	}
	got := cs.PublicIndices()
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("public indices not sorted: %v", got)
		}
	}
	if cs.NumAux() != 0 {
		t.Fatalf("expected 0 aux variables, got %d", cs.NumAux())
	}
}
