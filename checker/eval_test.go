package checker

import (
	"errors"
	"math/big"
	"testing"

	"github.com/zkfoundry/plonk-compiler/builder"
	"github.com/zkfoundry/plonk-compiler/field/tiny"
	"github.com/zkfoundry/plonk-compiler/layout"
)

// productCircuit lays out 3*5 == 15 and 3+5 == 8 over GF(97) with the
// product public.
func productCircuit(t *testing.T) (*layout.Circuit, []*big.Int) {
	t.Helper()
	cs := builder.NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(3))
	y := cs.Alloc(big.NewInt(5))
	z := cs.Alloc(big.NewInt(15))
	s := cs.Alloc(big.NewInt(8))
	if err := cs.EnforceMul(x, y, z); err != nil {
		t.Fatal(err)
	}
	if err := cs.EnforceAdd(x, y, s); err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Inputize(z); err != nil {
		t.Fatal(err)
	}
	cs.Freeze()

	c, public, err := layout.Synthesize(cs, &tiny.Field{}, 8)
	if err != nil {
		t.Fatal(err)
	}
	return c, public
}

func TestCheckCircuit(t *testing.T) {
	c, public := productCircuit(t)
	ok, err := CheckCircuit(c, public)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("valid circuit must verify")
	}
}

func TestCheckCircuitWrongPublic(t *testing.T) {
	c, _ := productCircuit(t)
	ok, err := CheckCircuit(c, []*big.Int{big.NewInt(16)})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("wrong public value must be rejected")
	}
}

func TestCheckCircuitCopyViolation(t *testing.T) {
	c, public := productCircuit(t)

	// swap x and y on the addition row: the row equation still holds but the
	// cells no longer match their first placement
	c.Advice[0][1] = big.NewInt(5)
	c.Advice[1][1] = big.NewInt(3)

	ok, err := CheckCircuit(c, public)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("violated copy constraint must be rejected")
	}
}

func TestCheckCircuitRowViolation(t *testing.T) {
	c, public := productCircuit(t)
	// break the addition output
	c.Advice[2][1] = big.NewInt(9)
	ok, err := CheckCircuit(c, public)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("violated gate row must be rejected")
	}
}

func TestCheckCircuitIncompleteWitness(t *testing.T) {
	cs := builder.NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(nil)
	y := cs.Alloc(big.NewInt(5))
	z := cs.Alloc(nil)
	if err := cs.EnforceMul(x, y, z); err != nil {
		t.Fatal(err)
	}
	cs.Freeze()

	c, public, err := layout.Synthesize(cs, &tiny.Field{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	_, err = CheckCircuit(c, public)
	if !errors.Is(err, ErrIncompleteWitness) {
		t.Fatalf("expected ErrIncompleteWitness, got %v", err)
	}
}

func TestCheckCircuitUnknownPublic(t *testing.T) {
	cs := builder.NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(nil)
	if _, err := cs.Inputize(x); err != nil {
		t.Fatal(err)
	}
	cs.Freeze()

	c, public, err := layout.Synthesize(cs, &tiny.Field{}, 4)
	if err != nil {
		t.Fatal(err)
	}
	// the public slot has no value, even though no gate row references it
	_, err = CheckCircuit(c, public)
	if !errors.Is(err, ErrIncompleteWitness) {
		t.Fatalf("expected ErrIncompleteWitness, got %v", err)
	}
}

func TestCheckCircuitUnusedPublic(t *testing.T) {
	cs := builder.NewBuildCS(&tiny.Field{}, true)
	x := cs.Alloc(big.NewInt(3))
	y := cs.Alloc(big.NewInt(5))
	z := cs.Alloc(big.NewInt(15))
	if err := cs.EnforceMul(x, y, z); err != nil {
		t.Fatal(err)
	}
	w := cs.Alloc(big.NewInt(7))
	if _, err := cs.Inputize(w); err != nil {
		t.Fatal(err)
	}
	cs.Freeze()

	c, public, err := layout.Synthesize(cs, &tiny.Field{}, 4)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := CheckCircuit(c, public)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("matching public value must be accepted")
	}

	// no gate row references the public input, but the claimed value must
	// still match the instance column
	ok, err = CheckCircuit(c, []*big.Int{big.NewInt(42)})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("wrong value for an unreferenced public input must be rejected")
	}
}

func TestCheckCircuitMissingPublic(t *testing.T) {
	c, _ := productCircuit(t)
	if _, err := CheckCircuit(c, nil); err == nil {
		t.Fatal("missing public values must error")
	}
}

func TestCheckCircuitPublicReduction(t *testing.T) {
	c, _ := productCircuit(t)
	// claimed public values are reduced before comparison
	ok, err := CheckCircuit(c, []*big.Int{big.NewInt(15 + 97)})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("public value equal mod p must be accepted")
	}
}
