// Package plonkcompiler compiles gnark circuit definitions into quadratic
// gate constraint systems and lays them out for a PLONK style backend.
package plonkcompiler

import (
	"fmt"
	"math/big"

	fr_bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	fr_bn254 "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"github.com/zkfoundry/plonk-compiler/builder"
	"github.com/zkfoundry/plonk-compiler/logger"
)

// CompileResult carries the built constraint system together with the
// builder state needed to assign witnesses to it.
type CompileResult struct {
	root *builder.Root
	cs   *builder.BuildCS
}

// Compile runs the gnark frontend over the circuit definition and returns
// the accumulated constraint system.
func Compile(fieldOrder *big.Int, circuit frontend.Circuit, opts ...frontend.CompileOption) (*CompileResult, error) {
	var root *builder.Root
	newBuilder_ := func(field *big.Int, config frontend.CompileConfig) (frontend.Builder, error) {
		if root != nil {
			panic("newBuilder can only be called once")
		}
		root = builder.NewRoot(field, config)
		return root, nil
	}
	// returned constraint system is useless
	_, err := frontend.Compile(fieldOrder, newBuilder_, circuit, opts...)
	if err != nil {
		return nil, err
	}
	cs, err := root.Finalize()
	if err != nil {
		return nil, err
	}
	log := logger.Logger()
	log.Info().
		Int("nbGates", cs.NumGates()).
		Int("nbPublic", cs.NumPublic()).
		Int("nbAux", cs.NumAux()).
		Msg("built constraint system")
	return &CompileResult{root: root, cs: cs}, nil
}

// GetConstraintSystem returns the compiled constraint system. Its external
// input values stay unknown until Assign is called.
func (c *CompileResult) GetConstraintSystem() *builder.BuildCS {
	return c.cs
}

// Assign evaluates the circuit on a concrete assignment and returns a copy
// of the constraint system with every witness value filled in and every gate
// checked.
func (c *CompileResult) Assign(assignment frontend.Circuit) (*builder.BuildCS, error) {
	wit, err := frontend.NewWitness(assignment, c.root.Field())
	if err != nil {
		return nil, err
	}
	engine := c.cs.Engine()
	var inputs []constraint.Element
	switch vec := wit.Vector().(type) {
	case fr_bn254.Vector:
		inputs = make([]constraint.Element, len(vec))
		for i := range vec {
			inputs[i] = engine.FromInterface(vec[i])
		}
	case fr_bls12381.Vector:
		inputs = make([]constraint.Element, len(vec))
		for i := range vec {
			inputs[i] = engine.FromInterface(vec[i])
		}
	default:
		return nil, fmt.Errorf("unsupported witness vector type %T", vec)
	}
	return c.root.SetInputs(inputs)
}
