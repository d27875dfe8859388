package layout

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"

	"github.com/zkfoundry/plonk-compiler/builder"
	"github.com/zkfoundry/plonk-compiler/field"
	"github.com/zkfoundry/plonk-compiler/logger"
)

// RowBudgetExceededError reports a constraint system that does not fit the
// backend row capacity. It is returned before any placement happens.
type RowBudgetExceededError struct {
	Gates  int
	Public int
	Rows   int
}

func (e RowBudgetExceededError) Error() string {
	return fmt.Sprintf("circuit needs %d rows (%d gates, %d public inputs) but only %d are available",
		e.Gates+e.Public, e.Gates, e.Public, e.Rows)
}

type refState int

const (
	// refRaw variables have not been placed on the grid yet
	refRaw refState = iota
	// refPlaced variables live in an advice cell; further uses copy it
	refPlaced
	// refInstance variables are public inputs; every use is filled from the
	// instance column, never from a previous cell
	refInstance
)

type valueRef struct {
	state    refState
	cell     Cell
	instance int
}

// PublicValues returns the instance column of a frozen constraint system:
// the value of every public witness index in increasing index order,
// converted to the target field. Entries for unknown witness values are nil.
func PublicValues(cs *builder.BuildCS, target field.Field) ([]*big.Int, error) {
	from := cs.Engine()
	pub := cs.PublicIndices()
	values := make([]*big.Int, len(pub))
	for i, idx := range pub {
		v, known := cs.WitnessElement(idx)
		if !known {
			continue
		}
		cv, err := field.Convert(from, target, v)
		if err != nil {
			return nil, fmt.Errorf("public input %d: %w", i, err)
		}
		values[i] = target.ToBigInt(cv)
	}
	return values, nil
}

// Synthesize lays a frozen constraint system out on an in-memory circuit
// with the given row capacity and returns it together with the ordered
/// public values. Synthesis is a pure function of the frozen system: the same
// system always yields the same circuit.
func Synthesize(cs *builder.BuildCS, target field.Field, rows int) (*Circuit, []*big.Int, error) {
	public, err := PublicValues(cs, target)
	if err != nil {
		return nil, nil, err
	}
	c := NewCircuit(target.Field(), rows, public)
	if err := SynthesizeInto(cs, target, c); err != nil {
		return nil, nil, err
	}
	log := logger.Logger()
	log.Debug().
		Int("nbGates", cs.NumGates()).
		Int("nbPublic", cs.NumPublic()).
		Int("nbCopies", len(c.Copies)).
		Int("rows", rows).
		Msg("synthesized circuit layout")
	return c, public, nil
}

// SynthesizeInto places a frozen constraint system onto an arbitrary
// backend, one gate per row. The backend's instance column must hold the
// values returned by PublicValues for the same system and target field.
//
// The first use of a witness index assigns its advice cell; every further
// use becomes a copy constraint against that cell. Uses of public indices
// are always filled from the instance column.
func SynthesizeInto(cs *builder.BuildCS, target field.Field, be Backend) error {
	if !cs.IsFrozen() {
		return errors.New("constraint system must be frozen before synthesis")
	}
	gates := cs.Gates()
	pub := cs.PublicIndices()
	if len(gates)+len(pub) > be.Rows() {
		return RowBudgetExceededError{Gates: len(gates), Public: len(pub), Rows: be.Rows()}
	}

	from := cs.Engine()
	convert := func(e constraint.Element) (*big.Int, error) {
		cv, err := field.Convert(from, target, e)
		if err != nil {
			return nil, err
		}
		return target.ToBigInt(cv), nil
	}

	refs := make([]valueRef, cs.NumVariables())
	for i, idx := range pub {
		refs[idx] = valueRef{state: refInstance, instance: i}
	}

	for row, g := range gates {
		if err := be.EnableSelector(row); err != nil {
			return err
		}

		coeffs := [NbFixedCols]constraint.Element{g.A, g.B, g.C, g.D, g.E}
		for col, e := range coeffs {
			v, err := convert(e)
			if err != nil {
				return fmt.Errorf("gate %d coefficient %d: %w", row, col, err)
			}
			if err := be.AssignFixed(Cell{Col: col, Row: row}, v); err != nil {
				return err
			}
		}

		operands := [NbAdviceCols]int{g.X, g.Y, g.Z}
		for col, idx := range operands {
			cell := Cell{Col: col, Row: row}
			switch refs[idx].state {
			case refInstance:
				if err := be.AssignFromInstance(refs[idx].instance, cell); err != nil {
					return err
				}
			case refPlaced:
				if err := be.CopyAdvice(refs[idx].cell, cell); err != nil {
					return err
				}
			default:
				var val *big.Int
				if v, known := cs.WitnessElement(idx); known {
					cv, err := convert(v)
					if err != nil {
						return fmt.Errorf("witness value %d: %w", idx, err)
					}
					val = cv
				}
				if err := be.AssignAdvice(cell, val); err != nil {
					return err
				}
				refs[idx] = valueRef{state: refPlaced, cell: cell}
			}
		}
	}
	return nil
}
