// Package checker is a mock verification oracle: it evaluates a synthesized
// circuit directly in big.Int arithmetic instead of proving it.
package checker

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/zkfoundry/plonk-compiler/layout"
)

// ErrIncompleteWitness is returned when a cell or public value needed by a
// constraint has no value.
var ErrIncompleteWitness = errors.New("incomplete witness")

// CheckCircuit evaluates every enabled gate row, copy constraint and
// instance binding of the circuit against the claimed public values. It
// returns false as soon as some constraint does not hold.
func CheckCircuit(c *layout.Circuit, public []*big.Int) (bool, error) {
	p := c.FieldOrder

	advice := func(cell layout.Cell) (*big.Int, error) {
		v := c.Advice[cell.Col][cell.Row]
		if v == nil {
			return nil, fmt.Errorf("advice cell (%d,%d): %w", cell.Col, cell.Row, ErrIncompleteWitness)
		}
		return v, nil
	}

	// every public slot is checked against the instance column, whether or
	// not some gate row references it
	if len(public) != len(c.Instance) {
		return false, fmt.Errorf("got %d public values, circuit has %d instance slots", len(public), len(c.Instance))
	}
	for i, v := range public {
		if v == nil {
			return false, fmt.Errorf("public value %d: %w", i, ErrIncompleteWitness)
		}
		if c.Instance[i] == nil {
			return false, fmt.Errorf("instance slot %d: %w", i, ErrIncompleteWitness)
		}
		if new(big.Int).Mod(v, p).Cmp(new(big.Int).Mod(c.Instance[i], p)) != 0 {
			return false, nil
		}
	}

	for row := 0; row < c.NbRows; row++ {
		if !c.Selector[row] {
			continue
		}

		var adv [layout.NbAdviceCols]*big.Int
		for col := range adv {
			v, err := advice(layout.Cell{Col: col, Row: row})
			if err != nil {
				return false, err
			}
			adv[col] = v
		}

		var fx [layout.NbFixedCols]*big.Int
		for col := range fx {
			v := c.Fixed[col][row]
			if v == nil {
				return false, fmt.Errorf("fixed cell (%d,%d): %w", col, row, ErrIncompleteWitness)
			}
			fx[col] = v
		}

		// qa*x + qb*y + qc*z + qd*x*y + qe == 0
		acc := new(big.Int).Mul(fx[0], adv[0])
		acc.Add(acc, new(big.Int).Mul(fx[1], adv[1]))
		acc.Add(acc, new(big.Int).Mul(fx[2], adv[2]))
		t := new(big.Int).Mul(adv[0], adv[1])
		acc.Add(acc, t.Mul(t, fx[3]))
		acc.Add(acc, fx[4])
		if acc.Mod(acc, p).Sign() != 0 {
			return false, nil
		}
	}

	for _, cc := range c.Copies {
		a, err := advice(cc.From)
		if err != nil {
			return false, err
		}
		b, err := advice(cc.To)
		if err != nil {
			return false, err
		}
		if a.Cmp(b) != 0 {
			return false, nil
		}
	}

	for _, ib := range c.Bindings {
		if ib.Instance < 0 || ib.Instance >= len(public) {
			return false, fmt.Errorf("instance position %d out of range, %d public values", ib.Instance, len(public))
		}
		v := public[ib.Instance]
		if v == nil {
			return false, fmt.Errorf("public value %d: %w", ib.Instance, ErrIncompleteWitness)
		}
		cellv, err := advice(ib.Cell)
		if err != nil {
			return false, err
		}
		if new(big.Int).Mod(v, p).Cmp(new(big.Int).Mod(cellv, p)) != 0 {
			return false, nil
		}
	}

	return true, nil
}
