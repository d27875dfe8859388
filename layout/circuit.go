// Package layout places a frozen constraint system onto the cell grid of a
// PLONK style proving backend: three advice columns, five fixed columns, one
// selector column and one instance column.
package layout

import (
	"fmt"
	"math/big"
)

const (
	// NbAdviceCols is the number of witness columns; one per gate operand.
	NbAdviceCols = 3
	// NbFixedCols is the number of coefficient columns, in the order
	// a, b, c, d, e.
	NbFixedCols = 5
)

// Cell addresses one cell of a column group.
type Cell struct {
	Col int
	Row int
}

// CopyConstraint requires two advice cells to carry equal values.
type CopyConstraint struct {
	From Cell
	To   Cell
}

// InstanceBinding requires an advice cell to carry the value at the given
// position of the instance column.
type InstanceBinding struct {
	Instance int
	Cell     Cell
}

// Backend receives the placement of a synthesized circuit. All row and
// column indices passed to it stay within [0, Rows) and the column counts
// above.
type Backend interface {
	// Rows is the row capacity of the region.
	Rows() int
	// AssignAdvice sets the value of an advice cell. A nil value marks the
	// cell as present but not yet known.
	AssignAdvice(cell Cell, value *big.Int) error
	// AssignFixed sets the value of a fixed cell.
	AssignFixed(cell Cell, value *big.Int) error
	// AssignFromInstance fills an advice cell from the instance column and
	// records the binding.
	AssignFromInstance(instance int, cell Cell) error
	// CopyAdvice fills an advice cell from a previously assigned one and
	// records the equality constraint between them.
	CopyAdvice(from, to Cell) error
	// EnableSelector turns the gate equation on for a row.
	EnableSelector(row int) error
}

// Circuit is the in-memory Backend. It is what the mock verification oracle
// consumes and what gets serialized for a real proving backend.
type Circuit struct {
	// FieldOrder is the modulus of the backend field.
	FieldOrder *big.Int

	NbRows int

	// column data; nil entries are unassigned or unknown cells
	Advice [NbAdviceCols][]*big.Int
	Fixed  [NbFixedCols][]*big.Int

	Selector []bool

	// instance column as bound at synthesis time; nil entries are public
	// inputs whose witness value was unknown
	Instance []*big.Int

	Copies   []CopyConstraint
	Bindings []InstanceBinding
}

// NewCircuit returns an empty grid with the given row capacity and instance
// column.
func NewCircuit(fieldOrder *big.Int, rows int, instance []*big.Int) *Circuit {
	c := &Circuit{
		FieldOrder: new(big.Int).Set(fieldOrder),
		NbRows:     rows,
		Selector:   make([]bool, rows),
		Instance:   make([]*big.Int, len(instance)),
	}
	for i := range c.Advice {
		c.Advice[i] = make([]*big.Int, rows)
	}
	for i := range c.Fixed {
		c.Fixed[i] = make([]*big.Int, rows)
	}
	for i, v := range instance {
		if v != nil {
			c.Instance[i] = new(big.Int).Set(v)
		}
	}
	return c
}

func (c *Circuit) Rows() int {
	return c.NbRows
}

func (c *Circuit) checkCell(cell Cell, nbCols int) error {
	if cell.Col < 0 || cell.Col >= nbCols || cell.Row < 0 || cell.Row >= c.NbRows {
		return fmt.Errorf("cell (%d,%d) outside the %dx%d region", cell.Col, cell.Row, nbCols, c.NbRows)
	}
	return nil
}

func (c *Circuit) AssignAdvice(cell Cell, value *big.Int) error {
	if err := c.checkCell(cell, NbAdviceCols); err != nil {
		return err
	}
	if value != nil {
		value = new(big.Int).Set(value)
	}
	c.Advice[cell.Col][cell.Row] = value
	return nil
}

func (c *Circuit) AssignFixed(cell Cell, value *big.Int) error {
	if err := c.checkCell(cell, NbFixedCols); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("fixed cell (%d,%d) needs a value", cell.Col, cell.Row)
	}
	c.Fixed[cell.Col][cell.Row] = new(big.Int).Set(value)
	return nil
}

func (c *Circuit) AssignFromInstance(instance int, cell Cell) error {
	if err := c.checkCell(cell, NbAdviceCols); err != nil {
		return err
	}
	if instance < 0 || instance >= len(c.Instance) {
		return fmt.Errorf("instance position %d out of range, size %d", instance, len(c.Instance))
	}
	if err := c.AssignAdvice(cell, c.Instance[instance]); err != nil {
		return err
	}
	c.Bindings = append(c.Bindings, InstanceBinding{Instance: instance, Cell: cell})
	return nil
}

func (c *Circuit) CopyAdvice(from, to Cell) error {
	if err := c.checkCell(from, NbAdviceCols); err != nil {
		return err
	}
	if err := c.AssignAdvice(to, c.Advice[from.Col][from.Row]); err != nil {
		return err
	}
	c.Copies = append(c.Copies, CopyConstraint{From: from, To: to})
	return nil
}

func (c *Circuit) EnableSelector(row int) error {
	if row < 0 || row >= c.NbRows {
		return fmt.Errorf("selector row %d out of range, size %d", row, c.NbRows)
	}
	c.Selector[row] = true
	return nil
}
