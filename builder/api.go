// Some content of this file is copied from gnark/frontend/cs/r1cs/api.go

package builder

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/constraint/solver"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/bits"

	"github.com/zkfoundry/plonk-compiler/expr"
)

func init() {
	solver.RegisterHint(DivHint)
}

// ---------------------------------------------------------------------------------------------
// Arithmetic

// Add computes the sum i1+i2+...in and returns the result.
func (builder *builder) Add(i1, i2 frontend.Variable, in ...frontend.Variable) frontend.Variable {
	vars := builder.toVariables(append([]frontend.Variable{i1, i2}, in...)...)
	res := vars[0]
	for _, v := range vars[1:] {
		res = builder.addLC(res, v)
	}
	return res
}

func (builder *builder) MulAcc(a, b, c frontend.Variable) frontend.Variable {
	return builder.Add(builder.Mul(b, c), a)
}

// Sub computes the difference between the given variables.
func (builder *builder) Sub(i1, i2 frontend.Variable, in ...frontend.Variable) frontend.Variable {
	vars := builder.toVariables(append([]frontend.Variable{i1, i2}, in...)...)
	res := vars[0]
	for _, v := range vars[1:] {
		res = builder.subLC(res, v)
	}
	return res
}

// addLC folds x+y into a single combination when possible; combining two
// distinct variables costs one gate.
func (builder *builder) addLC(x, y expr.LinComb) expr.LinComb {
	f := builder.engine
	if x.IsConstant() {
		return expr.LinComb{Coeff: y.Coeff, VID: y.VID, Constant: f.Add(y.Constant, x.Constant)}
	}
	if y.IsConstant() {
		return expr.LinComb{Coeff: x.Coeff, VID: x.VID, Constant: f.Add(x.Constant, y.Constant)}
	}
	if x.VID == y.VID {
		c := f.Add(x.Coeff, y.Coeff)
		cst := f.Add(x.Constant, y.Constant)
		if c.IsZero() {
			return expr.NewConstant(cst)
		}
		return expr.LinComb{Coeff: c, VID: x.VID, Constant: cst}
	}
	return builder.newAdd(x, y)
}

func (builder *builder) subLC(x, y expr.LinComb) expr.LinComb {
	return builder.addLC(x, builder.negLC(y))
}

// negLC returns -x without a gate.
func (builder *builder) negLC(x expr.LinComb) expr.LinComb {
	f := builder.engine
	return expr.LinComb{Coeff: f.Neg(x.Coeff), VID: x.VID, Constant: f.Neg(x.Constant)}
}

// mulConstLC scales x by a constant without a gate.
func (builder *builder) mulConstLC(x expr.LinComb, lambda constraint.Element) expr.LinComb {
	if lambda.IsZero() {
		return builder.eZero
	}
	f := builder.engine
	return expr.LinComb{Coeff: f.Mul(x.Coeff, lambda), VID: x.VID, Constant: f.Mul(x.Constant, lambda)}
}

func (builder *builder) mulLC(x, y expr.LinComb) expr.LinComb {
	if x.IsConstant() {
		return builder.mulConstLC(y, x.Constant)
	}
	if y.IsConstant() {
		return builder.mulConstLC(x, y.Constant)
	}
	return builder.newMul(x, y)
}

// Neg returns the negation of the given variable.
func (builder *builder) Neg(i frontend.Variable) frontend.Variable {
	return builder.negLC(builder.toVariable(i))
}

// Mul computes the product of the given variables.
func (builder *builder) Mul(i1, i2 frontend.Variable, in ...frontend.Variable) frontend.Variable {
	vars := builder.toVariables(append([]frontend.Variable{i1, i2}, in...)...)
	res := vars[0]
	for _, v := range vars[1:] {
		res = builder.mulLC(res, v)
	}
	return res
}

// DivHint calculates the division a/b and returns 0 when both a and b are zero.
func DivHint(field *big.Int, inputs []*big.Int, outputs []*big.Int) error {
	x := (&big.Int{}).Mod(inputs[0], field)
	y := (&big.Int{}).Mod(inputs[1], field)
	if y.Cmp(big.NewInt(0)) == 0 {
		if x.Cmp(big.NewInt(0)) == 0 {
			outputs[0] = big.NewInt(0)
			return nil
		}
		return errors.New("divide by zero in DivHint")
	}
	a := (&big.Int{}).ModInverse(y, field)
	a.Mul(a, x)
	a.Mod(a, field)
	outputs[0] = a
	return nil
}

// DivUnchecked returns i1 divided by i2 and returns 0 if both i1 and i2 are zero.
func (builder *builder) DivUnchecked(i1, i2 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(i1, i2)

	v1 := vars[0]
	v2 := vars[1]

	n1, v1Constant := builder.constantValue(v1)
	n2, v2Constant := builder.constantValue(v2)

	if !v2Constant {
		s, err := builder.NewHint(DivHint, 1, v1, v2)
		if err != nil {
			panic(err)
		}
		builder.AssertIsEqual(builder.Mul(s[0], v2), v1)
		return s[0]
	}

	// v2 is constant
	if n2.IsZero() {
		panic("div by constant(0)")
	}
	n2, _ = builder.engine.Inverse(n2)

	if v1Constant {
		return expr.NewConstant(builder.engine.Mul(n2, n1))
	}

	// v1 is not constant
	return builder.mulConstLC(v1, n2)
}

// Div returns the result of i1 divided by i2.
func (builder *builder) Div(i1, i2 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(i1, i2)

	v1 := vars[0]
	v2 := vars[1]

	n1, v1Constant := builder.constantValue(v1)
	n2, v2Constant := builder.constantValue(v2)

	if !v2Constant {
		s, err := builder.NewHint(DivHint, 1, builder.eOne, v2)
		if err != nil {
			panic(err)
		}
		builder.AssertIsEqual(builder.Mul(s[0], v2), builder.eOne)
		return builder.Mul(s[0], v1)
	}

	// v2 is constant
	if n2.IsZero() {
		panic("div by constant(0)")
	}
	n2, _ = builder.engine.Inverse(n2)

	if v1Constant {
		return expr.NewConstant(builder.engine.Mul(n2, n1))
	}

	// v1 is not constant
	return builder.mulConstLC(v1, n2)
}

// Inverse returns the multiplicative inverse of the given variable.
func (builder *builder) Inverse(i1 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(i1)

	if c, ok := builder.constantValue(vars[0]); ok {
		if c.IsZero() {
			panic("inverse by constant(0)")
		}

		c, _ = builder.engine.Inverse(c)
		return expr.NewConstant(c)
	}

	s, err := builder.NewHint(DivHint, 1, builder.eOne, vars[0])
	if err != nil {
		panic(err)
	}
	builder.AssertIsEqual(builder.Mul(s[0], vars[0]), builder.eOne)
	return s[0]
}

// ---------------------------------------------------------------------------------------------
// Bit operations

// ToBinary unpacks a frontend.Variable in binary,
// n is the number of bits to select (starting from lsb)
// n default value is fr.Bits the number of bits needed to represent a field element
//
// The result is in little endian (first bit = lsb)
func (builder *builder) ToBinary(i1 frontend.Variable, n ...int) []frontend.Variable {
	// nbBits
	nbBits := builder.engine.FieldBitLen()
	if len(n) == 1 {
		nbBits = n[0]
		if nbBits < 0 {
			panic("invalid n")
		}
	}

	return bits.ToBinary(builder, i1, bits.WithNbDigits(nbBits))
}

// FromBinary packs the given variables, seen as a fr.Element in little endian, into a single variable.
func (builder *builder) FromBinary(_b ...frontend.Variable) frontend.Variable {
	return bits.FromBinary(builder, _b)
}

// Xor computes the logical XOR between two frontend.Variables.
func (builder *builder) Xor(_a, _b frontend.Variable) frontend.Variable {
	vars := builder.toVariables(_a, _b)

	a := vars[0]
	b := vars[1]

	builder.AssertIsBoolean(a)
	builder.AssertIsBoolean(b)

	// a + b - 2ab
	t := builder.Sub(builder.eOne, builder.Mul(b, 2))
	t = builder.Add(builder.Mul(a, t), b)

	builder.MarkBoolean(t)

	return t
}

// Or computes the logical OR between two frontend.Variables.
func (builder *builder) Or(_a, _b frontend.Variable) frontend.Variable {
	vars := builder.toVariables(_a, _b)

	a := vars[0]
	b := vars[1]

	builder.AssertIsBoolean(a)
	builder.AssertIsBoolean(b)

	// a + b - ab
	res := builder.Sub(builder.Add(a, b), builder.Mul(a, b))

	builder.MarkBoolean(res)

	return res
}

// And computes the logical AND between two frontend.Variables.
func (builder *builder) And(_a, _b frontend.Variable) frontend.Variable {
	vars := builder.toVariables(_a, _b)

	a := vars[0]
	b := vars[1]

	builder.AssertIsBoolean(a)
	builder.AssertIsBoolean(b)

	res := builder.Mul(a, b)
	builder.MarkBoolean(res)

	return res
}

// ---------------------------------------------------------------------------------------------
// Conditionals

// Select yields the second variable if the first is true, otherwise yields the third variable.
func (builder *builder) Select(i0, i1, i2 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(i0, i1, i2)
	cond := vars[0]

	// ensures that cond is boolean
	builder.AssertIsBoolean(cond)

	if c, ok := builder.constantValue(cond); ok {
		// condition is a constant return i1 if true, i2 if false
		if builder.engine.IsOne(c) {
			return vars[1]
		}
		return vars[2]
	}

	n1, ok1 := builder.constantValue(vars[1])
	n2, ok2 := builder.constantValue(vars[2])

	if ok1 && ok2 {
		n1 = builder.engine.Sub(n1, n2)
		res := builder.mulConstLC(cond, n1)
		return builder.addLC(res, vars[2])
	}

	// special case appearing in AssertIsLessOrEq
	if ok1 {
		if n1.IsZero() {
			v := builder.subLC(builder.eOne, cond)
			return builder.mulLC(v, vars[2])
		}
	}

	v := builder.subLC(vars[1], vars[2])
	w := builder.mulLC(cond, v)
	return builder.addLC(w, vars[2])
}

// Lookup2 performs a 2-bit lookup based on the given bits and values.
func (builder *builder) Lookup2(b0, b1 frontend.Variable, i0, i1, i2, i3 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(b0, b1, i0, i1, i2, i3)
	s0, s1 := vars[0], vars[1]
	in0, in1, in2, in3 := vars[2], vars[3], vars[4], vars[5]

	// ensure that bits are actually bits. Adds no constraints if the variables
	// are already constrained.
	builder.AssertIsBoolean(s0)
	builder.AssertIsBoolean(s1)

	c0, b0IsConstant := builder.constantValue(s0)
	c1, b1IsConstant := builder.constantValue(s1)

	if b0IsConstant && b1IsConstant {
		b0 := builder.engine.IsOne(c0)
		b1 := builder.engine.IsOne(c1)

		if !b0 && !b1 {
			return in0
		}
		if b0 && !b1 {
			return in1
		}
		if b0 && b1 {
			return in3
		}
		return in2
	}

	// two-bit lookup for the general case can be done with three constraints as
	// following:
	//    (1) (in3 - in2 - in1 + in0) * s1 = tmp1 - in1 + in0
	//    (2) tmp1 * s0 = tmp2
	//    (3) (in2 - in0) * s1 = RES - tmp2 - in0
	// the variables tmp1 and tmp2 are new internal variables and the variables
	// RES will be the returned result

	tmp1 := builder.Add(in3, in0)
	tmp1 = builder.Sub(tmp1, in2, in1)
	tmp1 = builder.Mul(tmp1, s1)
	tmp1 = builder.Add(tmp1, in1)
	tmp1 = builder.Sub(tmp1, in0) // (1) tmp1 = s1 * (in3 - in2 - in1 + in0) + in1 - in0
	tmp2 := builder.Mul(tmp1, s0) // (2) tmp2 = tmp1 * s0
	res := builder.Sub(in2, in0)
	res = builder.Mul(res, s1)
	res = builder.Add(res, tmp2, in0) // (3) res = (v2 - v0) * s1 + tmp2 + in0
	return res
}

// IsZero returns 1 if the given variable is zero, otherwise returns 0.
func (builder *builder) IsZero(i1 frontend.Variable) frontend.Variable {
	vars := builder.toVariables(i1)
	a := vars[0]
	if c, ok := builder.constantValue(a); ok {
		if c.IsZero() {
			return builder.eOne
		}
		return builder.eZero
	}

	// x = 1/a 				// in a hint (x == 0 if a == 0)
	x, err := builder.NewHint(solver.InvZeroHint, 1, a)
	if err != nil {
		// the function errs only if the number of inputs is invalid.
		panic(err)
	}

	// m = -a*x + 1         // constrain m to be 1 if a == 0
	m := builder.Sub(1, builder.Mul(a, x[0]))

	// a * m = 0            // constrain m to be 0 if a != 0
	builder.AssertIsEqual(builder.Mul(a, m), builder.eZero)

	builder.MarkBoolean(m)

	return m
}

// Cmp compares i1 and i2 and returns 1 if i1>i2, 0 if i1=i2, -1 if i1<i2.
func (builder *builder) Cmp(i1, i2 frontend.Variable) frontend.Variable {
	nbBits := builder.engine.FieldBitLen()
	// in AssertIsLessOrEq we omitted comparison against modulus for the left
	// side as if `a+r<b` implies `a<b`, then here we compute the inequality
	// directly.
	bi1 := bits.ToBinary(builder, i1, bits.WithNbDigits(nbBits))
	bi2 := bits.ToBinary(builder, i2, bits.WithNbDigits(nbBits))

	var res frontend.Variable
	res = builder.eZero

	for i := builder.engine.FieldBitLen() - 1; i >= 0; i-- {

		iszeroi1 := builder.IsZero(bi1[i])
		iszeroi2 := builder.IsZero(bi2[i])

		i1i2 := builder.And(bi1[i], iszeroi2)
		i2i1 := builder.And(bi2[i], iszeroi1)

		n := builder.Select(i2i1, -1, 0)
		m := builder.Select(i1i2, 1, n)

		res = builder.Select(builder.IsZero(res), m, res)

	}
	return res
}

// Println is not implemented and will panic if called.
func (builder *builder) Println(a ...frontend.Variable) {
	panic("unimplemented")
}

// Compiler returns itself as it implements the frontend.Compiler interface.
func (builder *builder) Compiler() frontend.Compiler {
	return builder
}

// Commit is faulty in its current implementation as it merely returns a compile-time random number.
func (builder *builder) Commit(v ...frontend.Variable) (frontend.Variable, error) {
	if !builder.root.commitWarned {
		builder.root.commitWarned = true
		fmt.Println("Warning: Commit uses a compile-time random number, which is not secure!")
	}
	return rand.Int(rand.Reader, builder.Field())
}

// SetGkrInfo is not implemented and will panic if called.
func (builder *builder) SetGkrInfo(info constraint.GkrInfo) error {
	panic("unimplemented")
}
