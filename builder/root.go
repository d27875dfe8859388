package builder

import (
	"math/big"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/schema"

	"github.com/zkfoundry/plonk-compiler/expr"
	"github.com/zkfoundry/plonk-compiler/field"
)

// Root drives the construction of one circuit. It implements
// frontend.Builder; gnark's frontend.Compile allocates the external input
// variables through PublicVariable and SecretVariable before running Define.
type Root struct {
	*builder
	engine field.Field
	config frontend.CompileConfig

	publicVariables []int

	finalized *BuildCS

	commitWarned bool
}

// NewRoot returns a builder for a circuit over the given field order.
func NewRoot(fieldOrder *big.Int, config frontend.CompileConfig) *Root {
	root := Root{
		config: config,
	}
	root.engine = field.GetFieldFromOrder(fieldOrder)
	root.builder = root.newBuilder()
	return &root
}

// PublicVariable creates a new public variable. It is bound to the instance
// column in Finalize.
func (r *Root) PublicVariable(f schema.LeafInfo) frontend.Variable {
	res := r.SecretVariable(f)
	r.publicVariables = append(r.publicVariables, res.(expr.LinComb).VID)
	return res
}

// SecretVariable creates a new secret variable.
func (r *Root) SecretVariable(f schema.LeafInfo) frontend.Variable {
	r.builder.nbExternalInput++
	return expr.NewVariable(r.cs.allocVar(constraint.Element{}, false), r.builder.tOne)
}

// NbExternalInput returns the number of input variables declared by the
// circuit definition, public ones first.
func (r *Root) NbExternalInput() int {
	return r.builder.nbExternalInput
}
