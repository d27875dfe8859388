package builder

import (
	"sort"

	"github.com/zkfoundry/plonk-compiler/expr"
)

// Finalize runs the deferred callbacks, lowers the pending boolean
// assertions, binds the public variables to the instance column and freezes
// the constraint system.
func (r *Root) Finalize() (*BuildCS, error) {
	// defers may change during the process
	for i := 0; i < len(r.builder.defers); i++ {
		cb := r.builder.defers[i]
		if err := cb(r.builder); err != nil {
			return nil, err
		}
	}

	if err := r.builder.flushBooleans(); err != nil {
		return nil, err
	}

	for _, id := range r.publicVariables {
		if _, err := r.cs.Inputize(expr.NewVariable(id, r.builder.tOne)); err != nil {
			return nil, err
		}
	}

	r.cs.Freeze()
	r.finalized = r.cs
	return r.cs, nil
}

func shouldAssert(x interface{}) bool {
	return x.(constraintStatus) == asserted
}

// flushBooleans lowers every asserted boolean combination to one gate
// x*(1-x) == 0. Marked-only combinations are already constrained elsewhere
// and are skipped.
func (builder *builder) flushBooleans() error {
	keys := builder.booleans.FilterKeys(shouldAssert)
	lcs := make([]expr.LinComb, len(keys))
	for i, e := range keys {
		lcs[i] = e.(expr.LinComb)
	}
	// gate order must not depend on map iteration
	sort.Slice(lcs, func(i, j int) bool {
		if lcs[i].VID != lcs[j].VID {
			return lcs[i].VID < lcs[j].VID
		}
		if lcs[i].Coeff != lcs[j].Coeff {
			for k := range lcs[i].Coeff {
				if lcs[i].Coeff[k] != lcs[j].Coeff[k] {
					return lcs[i].Coeff[k] < lcs[j].Coeff[k]
				}
			}
		}
		for k := range lcs[i].Constant {
			if lcs[i].Constant[k] != lcs[j].Constant[k] {
				return lcs[i].Constant[k] < lcs[j].Constant[k]
			}
		}
		return false
	})
	for _, x := range lcs {
		if err := builder.cs.EnforceMul(x, builder.subLC(builder.eOne, x), builder.eZero); err != nil {
			return err
		}
	}
	builder.booleans.Clear()
	return nil
}
