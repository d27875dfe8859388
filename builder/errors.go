package builder

import "fmt"

// UnsatisfiedConstraintError reports a constraint whose arithmetic identity
// already fails on the known witness values.
type UnsatisfiedConstraintError struct {
	Gate     int
	Residual string
}

func (e UnsatisfiedConstraintError) Error() string {
	return fmt.Sprintf("constraint %d is not satisfied, residual %s", e.Gate, e.Residual)
}

// DuplicatePublicIndexError reports an Inputize call on a witness index that
// is already bound to the instance column.
type DuplicatePublicIndexError struct {
	Index int
}

func (e DuplicatePublicIndexError) Error() string {
	return fmt.Sprintf("witness index %d is already a public input", e.Index)
}

// IndexOutOfRangeError reports an access outside the witness vector.
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("witness index %d out of range, size %d", e.Index, e.Size)
}
