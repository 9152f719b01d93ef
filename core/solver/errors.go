package solver

import "errors"

// ErrInfeasibleInsertion is returned when a request has no feasible
// insertion position on any vehicle. The schedule visible to the caller
// is never left partially mutated by the failing iteration.
var ErrInfeasibleInsertion = errors.New("solver: no feasible insertion")

// ErrInternalConsistency signals a computation defect such as a negative
// objective value. It is not recoverable by the caller.
var ErrInternalConsistency = errors.New("solver: internal consistency violation")
