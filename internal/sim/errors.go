package sim

import "errors"

// Domain errors for world construction.
var (
	// ErrInvalidJoint indicates a malformed joint configuration
	// (empty thresholds, mismatched damping count, or a bad source).
	ErrInvalidJoint = errors.New("sim: invalid joint configuration")
)
