package descriptors

import "github.com/pkg/errors"

var (
	// ErrMismatchedKinds is returned when a Real set is compared with a Binary set.
	ErrMismatchedKinds = errors.New("descriptor sets have different kinds")
	// ErrMismatchDimension is returned when descriptors of different lengths are mixed.
	ErrMismatchDimension = errors.New("descriptors with mismatch dimension")
)
