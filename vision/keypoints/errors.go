package keypoints

import "github.com/pkg/errors"

var (
	// ErrNonFiniteDescriptor is returned when a sampled descriptor holds NaN or infinite values,
	// e.g. when it samples only zeros and cannot be normalized.
	ErrNonFiniteDescriptor = errors.New("sampled descriptor is not finite")
	// ErrInvalidKeyPoint is returned for keypoints with NaN or infinite coordinates.
	ErrInvalidKeyPoint = errors.New("keypoint coordinates are not finite")
	// ErrTooFewTrainDescriptors is returned by the ratio test when the second set holds fewer
	// than two descriptors.
	ErrTooFewTrainDescriptors = errors.New("ratio test needs at least two descriptors in second set")
)
