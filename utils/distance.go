package utils

import (
	"math"

	"github.com/steakknife/hamming"
)

// DistanceType defines the type of distance used in a function.
type DistanceType int

const (
	// Euclidean is DistanceType 0.
	Euclidean DistanceType = iota
	// Hamming is DistanceType 1.
	Hamming
)

func (dt DistanceType) String() string {
	switch dt {
	case Euclidean:
		return "euclidean"
	case Hamming:
		return "hamming"
	default:
		return "unknown"
	}
}

// EuclideanDistance32 computes the euclidean distance between 2 single precision vectors. Both
// vectors must have the same length; this is not checked. The sum is accumulated in single
// precision.
func EuclideanDistance32(p1, p2 []float32) float32 {
	var dist float32
	for i := range p1 {
		d := p1[i] - p2[i]
		dist += d * d
	}
	return float32(math.Sqrt(float64(dist)))
}

// SquaredEuclideanDistance computes the squared euclidean distance between 2 vectors of the same
// length.
func SquaredEuclideanDistance(p1, p2 []float64) float64 {
	var dist float64
	for i := range p1 {
		d := p1[i] - p2[i]
		dist += d * d
	}
	return dist
}

// HammingDistance computes the number of differing bits between two bit packed vectors. Both
// vectors must have the same number of words; this is not checked.
func HammingDistance(p1, p2 []uint64) int {
	dist := 0
	for i := range p1 {
		dist += hamming.CountBitsUint64(p1[i] ^ p2[i])
	}
	return dist
}

// IsFinite reports whether every value of v is neither NaN nor infinite.
func IsFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
