package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestEuclideanDistance(t *testing.T) {
	test.That(t, float64(EuclideanDistance32([]float32{0, 0}, []float32{3, 4})), test.ShouldAlmostEqual, 5., 1e-6)
	test.That(t, float64(EuclideanDistance32([]float32{1, 2, 3}, []float32{1, 2, 3})), test.ShouldEqual, 0.)

	test.That(t, float64(EuclideanDistance32([]float32{1, -1, 2}, []float32{0, 1, 0})), test.ShouldAlmostEqual, 3., 1e-6)
	test.That(t, EuclideanDistance32(nil, nil), test.ShouldEqual, float32(0))

	test.That(t, SquaredEuclideanDistance([]float64{1, 1}, []float64{2, 3}), test.ShouldAlmostEqual, 5.)
}

func TestHammingDistance(t *testing.T) {
	test.That(t, HammingDistance([]uint64{0}, []uint64{0}), test.ShouldEqual, 0)
	test.That(t, HammingDistance([]uint64{0b1011}, []uint64{0b0001}), test.ShouldEqual, 2)
	test.That(t, HammingDistance(
		[]uint64{math.MaxUint64, 0},
		[]uint64{0, 1<<63 | 1},
	), test.ShouldEqual, 66)
}

func TestIsFinite(t *testing.T) {
	test.That(t, IsFinite([]float64{0, 1, -2}), test.ShouldBeTrue)
	test.That(t, IsFinite([]float64{0, math.NaN()}), test.ShouldBeFalse)
	test.That(t, IsFinite([]float64{math.Inf(-1)}), test.ShouldBeFalse)
	test.That(t, IsFinite(nil), test.ShouldBeTrue)
}

func TestEuclideanDistance32DoesNotAllocate(t *testing.T) {
	p1 := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	p2 := []float32{8, 7, 6, 5, 4, 3, 2, 1}
	allocs := testing.AllocsPerRun(100, func() {
		EuclideanDistance32(p1, p2)
	})
	test.That(t, allocs, test.ShouldEqual, 0.)
}

func TestDistanceTypeString(t *testing.T) {
	test.That(t, Euclidean.String(), test.ShouldEqual, "euclidean")
	test.That(t, Hamming.String(), test.ShouldEqual, "hamming")
	test.That(t, DistanceType(7).String(), test.ShouldEqual, "unknown")
}
