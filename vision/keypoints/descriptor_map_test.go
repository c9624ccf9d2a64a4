package keypoints

import (
	"testing"

	"go.viam.com/test"
	"gorgonia.org/tensor"
)

func TestNewDescriptorMap(t *testing.T) {
	dm, err := NewDescriptorMap(2, 3, 2, []float64{
		0, 1, 2, 3, 4, 5,
		6, 7, 8, 9, 10, 11,
	})
	test.That(t, err, test.ShouldBeNil)
	h, w, d := dm.Dims()
	test.That(t, h, test.ShouldEqual, 2)
	test.That(t, w, test.ShouldEqual, 3)
	test.That(t, d, test.ShouldEqual, 2)
	test.That(t, dm.At(0, 0), test.ShouldResemble, []float64{0, 1})
	test.That(t, dm.At(1, 2), test.ShouldResemble, []float64{10, 11})

	// the padded view is shifted by one and zero on the border
	test.That(t, dm.padded(1, 1), test.ShouldResemble, []float64{0, 1})
	test.That(t, dm.padded(2, 3), test.ShouldResemble, []float64{10, 11})
	test.That(t, dm.padded(0, 1), test.ShouldBeNil)
	test.That(t, dm.padded(1, 4), test.ShouldBeNil)
	test.That(t, dm.padded(3, 1), test.ShouldBeNil)

	_, err = NewDescriptorMap(2, 3, 2, []float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewDescriptorMap(0, 3, 2, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewDescriptorMapFromTensor(t *testing.T) {
	t32 := tensor.New(tensor.WithShape(2, 2, 1), tensor.WithBacking([]float32{0, 1, 2, 3}))
	dm, err := NewDescriptorMapFromTensor(t32)
	test.That(t, err, test.ShouldBeNil)
	h, w, d := dm.Dims()
	test.That(t, []int{h, w, d}, test.ShouldResemble, []int{2, 2, 1})
	test.That(t, dm.At(1, 0), test.ShouldResemble, []float64{2})

	t64 := tensor.New(tensor.WithShape(1, 1, 2, 3), tensor.WithBacking([]float64{1, 2, 3, 4, 5, 6}))
	dm, err = NewDescriptorMapFromTensor(t64)
	test.That(t, err, test.ShouldBeNil)
	h, w, d = dm.Dims()
	test.That(t, []int{h, w, d}, test.ShouldResemble, []int{1, 2, 3})
	test.That(t, dm.At(0, 1), test.ShouldResemble, []float64{4, 5, 6})

	batch := tensor.New(tensor.WithShape(2, 1, 1, 1), tensor.WithBacking([]float32{1, 2}))
	_, err = NewDescriptorMapFromTensor(batch)
	test.That(t, err, test.ShouldNotBeNil)

	flat := tensor.New(tensor.WithShape(4), tensor.WithBacking([]float32{1, 2, 3, 4}))
	_, err = NewDescriptorMapFromTensor(flat)
	test.That(t, err, test.ShouldNotBeNil)

	ints := tensor.New(tensor.WithShape(1, 2, 1), tensor.WithBacking([]int{1, 2}))
	_, err = NewDescriptorMapFromTensor(ints)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewDescriptorMapFromTensor(nil)
	test.That(t, err, test.ShouldNotBeNil)
}
