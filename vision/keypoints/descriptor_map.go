package keypoints

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// DescriptorMap is a dense H×W grid of D dimensional descriptors, stored row major with the
// descriptor axis last.
type DescriptorMap struct {
	height, width, dims int
	data                []float64
}

// NewDescriptorMap wraps data, laid out as (row, column, descriptor), in a DescriptorMap. The
// slice is not copied and must not be modified afterwards.
func NewDescriptorMap(height, width, dims int, data []float64) (*DescriptorMap, error) {
	if height <= 0 || width <= 0 || dims <= 0 {
		return nil, errors.Errorf("invalid descriptor map shape (%d, %d, %d)", height, width, dims)
	}
	if len(data) != height*width*dims {
		return nil, errors.Errorf("descriptor map of shape (%d, %d, %d) needs %d values, got %d",
			height, width, dims, height*width*dims, len(data))
	}
	return &DescriptorMap{height: height, width: width, dims: dims, data: data}, nil
}

// NewDescriptorMapFromTensor converts the output of a descriptor network, a float32 or float64
// tensor of shape (H, W, D) or (1, H, W, D), into a DescriptorMap.
func NewDescriptorMapFromTensor(t *tensor.Dense) (*DescriptorMap, error) {
	if t == nil {
		return nil, errors.New("tensor is nil")
	}
	shape := t.Shape().Clone()
	if len(shape) == 4 {
		if shape[0] != 1 {
			return nil, errors.Errorf("expected a batch of one descriptor map, got shape %v", shape)
		}
		shape = shape[1:]
	}
	if len(shape) != 3 {
		return nil, errors.Errorf("expected a tensor of shape (H, W, D), got shape %v", t.Shape())
	}
	if t.IsMaterializable() {
		materialized, ok := t.Materialize().(*tensor.Dense)
		if !ok {
			return nil, errors.New("could not materialize tensor view")
		}
		t = materialized
	}

	var data []float64
	switch backing := t.Data().(type) {
	case []float32:
		data = make([]float64, len(backing))
		for i, v := range backing {
			data[i] = float64(v)
		}
	case []float64:
		data = append(make([]float64, 0, len(backing)), backing...)
	case float32:
		data = []float64{float64(backing)}
	case float64:
		data = []float64{backing}
	default:
		return nil, errors.Errorf("don't know how to read descriptor map of type %v", t.Dtype())
	}
	return NewDescriptorMap(shape[0], shape[1], shape[2], data)
}

// Dims returns the height, width and descriptor dimension of the map.
func (dm *DescriptorMap) Dims() (height, width, dims int) {
	return dm.height, dm.width, dm.dims
}

// At returns the descriptor of the cell at row y and column x. The returned slice aliases the
// map and must not be modified.
func (dm *DescriptorMap) At(y, x int) []float64 {
	start := (y*dm.width + x) * dm.dims
	return dm.data[start : start+dm.dims]
}

// padded returns the descriptor at (y, x) of the map padded with one cell of zeros on every
// border, or nil for a border cell.
func (dm *DescriptorMap) padded(y, x int) []float64 {
	if y <= 0 || x <= 0 || y > dm.height || x > dm.width {
		return nil
	}
	return dm.At(y-1, x-1)
}
