package keypoints

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/mlopezantequera/hfnet/utils"
)

// SampleBilinear interpolates the descriptor map at points given in map coordinates (X along
// columns, Y along rows). The map is treated as padded with one cell of zeros on every border,
// so samples fade to zero outside the map instead of failing.
func SampleBilinear(dm *DescriptorMap, points []r2.Point) [][]float64 {
	// coordinates in the padded map
	maxX := float64(dm.width + 1)
	maxY := float64(dm.height + 1)

	out := make([][]float64, len(points))
	for i, p := range points {
		x, y := p.X+1, p.Y+1
		x0 := utils.Clamp(math.Floor(x), 0, maxX)
		x1 := utils.Clamp(math.Floor(x)+1, 0, maxX)
		y0 := utils.Clamp(math.Floor(y), 0, maxY)
		y1 := utils.Clamp(math.Floor(y)+1, 0, maxY)

		// weights come from the clamped lattice so that far outside the map they cancel out
		wa := (x1 - x) * (y1 - y)
		wb := (x1 - x) * (y - y0)
		wc := (x - x0) * (y1 - y)
		wd := (x - x0) * (y - y0)

		desc := make([]float64, dm.dims)
		addWeighted(desc, wa, dm.padded(int(y0), int(x0)))
		addWeighted(desc, wb, dm.padded(int(y1), int(x0)))
		addWeighted(desc, wc, dm.padded(int(y0), int(x1)))
		addWeighted(desc, wd, dm.padded(int(y1), int(x1)))
		out[i] = desc
	}
	return out
}

func addWeighted(dst []float64, w float64, cell []float64) {
	if cell == nil || w == 0 {
		return
	}
	floats.AddScaled(dst, w, cell)
}

// Normalize divides v by its euclidean norm, in place. A zero vector becomes NaN.
func Normalize(v []float64) {
	floats.Scale(1/floats.Norm(v, 2), v)
}

// SampleDescriptors samples the descriptor map at keypoints detected in an image of the given
// size and returns one L2 normalized descriptor per keypoint. The map may be smaller than the
// image; keypoints are rescaled to the map grid first. A descriptor that is not finite after
// normalization, e.g. one sampled far outside the map, is an error.
func SampleDescriptors(dm *DescriptorMap, kps KeyPoints, size ImageSize) ([][]float64, error) {
	if dm == nil {
		return nil, errors.New("descriptor map is nil")
	}
	if size.Height <= 0 || size.Width <= 0 {
		return nil, errors.Errorf("invalid image size %dx%d", size.Height, size.Width)
	}
	for i, kp := range kps {
		if !utils.IsFinite([]float64{kp.X, kp.Y}) {
			return nil, errors.Wrapf(ErrInvalidKeyPoint, "keypoint %d at (%v, %v)", i, kp.X, kp.Y)
		}
	}
	// the map is indexed (row, col) while keypoints are (x, y)
	scaleY := float64(dm.height) / float64(size.Height)
	scaleX := float64(dm.width) / float64(size.Width)

	descs := SampleBilinear(dm, ScaleKeyPoints(kps, scaleX, scaleY))
	for i, desc := range descs {
		Normalize(desc)
		if !utils.IsFinite(desc) {
			return nil, errors.Wrapf(ErrNonFiniteDescriptor, "keypoint %d at (%v, %v)", i, kps[i].X, kps[i].Y)
		}
	}
	return descs, nil
}
