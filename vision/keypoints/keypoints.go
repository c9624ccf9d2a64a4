// Package keypoints samples dense descriptor maps at keypoint locations and matches the
// resulting descriptors between images.
package keypoints

import (
	"github.com/golang/geo/r2"
)

// KeyPoints is an ordered set of subpixel keypoint locations; X runs along image columns and Y
// along image rows.
type KeyPoints []r2.Point

// ImageSize is the size in pixels of the image keypoints were detected in.
type ImageSize struct {
	Height int `json:"height"`
	Width  int `json:"width"`
}

// ScaleKeyPoints returns a copy of kps with X multiplied by sx and Y by sy.
func ScaleKeyPoints(kps KeyPoints, sx, sy float64) KeyPoints {
	scaled := make(KeyPoints, len(kps))
	for i, kp := range kps {
		scaled[i] = r2.Point{X: kp.X * sx, Y: kp.Y * sy}
	}
	return scaled
}
