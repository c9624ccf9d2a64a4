package neighbors

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/mlopezantequera/hfnet/utils"
	"github.com/mlopezantequera/hfnet/vision/keypoints/descriptors"
)

// kdPoint is a train descriptor stored in the tree along with its position in the train set.
type kdPoint struct {
	idx int
	vec []float64
}

// Compare returns the signed distance of p from the plane passing through c and perpendicular
// to dimension d.
func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	return p.vec[d] - q.vec[d]
}

// Dims returns the number of dimensions described by the receiver.
func (p kdPoint) Dims() int { return len(p.vec) }

// Distance returns the squared euclidean distance between c and the receiver.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	return utils.SquaredEuclideanDistance(p.vec, q.vec)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p kdPoints) Len() int                              { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int                { return kdPlane{dim: d, points: p}.Pivot() }
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// kdPlane is a kdtree.SortSlicer ordering points along one dimension.
type kdPlane struct {
	dim    kdtree.Dim
	points kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.points[i].vec[p.dim] < p.points[j].vec[p.dim]
}
func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p kdPlane) Len() int { return len(p.points) }

type kdTreeIndex struct {
	train *descriptors.Set
	tree  *kdtree.Tree
}

// NewKDTreeIndex returns an index searching a k-d tree built over Real train descriptors.
// Neighbors are searched in double precision and reported with the single precision euclidean
// distance, as the brute force index does. Among exactly equidistant train descriptors the
// tree may return any of them.
func NewKDTreeIndex(train *descriptors.Set) (Index, error) {
	if train.Kind() != descriptors.Real {
		return nil, errors.Wrapf(ErrUnsupportedKind, "kd-tree cannot index %s descriptors", train.Kind())
	}
	if train.Len() > 0 && train.Dims() == 0 {
		return nil, errors.New("cannot build a kd-tree over zero dimensional descriptors")
	}
	points := make(kdPoints, train.Len())
	for i := range points {
		points[i] = kdPoint{idx: i, vec: toFloat64(train.Real(i))}
	}
	idx := &kdTreeIndex{train: train}
	if len(points) > 0 {
		idx.tree = kdtree.New(points, false)
	}
	return idx, nil
}

func (kd *kdTreeIndex) Len() int {
	return kd.train.Len()
}

func (kd *kdTreeIndex) Search(ctx context.Context, queries *descriptors.Set, k int) ([][]Neighbor, error) {
	if err := checkQueries(kd.train, queries, k); err != nil {
		return nil, err
	}
	results := make([][]Neighbor, queries.Len())
	if kd.tree == nil {
		for i := range results {
			results[i] = []Neighbor{}
		}
		return results, nil
	}
	err := utils.GroupWorkParallel(
		ctx,
		queries.Len(),
		nil,
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, queryIdx int) {
				results[queryIdx] = kd.searchOne(queries, queryIdx, k)
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (kd *kdTreeIndex) searchOne(queries *descriptors.Set, queryIdx, k int) []Neighbor {
	keeper := kdtree.NewNKeeper(k)
	kd.tree.NearestSet(keeper, kdPoint{idx: -1, vec: toFloat64(queries.Real(queryIdx))})

	found := make([]Neighbor, 0, k)
	for _, c := range keeper.Heap {
		// the keeper starts with an empty sentinel entry
		if c.Comparable == nil {
			continue
		}
		trainIdx := c.Comparable.(kdPoint).idx
		found = append(found, Neighbor{
			Index:    trainIdx,
			Distance: queries.Distance(queryIdx, kd.train, trainIdx),
		})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Distance != found[j].Distance {
			return found[i].Distance < found[j].Distance
		}
		return found[i].Index < found[j].Index
	})
	if len(found) > k {
		found = found[:k]
	}
	return found
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
