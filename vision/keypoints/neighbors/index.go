// Package neighbors implements nearest neighbor search over descriptor sets.
package neighbors

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mlopezantequera/hfnet/vision/keypoints/descriptors"
)

// IndexType selects a nearest neighbor search algorithm.
type IndexType string

const (
	// BruteForce compares every query with every train descriptor. Works for every kind.
	BruteForce IndexType = "brute_force"
	// KDTree searches a k-d tree built over the train descriptors. Real descriptors only.
	KDTree IndexType = "kd_tree"
)

var (
	// ErrUnsupportedKind is returned when an index cannot handle the kind of a descriptor set.
	ErrUnsupportedKind = errors.New("descriptor kind not supported by index")
	// ErrUnknownIndexType is returned for an IndexType that is not implemented.
	ErrUnknownIndexType = errors.New("unknown index type")
)

// Neighbor is a train descriptor found for a query.
type Neighbor struct {
	Index    int
	Distance float32
}

// Index finds the nearest train descriptors of query descriptors.
type Index interface {
	// Search returns, for every descriptor of queries in order, its k nearest train descriptors
	// closest first. Fewer than k neighbors are returned when the index holds fewer than k
	// descriptors. Equidistant neighbors are ordered by increasing train index.
	Search(ctx context.Context, queries *descriptors.Set, k int) ([][]Neighbor, error)
	// Len returns the number of train descriptors.
	Len() int
}

// NewIndex builds an index of the given type over train.
func NewIndex(indexType IndexType, train *descriptors.Set) (Index, error) {
	if train == nil {
		return nil, errors.New("train descriptors are nil")
	}
	switch indexType {
	case BruteForce, "":
		return NewBruteForceIndex(train), nil
	case KDTree:
		return NewKDTreeIndex(train)
	default:
		return nil, errors.Wrapf(ErrUnknownIndexType, "%q", indexType)
	}
}

func checkQueries(train, queries *descriptors.Set, k int) error {
	if queries == nil {
		return errors.New("query descriptors are nil")
	}
	if k < 1 {
		return errors.Errorf("number of neighbors should be >= 1, got %d", k)
	}
	return queries.CheckCompatible(train)
}

// insertNeighbor inserts n into best, which is sorted closest first and holds at most k
// neighbors. A neighbor only displaces strictly farther ones, so for equal distances the one
// inserted first wins.
func insertNeighbor(best []Neighbor, n Neighbor, k int) []Neighbor {
	pos := len(best)
	for pos > 0 && n.Distance < best[pos-1].Distance {
		pos--
	}
	if pos >= k {
		return best
	}
	if len(best) < k {
		best = append(best, Neighbor{})
	}
	copy(best[pos+1:], best[pos:len(best)-1])
	best[pos] = n
	return best
}
