package neighbors

import (
	"context"

	"github.com/mlopezantequera/hfnet/utils"
	"github.com/mlopezantequera/hfnet/vision/keypoints/descriptors"
)

type bruteForceIndex struct {
	train *descriptors.Set
}

// NewBruteForceIndex returns an index that scans every train descriptor for each query. Queries
// are processed in parallel; results do not depend on scheduling.
func NewBruteForceIndex(train *descriptors.Set) Index {
	return &bruteForceIndex{train: train}
}

func (bf *bruteForceIndex) Len() int {
	return bf.train.Len()
}

func (bf *bruteForceIndex) Search(ctx context.Context, queries *descriptors.Set, k int) ([][]Neighbor, error) {
	if err := checkQueries(bf.train, queries, k); err != nil {
		return nil, err
	}
	results := make([][]Neighbor, queries.Len())
	nTrain := bf.train.Len()
	if nTrain == 0 {
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
				best := make([]Neighbor, 0, k)
				for trainIdx := 0; trainIdx < nTrain; trainIdx++ {
					d := queries.Distance(queryIdx, bf.train, trainIdx)
					best = insertNeighbor(best, Neighbor{Index: trainIdx, Distance: d}, k)
				}
				results[queryIdx] = best
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return results, nil
}
