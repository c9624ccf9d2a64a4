package keypoints

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/mlopezantequera/hfnet/logging"
	"github.com/mlopezantequera/hfnet/vision/keypoints/descriptors"
	"github.com/mlopezantequera/hfnet/vision/keypoints/neighbors"
)

// MatchingConfig contains the parameters for matching descriptors.
//
// UseRatioTest and CrossCheck are alternative filters: when UseRatioTest is set, CrossCheck is
// ignored.
type MatchingConfig struct {
	// UseRatioTest reports, for every descriptor of the first set, its nearest neighbor with the
	// distance replaced by the ratio of the best to the second best distance.
	UseRatioTest bool `json:"use_ratio_test"`
	// CrossCheck keeps only mutual nearest neighbors.
	CrossCheck bool `json:"cross_check"`
	// Index is the nearest neighbor search used; brute force when empty.
	Index neighbors.IndexType `json:"index"`
}

// DefaultMatchingConfig returns the default matching parameters: direct matching with cross
// check, using brute force search.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		UseRatioTest: false,
		CrossCheck:   true,
		Index:        neighbors.BruteForce,
	}
}

// LoadMatchingConfiguration loads a MatchingConfig from a json file. Fields missing from the
// file keep their default value.
func LoadMatchingConfiguration(file string) (*MatchingConfig, error) {
	config := DefaultMatchingConfig()
	filePath := filepath.Clean(file)
	//nolint:gosec
	configFile, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer utils.UncheckedErrorFunc(configFile.Close)
	jsonParser := json.NewDecoder(configFile)
	if err := jsonParser.Decode(config); err != nil {
		return nil, err
	}
	if err := config.Validate(file); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate ensures all parts of the MatchingConfig are valid.
func (config *MatchingConfig) Validate(path string) error {
	switch config.Index {
	case "", neighbors.BruteForce, neighbors.KDTree:
	default:
		return utils.NewConfigValidationError(path,
			errors.Errorf("index should be one of %q or %q, got %q", neighbors.BruteForce, neighbors.KDTree, config.Index))
	}
	return nil
}

// DescriptorMatch contains the index of a match in the first and second set of descriptors and
// the matching distance. In ratio test mode Distance holds the distance ratio.
type DescriptorMatch struct {
	Idx1     int
	Idx2     int
	Distance float32
}

// DescriptorMatches contains the matches between two sets of descriptors, in the order of the
// first set.
type DescriptorMatches struct {
	Matches []DescriptorMatch
}

// Indices returns the matches as (index in first set, index in second set) pairs.
func (dm *DescriptorMatches) Indices() [][2]int {
	indices := make([][2]int, len(dm.Matches))
	for i, m := range dm.Matches {
		indices[i] = [2]int{m.Idx1, m.Idx2}
	}
	return indices
}

// Distances returns the distance of every match.
func (dm *DescriptorMatches) Distances() []float32 {
	dists := make([]float32, len(dm.Matches))
	for i, m := range dm.Matches {
		dists[i] = m.Distance
	}
	return dists
}

// FilterByDistance returns the matches whose distance, or ratio, is strictly below maxDistance.
func (dm *DescriptorMatches) FilterByDistance(maxDistance float32) *DescriptorMatches {
	kept := make([]DescriptorMatch, 0, len(dm.Matches))
	for _, m := range dm.Matches {
		if m.Distance < maxDistance {
			kept = append(kept, m)
		}
	}
	return &DescriptorMatches{Matches: kept}
}

// MatchDescriptors takes 2 sets of descriptors and performs matching. Both sets must have the
// same kind; binary descriptors are compared with the hamming distance and real descriptors with
// the euclidean distance in single precision. Empty sets give no matches. A nil cfg uses
// DefaultMatchingConfig and a nil logger the global logger.
//
// In ratio test mode every descriptor of desc1 is matched and no threshold is applied; use
// FilterByDistance to keep the confident ones. Otherwise each descriptor of desc1 is matched to
// its nearest neighbor in desc2, and with CrossCheck only pairs that are nearest neighbors of
// each other are kept.
func MatchDescriptors(
	ctx context.Context,
	desc1, desc2 *descriptors.Set,
	cfg *MatchingConfig,
	logger logging.Logger,
) (*DescriptorMatches, error) {
	if desc1 == nil || desc2 == nil {
		return nil, errors.New("descriptor sets must not be nil")
	}
	if cfg == nil {
		cfg = DefaultMatchingConfig()
	}
	if logger == nil {
		logger = logging.Global()
	}
	if err := desc1.CheckCompatible(desc2); err != nil {
		return nil, err
	}
	if desc1.Len() == 0 || desc2.Len() == 0 {
		return &DescriptorMatches{Matches: []DescriptorMatch{}}, nil
	}

	index2, err := neighbors.NewIndex(cfg.Index, desc2)
	if err != nil {
		return nil, err
	}
	var matches []DescriptorMatch
	if cfg.UseRatioTest {
		if cfg.CrossCheck {
			logger.Debug("cross check is ignored when matching with the ratio test")
		}
		matches, err = ratioTestMatches(ctx, desc1, index2)
	} else {
		matches, err = nearestMatches(ctx, desc1, desc2, index2, cfg)
	}
	if err != nil {
		return nil, err
	}
	logger.Debugw("matched descriptors",
		"kind", desc1.Kind().String(),
		"ratio_test", cfg.UseRatioTest,
		"cross_check", cfg.CrossCheck && !cfg.UseRatioTest,
		"n1", desc1.Len(),
		"n2", desc2.Len(),
		"matches", len(matches),
	)
	return &DescriptorMatches{Matches: matches}, nil
}

func ratioTestMatches(ctx context.Context, desc1 *descriptors.Set, index2 neighbors.Index) ([]DescriptorMatch, error) {
	if index2.Len() < 2 {
		return nil, errors.Wrapf(ErrTooFewTrainDescriptors, "got %d", index2.Len())
	}
	knn, err := index2.Search(ctx, desc1, 2)
	if err != nil {
		return nil, err
	}
	matches := make([]DescriptorMatch, len(knn))
	for i, nn := range knn {
		best, second := nn[0], nn[1]
		ratio := float32(1)
		// two identical distances, including both zero, are the least distinctive match
		if second.Distance > 0 {
			ratio = best.Distance / second.Distance
		}
		matches[i] = DescriptorMatch{Idx1: i, Idx2: best.Index, Distance: ratio}
	}
	return matches, nil
}

func nearestMatches(
	ctx context.Context,
	desc1, desc2 *descriptors.Set,
	index2 neighbors.Index,
	cfg *MatchingConfig,
) ([]DescriptorMatch, error) {
	forward, err := index2.Search(ctx, desc1, 1)
	if err != nil {
		return nil, err
	}
	var backward [][]neighbors.Neighbor
	if cfg.CrossCheck {
		index1, err := neighbors.NewIndex(cfg.Index, desc1)
		if err != nil {
			return nil, err
		}
		backward, err = index1.Search(ctx, desc2, 1)
		if err != nil {
			return nil, err
		}
	}
	matches := make([]DescriptorMatch, 0, len(forward))
	for i, nn := range forward {
		best := nn[0]
		if backward != nil && backward[best.Index][0].Index != i {
			continue
		}
		matches = append(matches, DescriptorMatch{Idx1: i, Idx2: best.Index, Distance: best.Distance})
	}
	return matches, nil
}

// GetMatchingKeyPoints takes the matches and the keypoints and returns the corresponding keypoints
// that are matched.
func GetMatchingKeyPoints(matches *DescriptorMatches, kps1, kps2 KeyPoints) (KeyPoints, KeyPoints, error) {
	matchedKps1 := make(KeyPoints, len(matches.Matches))
	matchedKps2 := make(KeyPoints, len(matches.Matches))
	for i, match := range matches.Matches {
		if match.Idx1 < 0 || match.Idx1 >= len(kps1) {
			return nil, nil, errors.Errorf("match %d refers to keypoint %d of first set, which has %d", i, match.Idx1, len(kps1))
		}
		if match.Idx2 < 0 || match.Idx2 >= len(kps2) {
			return nil, nil, errors.Errorf("match %d refers to keypoint %d of second set, which has %d", i, match.Idx2, len(kps2))
		}
		matchedKps1[i] = kps1[match.Idx1]
		matchedKps2[i] = kps2[match.Idx2]
	}
	return matchedKps1, matchedKps2, nil
}
