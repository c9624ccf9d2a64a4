// Package descriptors holds sets of keypoint descriptors. A set is either real valued or binary;
// the kind is fixed when the set is built and selects the distance used to compare descriptors
// (euclidean for Real, hamming for Binary).
package descriptors

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/mlopezantequera/hfnet/utils"
)

// Kind is the representation of the descriptors of a Set.
type Kind int

const (
	// Real descriptors are float vectors, compared with the euclidean distance.
	Real Kind = iota
	// Binary descriptors are bit vectors, compared with the hamming distance.
	Binary
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "real"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Distance returns the distance type used to compare descriptors of this kind.
func (k Kind) Distance() utils.DistanceType {
	if k == Binary {
		return utils.Hamming
	}
	return utils.Euclidean
}

// wordSize is the number of bits stored per word of a binary descriptor.
const wordSize = 64

// Descriptor is a bit packed binary descriptor: bit j lives in word j/64 at position j%64.
type Descriptor []uint64

// Descriptors is a slice of binary descriptors.
type Descriptors []Descriptor

// Set is an immutable collection of descriptors of the same kind and dimension.
type Set struct {
	kind Kind

	// dims is the vector length for Real sets and the number of bits for Binary sets.
	dims   int
	values [][]float32
	bits   Descriptors
}

// NewRealSet builds a Real set from double precision vectors. Values are cast to float32.
func NewRealSet(vecs [][]float64) (*Set, error) {
	dims, err := commonLength(len(vecs), func(i int) int { return len(vecs[i]) })
	if err != nil {
		return nil, err
	}
	values := make([][]float32, len(vecs))
	for i, v := range vecs {
		values[i] = make([]float32, dims)
		for j, x := range v {
			values[i][j] = float32(x)
		}
	}
	return &Set{kind: Real, dims: dims, values: values}, nil
}

// NewRealSet32 builds a Real set from single precision vectors. The vectors are copied.
func NewRealSet32(vecs [][]float32) (*Set, error) {
	dims, err := commonLength(len(vecs), func(i int) int { return len(vecs[i]) })
	if err != nil {
		return nil, err
	}
	values := make([][]float32, len(vecs))
	for i, v := range vecs {
		values[i] = append(make([]float32, 0, dims), v...)
	}
	return &Set{kind: Real, dims: dims, values: values}, nil
}

// NewRealSetFromDense builds a Real set from the rows of m.
func NewRealSetFromDense(m mat.Matrix) (*Set, error) {
	if m == nil {
		return nil, errors.New("matrix is nil")
	}
	rows, _ := m.Dims()
	vecs := make([][]float64, rows)
	for i := range vecs {
		vecs[i] = mat.Row(nil, i, m)
	}
	return NewRealSet(vecs)
}

// NewBinarySet builds a Binary set by packing boolean vectors into 64 bit words.
func NewBinarySet(vecs [][]bool) (*Set, error) {
	dims, err := commonLength(len(vecs), func(i int) int { return len(vecs[i]) })
	if err != nil {
		return nil, err
	}
	bits := make(Descriptors, len(vecs))
	for i, v := range vecs {
		bits[i] = PackBits(v)
	}
	return &Set{kind: Binary, dims: dims, bits: bits}, nil
}

// NewPackedBinarySet builds a Binary set of nbits long descriptors that are already bit packed,
// e.g. BRIEF descriptors. Each descriptor must hold exactly ceil(nbits/64) words and bits past
// nbits must be zero.
func NewPackedBinarySet(descs Descriptors, nbits int) (*Set, error) {
	if nbits < 0 {
		return nil, errors.Errorf("invalid number of bits %d", nbits)
	}
	nWords := (nbits + wordSize - 1) / wordSize
	bits := make(Descriptors, len(descs))
	for i, d := range descs {
		if len(d) != nWords {
			return nil, errors.Wrapf(ErrMismatchDimension,
				"descriptor %d has %d words, expected %d for %d bits", i, len(d), nWords, nbits)
		}
		if rem := nbits % wordSize; rem != 0 && d[nWords-1]>>rem != 0 {
			return nil, errors.Errorf("descriptor %d has bits set past bit %d", i, nbits)
		}
		bits[i] = append(make(Descriptor, 0, nWords), d...)
	}
	return &Set{kind: Binary, dims: nbits, bits: bits}, nil
}

// commonLength checks that all n vectors have the same length and returns it.
func commonLength(n int, length func(i int) int) (int, error) {
	if n == 0 {
		return 0, nil
	}
	dims := length(0)
	for i := 1; i < n; i++ {
		if l := length(i); l != dims {
			return 0, errors.Wrapf(ErrMismatchDimension, "descriptor %d has length %d, expected %d", i, l, dims)
		}
	}
	return dims, nil
}

// PackBits packs a boolean vector into 64 bit words.
func PackBits(v []bool) Descriptor {
	d := make(Descriptor, (len(v)+wordSize-1)/wordSize)
	for j, b := range v {
		if b {
			d[j/wordSize] |= 1 << (uint(j) % wordSize)
		}
	}
	return d
}

// UnpackBits is the inverse of PackBits for an nbits long descriptor.
func UnpackBits(d Descriptor, nbits int) []bool {
	v := make([]bool, nbits)
	for j := range v {
		v[j] = d[j/wordSize]&(1<<(uint(j)%wordSize)) != 0
	}
	return v
}

// Kind returns the representation of the set.
func (s *Set) Kind() Kind {
	return s.kind
}

// Len returns the number of descriptors.
func (s *Set) Len() int {
	if s.kind == Binary {
		return len(s.bits)
	}
	return len(s.values)
}

// Dims returns the descriptor length: number of values for Real sets, bits for Binary sets.
func (s *Set) Dims() int {
	return s.dims
}

// Real returns the i-th descriptor of a Real set. The returned slice must not be modified.
func (s *Set) Real(i int) []float32 {
	return s.values[i]
}

// Bits returns the i-th descriptor of a Binary set. The returned slice must not be modified.
func (s *Set) Bits(i int) Descriptor {
	return s.bits[i]
}

// Distance returns the distance between the i-th descriptor of s and the j-th descriptor of
// other, both sets being of the same kind and dimension.
func (s *Set) Distance(i int, other *Set, j int) float32 {
	switch s.kind.Distance() {
	case utils.Hamming:
		return float32(utils.HammingDistance(s.bits[i], other.bits[j]))
	default:
		return utils.EuclideanDistance32(s.values[i], other.values[j])
	}
}

// CheckCompatible returns an error if descriptors of s and other cannot be compared. Empty sets
// are compatible with any set of the same kind.
func (s *Set) CheckCompatible(other *Set) error {
	if s.kind != other.kind {
		return errors.Wrapf(ErrMismatchedKinds, "%s vs %s", s.kind, other.kind)
	}
	if s.Len() > 0 && other.Len() > 0 && s.dims != other.dims {
		return errors.Wrapf(ErrMismatchDimension, "%d vs %d", s.dims, other.dims)
	}
	return nil
}
