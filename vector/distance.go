package vector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/viant/vec/search"
)

// ErrUnsupportedDistance is returned when a distance name or value is not one
// of the enumerated Distance constants.
var ErrUnsupportedDistance = errors.New("vector: unsupported distance")

// Distance enumerates the ranking functions supported by index queries.
//
// Hamming is special: it compares the LSH hash codes of two entries rather
// than their raw embeddings, so it yields a coarse integer ranking with many
// ties. Every other Distance compares full embeddings. The same query can
// therefore rank candidates differently depending on the selected Distance.
type Distance int

const (
	// Hamming counts differing bits across the concatenated hash codes of all tables.
	Hamming Distance = iota + 1
	// Euclidean is the squared Euclidean distance.
	Euclidean
	// TrueEuclidean is the Euclidean (L2) distance.
	TrueEuclidean
	// CentredEuclidean is the Euclidean distance after subtracting each vector's own mean.
	CentredEuclidean
	// Cosine is 1 minus the cosine similarity.
	Cosine
	// L1Norm is the sum of absolute differences.
	L1Norm
)

var distanceNames = map[Distance]string{
	Hamming:          "hamming",
	Euclidean:        "euclidean",
	TrueEuclidean:    "true_euclidean",
	CentredEuclidean: "centred_euclidean",
	Cosine:           "cosine",
	L1Norm:           "l1norm",
}

// Distances lists every supported distance in declaration order.
func Distances() []Distance {
	return []Distance{Hamming, Euclidean, TrueEuclidean, CentredEuclidean, Cosine, L1Norm}
}

// String returns the canonical name of the distance.
func (d Distance) String() string {
	if name, ok := distanceNames[d]; ok {
		return name
	}
	return fmt.Sprintf("distance(%d)", int(d))
}

// Valid reports whether d is one of the enumerated constants.
func (d Distance) Valid() bool {
	_, ok := distanceNames[d]
	return ok
}

// ParseDistance resolves a distance by name (case-insensitive).
func ParseDistance(name string) (Distance, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for d, n := range distanceNames {
		if n == key {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedDistance, name)
}

// DistanceFunc computes the distance between two equal-length embeddings.
type DistanceFunc func(a, b []float32) float64

// Function resolves the vector-level implementation of d. Hamming has no
// vector-level implementation since it is defined over hash codes.
func (d Distance) Function() (DistanceFunc, error) {
	switch d {
	case Euclidean:
		return SquaredEuclidean, nil
	case TrueEuclidean:
		return TrueEuclideanDistance, nil
	case CentredEuclidean:
		return CentredEuclideanDistance, nil
	case Cosine:
		return CosineDistance, nil
	case L1Norm:
		return L1Distance, nil
	case Hamming:
		return nil, fmt.Errorf("%w: %s compares hash codes, not embeddings", ErrUnsupportedDistance, d)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDistance, d)
	}
}

// SquaredEuclidean returns sum((a-b)^2).
func SquaredEuclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// TrueEuclideanDistance returns the Euclidean distance between a and b.
func TrueEuclideanDistance(a, b []float32) float64 {
	return float64(search.Float32s(a).EuclideanDistance(b))
}

// CentredEuclideanDistance returns the Euclidean distance between a and b
// after each has been centred on its own mean.
func CentredEuclideanDistance(a, b []float32) float64 {
	ma, mb := mean(a), mean(b)
	var sum float64
	for i := range a {
		d := (float64(a[i]) - ma) - (float64(b[i]) - mb)
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineDistance returns 1 - cosine similarity. A zero-magnitude operand has
// no direction and is treated as maximally dissimilar (distance 1).
func CosineDistance(a, b []float32) float64 {
	va := search.Float32s(a)
	vb := search.Float32s(b)
	if va.Magnitude() == 0 || vb.Magnitude() == 0 {
		return 1
	}
	return float64(va.CosineDistance(b))
}

// L1Distance returns sum(|a-b|).
func L1Distance(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum
}

func mean(v []float32) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += float64(x)
	}
	return sum / float64(len(v))
}
