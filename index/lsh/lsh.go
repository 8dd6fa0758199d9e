package lsh

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/vector"
)

// ErrDimension is returned when a vector's length differs from the index dimension.
var ErrDimension = errors.New("lsh: dimension mismatch")

// Index is a random hyperplane LSH index. It is not safe for concurrent
// mutation; once built it may be queried from multiple goroutines.
type Index struct {
	dim         int
	hashSize    int
	probeRadius int
	planes      [][][]float32 // tables × hashSize × dim
	entries     []vector.Entry
	codes       [][]uint64 // entry id → code per table
	tables      []map[uint64][]uint32
}

// New creates an empty index for vectors of length dim.
func New(dim int, opts ...Option) (*Index, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("lsh: invalid dimension %d", dim)
	}
	planes := o.planes
	if planes != nil {
		if err := validatePlanes(planes, dim); err != nil {
			return nil, err
		}
		planes = clonePlanes(planes)
		o.tables, o.hashSize = len(planes), len(planes[0])
	}
	if o.hashSize < 1 || o.hashSize > MaxHashSize {
		return nil, fmt.Errorf("lsh: hash size %d out of range [1,%d]", o.hashSize, MaxHashSize)
	}
	if o.tables < 1 {
		return nil, fmt.Errorf("lsh: table count %d must be positive", o.tables)
	}
	if o.probeRadius < 0 || o.probeRadius > o.hashSize {
		return nil, fmt.Errorf("lsh: probe radius %d out of range [0,%d]", o.probeRadius, o.hashSize)
	}
	if planes == nil {
		planes = generatePlanes(dim, o.hashSize, o.tables, o.seed)
	}
	idx := &Index{
		dim:         dim,
		hashSize:    o.hashSize,
		probeRadius: o.probeRadius,
		planes:      planes,
	}
	idx.reset()
	return idx, nil
}

func validatePlanes(planes [][][]float32, dim int) error {
	if len(planes) == 0 || len(planes[0]) == 0 {
		return fmt.Errorf("lsh: planes must contain at least one table with one hyperplane")
	}
	k := len(planes[0])
	for t := range planes {
		if len(planes[t]) != k {
			return fmt.Errorf("lsh: table %d has %d hyperplanes, want %d", t, len(planes[t]), k)
		}
		for i := range planes[t] {
			if len(planes[t][i]) != dim {
				return fmt.Errorf("%w: hyperplane %d/%d has %d components, want %d", ErrDimension, t, i, len(planes[t][i]), dim)
			}
		}
	}
	return nil
}

func (x *Index) reset() {
	x.entries = nil
	x.codes = nil
	x.tables = make([]map[uint64][]uint32, len(x.planes))
	for t := range x.tables {
		x.tables[t] = make(map[uint64][]uint32)
	}
}

// Dim returns the index dimension.
func (x *Index) Dim() int { return x.dim }

// HashSize returns the number of bits per table code.
func (x *Index) HashSize() int { return x.hashSize }

// Tables returns the number of hash tables.
func (x *Index) Tables() int { return len(x.planes) }

// Len returns the number of inserted entries.
func (x *Index) Len() int { return len(x.entries) }

// Codes returns the code of v in every table.
func (x *Index) Codes(v []float32) ([]uint64, error) {
	if len(v) != x.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimension, len(v), x.dim)
	}
	codes := make([]uint64, len(x.planes))
	for t := range x.planes {
		codes[t] = hashCode(x.planes[t], v)
	}
	return codes, nil
}

// Add inserts vec under label. Existing hash assignments are never changed.
func (x *Index) Add(vec []float32, label string) error {
	codes, err := x.Codes(vec)
	if err != nil {
		return err
	}
	id := uint32(len(x.entries))
	x.entries = append(x.entries, vector.Entry{Label: label, Vector: vector.Clone(vec)})
	x.codes = append(x.codes, codes)
	for t, code := range codes {
		x.tables[t][code] = append(x.tables[t][code], id)
	}
	return nil
}

// Query returns up to n candidates sharing a bucket with query, ordered by
// ascending distance d. Ties keep insertion order.
func (x *Index) Query(query []float32, n int, d vector.Distance) ([]index.Match, error) {
	var score func(id uint32) float64
	qcodes, err := x.Codes(query)
	if err != nil {
		return nil, err
	}
	if d == vector.Hamming {
		score = func(id uint32) float64 { return float64(hamming(qcodes, x.codes[id])) }
	} else {
		fn, err := d.Function()
		if err != nil {
			return nil, err
		}
		score = func(id uint32) float64 { return fn(query, x.entries[id].Vector) }
	}
	if len(x.entries) == 0 {
		return []index.Match{}, nil
	}

	ids := x.candidates(qcodes)
	matches := make([]index.Match, len(ids))
	for i, id := range ids {
		e := x.entries[id]
		matches[i] = index.Match{
			Entry:    vector.Entry{Label: e.Label, Vector: vector.Clone(e.Vector)},
			Distance: score(id),
		}
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Distance < matches[b].Distance })
	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches, nil
}

// candidates returns the ids of every entry found in a probed bucket, in
// insertion order and without duplicates.
func (x *Index) candidates(qcodes []uint64) []uint32 {
	seen := make(map[uint32]struct{})
	var ids []uint32
	for t, qcode := range qcodes {
		table := x.tables[t]
		probe(qcode, x.hashSize, x.probeRadius, func(code uint64) {
			for _, id := range table[code] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		})
	}
	slices.Sort(ids)
	return ids
}

// Stats summarizes bucket occupancy.
type Stats struct {
	Entries       int `json:"entries"`
	Dim           int `json:"dim"`
	HashSize      int `json:"hashSize"`
	Tables        int `json:"tables"`
	ProbeRadius   int `json:"probeRadius"`
	Buckets       int `json:"buckets"`
	LargestBucket int `json:"largestBucket"`
}

// Stats reports the current shape of the index.
func (x *Index) Stats() Stats {
	s := Stats{
		Entries:     len(x.entries),
		Dim:         x.dim,
		HashSize:    x.hashSize,
		Tables:      len(x.planes),
		ProbeRadius: x.probeRadius,
	}
	for _, table := range x.tables {
		s.Buckets += len(table)
		for _, ids := range table {
			if len(ids) > s.LargestBucket {
				s.LargestBucket = len(ids)
			}
		}
	}
	return s
}

// Ensure Index satisfies the index.Index interface.
var _ index.Index = (*Index)(nil)
