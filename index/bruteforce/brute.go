package bruteforce

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/vector"
)

// Index is an exhaustive vector index: every entry is scored on every query.
type Index struct {
	entries []vector.Entry
	dim     int
}

// New creates an empty index. The dimension is fixed by the first Add.
func New() *Index { return &Index{} }

// Len returns the number of inserted entries.
func (i *Index) Len() int { return len(i.entries) }

// Add inserts vec under label.
func (i *Index) Add(vec []float32, label string) error {
	if len(vec) == 0 {
		return errors.New("bruteforce: empty vector")
	}
	if i.dim == 0 {
		i.dim = len(vec)
	}
	if len(vec) != i.dim {
		return fmt.Errorf("bruteforce: inconsistent vector dims %d vs %d", len(vec), i.dim)
	}
	i.entries = append(i.entries, vector.Entry{Label: label, Vector: vector.Clone(vec)})
	return nil
}

// Query scores every entry with d and returns the n closest. Hamming is not
// supported since this index keeps no hash codes.
func (i *Index) Query(query []float32, n int, d vector.Distance) ([]index.Match, error) {
	fn, err := d.Function()
	if err != nil {
		return nil, fmt.Errorf("bruteforce: %w", err)
	}
	if len(i.entries) == 0 {
		return []index.Match{}, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("bruteforce: query dim %d != index dim %d", len(query), i.dim)
	}
	matches := make([]index.Match, 0, len(i.entries))
	for _, e := range i.entries {
		s := fn(query, e.Vector)
		if math.IsNaN(s) {
			continue
		}
		matches = append(matches, index.Match{
			Entry:    vector.Entry{Label: e.Label, Vector: vector.Clone(e.Vector)},
			Distance: s,
		})
	}
	sort.SliceStable(matches, func(a, b int) bool { return matches[a].Distance < matches[b].Distance })
	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches, nil
}

// MarshalBinary stores: dim(uint32), n(uint32), then for each item:
// labelLen(uint32), label bytes, vec(float32[dim]).
func (i *Index) MarshalBinary() ([]byte, error) {
	size := 8
	for _, e := range i.entries {
		size += 4 + len(e.Label) + 4*i.dim
	}
	out := make([]byte, 0, size)
	putU32 := func(v uint32) { out = binary.LittleEndian.AppendUint32(out, v) }
	putF32 := func(v float32) { putU32(math.Float32bits(v)) }
	putU32(uint32(i.dim))
	putU32(uint32(len(i.entries)))
	for _, e := range i.entries {
		putU32(uint32(len(e.Label)))
		out = append(out, e.Label...)
		for _, v := range e.Vector {
			putF32(v)
		}
	}
	return out, nil
}

// UnmarshalBinary restores the index from bytes.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return errors.New("bruteforce: invalid data")
	}
	off := 0
	getU32 := func() uint32 { v := binary.LittleEndian.Uint32(data[off : off+4]); off += 4; return v }
	getF32 := func() float32 { return math.Float32frombits(getU32()) }
	dim := int(getU32())
	n := int(getU32())
	if n > 0 && dim == 0 {
		return errors.New("bruteforce: zero dimension with entries")
	}
	entries := make([]vector.Entry, 0, min(n, len(data)))
	for idx := 0; idx < n; idx++ {
		if off+4 > len(data) {
			return errors.New("bruteforce: truncated")
		}
		labelLen := int(getU32())
		if labelLen < 0 || off+labelLen > len(data) {
			return errors.New("bruteforce: truncated label")
		}
		label := string(data[off : off+labelLen])
		off += labelLen
		if off+4*dim > len(data) {
			return errors.New("bruteforce: truncated vec")
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = getF32()
		}
		entries = append(entries, vector.Entry{Label: label, Vector: vec})
	}
	if off != len(data) {
		return fmt.Errorf("bruteforce: %d trailing bytes", len(data)-off)
	}
	i.dim = dim
	i.entries = entries
	return nil
}

// Ensure Index satisfies the index.Index interface.
var _ index.Index = (*Index)(nil)
