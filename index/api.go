package index

import "github.com/viant/tatrec/vector"

// Index defines a vector index that is filled incrementally, queried for the
// nearest catalog entries and serialized for persistence.
type Index interface {
	// Add inserts one embedding with its label. The index keeps its own copy
	// of the vector. Inserting an identical vector or label twice yields two
	// entries.
	Add(vec []float32, label string) error

	// Query returns up to n matches ordered by ascending distance. n <= 0
	// returns every candidate the index considers. An empty index yields an
	// empty result, not an error.
	Query(query []float32, n int, d vector.Distance) ([]Match, error)

	// Len returns the number of inserted entries.
	Len() int

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}

// Match is a single query result.
type Match struct {
	Entry    vector.Entry
	Distance float64
}

// Labels returns the labels of matches in order.
func Labels(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Entry.Label
	}
	return out
}
