package lsh

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/viant/tatrec/index"
	"github.com/viant/tatrec/vector"
)

func diagonalIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New(2, WithPlanes([][][]float32{{{1, 1}}}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, e := range []vector.Entry{
		{Label: "origin", Vector: []float32{0, 0}},
		{Label: "up", Vector: []float32{0, 1}},
		{Label: "far", Vector: []float32{10, 10}},
	} {
		if err := idx.Add(e.Vector, e.Label); err != nil {
			t.Fatalf("Add(%s) failed: %v", e.Label, err)
		}
	}
	return idx
}

func TestQuery_SingleHyperplane(t *testing.T) {
	idx := diagonalIndex(t)

	got, err := idx.Query([]float32{0, 0.1}, 1, vector.Euclidean)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Entry.Label != "up" {
		t.Fatalf("Query = %v, want [up]", index.Labels(got))
	}

	// Only the positive-side bucket is a candidate; origin never collides.
	got, err = idx.Query([]float32{0, 0.1}, 0, vector.Euclidean)
	if err != nil {
		t.Fatalf("Query(all) failed: %v", err)
	}
	if labels := index.Labels(got); !reflect.DeepEqual(labels, []string{"up", "far"}) {
		t.Fatalf("Query(all) = %v, want [up far]", labels)
	}
}

func TestQuery_NoCandidates(t *testing.T) {
	idx, err := New(2, WithPlanes([][][]float32{{{1, 1}}}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := idx.Add([]float32{5, 5}, "positive"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got, err := idx.Query([]float32{-1, -1}, 3, vector.Cosine)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches without a bucket collision, got %v", index.Labels(got))
	}
}

func TestQuery_EmptyIndex(t *testing.T) {
	idx, err := New(4)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, d := range vector.Distances() {
		got, err := idx.Query([]float32{1, 2, 3, 4}, 5, d)
		if err != nil {
			t.Fatalf("Query(%s) on empty index failed: %v", d, err)
		}
		if len(got) != 0 {
			t.Fatalf("Query(%s) on empty index returned %d matches", d, len(got))
		}
	}
}

func TestCodes_Deterministic(t *testing.T) {
	a, err := New(8, WithHashSize(16), WithTables(3), WithSeed(7))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	b, err := New(8, WithHashSize(16), WithTables(3), WithSeed(7))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v := randomVectors(1, 8, 3)[0]
	ca, _ := a.Codes(v)
	ca2, _ := a.Codes(v)
	cb, _ := b.Codes(v)
	if !reflect.DeepEqual(ca, ca2) {
		t.Fatalf("codes differ between calls: %v vs %v", ca, ca2)
	}
	if !reflect.DeepEqual(ca, cb) {
		t.Fatalf("codes differ for equal seeds: %v vs %v", ca, cb)
	}
}

func TestQuery_HammingIdentical(t *testing.T) {
	idx, err := New(16, WithHashSize(12), WithTables(4))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	vecs := randomVectors(20, 16, 11)
	for i, v := range vecs {
		if err := idx.Add(v, string(rune('a'+i))); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	got, err := idx.Query(vecs[5], 1, vector.Hamming)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Distance != 0 {
		t.Fatalf("expected a zero-distance match for an indexed vector, got %+v", got)
	}
}

func TestQuery_Ordering(t *testing.T) {
	idx, err := New(8, WithHashSize(2), WithTables(3), WithSeed(3))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	vecs := randomVectors(50, 8, 5)
	for i, v := range vecs {
		if err := idx.Add(v, string(rune('A'+i))); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	for _, d := range vector.Distances() {
		got, err := idx.Query(vecs[0], 0, d)
		if err != nil {
			t.Fatalf("Query(%s) failed: %v", d, err)
		}
		if len(got) == 0 {
			t.Fatalf("Query(%s) returned no matches for an indexed vector", d)
		}
		for i := 1; i < len(got); i++ {
			if got[i].Distance < got[i-1].Distance {
				t.Fatalf("Query(%s) not ascending at %d: %v < %v", d, i, got[i].Distance, got[i-1].Distance)
			}
		}
		limited, err := idx.Query(vecs[0], 3, d)
		if err != nil {
			t.Fatalf("Query(%s, 3) failed: %v", d, err)
		}
		if !reflect.DeepEqual(index.Labels(limited), index.Labels(got)[:min(3, len(got))]) {
			t.Fatalf("Query(%s, 3) is not a prefix of the full ranking", d)
		}
	}
}

func TestQuery_TiesKeepInsertionOrder(t *testing.T) {
	idx := diagonalIndex(t)
	if err := idx.Add([]float32{0, 1}, "up-again"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got, err := idx.Query([]float32{0, 1}, 2, vector.Euclidean)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if labels := index.Labels(got); !reflect.DeepEqual(labels, []string{"up", "up-again"}) {
		t.Fatalf("Query = %v, want [up up-again]", labels)
	}
}

func TestQuery_Errors(t *testing.T) {
	idx := diagonalIndex(t)
	if _, err := idx.Query([]float32{1, 2, 3}, 1, vector.Euclidean); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
	_, err := idx.Query([]float32{1, 1}, 1, vector.Distance(99))
	if !errors.Is(err, vector.ErrUnsupportedDistance) {
		t.Fatalf("expected ErrUnsupportedDistance, got %v", err)
	}
	if err := idx.Add([]float32{1}, "short"); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension from Add, got %v", err)
	}
}

func TestAdd_CopiesVector(t *testing.T) {
	idx, err := New(2, WithPlanes([][][]float32{{{1, 1}}}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v := []float32{1, 1}
	if err := idx.Add(v, "x"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	v[0] = -100
	got, err := idx.Query([]float32{1, 1}, 1, vector.Euclidean)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].Distance != 0 {
		t.Fatalf("stored vector was mutated through the caller's slice: %+v", got)
	}
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name string
		dim  int
		opts []Option
	}{
		{"zero dim", 0, nil},
		{"zero hash size", 4, []Option{WithHashSize(0)}},
		{"hash size too large", 4, []Option{WithHashSize(65)}},
		{"zero tables", 4, []Option{WithTables(0)}},
		{"negative probe", 4, []Option{WithProbeRadius(-1)}},
		{"probe beyond hash size", 4, []Option{WithHashSize(2), WithProbeRadius(3)}},
		{"plane dim mismatch", 4, []Option{WithPlanes([][][]float32{{{1, 1}}})}},
		{"ragged tables", 2, []Option{WithPlanes([][][]float32{{{1, 1}}, {{1, 0}, {0, 1}}})}},
	}
	for _, tc := range cases {
		if _, err := New(tc.dim, tc.opts...); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestProbeRadius(t *testing.T) {
	planes := [][][]float32{{{1, 0}, {0, 1}}}
	exact, err := New(2, WithPlanes(planes))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	probing, err := New(2, WithPlanes(planes), WithProbeRadius(1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, idx := range []*Index{exact, probing} {
		if err := idx.Add([]float32{1, -1}, "right"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := idx.Add([]float32{-1, -1}, "opposite"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	q := []float32{1, 1}
	got, _ := exact.Query(q, 0, vector.Euclidean)
	if len(got) != 0 {
		t.Fatalf("exact probing = %v, want none", index.Labels(got))
	}
	got, _ = probing.Query(q, 0, vector.Hamming)
	if labels := index.Labels(got); !reflect.DeepEqual(labels, []string{"right"}) {
		t.Fatalf("radius-1 probing = %v, want [right]", labels)
	}
	if got[0].Distance != 1 {
		t.Fatalf("hamming distance = %v, want 1", got[0].Distance)
	}
}

func TestProbeEnumeratesRadius(t *testing.T) {
	seen := map[uint64]bool{}
	probe(0, 4, 2, func(c uint64) {
		if seen[c] {
			t.Fatalf("code %b probed twice", c)
		}
		seen[c] = true
	})
	// 1 + C(4,1) + C(4,2)
	if len(seen) != 11 {
		t.Fatalf("probed %d codes, want 11", len(seen))
	}
}

func TestStats(t *testing.T) {
	idx := diagonalIndex(t)
	s := idx.Stats()
	if s.Entries != 3 || s.Tables != 1 || s.HashSize != 1 || s.Buckets != 2 || s.LargestBucket != 2 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func randomVectors(n, dim int, seed uint64) [][]float32 {
	rng := rand.New(rand.NewPCG(seed, seed))
	out := make([][]float32, n)
	for i := range out {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(rng.NormFloat64())
		}
		out[i] = v
	}
	return out
}
