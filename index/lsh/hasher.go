package lsh

import (
	"math/bits"
	"math/rand/v2"
)

// generatePlanes draws tables×k hyperplanes with standard normal components.
func generatePlanes(dim, k, tables int, seed uint64) [][][]float32 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	planes := make([][][]float32, tables)
	for t := range planes {
		planes[t] = make([][]float32, k)
		for i := range planes[t] {
			plane := make([]float32, dim)
			for j := range plane {
				plane[j] = float32(rng.NormFloat64())
			}
			planes[t][i] = plane
		}
	}
	return planes
}

func clonePlanes(planes [][][]float32) [][][]float32 {
	out := make([][][]float32, len(planes))
	for t := range planes {
		out[t] = make([][]float32, len(planes[t]))
		for i := range planes[t] {
			out[t][i] = append([]float32(nil), planes[t][i]...)
		}
	}
	return out
}

// hashCode returns the k-bit code of v against one table's hyperplanes. A
// point lying exactly on a hyperplane gets a zero bit.
func hashCode(planes [][]float32, v []float32) uint64 {
	var code uint64
	for i, plane := range planes {
		var dot float64
		for j := range plane {
			dot += float64(plane[j]) * float64(v[j])
		}
		if dot > 0 {
			code |= 1 << uint(i)
		}
	}
	return code
}

// hamming counts differing bits across two equal-length code sequences.
func hamming(a, b []uint64) int {
	var n int
	for t := range a {
		n += bits.OnesCount64(a[t] ^ b[t])
	}
	return n
}

// probe calls fn for code and for every k-bit code within radius r of it,
// nearest radius first.
func probe(code uint64, k, r int, fn func(uint64)) {
	fn(code)
	for d := 1; d <= r && d <= k; d++ {
		flip(code, 0, k, d, fn)
	}
}

func flip(code uint64, from, k, remaining int, fn func(uint64)) {
	if remaining == 0 {
		fn(code)
		return
	}
	for i := from; i <= k-remaining; i++ {
		flip(code^(1<<uint(i)), i+1, k, remaining-1, fn)
	}
}
