package vector

import (
	"errors"
	"math"
	"testing"
)

func TestParseDistance(t *testing.T) {
	for _, d := range Distances() {
		got, err := ParseDistance(d.String())
		if err != nil {
			t.Fatalf("ParseDistance(%q) failed: %v", d, err)
		}
		if got != d {
			t.Fatalf("ParseDistance(%q) = %v, want %v", d, got, d)
		}
	}
	if d, err := ParseDistance(" Cosine "); err != nil || d != Cosine {
		t.Fatalf("ParseDistance(Cosine) = %v, %v; want cosine, nil", d, err)
	}
	_, err := ParseDistance("eucldean")
	if !errors.Is(err, ErrUnsupportedDistance) {
		t.Fatalf("ParseDistance(typo) error = %v, want ErrUnsupportedDistance", err)
	}
	if err == nil || !contains(err.Error(), "eucldean") {
		t.Fatalf("error %v should name the invalid distance", err)
	}
}

func TestDistanceFunction(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}

	tests := []struct {
		d    Distance
		want float64
	}{
		{Euclidean, 25},
		{TrueEuclidean, 5},
		{L1Norm, 7},
	}
	for _, tc := range tests {
		fn, err := tc.d.Function()
		if err != nil {
			t.Fatalf("%s.Function() failed: %v", tc.d, err)
		}
		if got := fn(a, b); math.Abs(got-tc.want) > 1e-6 {
			t.Fatalf("%s(a,b) = %v, want %v", tc.d, got, tc.want)
		}
	}

	if _, err := Hamming.Function(); !errors.Is(err, ErrUnsupportedDistance) {
		t.Fatalf("Hamming.Function() error = %v, want ErrUnsupportedDistance", err)
	}
	if _, err := Distance(42).Function(); !errors.Is(err, ErrUnsupportedDistance) {
		t.Fatalf("Distance(42).Function() error = %v, want ErrUnsupportedDistance", err)
	}
}

func TestCosineDistance(t *testing.T) {
	if d := CosineDistance([]float32{1, 0}, []float32{2, 0}); math.Abs(d) > 1e-6 {
		t.Fatalf("CosineDistance(parallel) = %v, want 0", d)
	}
	if d := CosineDistance([]float32{1, 0}, []float32{0, 1}); math.Abs(d-1) > 1e-6 {
		t.Fatalf("CosineDistance(orthogonal) = %v, want 1", d)
	}
	if d := CosineDistance([]float32{0, 0}, []float32{0, 1}); d != 1 {
		t.Fatalf("CosineDistance(zero) = %v, want 1", d)
	}
	if d := CosineDistance([]float32{1, 2}, []float32{-1, -2}); math.Abs(d-2) > 1e-6 {
		t.Fatalf("CosineDistance(opposite) = %v, want 2", d)
	}
	a, b := []float32{3, -1, 2, 0.5}, []float32{1, 4, -2, 2}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	want := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	if d := CosineDistance(a, b); math.Abs(d-want) > 1e-5 {
		t.Fatalf("CosineDistance(%v, %v) = %v, want %v", a, b, d, want)
	}
}

func TestCentredEuclideanDistance(t *testing.T) {
	// Vectors that differ only by a constant offset coincide once centred.
	if d := CentredEuclideanDistance([]float32{1, 2, 3}, []float32{11, 12, 13}); math.Abs(d) > 1e-9 {
		t.Fatalf("CentredEuclideanDistance(offset) = %v, want 0", d)
	}
	if d := CentredEuclideanDistance([]float32{1, -1}, []float32{-1, 1}); math.Abs(d-math.Sqrt(8)) > 1e-9 {
		t.Fatalf("CentredEuclideanDistance = %v, want sqrt(8)", d)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
