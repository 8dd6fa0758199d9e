package engine

import (
	"encoding/binary"
	"math"
	"testing"
)

func blob(v ...float32) []byte {
	b := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(x))
	}
	return b
}

func TestRegisterVectorFunctionsAndUse(t *testing.T) {
	// Register globally before first connection so functions are available.
	if err := RegisterVectorFunctions(nil); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer db.Close()

	// Registration is idempotent.
	if err := RegisterVectorFunctions(db); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}

	var sim float64
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, blob(1, 0), blob(0, 1)).Scan(&sim); err != nil {
		t.Fatalf("vec_cosine(a,b) query failed: %v", err)
	}
	if sim != 0 {
		t.Fatalf("vec_cosine(a,b) = %v, want 0", sim)
	}
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, blob(1, 0), blob(1, 0)).Scan(&sim); err != nil {
		t.Fatalf("vec_cosine(a,c) query failed: %v", err)
	}
	if math.Abs(sim-1) > 1e-9 {
		t.Fatalf("vec_cosine(a,c) = %v, want 1", sim)
	}

	var dist float64
	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, blob(0, 0), blob(3, 4)).Scan(&dist); err != nil {
		t.Fatalf("vec_l2 query failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-9 {
		t.Fatalf("vec_l2 = %v, want 5", dist)
	}

	if err := db.QueryRow(`SELECT vec_l1(?, ?)`, blob(0, 0), blob(3, -4)).Scan(&dist); err != nil {
		t.Fatalf("vec_l1 query failed: %v", err)
	}
	if math.Abs(dist-7) > 1e-9 {
		t.Fatalf("vec_l1 = %v, want 7", dist)
	}

	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, blob(0, 0), blob(1, 2, 3)).Scan(&dist); err == nil {
		t.Fatalf("vec_l2 with mismatched dims: expected error")
	}
}
