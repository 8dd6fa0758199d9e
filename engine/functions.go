package engine

import (
	"database/sql"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterVectorFunctions registers vec_cosine, vec_l2 and vec_l1 with the
// driver so they are available on new connections opened after this call.
// Existing open connections will not see new functions.
func RegisterVectorFunctions(_ *sql.DB) error {
	var err error
	registerOnce.Do(func() {
		for name, fn := range map[string]func(*sqlite.FunctionContext, []driver.Value) (driver.Value, error){
			"vec_cosine": vecCosineImpl,
			"vec_l2":     vecL2Impl,
			"vec_l1":     vecL1Impl,
		} {
			if rErr := sqlite.RegisterDeterministicScalarFunction(name, 2, fn); rErr != nil && err == nil {
				err = fmt.Errorf("engine: register %s: %w", name, rErr)
			}
		}
	})
	return err
}

func asEmbedding(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return decodeEmbedding(v)
	default:
		return nil, fmt.Errorf("vec: unsupported argument type %T for embedding; want BLOB", arg)
	}
}

func embeddingArgs(name string, args []driver.Value) ([]float32, []float32, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 arguments, got %d", name, len(args))
	}
	a, err := asEmbedding(args[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := asEmbedding(args[1])
	if err != nil {
		return nil, nil, err
	}
	if a != nil && b != nil && len(a) != len(b) {
		return nil, nil, fmt.Errorf("%s: dim mismatch %d vs %d", name, len(a), len(b))
	}
	return a, b, nil
}

func vecCosineImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingArgs("vec_cosine", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	return cosine(a, b)
}

func vecL2Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingArgs("vec_l2", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

func vecL1Impl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	a, b, err := embeddingArgs("vec_l1", args)
	if err != nil || a == nil || b == nil {
		return nil, err
	}
	var sum float64
	for i := range a {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}
	return sum, nil
}

// Local minimal helpers to avoid import cycles in tests.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vec: invalid embedding blob length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// cosine returns the cosine similarity; zero-magnitude operands score 0.
func cosine(a, b []float32) (float64, error) {
	if len(a) == 0 {
		return 0, fmt.Errorf("vec: cosine on empty vectors")
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0.0, nil
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2)), nil
}
