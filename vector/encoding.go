package vector

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeEmbedding encodes a slice of float32 values into a BLOB representation
// suitable for storage in SQLite: a little-endian sequence of IEEE 754 float32
// values without a length prefix.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b, nil
}

// DecodeEmbedding decodes a BLOB produced by EncodeEmbedding back into a
// slice of float32 values.
func DecodeEmbedding(b []byte) ([]float32, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid embedding blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// Clone returns a copy of vec, so callers can hand out embeddings without
// exposing index-owned memory.
func Clone(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
