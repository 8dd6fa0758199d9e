package network

import (
	"fmt"
)

// Tensor is a dense float32 array in row-major order. The first dimension is
// the batch.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewTensor validates that data holds exactly the product of shape elements.
func NewTensor(shape []int, data []float32) (Tensor, error) {
	if len(shape) == 0 {
		return Tensor{}, fmt.Errorf("network: tensor shape is empty")
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return Tensor{}, fmt.Errorf("network: invalid tensor shape %v", shape)
		}
		n *= d
	}
	if n != len(data) {
		return Tensor{}, fmt.Errorf("network: shape %v needs %d values, got %d", shape, n, len(data))
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Batch returns the size of the first dimension.
func (t Tensor) Batch() int {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// RowLen returns the number of values per batch item, i.e. the product of all
// dimensions after the first.
func (t Tensor) RowLen() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range t.Shape[1:] {
		n *= d
	}
	return n
}

// Row returns a view of the i-th batch item's values.
func (t Tensor) Row(i int) []float32 {
	w := t.RowLen()
	return t.Data[i*w : (i+1)*w]
}

// Clone returns a deep copy.
func (t Tensor) Clone() Tensor {
	return Tensor{
		Shape: append([]int(nil), t.Shape...),
		Data:  append([]float32(nil), t.Data...),
	}
}
