package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/tatrec/network"
)

var (
	// ErrNoFeatures is returned when no forward pass has been observed.
	ErrNoFeatures = errors.New("capture: no features captured")
	// ErrNotAttached is returned when detaching a handle that is not attached.
	ErrNotAttached = errors.New("capture: hook not attached")
)

// Features collects detached copies of a layer's outputs.
type Features struct {
	layer  string
	handle network.HookHandle
	width  int
	rows   [][]float32
}

// Attach starts observing layer. Every subsequent forward pass through the
// layer appends its batch rows to the returned handle.
func Attach(layer network.Layer) *Features {
	f := &Features{layer: layer.Name()}
	f.handle = layer.RegisterForwardHook(f.observe)
	return f
}

func (f *Features) observe(_ string, out network.Tensor) error {
	batch, width := out.Batch(), out.RowLen()
	if batch == 0 {
		return nil
	}
	if len(f.rows) > 0 && width != f.width {
		return fmt.Errorf("capture: layer %s produced rows of width %d, previously %d", f.layer, width, f.width)
	}
	f.width = width
	for b := 0; b < batch; b++ {
		row := make([]float32, width)
		copy(row, out.Row(b))
		f.rows = append(f.rows, row)
	}
	return nil
}

// Detach stops observing the layer. Captured rows remain readable.
func (f *Features) Detach() error {
	if f.handle == nil || !f.handle.Remove() {
		return fmt.Errorf("%w: %s", ErrNotAttached, f.layer)
	}
	f.handle = nil
	return nil
}

// Layer returns the observed layer's name.
func (f *Features) Layer() string { return f.layer }

// Rows returns the number of captured rows.
func (f *Features) Rows() int { return len(f.rows) }

// Width returns the length of each captured row, or 0 before any capture.
func (f *Features) Width() int { return f.width }

// Row returns a copy of the i-th captured row.
func (f *Features) Row(i int) ([]float32, error) {
	if len(f.rows) == 0 {
		return nil, ErrNoFeatures
	}
	if i < 0 || i >= len(f.rows) {
		return nil, fmt.Errorf("capture: row %d out of range [0,%d)", i, len(f.rows))
	}
	return append([]float32(nil), f.rows[i]...), nil
}

// Last returns a copy of the most recently captured row.
func (f *Features) Last() ([]float32, error) {
	if len(f.rows) == 0 {
		return nil, ErrNoFeatures
	}
	return f.Row(len(f.rows) - 1)
}

// Matrix returns a copy of every captured row.
func (f *Features) Matrix() [][]float32 {
	out := make([][]float32, len(f.rows))
	for i, r := range f.rows {
		out[i] = append([]float32(nil), r...)
	}
	return out
}

// Extract runs one forward pass of input through model while capturing
// layerName, and returns the rows observed during that pass.
func Extract(ctx context.Context, model network.Model, layerName string, input network.Tensor) ([][]float32, error) {
	layer, err := model.Layer(layerName)
	if err != nil {
		return nil, err
	}
	f := Attach(layer)
	defer func() { _ = f.Detach() }()
	if _, err := model.Forward(ctx, input); err != nil {
		return nil, err
	}
	if f.Rows() == 0 {
		return nil, fmt.Errorf("%w: layer %s", ErrNoFeatures, layerName)
	}
	return f.rows, nil
}
