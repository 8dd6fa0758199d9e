package network

import (
	"context"
	"errors"
)

// ErrLayerNotFound is returned when a model has no layer with the requested name.
var ErrLayerNotFound = errors.New("network: layer not found")

// Hook observes the output of a layer during a forward pass. Returning an
// error aborts the pass.
type Hook func(layer string, output Tensor) error

// HookHandle unregisters a hook.
type HookHandle interface {
	// Remove unregisters the hook. It reports false if the hook was already removed.
	Remove() bool
}

// Layer is a named stage of a Model whose outputs can be observed.
type Layer interface {
	Name() string
	RegisterForwardHook(h Hook) HookHandle
}

// Model runs forward passes over batches of inputs.
type Model interface {
	// Forward runs one pass over a batch and returns the final output.
	Forward(ctx context.Context, input Tensor) (Tensor, error)

	// Layer resolves a layer by name.
	Layer(name string) (Layer, error)
}

// Loader turns image files into a batched input tensor.
type Loader interface {
	Load(ctx context.Context, paths ...string) (Tensor, error)
}
