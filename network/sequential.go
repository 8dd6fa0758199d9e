package network

import (
	"context"
	"fmt"
)

// StageFunc transforms a tensor.
type StageFunc func(in Tensor) (Tensor, error)

// Stage names a StageFunc inside a Sequential model.
type Stage struct {
	Name string
	Fn   StageFunc
}

// Sequential applies stages in order. Each stage is exposed as a hookable Layer.
type Sequential struct {
	layers []*layer
	byName map[string]*layer
}

type layer struct {
	name  string
	fn    StageFunc
	hooks hooks
}

func (l *layer) Name() string { return l.name }

func (l *layer) RegisterForwardHook(h Hook) HookHandle { return l.hooks.add(h) }

// NewSequential builds a model from uniquely named stages.
func NewSequential(stages ...Stage) (*Sequential, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("network: sequential model needs at least one stage")
	}
	s := &Sequential{byName: make(map[string]*layer, len(stages))}
	for _, st := range stages {
		if st.Name == "" || st.Fn == nil {
			return nil, fmt.Errorf("network: stage %q is incomplete", st.Name)
		}
		if _, ok := s.byName[st.Name]; ok {
			return nil, fmt.Errorf("network: duplicate stage %q", st.Name)
		}
		l := &layer{name: st.Name, fn: st.Fn}
		s.layers = append(s.layers, l)
		s.byName[st.Name] = l
	}
	return s, nil
}

// Forward runs input through every stage, invoking each layer's hooks with
// that layer's output.
func (s *Sequential) Forward(ctx context.Context, input Tensor) (Tensor, error) {
	out := input
	for _, l := range s.layers {
		if err := ctx.Err(); err != nil {
			return Tensor{}, err
		}
		next, err := l.fn(out)
		if err != nil {
			return Tensor{}, fmt.Errorf("network: layer %s: %w", l.name, err)
		}
		if err := l.hooks.run(l.name, next); err != nil {
			return Tensor{}, fmt.Errorf("network: hook on layer %s: %w", l.name, err)
		}
		out = next
	}
	return out, nil
}

// Layer returns the named layer.
func (s *Sequential) Layer(name string) (Layer, error) {
	if l, ok := s.byName[name]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, name)
}

// LayerNames lists layers in execution order.
func (s *Sequential) LayerNames() []string {
	out := make([]string, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.name
	}
	return out
}

// Ensure Sequential satisfies the Model interface.
var _ Model = (*Sequential)(nil)
