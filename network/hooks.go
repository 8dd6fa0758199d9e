package network

import (
	"sync"
)

// hooks is an ordered hook registry.
type hooks struct {
	mu    sync.Mutex
	next  int
	order []int
	fns   map[int]Hook
}

func (h *hooks) add(fn Hook) HookHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fns == nil {
		h.fns = make(map[int]Hook)
	}
	id := h.next
	h.next++
	h.fns[id] = fn
	h.order = append(h.order, id)
	return &hookHandle{registry: h, id: id}
}

func (h *hooks) remove(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.fns[id]; !ok {
		return false
	}
	delete(h.fns, id)
	for i, v := range h.order {
		if v == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	return true
}

func (h *hooks) snapshot() []Hook {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Hook, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.fns[id])
	}
	return out
}

// run invokes every registered hook in registration order.
func (h *hooks) run(layer string, output Tensor) error {
	for _, fn := range h.snapshot() {
		if err := fn(layer, output); err != nil {
			return err
		}
	}
	return nil
}

type hookHandle struct {
	registry *hooks
	id       int
}

func (h *hookHandle) Remove() bool {
	return h.registry.remove(h.id)
}
