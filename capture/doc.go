// Package capture records the activations of one network layer across
// forward passes.
//
// Attach registers a passive hook that copies the layer's output into
// row-major float32 rows: one row per batch item with all non-batch
// dimensions flattened. Rows accumulate across passes in call order until
// the handle is detached. A Features handle is not safe for concurrent
// passes; callers serialize passes per handle.
package capture
