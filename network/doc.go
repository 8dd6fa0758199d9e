// Package network defines the forward-pass contract used to turn images into
// embeddings: a Model runs batches of input tensors through named layers, and
// every Layer accepts forward hooks that observe its output.
//
// Sequential is a reference Model built from named stages. NewFeatureExtractor
// assembles a pooling pipeline that produces fixed-length image descriptors
// without trained weights, so the rest of the system can run end to end. A
// trained network plugs in by implementing Model.
package network
