package network

import "fmt"

const (
	// FeatureLayer is the layer whose output NewFeatureExtractor exposes as
	// the image embedding.
	FeatureLayer = "features"
	// Channels is the number of colour channels produced by ImageLoader.
	Channels = 3

	headOutputs = 16
	headSeed    = 1
)

// NewFeatureExtractor builds a model for [N,3,size,size] inputs: two 2×2
// average pools, flatten, L2 normalization ("features") and a fixed linear
// head ("head"). size must be a positive multiple of 4.
func NewFeatureExtractor(size int) (*Sequential, error) {
	if size <= 0 || size%4 != 0 {
		return nil, fmt.Errorf("network: image size %d must be a positive multiple of 4", size)
	}
	dim := FeatureDim(size)
	return NewSequential(
		Stage{Name: "pool1", Fn: AvgPool2D(2)},
		Stage{Name: "pool2", Fn: AvgPool2D(2)},
		Stage{Name: "flatten", Fn: Flatten()},
		Stage{Name: FeatureLayer, Fn: L2Normalize()},
		Stage{Name: "head", Fn: Linear(dim, headOutputs, headSeed)},
	)
}

// FeatureDim returns the embedding length NewFeatureExtractor produces at
// FeatureLayer for the given input size.
func FeatureDim(size int) int {
	side := size / 4
	return Channels * side * side
}
