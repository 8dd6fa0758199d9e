package network

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// AvgPool2D averages non-overlapping k×k windows of an [N,C,H,W] tensor.
// Trailing rows and columns that do not fill a window are dropped.
func AvgPool2D(k int) StageFunc {
	return func(in Tensor) (Tensor, error) {
		if len(in.Shape) != 4 {
			return Tensor{}, fmt.Errorf("avgpool: want [N,C,H,W], got %v", in.Shape)
		}
		n, c, h, w := in.Shape[0], in.Shape[1], in.Shape[2], in.Shape[3]
		oh, ow := h/k, w/k
		if k <= 0 || oh == 0 || ow == 0 {
			return Tensor{}, fmt.Errorf("avgpool: window %d does not fit %dx%d", k, h, w)
		}
		out := make([]float32, n*c*oh*ow)
		scale := 1 / float32(k*k)
		for b := 0; b < n; b++ {
			for ch := 0; ch < c; ch++ {
				src := in.Data[(b*c+ch)*h*w:]
				dst := out[(b*c+ch)*oh*ow:]
				for y := 0; y < oh; y++ {
					for x := 0; x < ow; x++ {
						var sum float32
						for dy := 0; dy < k; dy++ {
							row := src[(y*k+dy)*w+x*k:]
							for dx := 0; dx < k; dx++ {
								sum += row[dx]
							}
						}
						dst[y*ow+x] = sum * scale
					}
				}
			}
		}
		return Tensor{Shape: []int{n, c, oh, ow}, Data: out}, nil
	}
}

// ReLU clamps negative values to zero.
func ReLU() StageFunc {
	return func(in Tensor) (Tensor, error) {
		out := in.Clone()
		for i, v := range out.Data {
			if v < 0 {
				out.Data[i] = 0
			}
		}
		return out, nil
	}
}

// Flatten reshapes [N,...] into [N, product(...)].
func Flatten() StageFunc {
	return func(in Tensor) (Tensor, error) {
		if len(in.Shape) == 0 {
			return Tensor{}, fmt.Errorf("flatten: empty shape")
		}
		return Tensor{Shape: []int{in.Batch(), in.RowLen()}, Data: in.Data}, nil
	}
}

// L2Normalize scales each row of an [N,D] tensor to unit length. Zero rows
// stay zero.
func L2Normalize() StageFunc {
	return func(in Tensor) (Tensor, error) {
		if len(in.Shape) != 2 {
			return Tensor{}, fmt.Errorf("l2normalize: want [N,D], got %v", in.Shape)
		}
		out := in.Clone()
		for b := 0; b < out.Batch(); b++ {
			row := out.Row(b)
			var sum float64
			for _, v := range row {
				sum += float64(v) * float64(v)
			}
			if sum == 0 {
				continue
			}
			inv := float32(1 / math.Sqrt(sum))
			for i := range row {
				row[i] *= inv
			}
		}
		return out, nil
	}
}

// Linear projects [N,in] to [N,out] with fixed weights drawn from a seeded
// normal distribution scaled by 1/sqrt(in).
func Linear(inDim, outDim int, seed uint64) StageFunc {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	weights := make([]float32, inDim*outDim)
	scale := 1 / math.Sqrt(float64(inDim))
	for i := range weights {
		weights[i] = float32(rng.NormFloat64() * scale)
	}
	return func(in Tensor) (Tensor, error) {
		if len(in.Shape) != 2 || in.Shape[1] != inDim {
			return Tensor{}, fmt.Errorf("linear: want [N,%d], got %v", inDim, in.Shape)
		}
		n := in.Batch()
		out := make([]float32, n*outDim)
		for b := 0; b < n; b++ {
			row := in.Row(b)
			for o := 0; o < outDim; o++ {
				w := weights[o*inDim : (o+1)*inDim]
				var sum float32
				for i, v := range row {
					sum += v * w[i]
				}
				out[b*outDim+o] = sum
			}
		}
		return Tensor{Shape: []int{n, outDim}, Data: out}, nil
	}
}
