package network

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

var (
	imagenetMean = [Channels]float32{0.485, 0.456, 0.406}
	imagenetStd  = [Channels]float32{0.229, 0.224, 0.225}
)

// ImageLoader decodes JPEG, PNG and GIF files, resizes them to Size×Size
// with box filtering and normalizes channels with ImageNet statistics into
// an [N,3,Size,Size] tensor.
type ImageLoader struct {
	Size int
}

// NewImageLoader returns a loader producing size×size inputs.
func NewImageLoader(size int) *ImageLoader {
	return &ImageLoader{Size: size}
}

// Load decodes every path into one batch, in order.
func (l *ImageLoader) Load(ctx context.Context, paths ...string) (Tensor, error) {
	if len(paths) == 0 {
		return Tensor{}, fmt.Errorf("network: no images to load")
	}
	if l.Size <= 0 {
		return Tensor{}, fmt.Errorf("network: invalid image size %d", l.Size)
	}
	plane := l.Size * l.Size
	data := make([]float32, 0, len(paths)*Channels*plane)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return Tensor{}, err
		}
		img, err := decodeFile(p)
		if err != nil {
			return Tensor{}, err
		}
		data = append(data, l.pixels(img)...)
	}
	return Tensor{Shape: []int{len(paths), Channels, l.Size, l.Size}, Data: data}, nil
}

// FromImage converts a decoded image into a single-item batch.
func (l *ImageLoader) FromImage(img image.Image) Tensor {
	return Tensor{Shape: []int{1, Channels, l.Size, l.Size}, Data: l.pixels(img)}
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("network: open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("network: decode %s: %w", path, err)
	}
	return img, nil
}

// pixels box-resamples img to Size×Size and returns normalized CHW values.
func (l *ImageLoader) pixels(img image.Image) []float32 {
	size := l.Size
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float32, Channels*size*size)
	if w == 0 || h == 0 {
		return out
	}
	for y := 0; y < size; y++ {
		y0 := b.Min.Y + y*h/size
		y1 := max(b.Min.Y+(y+1)*h/size, y0+1)
		for x := 0; x < size; x++ {
			x0 := b.Min.X + x*w/size
			x1 := max(b.Min.X+(x+1)*w/size, x0+1)
			var sum [Channels]float64
			var n float64
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					r, g, bl, _ := img.At(sx, sy).RGBA()
					sum[0] += float64(r) / 0xffff
					sum[1] += float64(g) / 0xffff
					sum[2] += float64(bl) / 0xffff
					n++
				}
			}
			for c := 0; c < Channels; c++ {
				v := float32(sum[c] / n)
				out[c*size*size+y*size+x] = (v - imagenetMean[c]) / imagenetStd[c]
			}
		}
	}
	return out
}

// Ensure ImageLoader satisfies the Loader interface.
var _ Loader = (*ImageLoader)(nil)
