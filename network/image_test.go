package network

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s failed: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
}

func TestImageLoader(t *testing.T) {
	dir := t.TempDir()
	white := filepath.Join(dir, "white.png")
	black := filepath.Join(dir, "black.png")
	writePNG(t, white, 13, 7, color.White)
	writePNG(t, black, 4, 4, color.Black)

	loader := NewImageLoader(4)
	tensor, err := loader.Load(context.Background(), white, black)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := []int{2, Channels, 4, 4}; len(tensor.Shape) != 4 || tensor.Shape[0] != want[0] || tensor.Shape[2] != want[2] {
		t.Fatalf("shape = %v, want %v", tensor.Shape, want)
	}
	wantWhite := (1 - imagenetMean[0]) / imagenetStd[0]
	wantBlack := (0 - imagenetMean[0]) / imagenetStd[0]
	if math.Abs(float64(tensor.Row(0)[0]-wantWhite)) > 1e-5 {
		t.Fatalf("white red channel = %v, want %v", tensor.Row(0)[0], wantWhite)
	}
	if math.Abs(float64(tensor.Row(1)[0]-wantBlack)) > 1e-5 {
		t.Fatalf("black red channel = %v, want %v", tensor.Row(1)[0], wantBlack)
	}
}

func TestImageLoaderErrors(t *testing.T) {
	loader := NewImageLoader(4)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Fatalf("expected error for empty batch")
	}
	if _, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := loader.Load(context.Background(), bad); err == nil {
		t.Fatalf("expected decode error")
	}
}
