package wqio

import (
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"wq-tools/wqproc"
)

func testResultRaster() *wqproc.Raster {
	grid := wqproc.GeoGrid{
		OriginX: 145.0, OriginY: -37.0,
		XRes: 0.001, YRes: -0.001,
		Width: 2, Height: 2,
		EPSG: 4326,
	}
	return &wqproc.Raster{Grid: grid, Data: []float64{0.1, 0.5, math.NaN(), 0.9}}
}

func TestGradientPaletteShape(t *testing.T) {
	stops := []color.RGBA{
		{0, 0, 0, 255},
		{255, 255, 255, 255},
	}
	ramp := GradientPalette(stops)
	if len(ramp) != 256 {
		t.Fatalf("palette length = %d, want 256", len(ramp))
	}
	if ramp[0] != stops[0] {
		t.Errorf("ramp[0] = %v, want first stop %v", ramp[0], stops[0])
	}
	for i := 1; i < 256; i++ {
		if ramp[i].R < ramp[i-1].R {
			t.Fatalf("ramp not monotonic at %d: %v < %v", i, ramp[i].R, ramp[i-1].R)
		}
	}
}

func TestRenderJPEGWritesDecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := RenderJPEG(testResultRaster(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("image size %dx%d, want 2x2", b.Dx(), b.Dy())
	}
}

func TestRenderJPEGConstantRaster(t *testing.T) {
	r := testResultRaster()
	r.Data = []float64{5, 5, 5, 5}
	path := filepath.Join(t.TempDir(), "flat.jpg")
	if err := RenderJPEG(r, path); err != nil {
		t.Fatalf("constant raster: %v", err)
	}
}
