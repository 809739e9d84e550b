package wqproc

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestApplyMaskNullsLand(t *testing.T) {
	r := testRaster(2, 2, []float64{1, 2, 3, 4})
	mask := &WaterMask{Grid: testGrid(2, 2), Land: []bool{false, true, false, true}}

	if err := ApplyMask(r, mask); err != nil {
		t.Fatal(err)
	}
	if r.Data[0] != 1 || r.Data[2] != 3 {
		t.Errorf("water pixels changed: %v", r.Data)
	}
	if !math.IsNaN(r.Data[1]) || !math.IsNaN(r.Data[3]) {
		t.Errorf("land pixels not nulled: %v", r.Data)
	}
}

func TestApplyMaskRejectsGridMismatch(t *testing.T) {
	r := testRaster(2, 2, []float64{1, 2, 3, 4})
	mask := &WaterMask{Grid: testGrid(3, 3), Land: make([]bool, 9)}

	err := ApplyMask(r, mask)
	if !errors.Is(err, ErrIncompatibleGrid) {
		t.Errorf("err = %v, want ErrIncompatibleGrid", err)
	}
}

func TestValidFraction(t *testing.T) {
	mask := &WaterMask{Grid: testGrid(2, 2), Land: []bool{false, false, false, true}}
	r := testRaster(2, 2, []float64{1, nan, 3, nan})

	// 2 of 3 water pixels hold data; the land pixel does not count.
	got := ValidFraction(r, mask)
	want := 2.0 / 3.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ValidFraction = %v, want %v", got, want)
	}
}

func TestValidFractionAllLand(t *testing.T) {
	mask := &WaterMask{Grid: testGrid(1, 2), Land: []bool{true, true}}
	r := testRaster(1, 2, []float64{1, 2})
	if got := ValidFraction(r, mask); got != 0 {
		t.Errorf("ValidFraction = %v, want 0", got)
	}
}

func TestRetentionThresholdBoundary(t *testing.T) {
	// A date exactly at the minimum is retained; one pixel below is
	// not. Mirrors the comparison the pipeline loop applies.
	minValid := 10.0
	mask := &WaterMask{Grid: testGrid(10, 1), Land: make([]bool, 10)}

	at := testRaster(10, 1, []float64{1, nan, nan, nan, nan, nan, nan, nan, nan, nan})
	if frac := ValidFraction(at, mask); frac*100 < minValid {
		t.Errorf("fraction %v*100 below threshold %v, want retained", frac, minValid)
	}

	below := testRaster(10, 1, []float64{nan, nan, nan, nan, nan, nan, nan, nan, nan, nan})
	if frac := ValidFraction(below, mask); frac*100 >= minValid {
		t.Errorf("fraction %v*100 at or above threshold %v, want excluded", frac, minValid)
	}
}

func TestReprojectAndMaskIdentityGrid(t *testing.T) {
	// Source and mask share a grid, so bilinear warp must reproduce
	// the source values; all-water mask leaves everything valid.
	data := []float64{10, 20, 30, 40}
	dr := DateRaster{
		Date:   time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
		Raster: testRaster(2, 2, data),
	}
	mask := &WaterMask{Grid: testGrid(2, 2), Land: make([]bool, 4)}

	out, frac, err := ReprojectAndMask(dr, mask)
	if err != nil {
		t.Fatal(err)
	}
	if frac != 1 {
		t.Errorf("valid fraction = %v, want 1", frac)
	}
	for i, want := range data {
		if math.Abs(out.Data[i]-want) > 1e-6 {
			t.Errorf("pixel %d = %v, want %v", i, out.Data[i], want)
		}
	}
}

func TestReprojectAndMaskAppliesLand(t *testing.T) {
	data := []float64{10, 20, 30, 40}
	dr := DateRaster{
		Date:   time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
		Raster: testRaster(2, 2, data),
	}
	mask := &WaterMask{Grid: testGrid(2, 2), Land: []bool{true, false, false, true}}

	out, frac, err := ReprojectAndMask(dr, mask)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(out.Data[0]) || !math.IsNaN(out.Data[3]) {
		t.Errorf("land pixels survived masking: %v", out.Data)
	}
	if frac != 1 {
		t.Errorf("valid fraction = %v, want 1 (both water pixels valid)", frac)
	}
}

func TestReprojectAndMaskDisjointGridsStayMissing(t *testing.T) {
	// Mask grid far away from the source: nothing is warped in, so
	// the pre-reset destination must come back all-missing.
	dr := DateRaster{
		Date:   time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC),
		Raster: testRaster(2, 2, []float64{10, 20, 30, 40}),
	}
	farGrid := testGrid(2, 2)
	farGrid.OriginX += 1.0
	mask := &WaterMask{Grid: farGrid, Land: make([]bool, 4)}

	out, frac, err := ReprojectAndMask(dr, mask)
	if err != nil {
		t.Fatal(err)
	}
	if frac != 0 {
		t.Errorf("valid fraction = %v, want 0", frac)
	}
	for i, v := range out.Data {
		if !math.IsNaN(v) {
			t.Errorf("pixel %d = %v, want NaN", i, v)
		}
	}
}
