package wqproc

import (
	"math"
	"testing"
)

func TestSummarizeIgnoresMissing(t *testing.T) {
	got := Summarize([]float64{4, nan, 1, 3, nan, 2})
	want := Stats{Min: 1, Max: 4, Mean: 2.5, Median: 2.5}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSummarizeOddCount(t *testing.T) {
	got := Summarize([]float64{5, 1, 3})
	if got.Median != 3 {
		t.Errorf("median = %v, want 3", got.Median)
	}
}

func TestSummarizeAllMissing(t *testing.T) {
	got := Summarize([]float64{nan, nan})
	for name, v := range map[string]float64{
		"min": got.Min, "max": got.Max, "mean": got.Mean, "median": got.Median,
	} {
		if !math.IsNaN(v) {
			t.Errorf("%s = %v, want NaN", name, v)
		}
	}
}

func TestMissingCount(t *testing.T) {
	r := testRaster(2, 2, []float64{1, nan, nan, 4})
	if got := r.MissingCount(); got != 2 {
		t.Errorf("MissingCount = %d, want 2", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := testRaster(2, 2, []float64{1, 2, 3, 4})
	c := r.Clone()
	c.Data[0] = 99
	if r.Data[0] != 1 {
		t.Errorf("mutating the clone changed the original")
	}
}

func TestGridCorners(t *testing.T) {
	g := testGrid(100, 50)
	if tl := g.TLCorner(); tl != [2]float64{145.0, -37.0} {
		t.Errorf("TLCorner = %v", tl)
	}
	lr := g.LRCorner()
	if math.Abs(lr[0]-145.1) > 1e-9 || math.Abs(lr[1]-(-37.05)) > 1e-9 {
		t.Errorf("LRCorner = %v, want [145.1 -37.05]", lr)
	}
}

func TestGridCellCenters(t *testing.T) {
	g := testGrid(3, 2)
	xs := g.CellCentersX()
	if len(xs) != 3 || math.Abs(xs[0]-145.0005) > 1e-9 {
		t.Errorf("CellCentersX = %v", xs)
	}
	ys := g.CellCentersY()
	if len(ys) != 2 || math.Abs(ys[1]-(-37.0015)) > 1e-9 {
		t.Errorf("CellCentersY = %v", ys)
	}
}

func TestGeoTransformRoundTrip(t *testing.T) {
	g := testGrid(4, 4)
	gt := g.GeoTransform()
	if gt[0] != g.OriginX || gt[1] != g.XRes || gt[3] != g.OriginY || gt[5] != g.YRes {
		t.Errorf("GeoTransform = %v", gt)
	}
	if gt[2] != 0 || gt[4] != 0 {
		t.Errorf("rotation terms %v, %v must be zero", gt[2], gt[4])
	}
}
