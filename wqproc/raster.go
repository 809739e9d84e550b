package wqproc

import (
	"math"
	"sort"
	"time"
)

// GeoGrid describes how array indices map to ground coordinates:
// top-left origin, pixel size and a spatial reference. Rotated grids
// are not supported. Two grids must be equal for direct pixel-wise
// operations; anything else goes through a warp first.
type GeoGrid struct {
	OriginX float64
	OriginY float64
	XRes    float64
	YRes    float64 // negative for north-up rasters
	Width   int
	Height  int
	EPSG    int
}

func (g GeoGrid) Equal(o GeoGrid) bool {
	return g == o
}

// GeoTransform returns the grid as a GDAL-style affine transform.
func (g GeoGrid) GeoTransform() [6]float64 {
	return [6]float64{g.OriginX, g.XRes, 0, g.OriginY, 0, g.YRes}
}

// TLCorner returns the top-left corner as (x, y).
func (g GeoGrid) TLCorner() [2]float64 {
	return [2]float64{g.OriginX, g.OriginY}
}

// LRCorner returns the lower-right corner as (x, y).
func (g GeoGrid) LRCorner() [2]float64 {
	return [2]float64{
		g.OriginX + float64(g.Width)*g.XRes,
		g.OriginY + float64(g.Height)*g.YRes,
	}
}

// CellCentersX returns the x coordinate of every column center.
func (g GeoGrid) CellCentersX() []float64 {
	xs := make([]float64, g.Width)
	for i := range xs {
		xs[i] = g.OriginX + (float64(i)+0.5)*g.XRes
	}
	return xs
}

// CellCentersY returns the y coordinate of every row center.
func (g GeoGrid) CellCentersY() []float64 {
	ys := make([]float64, g.Height)
	for i := range ys {
		ys[i] = g.OriginY + (float64(i)+0.5)*g.YRes
	}
	return ys
}

// Raster is a single-band raster on a grid. Data is row-major and NaN
// marks a missing pixel.
type Raster struct {
	Grid GeoGrid
	Data []float64
}

func NewRaster(grid GeoGrid) *Raster {
	return &Raster{Grid: grid, Data: make([]float64, grid.Width*grid.Height)}
}

func (r *Raster) Clone() *Raster {
	out := &Raster{Grid: r.Grid, Data: make([]float64, len(r.Data))}
	copy(out.Data, r.Data)
	return out
}

func (r *Raster) MissingCount() int {
	var n int
	for _, v := range r.Data {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// DateRaster ties a raster to its acquisition date. Date is the
// calendar date the acquisition instant truncates to; it is the
// deduplication key.
type DateRaster struct {
	Date   time.Time
	Raster *Raster
}

func (dr DateRaster) DateString() string {
	return dr.Date.Format("2006-01-02")
}

// Stats summarises the non-missing pixels of a raster. All fields are
// NaN when no valid pixel exists.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

func Summarize(data []float64) Stats {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		nan := math.NaN()
		return Stats{nan, nan, nan, nan}
	}
	sort.Float64s(valid)

	var sum float64
	for _, v := range valid {
		sum += v
	}

	n := len(valid)
	median := valid[n/2]
	if n%2 == 0 {
		median = (valid[n/2-1] + valid[n/2]) / 2
	}
	return Stats{
		Min:    valid[0],
		Max:    valid[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}
