package wqproc

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/golang/geo/s2"
	"github.com/sirupsen/logrus"
)

// Water-occurrence tiles sit on a 10-degree grid and are named after
// their upper-left corner, e.g. occurrence_140E_30S.tif.
const tileSizeDeg = 10.0

// WaterMask marks pixels to exclude from WQ output. Land is true for
// pixels that are not water (or sit within the shoreline buffer).
type WaterMask struct {
	Grid GeoGrid
	Land []bool
}

func (m *WaterMask) WaterCount() int {
	var n int
	for _, land := range m.Land {
		if !land {
			n++
		}
	}
	return n
}

// OccurrenceTile returns the file name of the single occurrence tile
// covering the region, or ErrRegionSpansTiles if no single tile does.
func (c *Config) OccurrenceTile() (string, error) {
	lonW := math.Floor(c.MinLon/tileSizeDeg) * tileSizeDeg
	latN := math.Ceil(c.MaxLat/tileSizeDeg) * tileSizeDeg

	tile := s2.RectFromLatLng(s2.LatLngFromDegrees(latN-tileSizeDeg, lonW))
	tile = tile.AddPoint(s2.LatLngFromDegrees(latN, lonW+tileSizeDeg))
	if !tile.Contains(c.Region()) {
		return "", fmt.Errorf("region [%v, %v, %v, %v]: %w",
			c.MinLon, c.MinLat, c.MaxLon, c.MaxLat, ErrRegionSpansTiles)
	}
	return tileName(lonW, latN), nil
}

func tileName(lonW, latN float64) string {
	ew, ns := "E", "N"
	if lonW < 0 {
		ew = "W"
		lonW = -lonW
	}
	if latN < 0 {
		ns = "S"
		latN = -latN
	}
	return fmt.Sprintf("occurrence_%.0f%s_%.0f%s.tif", lonW, ew, latN, ns)
}

// BuildWaterMask loads the occurrence tile for the configured region,
// thresholds it into a land mask and grows the land by the buffer
// distance. The mask stays on the tile's native grid, windowed to the
// region.
func BuildWaterMask(cfg *Config) (*WaterMask, error) {
	tile, err := cfg.OccurrenceTile()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(cfg.OccurrenceDir, tile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrAuxRasterNotFound)
	}

	occ, err := readOccurrenceWindow(path, cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Loaded occurrence window %dx%d from %s",
		occ.Grid.Width, occ.Grid.Height, tile)

	mask := ThresholdOccurrence(occ, cfg.WaterThreshold)
	mask.Dilate(cfg.BufferPixels)
	return mask, nil
}

// ThresholdOccurrence classifies each pixel: occurrence at or above
// the threshold percentage is water, everything else (missing pixels
// included) is land.
func ThresholdOccurrence(occ *Raster, threshold float64) *WaterMask {
	land := make([]bool, len(occ.Data))
	for i, v := range occ.Data {
		land[i] = math.IsNaN(v) || v < threshold
	}
	return &WaterMask{Grid: occ.Grid, Land: land}
}

// Dilate grows the land regions by radius pixels using a disk-shaped
// structuring kernel: any pixel within Euclidean distance radius of a
// land pixel becomes land. Monotonic in radius.
func (m *WaterMask) Dilate(radius float64) {
	offsets := diskOffsets(radius)
	if len(offsets) <= 1 {
		return
	}
	w, h := m.Grid.Width, m.Grid.Height
	out := make([]bool, len(m.Land))
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			if out[row*w+col] {
				continue
			}
			for _, off := range offsets {
				r, c := row+off[1], col+off[0]
				if r < 0 || r >= h || c < 0 || c >= w {
					continue
				}
				if m.Land[r*w+c] {
					out[row*w+col] = true
					break
				}
			}
		}
	}
	m.Land = out
}

// diskOffsets returns every (dx, dy) within Euclidean distance radius
// of the kernel center.
func diskOffsets(radius float64) [][2]int {
	r := int(radius)
	var offsets [][2]int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) <= radius*radius {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}
	return offsets
}

// readOccurrenceWindow reads just the pixels of the occurrence tile
// that cover the configured region.
func readOccurrenceWindow(path string, cfg *Config) (*Raster, error) {
	godal.RegisterAll()
	ds, err := godal.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, err
	}
	struc := ds.Structure()

	// Pixel window covering the region, clamped to the tile.
	col0 := clamp(int(math.Floor((cfg.MinLon-gt[0])/gt[1])), 0, struc.SizeX-1)
	col1 := clamp(int(math.Ceil((cfg.MaxLon-gt[0])/gt[1])), 1, struc.SizeX)
	row0 := clamp(int(math.Floor((cfg.MaxLat-gt[3])/gt[5])), 0, struc.SizeY-1)
	row1 := clamp(int(math.Ceil((cfg.MinLat-gt[3])/gt[5])), 1, struc.SizeY)

	w, h := col1-col0, row1-row0
	grid := GeoGrid{
		OriginX: gt[0] + float64(col0)*gt[1],
		OriginY: gt[3] + float64(row0)*gt[5],
		XRes:    gt[1],
		YRes:    gt[5],
		Width:   w,
		Height:  h,
		EPSG:    4326,
	}

	band := ds.Bands()[0]
	buf := make([]float64, w*h)
	if err := band.Read(col0, row0, buf, w, h); err != nil {
		return nil, err
	}
	if noData, ok := band.NoData(); ok {
		for i, v := range buf {
			if v == noData {
				buf[i] = math.NaN()
			}
		}
	}
	return &Raster{Grid: grid, Data: buf}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
