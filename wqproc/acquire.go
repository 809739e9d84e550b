package wqproc

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// Scene files carry their acquisition instant in the file name,
// either as a bare date or with a time suffix:
// lake_2021-03-14.tif, lake_2021-03-14T013045.tif
var sceneStampRe = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})(?:T(\d{6}))?`)

// LoadScenes reads every scene GeoTIFF in the configured directory
// whose acquisition date falls inside the date range, in acquisition
// order. Each scene holds two spectral bands and, optionally, a
// pixel-quality band as band 3; the WQ raster is the mean of the two
// spectral bands with PQ-flagged pixels set to missing.
func LoadScenes(cfg *Config) ([]DateRaster, error) {
	godal.RegisterAll()

	entries, err := os.ReadDir(cfg.SceneDir)
	if err != nil {
		return nil, err
	}

	type dated struct {
		path  string
		stamp time.Time
	}
	var scenes []dated
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tif") {
			continue
		}
		stamp, ok := parseSceneStamp(e.Name())
		if !ok {
			logrus.Debugf("Skipping %s: no acquisition stamp in name", e.Name())
			continue
		}
		date := stamp.Truncate(24 * time.Hour)
		if date.Before(cfg.StartDate) || date.After(cfg.EndDate) {
			continue
		}
		scenes = append(scenes, dated{filepath.Join(cfg.SceneDir, e.Name()), stamp})
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%s in %s: %w",
			cfg.SceneDir, dateRangeString(cfg), ErrNoDataInRange)
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].stamp.Before(scenes[j].stamp) })

	stack := make([]DateRaster, 0, len(scenes))
	for _, s := range scenes {
		r, err := loadScene(s.path, cfg.SceneEPSG)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", s.path, err)
		}
		if len(stack) > 0 && !r.Grid.Equal(stack[0].Raster.Grid) {
			return nil, fmt.Errorf("%s: %w", s.path, ErrIncompatibleGrid)
		}
		stack = append(stack, DateRaster{Date: s.stamp.Truncate(24 * time.Hour), Raster: r})
	}
	logrus.Infof("Loaded %d acquisitions", len(stack))
	return stack, nil
}

func parseSceneStamp(name string) (time.Time, bool) {
	m := sceneStampRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, false
	}
	layout, stamp := "2006-01-02", m[1]
	if m[2] != "" {
		layout, stamp = "2006-01-02T150405", m[1]+"T"+m[2]
	}
	t, err := time.Parse(layout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateRangeString(cfg *Config) string {
	return cfg.StartDate.Format("2006-01-02") + ".." + cfg.EndDate.Format("2006-01-02")
}

// loadScene reads one scene and derives its WQ raster. A PQ value
// with any flag bit set marks a contaminated pixel (cloud, shadow,
// saturation) and is excluded band-wise before averaging.
func loadScene(path string, epsg int) (*Raster, error) {
	ds, err := godal.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	struc := ds.Structure()
	if struc.NBands < 2 {
		return nil, fmt.Errorf("%s: want at least 2 bands, have %d", path, struc.NBands)
	}
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, err
	}
	grid := GeoGrid{
		OriginX: gt[0], OriginY: gt[3],
		XRes: gt[1], YRes: gt[5],
		Width: struc.SizeX, Height: struc.SizeY,
		EPSG: epsg,
	}

	n := struc.SizeX * struc.SizeY
	bands := ds.Bands()
	b1, err := readBand(bands[0], struc.SizeX, struc.SizeY)
	if err != nil {
		return nil, err
	}
	b2, err := readBand(bands[1], struc.SizeX, struc.SizeY)
	if err != nil {
		return nil, err
	}

	var pq []float64
	if struc.NBands >= 3 {
		pq, err = readBand(bands[2], struc.SizeX, struc.SizeY)
		if err != nil {
			return nil, err
		}
	}

	wq := make([]float64, n)
	for i := 0; i < n; i++ {
		if pq != nil && pq[i] != 0 {
			wq[i] = math.NaN()
			continue
		}
		if math.IsNaN(b1[i]) || math.IsNaN(b2[i]) {
			wq[i] = math.NaN()
			continue
		}
		wq[i] = (b1[i] + b2[i]) / 2
	}
	return &Raster{Grid: grid, Data: wq}, nil
}

func readBand(band godal.Band, w, h int) ([]float64, error) {
	buf := make([]float64, w*h)
	if err := band.Read(0, 0, buf, w, h); err != nil {
		return nil, err
	}
	if noData, ok := band.NoData(); ok {
		for i, v := range buf {
			if v == noData {
				buf[i] = math.NaN()
			}
		}
	}
	return buf, nil
}
