package wqio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/sirupsen/logrus"

	"wq-tools/wqproc"
)

const epochDate = "1970-01-01"

// WriteArchive stacks all retained dates into a single time-indexed
// netCDF dataset: wq(time, lat, lon) plus coordinate variables, with
// the per-date metadata carried as global attribute vectors. With
// zero retained dates nothing is written and the path is returned
// empty.
func WriteArchive(cfg *wqproc.Config, results []wqproc.DateResult) (string, error) {
	if len(results) == 0 {
		logrus.Warn("No dates retained, skipping archive write")
		return "", nil
	}

	grid := results[0].Raster.Grid
	for _, res := range results[1:] {
		if !res.Raster.Grid.Equal(grid) {
			return "", fmt.Errorf("archive stack: %w", wqproc.ErrIncompatibleGrid)
		}
	}

	path := filepath.Join(cfg.OutputDir, cfg.Name+"_wq.nc")
	cw, err := cdf.NewCDFWriter(path)
	if err != nil {
		return "", err
	}

	days := make([]int32, len(results))
	dates := make([]string, len(results))
	minVals := make([]float64, len(results))
	maxVals := make([]float64, len(results))
	meanVals := make([]float64, len(results))
	medianVals := make([]float64, len(results))
	validFracs := make([]float64, len(results))
	flags := make([]string, len(results))
	cube := make([][][]float64, len(results))
	for i, res := range results {
		days[i] = int32(res.Date.Unix() / 86400)
		dates[i] = res.DateString()
		minVals[i] = res.Stats.Min
		maxVals[i] = res.Stats.Max
		meanVals[i] = res.Stats.Mean
		medianVals[i] = res.Stats.Median
		validFracs[i] = res.ValidFraction
		flags[i] = res.Flag

		rows := make([][]float64, grid.Height)
		for r := 0; r < grid.Height; r++ {
			rows[r] = res.Raster.Data[r*grid.Width : (r+1)*grid.Width]
		}
		cube[i] = rows
	}

	timeAttrs, err := util.NewOrderedMap(
		[]string{"units", "calendar"},
		map[string]interface{}{
			"units":    "days since " + epochDate,
			"calendar": "gregorian",
		})
	if err != nil {
		return "", err
	}
	if err := cw.AddVar("time", api.Variable{
		Values:     days,
		Dimensions: []string{"time"},
		Attributes: timeAttrs,
	}); err != nil {
		return "", err
	}
	if err := addCoordVar(cw, "lat", "degrees_north", grid.CellCentersY()); err != nil {
		return "", err
	}
	if err := addCoordVar(cw, "lon", "degrees_east", grid.CellCentersX()); err != nil {
		return "", err
	}
	if err := cw.AddVar("wq", api.Variable{
		Values:     cube,
		Dimensions: []string{"time", "lat", "lon"},
	}); err != nil {
		return "", err
	}

	tl, lr := grid.TLCorner(), grid.LRCorner()
	globals, err := util.NewOrderedMap(
		[]string{
			"name", "displayName", "lakeType", "EPSG",
			"TLcorner", "LRcorner", "dates",
			"minValues", "maxValues", "meanValues", "medianValues",
			"validFractions", "flags",
		},
		map[string]interface{}{
			"name":           cfg.Name,
			"displayName":    cfg.DisplayName,
			"lakeType":       cfg.LakeType,
			"EPSG":           int32(grid.EPSG),
			"TLcorner":       tl[:],
			"LRcorner":       lr[:],
			"dates":          strings.Join(dates, ","),
			"minValues":      minVals,
			"maxValues":      maxVals,
			"meanValues":     meanVals,
			"medianValues":   medianVals,
			"validFractions": validFracs,
			"flags":          strings.Join(flags, ","),
		})
	if err != nil {
		return "", err
	}
	if err := cw.AddGlobalAttrs(globals); err != nil {
		return "", err
	}

	if err := cw.Close(); err != nil {
		return "", err
	}
	logrus.Infof("Wrote archive %s (%d dates)", path, len(results))
	return path, nil
}

func addCoordVar(cw *cdf.CDFWriter, name, units string, values []float64) error {
	attrs, err := util.NewOrderedMap(
		[]string{"units"},
		map[string]interface{}{"units": units})
	if err != nil {
		return err
	}
	return cw.AddVar(name, api.Variable{
		Values:     values,
		Dimensions: []string{name},
		Attributes: attrs,
	})
}

// Archive is the read-back form of an archive dataset.
type Archive struct {
	Name  string
	Days  []int32
	Dates []string
	Lats  []float64
	Lons  []float64
	WQ    [][][]float64
}

// ReadArchive loads an archive dataset written by WriteArchive.
func ReadArchive(path string) (*Archive, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer nc.Close()

	a := &Archive{}

	timeVr, err := nc.GetVariable("time")
	if err != nil {
		return nil, err
	}
	days, ok := timeVr.Values.([]int32)
	if !ok {
		return nil, fmt.Errorf("time variable is not []int32")
	}
	a.Days = days

	latVr, err := nc.GetVariable("lat")
	if err != nil {
		return nil, err
	}
	if a.Lats, ok = latVr.Values.([]float64); !ok {
		return nil, fmt.Errorf("lat variable is not []float64")
	}
	lonVr, err := nc.GetVariable("lon")
	if err != nil {
		return nil, err
	}
	if a.Lons, ok = lonVr.Values.([]float64); !ok {
		return nil, fmt.Errorf("lon variable is not []float64")
	}

	wqVr, err := nc.GetVariable("wq")
	if err != nil {
		return nil, err
	}
	if a.WQ, ok = wqVr.Values.([][][]float64); !ok {
		return nil, fmt.Errorf("wq variable is not [][][]float64")
	}

	attrs := nc.Attributes()
	if v, has := attrs.Get("name"); has {
		if s, ok := v.(string); ok {
			a.Name = s
		}
	}
	if v, has := attrs.Get("dates"); has {
		if s, ok := v.(string); ok && s != "" {
			a.Dates = strings.Split(s, ",")
		}
	}
	return a, nil
}
