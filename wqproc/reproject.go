package wqproc

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// ReprojectAndMask warps a per-date WQ raster onto the water mask's
// grid with bilinear resampling, nulls every land pixel, and reports
// the fraction of water pixels holding data. The destination buffer
// is reset to all-missing before each warp so stale values can never
// leak through pixels the warp does not touch.
func ReprojectAndMask(dr DateRaster, mask *WaterMask) (*Raster, float64, error) {
	src, err := memDatasetFromRaster(dr.Raster)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := src.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	dst := NewRaster(mask.Grid)
	for i := range dst.Data {
		dst.Data[i] = math.NaN()
	}
	dstDs, err := memDatasetFromRaster(dst)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := dstDs.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	switches := []string{"-r", "bilinear", "-srcnodata", "nan", "-dstnodata", "nan"}
	if err := dstDs.WarpInto([]*godal.Dataset{src}, switches); err != nil {
		return nil, 0, err
	}
	if err := dstDs.Bands()[0].Read(0, 0, dst.Data, mask.Grid.Width, mask.Grid.Height); err != nil {
		return nil, 0, err
	}

	if err := ApplyMask(dst, mask); err != nil {
		return nil, 0, err
	}
	return dst, ValidFraction(dst, mask), nil
}

// ApplyMask sets every land pixel of r to missing. Grids must match.
func ApplyMask(r *Raster, mask *WaterMask) error {
	if !r.Grid.Equal(mask.Grid) {
		return fmt.Errorf("raster vs mask: %w", ErrIncompatibleGrid)
	}
	for i, land := range mask.Land {
		if land {
			r.Data[i] = math.NaN()
		}
	}
	return nil
}

// ValidFraction is the share of the mask's water pixels where r holds
// a non-missing value. Zero water pixels yields zero.
func ValidFraction(r *Raster, mask *WaterMask) float64 {
	water := mask.WaterCount()
	if water == 0 {
		return 0
	}
	var valid int
	for i, land := range mask.Land {
		if !land && !math.IsNaN(r.Data[i]) {
			valid++
		}
	}
	return float64(valid) / float64(water)
}

// memDatasetFromRaster copies a raster into an in-memory GDAL dataset
// carrying its grid and spatial reference.
func memDatasetFromRaster(r *Raster) (*godal.Dataset, error) {
	godal.RegisterAll()
	ds, err := godal.Create(godal.Memory, "", 1, godal.Float64, r.Grid.Width, r.Grid.Height)
	if err != nil {
		return nil, err
	}
	if err := ds.SetGeoTransform(r.Grid.GeoTransform()); err != nil {
		return nil, closeOnErr(ds, err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(r.Grid.EPSG)
	if err != nil {
		return nil, closeOnErr(ds, err)
	}
	if err := ds.SetSpatialRef(sr); err != nil {
		return nil, closeOnErr(ds, err)
	}
	if err := ds.Bands()[0].Write(0, 0, r.Data, r.Grid.Width, r.Grid.Height); err != nil {
		return nil, closeOnErr(ds, err)
	}
	return ds, nil
}

func closeOnErr(ds *godal.Dataset, err error) error {
	if cerr := ds.Close(); cerr != nil {
		logrus.Error(cerr)
	}
	return err
}
