// Package lakes reads lake-boundary shapefiles to derive region
// extents for pipeline runs. It is a standalone exploration tool, not
// part of the processing pipeline.
package lakes

import (
	"fmt"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// Lake is one polygon feature: its identifying attributes plus
// bounding box (minLon, minLat, maxLon, maxLat).
type Lake struct {
	Name   string
	Type   string
	Bounds [4]float64
	Attrs  map[string]string
}

// ListLakes reads every feature of the shapefile's first layer.
func ListLakes(path string) ([]Lake, error) {
	godal.RegisterAll()
	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("%s: no vector layers", path)
	}
	layer := layers[0]

	var out []Lake
	for {
		feat := layer.NextFeature()
		if feat == nil {
			break
		}
		lake := Lake{Attrs: map[string]string{}}
		for name, field := range feat.Fields() {
			v := field.String()
			lake.Attrs[name] = v
			switch strings.ToLower(name) {
			case "name", "lake_name":
				lake.Name = v
			case "type", "lake_type":
				lake.Type = v
			}
		}
		geom := feat.Geometry()
		if geom != nil {
			bounds, err := geom.Bounds()
			if err != nil {
				return nil, err
			}
			lake.Bounds = bounds
		}
		out = append(out, lake)
	}
	logrus.Infof("Read %d features from %s", len(out), path)
	return out, nil
}

// Find returns the lake whose Name matches (case-insensitive).
func Find(all []Lake, name string) (Lake, bool) {
	for _, l := range all {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Lake{}, false
}

// Region pads a lake's bounding box by margin degrees on every side,
// yielding bounds usable as a pipeline region.
func Region(l Lake, margin float64) [4]float64 {
	return [4]float64{
		l.Bounds[0] - margin,
		l.Bounds[1] - margin,
		l.Bounds[2] + margin,
		l.Bounds[3] + margin,
	}
}
