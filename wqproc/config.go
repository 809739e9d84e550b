package wqproc

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/geo/s2"
)

// Config carries every run parameter. Fields are validated up front so
// the pipeline itself never has to second-guess its inputs.
type Config struct {
	// Name is the short identifier used in output file names;
	// DisplayName is the human-readable label carried in metadata.
	Name        string
	DisplayName string
	LakeType    string

	// Region bounds in degrees (WGS84).
	MinLon, MinLat float64
	MaxLon, MaxLat float64

	StartDate time.Time
	EndDate   time.Time

	// SceneDir holds the dated WQ scene GeoTIFFs; OccurrenceDir holds
	// the water-occurrence tiles.
	SceneDir      string
	OccurrenceDir string
	SceneEPSG     int

	// WaterThreshold is the occurrence percentage at or above which a
	// pixel counts as water.
	WaterThreshold float64
	// BufferPixels grows the land mask by this radius (fractional
	// pixel units allowed).
	BufferPixels float64
	// MinValidPercent is the smallest share of water pixels that must
	// hold data for a date to be retained.
	MinValidPercent float64

	OutputDir string
}

// Region returns the configured bounds as an s2 rectangle.
func (c *Config) Region() s2.Rect {
	r := s2.RectFromLatLng(s2.LatLngFromDegrees(c.MinLat, c.MinLon))
	return r.AddPoint(s2.LatLngFromDegrees(c.MaxLat, c.MaxLon))
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name must be set")
	}
	if c.MinLon >= c.MaxLon || c.MinLat >= c.MaxLat {
		return fmt.Errorf("invalid region bounds [%v, %v, %v, %v]",
			c.MinLon, c.MinLat, c.MaxLon, c.MaxLat)
	}
	if c.MinLon < -180 || c.MaxLon > 180 || c.MinLat < -90 || c.MaxLat > 90 {
		return fmt.Errorf("region bounds outside [-180, 180] x [-90, 90]")
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("end date %s before start date %s",
			c.EndDate.Format("2006-01-02"), c.StartDate.Format("2006-01-02"))
	}
	if c.WaterThreshold < 0 || c.WaterThreshold > 100 {
		return fmt.Errorf("water threshold %v outside [0, 100]", c.WaterThreshold)
	}
	if c.MinValidPercent < 0 || c.MinValidPercent > 100 {
		return fmt.Errorf("minimum valid percent %v outside [0, 100]", c.MinValidPercent)
	}
	if c.BufferPixels < 0 {
		return fmt.Errorf("buffer distance %v is negative", c.BufferPixels)
	}
	if info, err := os.Stat(c.OutputDir); err != nil || !info.IsDir() {
		return fmt.Errorf("output directory %q does not exist", c.OutputDir)
	}

	// A region crossing an occurrence tile boundary would get a mask
	// built from only one of its tiles. Reject rather than mis-mask.
	if _, err := c.OccurrenceTile(); err != nil {
		return err
	}
	return nil
}
