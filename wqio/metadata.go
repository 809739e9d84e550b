package wqio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"wq-tools/wqproc"
)

// DateMetadata is the per-date sidecar record written next to each
// rendered image. Field names match the downstream viewer's contract.
type DateMetadata struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Date        string     `json:"date"`
	Image       string     `json:"image"`
	EPSG        string     `json:"EPSG"`
	TLCorner    [2]float64 `json:"TLcorner"`
	LRCorner    [2]float64 `json:"LRcorner"`
	MinValue    float64    `json:"minValue"`
	MaxValue    float64    `json:"maxValue"`
	MeanValue   float64    `json:"meanValue"`
	MedianValue float64    `json:"medianValue"`
	Flag        string     `json:"flag"`
	LakeType    string     `json:"lakeType"`
}

// ManifestEntry is the short-form record accumulated per date and
// written once at the end of a per-date run.
type ManifestEntry struct {
	Date     string `json:"date"`
	Image    string `json:"image"`
	Metadata string `json:"metadata"`
}

// WriteDateArtifacts renders one retained date as an image plus its
// metadata sidecar and returns the manifest entry referencing both.
func WriteDateArtifacts(cfg *wqproc.Config, res wqproc.DateResult) (ManifestEntry, error) {
	base := fmt.Sprintf("%s_%s", cfg.Name, res.DateString())
	imgPath := filepath.Join(cfg.OutputDir, base+".jpg")
	metaPath := filepath.Join(cfg.OutputDir, base+".json")

	if err := RenderJPEG(res.Raster, imgPath); err != nil {
		return ManifestEntry{}, err
	}

	meta := DateMetadata{
		Name:        cfg.Name,
		DisplayName: cfg.DisplayName,
		Date:        res.DateString(),
		Image:       imgPath,
		EPSG:        strconv.Itoa(res.Raster.Grid.EPSG),
		TLCorner:    res.Raster.Grid.TLCorner(),
		LRCorner:    res.Raster.Grid.LRCorner(),
		MinValue:    res.Stats.Min,
		MaxValue:    res.Stats.Max,
		MeanValue:   res.Stats.Mean,
		MedianValue: res.Stats.Median,
		Flag:        res.Flag,
		LakeType:    cfg.LakeType,
	}
	if err := writeJSON(metaPath, meta); err != nil {
		return ManifestEntry{}, err
	}
	return ManifestEntry{Date: res.DateString(), Image: imgPath, Metadata: metaPath}, nil
}

// WriteManifest writes the accumulated per-date records as a single
// JSON array.
func WriteManifest(cfg *wqproc.Config, entries []ManifestEntry) error {
	path := filepath.Join(cfg.OutputDir, cfg.Name+"_manifest.json")
	return writeJSON(path, entries)
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
