package wqproc

import (
	"time"

	"github.com/sirupsen/logrus"
)

// DateResult is one retained date after reprojection and masking.
type DateResult struct {
	Date          time.Time
	Raster        *Raster
	Stats         Stats
	ValidFraction float64
	// Flag is a quality annotation carried through to metadata.
	// Nothing sets it yet; manual review fills it in downstream.
	Flag string
}

func (r DateResult) DateString() string {
	return r.Date.Format("2006-01-02")
}

// Run executes the full pipeline: acquisition, date deduplication,
// water-mask construction, then the per-date reproject/mask/filter
// loop. Setup failures abort; per-date failures are logged and the
// date skipped.
func Run(cfg *Config) ([]DateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stack, err := LoadScenes(cfg)
	if err != nil {
		return nil, err
	}
	stack = DedupDates(stack)
	logrus.Infof("%d unique dates after deduplication", len(stack))

	mask, err := BuildWaterMask(cfg)
	if err != nil {
		return nil, err
	}
	logrus.Infof("Water mask has %d water pixels of %d",
		mask.WaterCount(), len(mask.Land))

	var results []DateResult
	for _, dr := range stack {
		masked, frac, err := ReprojectAndMask(dr, mask)
		if err != nil {
			logrus.Warnf("Skipping %s: %v", dr.DateString(), err)
			continue
		}
		if frac*100 < cfg.MinValidPercent {
			logrus.Warnf("Skipping %s: %.1f%% valid water pixels: %v",
				dr.DateString(), frac*100, ErrInsufficientValidPixels)
			continue
		}
		results = append(results, DateResult{
			Date:          dr.Date,
			Raster:        masked,
			Stats:         Summarize(masked.Data),
			ValidFraction: frac,
		})
	}
	logrus.Infof("Retained %d of %d dates", len(results), len(stack))
	return results, nil
}
