package wqio

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"

	"wq-tools/wqproc"
)

// StatsRow is one retained date's summary statistics in the parquet
// stats table.
type StatsRow struct {
	Date          string  `parquet:"date, type=UTF8"`
	ValidFraction float64 `parquet:"valid_fraction, type=DOUBLE"`
	MinValue      float64 `parquet:"min_value, type=DOUBLE"`
	MaxValue      float64 `parquet:"max_value, type=DOUBLE"`
	MeanValue     float64 `parquet:"mean_value, type=DOUBLE"`
	MedianValue   float64 `parquet:"median_value, type=DOUBLE"`
}

// WriteStatsParquet writes one row per retained date.
func WriteStatsParquet(cfg *wqproc.Config, results []wqproc.DateResult) (string, error) {
	path := filepath.Join(cfg.OutputDir, cfg.Name+"_stats.parquet")
	output, err := os.Create(path)
	if err != nil {
		return "", err
	}

	schema := parquet.SchemaOf(new(StatsRow))
	writer := parquet.NewGenericWriter[StatsRow](output, schema, parquet.Compression(&parquet.Snappy))
	defer func() {
		if err := output.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	rows := make([]StatsRow, len(results))
	for i, res := range results {
		rows[i] = StatsRow{
			Date:          res.DateString(),
			ValidFraction: res.ValidFraction,
			MinValue:      res.Stats.Min,
			MaxValue:      res.Stats.Max,
			MeanValue:     res.Stats.Mean,
			MedianValue:   res.Stats.Median,
		}
	}
	if _, err := writer.Write(rows); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return path, nil
}
