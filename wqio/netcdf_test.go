package wqio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wq-tools/wqproc"
)

func TestWriteArchiveZeroDates(t *testing.T) {
	cfg := exportConfig(t)
	path, err := WriteArchive(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "weelngk_wq.nc")); !os.IsNotExist(err) {
		t.Errorf("archive file exists despite zero retained dates")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	cfg := exportConfig(t)
	res1 := testDateResult()
	res2 := testDateResult()
	res2.Date = time.Date(2021, 3, 30, 0, 0, 0, 0, time.UTC)
	res2.Raster = res2.Raster.Clone()
	res2.Raster.Data = []float64{0.2, 0.4, 0.6, math.NaN()}
	res2.Stats = wqproc.Summarize(res2.Raster.Data)

	path, err := WriteArchive(cfg, []wqproc.DateResult{res1, res2})
	if err != nil {
		t.Fatal(err)
	}

	a, err := ReadArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "weelngk" {
		t.Errorf("name = %q", a.Name)
	}
	if len(a.Days) != 2 || len(a.WQ) != 2 {
		t.Fatalf("time axis length = %d/%d, want 2", len(a.Days), len(a.WQ))
	}
	if a.Dates[0] != "2021-03-14" || a.Dates[1] != "2021-03-30" {
		t.Errorf("dates = %v", a.Dates)
	}
	if len(a.Lats) != 2 || len(a.Lons) != 2 {
		t.Errorf("coordinate lengths = %d, %d, want 2, 2", len(a.Lats), len(a.Lons))
	}
	if math.Abs(a.Lons[0]-145.0005) > 1e-9 {
		t.Errorf("lon[0] = %v, want 145.0005", a.Lons[0])
	}

	if got := a.WQ[1][0][1]; got != 0.4 {
		t.Errorf("wq[1][0][1] = %v, want 0.4", got)
	}
	if got := a.WQ[1][1][1]; !math.IsNaN(got) {
		t.Errorf("wq[1][1][1] = %v, want NaN", got)
	}

	// time is stored as days since the epoch.
	wantDays := int32(res1.Date.Unix() / 86400)
	if a.Days[0] != wantDays {
		t.Errorf("days[0] = %d, want %d", a.Days[0], wantDays)
	}
}

func TestWriteStatsParquet(t *testing.T) {
	cfg := exportConfig(t)
	path, err := WriteStatsParquet(cfg, []wqproc.DateResult{testDateResult()})
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("stats parquet is empty")
	}
}
