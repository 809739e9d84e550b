// Package cmd /*
package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wq-tools/wqio"
	"wq-tools/wqproc"
)

var (
	runName        string
	runDisplayName string
	runLakeType    string
	runRegion      []float64
	runStartDate   string
	runEndDate     string
	runSceneDir    string
	runOccDir      string
	runSceneEPSG   int
	runThreshold   float64
	runBuffer      float64
	runMinValid    float64
	runOutDir      string
	runPerDate     bool
	runArchive     bool
	runStats       bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process scenes into a masked water-quality time series",
	Long: `Load dated WQ scenes for a region, collapse repeated dates,
	mask land using a buffered water-occurrence mask, and export the
	retained dates.

	Export modes (combinable):
		--perDate:  per-date JPEG + JSON metadata plus a run manifest
		--archive:  one time-indexed netCDF dataset
		--stats:    parquet table of per-date summary statistics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()

		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		results, err := wqproc.Run(cfg)
		if err != nil {
			return err
		}

		if runPerDate {
			var manifest []wqio.ManifestEntry
			for _, res := range results {
				entry, err := wqio.WriteDateArtifacts(cfg, res)
				if err != nil {
					return err
				}
				manifest = append(manifest, entry)
			}
			if err := wqio.WriteManifest(cfg, manifest); err != nil {
				return err
			}
		}
		if runArchive {
			if _, err := wqio.WriteArchive(cfg, results); err != nil {
				return err
			}
		}
		if runStats {
			if _, err := wqio.WriteStatsParquet(cfg, results); err != nil {
				return err
			}
		}
		return nil
	},
}

func buildConfig() (*wqproc.Config, error) {
	if len(runRegion) != 4 {
		return nil, fmt.Errorf("--region wants minLon,minLat,maxLon,maxLat, got %d values", len(runRegion))
	}
	start, err := time.Parse("2006-01-02", runStartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", runEndDate)
	if err != nil {
		return nil, err
	}
	cfg := &wqproc.Config{
		Name:            runName,
		DisplayName:     runDisplayName,
		LakeType:        runLakeType,
		MinLon:          runRegion[0],
		MinLat:          runRegion[1],
		MaxLon:          runRegion[2],
		MaxLat:          runRegion[3],
		StartDate:       start,
		EndDate:         end,
		SceneDir:        runSceneDir,
		OccurrenceDir:   runOccDir,
		SceneEPSG:       runSceneEPSG,
		WaterThreshold:  runThreshold,
		BufferPixels:    runBuffer,
		MinValidPercent: runMinValid,
		OutputDir:       runOutDir,
	}
	if cfg.DisplayName == "" {
		cfg.DisplayName = cfg.Name
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runName, "name", "n", "", "Location name used in output file names")
	err := viper.BindPFlag("name", runCmd.Flags().Lookup("name"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runDisplayName, "displayName", "", "Human-readable location name (defaults to --name)")
	err = viper.BindPFlag("displayName", runCmd.Flags().Lookup("displayName"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runLakeType, "lakeType", "", "Lake type annotation carried in metadata")
	err = viper.BindPFlag("lakeType", runCmd.Flags().Lookup("lakeType"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().Float64SliceVarP(&runRegion, "region", "r", []float64{0, 0, 0, 0}, "Region bounds: minLon,minLat,maxLon,maxLat")
	err = viper.BindPFlag("region", runCmd.Flags().Lookup("region"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runStartDate, "start", "", "Start date (YYYY-MM-DD)")
	err = viper.BindPFlag("start", runCmd.Flags().Lookup("start"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runEndDate, "end", "", "End date (YYYY-MM-DD)")
	err = viper.BindPFlag("end", runCmd.Flags().Lookup("end"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runSceneDir, "sceneDir", ".", "Directory of dated scene GeoTIFFs")
	err = viper.BindPFlag("sceneDir", runCmd.Flags().Lookup("sceneDir"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVar(&runOccDir, "occurrenceDir", ".", "Directory of water-occurrence tiles")
	err = viper.BindPFlag("occurrenceDir", runCmd.Flags().Lookup("occurrenceDir"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().IntVar(&runSceneEPSG, "sceneEPSG", 4326, "EPSG code of the scene rasters")
	err = viper.BindPFlag("sceneEPSG", runCmd.Flags().Lookup("sceneEPSG"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().Float64VarP(&runThreshold, "waterThreshold", "t", 80, "Occurrence percentage at or above which a pixel is water")
	err = viper.BindPFlag("waterThreshold", runCmd.Flags().Lookup("waterThreshold"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().Float64VarP(&runBuffer, "buffer", "b", 1, "Land-mask buffer radius in pixels (fractional allowed)")
	err = viper.BindPFlag("buffer", runCmd.Flags().Lookup("buffer"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().Float64VarP(&runMinValid, "minValidPercent", "m", 10, "Minimum percentage of valid water pixels to retain a date")
	err = viper.BindPFlag("minValidPercent", runCmd.Flags().Lookup("minValidPercent"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().StringVarP(&runOutDir, "outDir", "o", ".", "Output directory (must exist)")
	err = viper.BindPFlag("outDir", runCmd.Flags().Lookup("outDir"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().BoolVar(&runPerDate, "perDate", false, "Write per-date image + metadata artifacts and a manifest")
	err = viper.BindPFlag("perDate", runCmd.Flags().Lookup("perDate"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().BoolVar(&runArchive, "archive", false, "Write a single time-indexed netCDF archive")
	err = viper.BindPFlag("archive", runCmd.Flags().Lookup("archive"))
	if err != nil {
		logrus.Exit(1)
	}

	runCmd.Flags().BoolVar(&runStats, "stats", false, "Write a parquet table of per-date statistics")
	err = viper.BindPFlag("stats", runCmd.Flags().Lookup("stats"))
	if err != nil {
		logrus.Exit(1)
	}
}
