package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wq-tools/lakes"
)

var lakeName string
var lakeMargin float64

// lakesCmd represents the lakes command
var lakesCmd = &cobra.Command{
	Use:   "lakes [shapefile]",
	Short: "Inspect a lake-boundary shapefile",
	Long: `List the polygon features of a lake-boundary shapefile with
	their attributes and bounding boxes. With --lake, print a padded
	region spec for that lake usable as the run command's --region.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()

		all, err := lakes.ListLakes(args[0])
		if err != nil {
			return err
		}

		if lakeName != "" {
			lake, ok := lakes.Find(all, lakeName)
			if !ok {
				return fmt.Errorf("lake %q not found in %s", lakeName, args[0])
			}
			b := lakes.Region(lake, lakeMargin)
			fmt.Printf("%v,%v,%v,%v\n", b[0], b[1], b[2], b[3])
			return nil
		}

		for _, lake := range all {
			fmt.Printf("%s\t%s\t[%v, %v, %v, %v]\n",
				lake.Name, lake.Type,
				lake.Bounds[0], lake.Bounds[1], lake.Bounds[2], lake.Bounds[3])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lakesCmd)

	lakesCmd.Flags().StringVarP(&lakeName, "lake", "l", "", "Print a region spec for this lake instead of listing")
	err := viper.BindPFlag("lake", lakesCmd.Flags().Lookup("lake"))
	if err != nil {
		logrus.Exit(1)
	}

	lakesCmd.Flags().Float64VarP(&lakeMargin, "margin", "m", 0.01, "Degrees of padding around the lake bounds")
	err = viper.BindPFlag("margin", lakesCmd.Flags().Lookup("margin"))
	if err != nil {
		logrus.Exit(1)
	}
}
