package wqio

import (
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"

	"github.com/sirupsen/logrus"

	"wq-tools/wqproc"
)

// Default WQ ramp: deep blue through green to red, interpolated to a
// 256-color palette.
var defaultStops = []color.RGBA{
	{8, 29, 88, 255},
	{34, 94, 168, 255},
	{65, 182, 196, 255},
	{161, 218, 180, 255},
	{254, 204, 92, 255},
	{227, 26, 28, 255},
}

func interpolateUint8(a, b uint8, i, sectionLength int) uint8 {
	return a + uint8(i*(int(b)-int(a))/sectionLength)
}

func interpolateColor(a, b color.RGBA, i, sectionLength int) color.RGBA {
	return color.RGBA{
		interpolateUint8(a.R, b.R, i, sectionLength),
		interpolateUint8(a.G, b.G, i, sectionLength),
		interpolateUint8(a.B, b.B, i, sectionLength),
		255,
	}
}

// GradientPalette interpolates a 256-color ramp through the given
// stops.
func GradientPalette(stops []color.RGBA) []color.RGBA {
	ramp := make([]color.RGBA, 256)
	bins := len(stops) - 1
	sectionLength := 256 / bins
	bonus := 256 - sectionLength*bins

	index := 0
	for section, upper := range stops[1:] {
		length := sectionLength
		if section < bonus {
			length++
		}
		for i := 0; i < length; i++ {
			ramp[index] = interpolateColor(stops[section], upper, i, sectionLength)
			index++
		}
	}
	return ramp
}

// RenderJPEG writes the raster as a palette-mapped JPEG. Values are
// scaled linearly between the raster's min and max; missing pixels
// render black.
func RenderJPEG(r *wqproc.Raster, path string) error {
	stats := wqproc.Summarize(r.Data)
	span := stats.Max - stats.Min
	palette := GradientPalette(defaultStops)

	img := image.NewRGBA(image.Rect(0, 0, r.Grid.Width, r.Grid.Height))
	for row := 0; row < r.Grid.Height; row++ {
		for col := 0; col < r.Grid.Width; col++ {
			v := r.Data[row*r.Grid.Width+col]
			if math.IsNaN(v) {
				continue
			}
			idx := 0
			if span > 0 {
				idx = int((v - stats.Min) / span * 255)
			}
			if idx > 255 {
				idx = 255
			}
			img.Set(col, row, palette[idx])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 80})
}
