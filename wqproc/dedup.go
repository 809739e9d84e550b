package wqproc

import (
	"math"

	"github.com/sirupsen/logrus"
)

// DedupDates collapses repeated calendar dates to a single raster per
// date. The first occurrence keeps its position; later duplicates are
// folded into it by missing-pixel count and dropped. Resolution is
// first-seen-wins with gap-filling, not last-wins: a third or later
// duplicate is only ever compared against the (possibly merged) first
// occurrence.
func DedupDates(stack []DateRaster) []DateRaster {
	out := make([]DateRaster, 0, len(stack))
	seen := make(map[string]int)

	for _, dr := range stack {
		key := dr.DateString()
		at, dup := seen[key]
		if !dup {
			seen[key] = len(out)
			out = append(out, dr)
			continue
		}
		logrus.Infof("Duplicate acquisition on %s, resolving", key)
		out[at].Raster = resolveDuplicate(out[at].Raster, dr.Raster)
	}
	return out
}

// resolveDuplicate merges two same-date rasters. A gap-free raster
// wins outright (later beats earlier there); otherwise the raster
// with fewer gaps is the base and its missing pixels are filled from
// the other occurrence.
func resolveDuplicate(first, dup *Raster) *Raster {
	dupMissing := dup.MissingCount()
	if dupMissing == 0 {
		return dup
	}
	firstMissing := first.MissingCount()
	if firstMissing == 0 {
		return first
	}
	if dupMissing < firstMissing {
		return fillGaps(dup, first)
	}
	return fillGaps(first, dup)
}

// fillGaps returns base with its missing pixels taken from other.
func fillGaps(base, other *Raster) *Raster {
	out := base.Clone()
	for i, v := range out.Data {
		if math.IsNaN(v) {
			out.Data[i] = other.Data[i]
		}
	}
	return out
}
