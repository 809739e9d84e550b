package wqproc

import "errors"

var (
	// ErrNoDataInRange means the scene directory held no acquisitions
	// inside the configured date range.
	ErrNoDataInRange = errors.New("no acquisitions in requested date range")

	// ErrRegionSpansTiles flags a region crossing a water-occurrence
	// tile boundary. Masks built from a single tile would be wrong for
	// such a region, so it is rejected up front.
	ErrRegionSpansTiles = errors.New("region spans multiple water-occurrence tiles")

	ErrIncompatibleGrid  = errors.New("raster grids are not aligned")
	ErrAuxRasterNotFound = errors.New("water-occurrence raster not found")

	// ErrInsufficientValidPixels is non-fatal: the date is skipped and
	// the run continues.
	ErrInsufficientValidPixels = errors.New("not enough valid water pixels")
)
