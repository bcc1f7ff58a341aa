package weather

import (
	ee "github.com/i474232898/point-weather/internal/earthengine"
)

// BuildQuery averages every dataset over w, merges the selected bands into one
// image and samples it at p with a first-value reducer.
func BuildQuery(p Point, w Window, scale float64) ee.Expression {
	var combined ee.Value
	for i, ds := range Datasets {
		image := ee.SelectBands(
			ee.Mean(ee.FilterDate(ee.LoadImageCollection(ds.ID), w.Start, w.End)),
			ds.Bands...,
		)
		if i == 0 {
			combined = image
			continue
		}
		combined = ee.AddBands(combined, image)
	}

	return ee.NewExpression(ee.ReduceRegion(
		combined,
		ee.FirstReducer(),
		ee.Point(p.Lon, p.Lat),
		scale,
		DefaultMaxPixels,
	))
}
