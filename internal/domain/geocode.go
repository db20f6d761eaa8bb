package domain

import (
	"context"
	"log/slog"
)

// EnrichLabels fills the label of unnamed points from reverse geocoding.
// Points that already carry a sheet label are left untouched, as are
// position, size, color and description. If geocoder is nil the points are
// returned as-is; a failed lookup marks the point LabelSourceFailed and
// leaves its name empty.
func EnrichLabels(ctx context.Context, points []Point, geocoder Geocoder, logger *slog.Logger) []Point {
	if geocoder == nil {
		return points
	}

	for i := range points {
		p := &points[i]
		if p.Name != "" {
			continue
		}
		if ctx.Err() != nil {
			return points
		}

		result, err := geocoder.ReverseGeocode(ctx, p.Position.Lat, p.Position.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"row", p.Row,
				"lat", p.Position.Lat,
				"lon", p.Position.Lon,
				"error", err,
			)
			p.LabelSource = LabelSourceFailed
			continue
		}

		name := result.PlaceName
		if name == "" {
			name = result.FormattedAddress
		}
		if name == "" {
			p.LabelSource = LabelSourceNone
			continue
		}
		p.Name = name
		p.LabelSource = LabelSourceReverse
	}
	return points
}
