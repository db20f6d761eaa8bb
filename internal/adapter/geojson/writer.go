// Package geojson renders markers as a GeoJSON FeatureCollection.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

// Writer encodes points as Point features carrying simplestyle properties,
// so the output previews in common GeoJSON viewers.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Name identifies the sink in logs and metrics.
func (wr *Writer) Name() string { return "geojson" }

// RenderPoints writes the FeatureCollection.
func (wr *Writer) RenderPoints(_ context.Context, points []domain.Point) error {
	fc, err := FeatureCollection(points)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(wr.w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	return nil
}

// FeatureCollection converts points to features with a bounding box.
func FeatureCollection(points []domain.Point) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(points))}
	if len(points) == 0 {
		return fc, nil
	}

	bounds := geom.NewBounds(geom.XY)
	for _, p := range points {
		pt, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{p.Position.Lon, p.Position.Lat})
		if err != nil {
			return nil, fmt.Errorf("build point for row %d: %w", p.Row, err)
		}
		bounds.Extend(pt)
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       domain.SiteID(p.Row),
			Geometry: pt,
			Properties: map[string]any{
				"name":          p.Name,
				"description":   p.Description,
				"category":      p.Category,
				"size":          p.Size,
				"height":        p.Height,
				"row":           p.Row,
				"label_source":  p.LabelSource,
				"marker-color":  p.Color.Hex(),
				"marker-size":   markerSize(p.Size),
				"marker-symbol": "circle",
			},
		})
	}
	fc.BBox = bounds
	return fc, nil
}

// markerSize buckets the display size into the simplestyle small/medium/large.
func markerSize(size float64) string {
	switch {
	case size < 10:
		return "small"
	case size < 15:
		return "medium"
	default:
		return "large"
	}
}
