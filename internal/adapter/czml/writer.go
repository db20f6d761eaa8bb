// Package czml renders markers as a CZML document for CesiumJS.
package czml

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

const (
	documentName = "GNSS Project Sites"
	granularity  = 0.002 // radians between ellipse outline samples
)

var outlineColor = rgba{0, 0, 0, 255}

// Writer encodes points as one CZML array: a document packet followed by one
// ellipse packet per point.
type Writer struct {
	w           io.Writer
	radiusScale float64
}

// NewWriter creates a Writer. radiusScale converts marker size to ellipse
// radius in meters.
func NewWriter(w io.Writer, radiusScale float64) *Writer {
	return &Writer{w: w, radiusScale: radiusScale}
}

// Name identifies the sink in logs and metrics.
func (wr *Writer) Name() string { return "czml" }

// RenderPoints writes the document.
func (wr *Writer) RenderPoints(_ context.Context, points []domain.Point) error {
	doc := make([]any, 0, len(points)+1)
	doc = append(doc, documentPacket{ID: "document", Name: documentName, Version: "1.0"})
	for _, p := range points {
		doc = append(doc, wr.packet(p))
	}

	enc := json.NewEncoder(wr.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode czml: %w", err)
	}
	return nil
}

func (wr *Writer) packet(p domain.Point) entityPacket {
	radius := p.Size * wr.radiusScale
	return entityPacket{
		ID:          domain.SiteID(p.Row),
		Name:        p.Name,
		Description: p.Description,
		Position:    position{CartographicDegrees: [3]float64{p.Position.Lon, p.Position.Lat, 0}},
		Ellipse: ellipse{
			SemiMajorAxis:  radius,
			SemiMinorAxis:  radius,
			Height:         p.Height,
			ExtrudedHeight: 0,
			Granularity:    granularity,
			Material:       material{SolidColor: solidColor{Color: colorValue{RGBA: rgba(p.Color.RGBA())}}},
			Outline:        true,
			OutlineColor:   colorValue{RGBA: outlineColor},
		},
		Properties: properties{
			Category:    p.Category,
			Size:        p.Size,
			Row:         p.Row,
			LabelSource: p.LabelSource,
		},
	}
}


// CZML packet types.

type rgba [4]int

type documentPacket struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

type entityPacket struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description"`
	Position    position   `json:"position"`
	Ellipse     ellipse    `json:"ellipse"`
	Properties  properties `json:"properties"`
}

type position struct {
	CartographicDegrees [3]float64 `json:"cartographicDegrees"` // lon, lat, height
}

type ellipse struct {
	SemiMajorAxis  float64    `json:"semiMajorAxis"`
	SemiMinorAxis  float64    `json:"semiMinorAxis"`
	Height         float64    `json:"height"`
	ExtrudedHeight float64    `json:"extrudedHeight"`
	Granularity    float64    `json:"granularity"`
	Material       material   `json:"material"`
	Outline        bool       `json:"outline"`
	OutlineColor   colorValue `json:"outlineColor"`
}

type material struct {
	SolidColor solidColor `json:"solidColor"`
}

type solidColor struct {
	Color colorValue `json:"color"`
}

type colorValue struct {
	RGBA rgba `json:"rgba"`
}

type properties struct {
	Category    string  `json:"category"`
	Size        float64 `json:"size"`
	Row         int     `json:"row"`
	LabelSource string  `json:"labelSource,omitempty"`
}
