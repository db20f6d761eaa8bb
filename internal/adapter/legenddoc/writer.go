// Package legenddoc writes the category legend as a JSON document that a
// web front end can render next to the globe.
package legenddoc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

// Document is the legend wire format.
type Document struct {
	Title   string               `json:"title"`
	Entries []domain.LegendEntry `json:"entries"`
}

// Writer encodes the legend to w.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Name identifies the sink in logs and metrics.
func (wr *Writer) Name() string { return "legend_json" }

// RenderLegend writes the document. A nil legend is written as an empty list.
func (wr *Writer) RenderLegend(_ context.Context, entries []domain.LegendEntry) error {
	if entries == nil {
		entries = []domain.LegendEntry{}
	}
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Title: domain.LegendTitle, Entries: entries}); err != nil {
		return fmt.Errorf("encode legend: %w", err)
	}
	return nil
}
