// Package terminal prints the legend as a colored table.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

const swatch = "██"

// LegendTable renders legend entries with a true-color swatch per category.
type LegendTable struct {
	w io.Writer
}

// NewLegendTable creates a LegendTable writing to w.
func NewLegendTable(w io.Writer) *LegendTable {
	return &LegendTable{w: w}
}

// Name identifies the sink in logs and metrics.
func (t *LegendTable) Name() string { return "terminal" }

// RenderLegend prints the title and one row per category.
func (t *LegendTable) RenderLegend(_ context.Context, entries []domain.LegendEntry) error {
	out, err := Render(entries)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(t.w, out); err != nil {
		return fmt.Errorf("write legend table: %w", err)
	}
	return nil
}

// Render formats the legend table as a string.
func Render(entries []domain.LegendEntry) (string, error) {
	data := pterm.TableData{{"", "Category", "Color"}}
	for _, e := range entries {
		hex := e.Color.Hex()
		if !e.Known {
			hex += " (unmapped)"
		}
		data = append(data, []string{
			pterm.NewRGB(e.Color.R, e.Color.G, e.Color.B).Sprint(swatch),
			e.Category,
			hex,
		})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("render legend table: %w", err)
	}
	return pterm.Bold.Sprint(domain.LegendTitle) + "\n" + table + "\n", nil
}
