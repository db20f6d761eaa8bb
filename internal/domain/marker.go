package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// SizeScale is the display range marker sizes are interpolated into.
type SizeScale struct {
	Min float64
	Max float64
}

// DefaultSizeScale matches the published map: 6 to 20 display units.
var DefaultSizeScale = SizeScale{Min: 6, Max: 20}

// size interpolates v into the scale using the sheet-wide range r.
func (s SizeScale) size(v Number, r valueRange) float64 {
	if !v.OK || !r.ok || r.max == r.min {
		return s.Min
	}
	// Halved operands keep the span finite for any pair of finite quantities.
	span := r.max/2 - r.min/2
	if span == 0 {
		return s.Min
	}
	out := s.Min + (v.Value/2-r.min/2)/span*(s.Max-s.Min)
	if math.IsNaN(out) {
		return s.Min
	}
	return math.Max(s.Min, math.Min(s.Max, out))
}

// Position is a WGS-84 coordinate in degrees.
type Position struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Label sources recorded on Point.LabelSource.
const (
	LabelSourceSheet   = "sheet"
	LabelSourceReverse = "reverse"
	LabelSourceFailed  = "failed"
	LabelSourceNone    = "none"
)

// Point is one renderable marker.
type Point struct {
	Row         int      `json:"row"` // zero-based data row index in the sheet
	Position    Position `json:"position"`
	Size        float64  `json:"size"`
	Color       Color    `json:"color"`
	Category    string   `json:"category"` // first category token, may be empty
	Height      float64  `json:"height"`   // vertical offset in meters
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LabelSource string   `json:"label_source,omitempty"`
}

// SiteID is the stable identifier of the marker built from sheet row idx. All
// sinks key markers by it.
func SiteID(row int) string {
	return "site-" + strconv.Itoa(row)
}

// Diagnostic reasons.
const (
	ReasonInvalidPosition  = "invalid_position"
	ReasonInvalidSize      = "invalid_size"
	ReasonUnmappedCategory = "unmapped_category"
)

// Diagnostic records a dropped row or a defaulted field.
type Diagnostic struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
	Skipped bool   `json:"skipped"`
}

// MapResult is the output of Mapper.Map.
type MapResult struct {
	Points      []Point
	Diagnostics []Diagnostic
}

// Skipped counts rows dropped from the output.
func (r MapResult) Skipped() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Skipped {
			n++
		}
	}
	return n
}

// MapperConfig holds the immutable inputs of a Mapper.
type MapperConfig struct {
	Palette    Palette
	Sizes      SizeScale
	HeightStep float64 // meters of vertical offset per row index
}

// DefaultMapperConfig returns the published map's settings.
func DefaultMapperConfig() MapperConfig {
	return MapperConfig{
		Palette:    DefaultPalette(),
		Sizes:      DefaultSizeScale,
		HeightStep: 5,
	}
}

// Mapper turns sheet rows into markers.
type Mapper struct {
	cfg MapperConfig
}

// NewMapper validates cfg and returns a Mapper.
func NewMapper(cfg MapperConfig) (*Mapper, error) {
	if math.IsNaN(cfg.Sizes.Min) || math.IsNaN(cfg.Sizes.Max) || math.IsInf(cfg.Sizes.Min, 0) || math.IsInf(cfg.Sizes.Max, 0) {
		return nil, errors.New("size scale must be finite")
	}
	if cfg.Sizes.Min > cfg.Sizes.Max {
		return nil, errors.New("size scale min exceeds max")
	}
	if cfg.HeightStep < 0 || math.IsNaN(cfg.HeightStep) || math.IsInf(cfg.HeightStep, 0) {
		return nil, errors.New("height step must be a non-negative number")
	}
	return &Mapper{cfg: cfg}, nil
}

// Map converts rows to points in sheet order. It never fails: rows with an
// unusable position are dropped and other bad fields fall back to defaults,
// each reported as a Diagnostic.
func (m *Mapper) Map(rows []Row) MapResult {
	qty := quantityRange(rows)
	res := MapResult{Points: make([]Point, 0, len(rows))}

	for i, row := range rows {
		lat := ParseNumber(row.Get(ColumnLatitude))
		lon := ParseNumber(row.Get(ColumnLongitude))
		if !lat.OK || !lon.OK {
			field, value := ColumnLatitude, row.Get(ColumnLatitude)
			if lat.OK {
				field, value = ColumnLongitude, row.Get(ColumnLongitude)
			}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Row: i, Field: field, Value: value, Reason: ReasonInvalidPosition, Skipped: true,
			})
			continue
		}

		sizeCell := row.Get(ColumnSize)
		sizeVal := ParseNumber(sizeCell)
		if !sizeVal.OK {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Row: i, Field: ColumnSize, Value: sizeCell, Reason: ReasonInvalidSize,
			})
		}

		category := row.Categories()[0]
		if _, ok := m.cfg.Palette.Lookup(category); !ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Row: i, Field: ColumnCategory, Value: category, Reason: ReasonUnmappedCategory,
			})
		}

		name := strings.TrimSpace(row.Get(ColumnLocation))
		labelSource := LabelSourceSheet
		if name == "" {
			labelSource = LabelSourceNone
		}

		res.Points = append(res.Points, Point{
			Row:         i,
			Position:    Position{Lon: lon.Value, Lat: lat.Value},
			Size:        m.cfg.Sizes.size(sizeVal, qty),
			Color:       m.cfg.Palette.MarkerColor(category),
			Category:    category,
			Height:      float64(i) * m.cfg.HeightStep,
			Name:        name,
			Description: BuildDescription(row),
			LabelSource: labelSource,
		})
	}
	return res
}
