package domain

// LegendTitle heads the category legend.
const LegendTitle = "Primary GNSS Application:"

// LegendEntry pairs a category with its swatch color. Known is false when the
// category has no palette color and Color is the legend "unknown" color.
type LegendEntry struct {
	Category string `json:"category"`
	Color    Color  `json:"color"`
	Known    bool   `json:"known"`
}

// LegendExtractor derives the legend from sheet rows.
//
// Unlike Mapper, which colors a marker by its first category token only, the
// legend lists every token of every row. A category that only ever appears
// in second position is listed but colors no marker.
type LegendExtractor struct {
	palette Palette
}

// NewLegendExtractor returns an extractor using palette for swatch colors.
func NewLegendExtractor(palette Palette) *LegendExtractor {
	return &LegendExtractor{palette: palette}
}

// Extract returns the distinct non-blank category tokens in first-seen order.
func (e *LegendExtractor) Extract(rows []Row) []LegendEntry {
	seen := make(map[string]struct{})
	var out []LegendEntry
	for _, row := range rows {
		for _, cat := range row.Categories() {
			if cat == "" {
				continue
			}
			if _, dup := seen[cat]; dup {
				continue
			}
			seen[cat] = struct{}{}
			_, known := e.palette.Lookup(cat)
			out = append(out, LegendEntry{
				Category: cat,
				Color:    e.palette.LegendColor(cat),
				Known:    known,
			})
		}
	}
	return out
}
