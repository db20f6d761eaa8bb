package domain

import "time"

// Snapshot is one complete mapping of a sheet: the markers, the legend, and
// what was dropped or defaulted along the way.
type Snapshot struct {
	Rows           int
	Points         []Point
	Legend         []LegendEntry
	Diagnostics    []Diagnostic
	MissingColumns []string // position columns absent from the header
	GeneratedAt    time.Time
}

// BuildSnapshot maps rows and extracts the legend in one pass over the sheet.
func BuildSnapshot(rows []Row, mapper *Mapper, legend *LegendExtractor) Snapshot {
	res := mapper.Map(rows)
	return Snapshot{
		Rows:           len(rows),
		Points:         res.Points,
		Legend:         legend.Extract(rows),
		Diagnostics:    res.Diagnostics,
		MissingColumns: MissingColumns(rows, PositionColumns...),
		GeneratedAt:    clock.Now().UTC(),
	}
}

// Skipped counts rows dropped for an unusable position.
func (s Snapshot) Skipped() int {
	return MapResult{Diagnostics: s.Diagnostics}.Skipped()
}
