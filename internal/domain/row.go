package domain

import "strings"

// Sheet column names.
const (
	ColumnLatitude  = "Latitude"
	ColumnLongitude = "Longitude"
	ColumnSize      = "Size (Quantity)"
	ColumnCategory  = "Color (Category)"
	ColumnLocation  = "Location"
	ColumnProject   = "Project"
	ColumnURL       = "Project or Data URL"
	ColumnStartYear = "Start Year"
	ColumnEndYear   = "End Year"
)

// Row is one data line of the sheet keyed by header name. A column missing
// from the sheet reads as the empty string.
type Row map[string]string

// Get returns the raw cell value for col.
func (r Row) Get(col string) string {
	return r[col]
}

// Categories returns the trimmed comma-separated tokens of the category cell.
// Blank tokens are kept so the first element is always the marker color key.
func (r Row) Categories() []string {
	return splitCategories(r[ColumnCategory])
}

func splitCategories(field string) []string {
	parts := strings.Split(field, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// PositionColumns must be present for any row to produce a marker.
var PositionColumns = []string{ColumnLatitude, ColumnLongitude}

// MissingColumns returns the cols absent from the sheet header. Rows from the
// CSV decoder carry every header column, so the first row is representative.
func MissingColumns(rows []Row, cols ...string) []string {
	if len(rows) == 0 {
		return nil
	}
	var missing []string
	for _, c := range cols {
		if _, ok := rows[0][c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
