// Package domain turns rows of the GNSS project-site spreadsheet into map
// markers and a category legend.
//
// # Data Source
//
// Sites are maintained in a shared Google Sheet that is published to the web
// as CSV. The first line is a header row; every following line is one project
// site. The sheet is edited by hand, so any cell may be blank or hold free text
// where a number is expected.
//
// # Sheet Conventions
//
// Columns read by this package:
//
//	Latitude, Longitude      decimal degrees (WGS-84)
//	Size (Quantity)          any number; scaled relative to the whole sheet
//	Color (Category)         comma-separated list, e.g. "Ice Flow, Altimetry"
//	Location                 marker label
//	Project                  free text shown in the popup
//	Project or Data URL      optional link shown in the popup
//	Start Year, End Year     free text; blank renders as "—"
//
// Numeric cells are trimmed before parsing. Blank cells, free text, NaN and
// infinities are all treated as "not a number".
//
// # Marker Rules
//
// A row whose latitude or longitude is not a number is dropped. Every other
// row becomes exactly one [Point], in sheet order.
//
// Size is interpolated linearly into [SizeScale.Min, SizeScale.Max] using the
// smallest and largest quantity found anywhere in the sheet, including rows
// that are later dropped for a bad position. A row without a numeric quantity,
// or a sheet whose quantities are all equal, gets SizeScale.Min.
//
// Color comes from the FIRST category token only. Tokens missing from the
// [Palette] fall back to the palette default.
//
// # Legend Rules
//
// The legend lists EVERY category token seen in the sheet, not only first
// tokens, in first-seen order with duplicates and blanks removed. A category
// can therefore appear in the legend without coloring any marker; see
// [LegendExtractor].
//
// # Diagnostics
//
// Mapping never fails. Every dropped row and every defaulted field is reported
// as a [Diagnostic] on the [MapResult] so callers can log or count them.
package domain
