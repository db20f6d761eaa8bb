package domain

import (
	"html"
	"strings"
)

// missingYear is shown for a blank start or end year.
const missingYear = "—"

// BuildDescription renders the popup HTML for a row. Cell values are
// HTML-escaped. The link line is present only when the row has a URL.
func BuildDescription(r Row) string {
	var b strings.Builder

	b.WriteString("<b>Category:</b> " + html.EscapeString(r.Get(ColumnCategory)) + "<br/>\n")
	b.WriteString("<b>Size:</b> " + html.EscapeString(r.Get(ColumnSize)) + "<br/>\n")
	b.WriteString("<b>Start Year:</b> " + html.EscapeString(orDefault(r.Get(ColumnStartYear), missingYear)) + "<br/>\n")
	b.WriteString("<b>End Year:</b> " + html.EscapeString(orDefault(r.Get(ColumnEndYear), missingYear)) + "<br/><br/>\n")
	b.WriteString(html.EscapeString(strings.TrimSpace(r.Get(ColumnProject))) + "\n")

	if url := strings.TrimSpace(r.Get(ColumnURL)); url != "" {
		u := html.EscapeString(url)
		b.WriteString(`<b>Link:</b> <a href="` + u + `" target="_blank" rel="noopener">` + u + "</a><br/><br/>\n")
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
