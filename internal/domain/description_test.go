package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDescription(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		row := Row{
			ColumnCategory:  "Ice Flow, Altimetry",
			ColumnSize:      "12",
			ColumnStartYear: "2015",
			ColumnEndYear:   "2024",
			ColumnProject:   "Ross Ice Shelf velocity network",
			ColumnURL:       "https://example.org/ris",
		}

		want := "<b>Category:</b> Ice Flow, Altimetry<br/>\n" +
			"<b>Size:</b> 12<br/>\n" +
			"<b>Start Year:</b> 2015<br/>\n" +
			"<b>End Year:</b> 2024<br/><br/>\n" +
			"Ross Ice Shelf velocity network\n" +
			`<b>Link:</b> <a href="https://example.org/ris" target="_blank" rel="noopener">https://example.org/ris</a><br/><br/>` + "\n"

		assert.Equal(t, want, BuildDescription(row))
	})

	t.Run("missing years and link", func(t *testing.T) {
		row := Row{
			ColumnCategory: "Education",
			ColumnSize:     "n/a",
			ColumnEndYear:  "   ",
			ColumnProject:  "Field school",
		}

		want := "<b>Category:</b> Education<br/>\n" +
			"<b>Size:</b> n/a<br/>\n" +
			"<b>Start Year:</b> —<br/>\n" +
			"<b>End Year:</b> —<br/><br/>\n" +
			"Field school\n"

		assert.Equal(t, want, BuildDescription(row))
	})

	t.Run("escapes markup", func(t *testing.T) {
		row := Row{
			ColumnProject: `<script>alert("x")</script>`,
			ColumnURL:     `https://example.org/?a=1&b="2"`,
		}

		got := BuildDescription(row)

		assert.NotContains(t, got, "<script>")
		assert.Contains(t, got, "&lt;script&gt;")
		assert.Contains(t, got, `href="https://example.org/?a=1&amp;b=&#34;2&#34;"`)
	})
}
