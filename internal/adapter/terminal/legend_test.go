package terminal

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	os.Exit(m.Run())
}

func TestLegendTable_RenderLegend(t *testing.T) {
	entries := []domain.LegendEntry{
		{Category: "Ice Flow", Color: domain.MustParseColor("#125ae1"), Known: true},
		{Category: "Altimetry", Color: domain.MustParseColor("#9852d9"), Known: true},
		{Category: "Seismology", Color: domain.MustParseColor("#cccccc")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewLegendTable(&buf).RenderLegend(context.Background(), entries))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, domain.LegendTitle, lines[0])
	assert.Contains(t, lines[1], "Category")
	assert.Contains(t, out, "#125ae1")
	assert.Contains(t, out, "#cccccc (unmapped)")

	// Rows keep legend order.
	assert.Less(t, strings.Index(out, "Ice Flow"), strings.Index(out, "Altimetry"))
	assert.Less(t, strings.Index(out, "Altimetry"), strings.Index(out, "Seismology"))
}

func TestRender_Empty(t *testing.T) {
	out, err := Render(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, domain.LegendTitle+"\n"))
}
