package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(entries []LegendEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Category)
	}
	return out
}

func TestLegendExtractor_AllTokensFirstSeenOrder(t *testing.T) {
	rows := []Row{
		{ColumnCategory: "Ice Flow, Altimetry"},
		{ColumnCategory: ""},
		{ColumnCategory: "Education,Ice Flow"},
		{ColumnCategory: " , Seismology ,"},
		{},
		{ColumnCategory: "Altimetry"},
	}

	legend := NewLegendExtractor(DefaultPalette()).Extract(rows)

	assert.Equal(t, []string{"Ice Flow", "Altimetry", "Education", "Seismology"}, categories(legend))
}

func TestLegendExtractor_Colors(t *testing.T) {
	legend := NewLegendExtractor(DefaultPalette()).Extract([]Row{
		{ColumnCategory: "Reflectometry, Seismology"},
	})

	require.Len(t, legend, 2)
	assert.Equal(t, LegendEntry{Category: "Reflectometry", Color: MustParseColor("#f44e8a"), Known: true}, legend[0])
	assert.Equal(t, LegendEntry{Category: "Seismology", Color: MustParseColor("#cccccc"), Known: false}, legend[1])
}

func TestLegendExtractor_IncludesTokensMapperIgnores(t *testing.T) {
	rows := []Row{site("10", "20", "5", "Ice Flow, Altimetry")}

	m := newTestMapper(t)
	res := m.Map(rows)
	legend := NewLegendExtractor(DefaultPalette()).Extract(rows)

	require.Len(t, res.Points, 1)
	assert.Equal(t, "#125ae1", res.Points[0].Color.Hex())
	assert.Equal(t, []string{"Ice Flow", "Altimetry"}, categories(legend))
}

func TestLegendExtractor_IncludesRowsWithBadPosition(t *testing.T) {
	rows := []Row{site("?", "?", "1", "Education")}

	legend := NewLegendExtractor(DefaultPalette()).Extract(rows)

	assert.Equal(t, []string{"Education"}, categories(legend))
}

func TestLegendExtractor_Empty(t *testing.T) {
	assert.Empty(t, NewLegendExtractor(DefaultPalette()).Extract(nil))
	assert.Empty(t, NewLegendExtractor(DefaultPalette()).Extract([]Row{{ColumnCategory: " , ,"}}))
}
