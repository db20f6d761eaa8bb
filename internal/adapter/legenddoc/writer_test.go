package legenddoc

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

func TestWriter_RenderLegend(t *testing.T) {
	entries := []domain.LegendEntry{
		{Category: "Ice Flow", Color: domain.MustParseColor("#125ae1"), Known: true},
		{Category: "Seismology", Color: domain.MustParseColor("#cccccc")},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).RenderLegend(context.Background(), entries))

	assert.JSONEq(t, `{
	  "title": "Primary GNSS Application:",
	  "entries": [
	    {"category": "Ice Flow", "color": "#125ae1", "known": true},
	    {"category": "Seismology", "color": "#cccccc", "known": false}
	  ]
	}`, buf.String())

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, entries, doc.Entries)
}

func TestWriter_EmptyLegend(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).RenderLegend(context.Background(), nil))
	assert.JSONEq(t, `{"title": "Primary GNSS Application:", "entries": []}`, buf.String())
}
