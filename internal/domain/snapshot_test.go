package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestBuildSnapshot(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("NZDT", 13*3600))
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	rows := []Row{
		site("-77.8", "166.7", "4", "Ice Flow, Altimetry"),
		site("", "166.7", "9", "Education"),
		site("-78.1", "165.0", "2", "Seismology"),
	}

	snap := BuildSnapshot(rows, newTestMapper(t), NewLegendExtractor(DefaultPalette()))

	assert.Equal(t, 3, snap.Rows)
	assert.Len(t, snap.Points, 2)
	assert.Equal(t, 1, snap.Skipped())
	assert.Equal(t, []string{"Ice Flow", "Altimetry", "Education", "Seismology"}, categories(snap.Legend))
	assert.Equal(t, fixed.UTC(), snap.GeneratedAt)
	assert.Equal(t, time.UTC, snap.GeneratedAt.Location())
	assert.Empty(t, snap.MissingColumns)
}

func TestBuildSnapshot_MissingPositionColumns(t *testing.T) {
	rows := []Row{{ColumnLocation: "Summit", ColumnLatitude: "72.58"}}

	snap := BuildSnapshot(rows, newTestMapper(t), NewLegendExtractor(DefaultPalette()))

	assert.Equal(t, []string{ColumnLongitude}, snap.MissingColumns)
	assert.Empty(t, snap.Points)
	assert.Equal(t, 1, snap.Skipped())
}
