package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/gnss-sitemap/internal/adapter/sheet"
	"github.com/couchcryptid/gnss-sitemap/internal/domain"
	"github.com/couchcryptid/gnss-sitemap/internal/observability"
	"github.com/couchcryptid/gnss-sitemap/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	data  []byte
	err   error
	calls int
}

func (m *mockSource) Fetch(_ context.Context) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

func (m *mockSource) Kind() string { return "mock" }

type mockPointSink struct {
	name   string
	points []domain.Point
	calls  int
	err    error
}

func (m *mockPointSink) Name() string { return m.name }

func (m *mockPointSink) RenderPoints(_ context.Context, points []domain.Point) error {
	m.calls++
	m.points = points
	return m.err
}

type mockLegendSink struct {
	entries []domain.LegendEntry
	calls   int
	err     error
}

func (m *mockLegendSink) RenderLegend(_ context.Context, entries []domain.LegendEntry) error {
	m.calls++
	m.entries = entries
	return m.err
}

type mockGeocoder struct{ name string }

func (m mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	return domain.GeocodingResult{PlaceName: m.name, FormattedAddress: m.name}, nil
}

const sheetCSV = `Location,Latitude,Longitude,Size (Quantity),Color (Category),Project
Summit Camp,72.58,-38.46,10,"Ice Flow, Altimetry",Velocity
Bad Row,north,-38.0,20,Education,Dropped
,-79.47,-112.09,n/a,Seismology,Unnamed
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTransformer(t *testing.T, geocoder domain.Geocoder) *pipeline.SiteTransformer {
	t.Helper()
	mapper, err := domain.NewMapper(domain.DefaultMapperConfig())
	require.NoError(t, err)
	return pipeline.NewTransformer(mapper, domain.NewLegendExtractor(domain.DefaultPalette()), geocoder, discardLogger())
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	src := &mockSource{data: []byte(sheetCSV)}
	points := &mockPointSink{name: "points"}
	legend := &mockLegendSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, sheet.ParseCSV, newTransformer(t, nil),
		pipeline.Sinks{Points: []pipeline.PointRenderer{points}, Legend: []pipeline.LegendRenderer{legend}},
		discardLogger(), metrics)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	p.SetClock(clock)

	snap, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Rows)
	require.Len(t, points.points, 2)
	assert.Equal(t, "Summit Camp", points.points[0].Name)
	assert.Equal(t, 2, points.points[1].Row)
	assert.Equal(t, domain.DefaultSizeScale.Min, points.points[1].Size)

	gotLegend := make([]string, 0, len(legend.entries))
	for _, e := range legend.entries {
		gotLegend = append(gotLegend, e.Category)
	}
	if diff := cmp.Diff([]string{"Ice Flow", "Altimetry", "Education", "Seismology"}, gotLegend); diff != "" {
		t.Fatalf("legend mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.RowsRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PointsEmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RowsSkipped.WithLabelValues(domain.ReasonInvalidPosition)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FieldDefaults.WithLabelValues(domain.ColumnSize)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FieldDefaults.WithLabelValues(domain.ColumnCategory)))
	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.LegendEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SinkWrites.WithLabelValues("points", "success")))
	assert.Equal(t, float64(clock.Now().Unix()), testutil.ToFloat64(metrics.LastSuccess))
}

func TestPipeline_Run_FetchFailure(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	points := &mockPointSink{name: "points"}
	legend := &mockLegendSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, sheet.ParseCSV, newTransformer(t, nil),
		pipeline.Sinks{Points: []pipeline.PointRenderer{points}, Legend: []pipeline.LegendRenderer{legend}},
		discardLogger(), metrics)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrFetch)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Zero(t, points.calls, "nothing is rendered after a fetch failure")
	assert.Zero(t, legend.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("fetch_error")))
}

func TestPipeline_Run_ParseFailure(t *testing.T) {
	src := &mockSource{data: []byte("Latitude,Longitude\n\"1,2\n")}
	points := &mockPointSink{name: "points"}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, sheet.ParseCSV, newTransformer(t, nil),
		pipeline.Sinks{Points: []pipeline.PointRenderer{points}}, discardLogger(), metrics)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrParse)
	assert.NotErrorIs(t, err, pipeline.ErrFetch)
	assert.Zero(t, points.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("parse_error")))
}

func TestPipeline_Run_SinkFailureDoesNotStopOthers(t *testing.T) {
	src := &mockSource{data: []byte(sheetCSV)}
	broken := &mockPointSink{name: "broken", err: errors.New("disk full")}
	healthy := &mockPointSink{name: "healthy"}
	legend := &mockLegendSink{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, sheet.ParseCSV, newTransformer(t, nil),
		pipeline.Sinks{Points: []pipeline.PointRenderer{broken, healthy}, Legend: []pipeline.LegendRenderer{legend}},
		discardLogger(), metrics)

	snap, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrRender)
	assert.Contains(t, err.Error(), "broken: disk full")
	assert.Len(t, snap.Points, 2)
	assert.Equal(t, 1, healthy.calls)
	assert.Equal(t, 1, legend.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SinkWrites.WithLabelValues("broken", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Runs.WithLabelValues("sink_error")))
}

func TestPipeline_Run_NoSinks(t *testing.T) {
	src := &mockSource{data: []byte(sheetCSV)}

	p := pipeline.New(src, sheet.ParseCSV, newTransformer(t, nil), pipeline.Sinks{},
		discardLogger(), observability.NewMetricsForTesting())

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Skipped())
}

func TestPipeline_Run_EmptyDocument(t *testing.T) {
	points := &mockPointSink{name: "points"}
	legend := &mockLegendSink{}

	p := pipeline.New(&mockSource{}, sheet.ParseCSV, newTransformer(t, nil),
		pipeline.Sinks{Points: []pipeline.PointRenderer{points}, Legend: []pipeline.LegendRenderer{legend}},
		discardLogger(), observability.NewMetricsForTesting())

	snap, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Rows)
	assert.Equal(t, 1, points.calls)
	assert.Empty(t, points.points)
	assert.Empty(t, legend.entries)
}

func TestSiteTransformer_EnrichesUnnamedPoints(t *testing.T) {
	rows, err := sheet.ParseCSV([]byte(sheetCSV))
	require.NoError(t, err)

	snap := newTransformer(t, mockGeocoder{name: "Marie Byrd Land"}).Transform(context.Background(), rows)

	require.Len(t, snap.Points, 2)
	assert.Equal(t, "Summit Camp", snap.Points[0].Name)
	assert.Equal(t, domain.LabelSourceSheet, snap.Points[0].LabelSource)
	assert.Equal(t, "Marie Byrd Land", snap.Points[1].Name)
	assert.Equal(t, domain.LabelSourceReverse, snap.Points[1].LabelSource)
}
