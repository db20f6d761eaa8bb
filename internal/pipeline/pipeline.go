package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
	"github.com/couchcryptid/gnss-sitemap/internal/observability"
)

// Fatal run failures. Both abort the run before anything is rendered.
var (
	ErrFetch  = errors.New("fetch document")
	ErrParse  = errors.New("parse document")
	ErrRender = errors.New("render output")
)

// DocumentSource fetches the raw sheet document.
type DocumentSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Decoder turns the raw document into row-records.
type Decoder func(data []byte) ([]domain.Row, error)

// Transformer maps rows to a snapshot of markers and legend.
type Transformer interface {
	Transform(ctx context.Context, rows []domain.Row) domain.Snapshot
}

// PointRenderer consumes the ordered markers.
type PointRenderer interface {
	RenderPoints(ctx context.Context, points []domain.Point) error
}

// LegendRenderer consumes the ordered legend entries.
type LegendRenderer interface {
	RenderLegend(ctx context.Context, entries []domain.LegendEntry) error
}

// Sinks lists the presentation outputs of a run. Either list may be empty.
type Sinks struct {
	Points []PointRenderer
	Legend []LegendRenderer
}

// Pipeline runs fetch, parse, map and render once.
type Pipeline struct {
	source      DocumentSource
	decode      Decoder
	transformer Transformer
	sinks       Sinks
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
}

// New creates a Pipeline with the given stages and observability.
func New(src DocumentSource, decode Decoder, t Transformer, sinks Sinks, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:      src,
		decode:      decode,
		transformer: t,
		sinks:       sinks,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
	}
}

// SetClock replaces the clock used for durations and the last-success stamp.
func (p *Pipeline) SetClock(c clockwork.Clock) {
	p.clock = c
}

// Run executes one pass. On a fetch or parse failure nothing is rendered and
// the returned error wraps ErrFetch or ErrParse. A failing sink does not stop
// the others; their errors are joined under ErrRender.
func (p *Pipeline) Run(ctx context.Context) (domain.Snapshot, error) {
	start := p.clock.Now()

	rows, err := p.extract(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := p.transformer.Transform(ctx, rows)
	p.record(snap)

	if err := p.render(ctx, snap); err != nil {
		p.metrics.Runs.WithLabelValues("sink_error").Inc()
		return snap, err
	}

	elapsed := p.clock.Since(start)
	p.metrics.Runs.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(elapsed.Seconds())
	p.metrics.LastSuccess.Set(float64(p.clock.Now().Unix()))
	p.logger.Info("sitemap rendered",
		"rows", snap.Rows,
		"points", len(snap.Points),
		"skipped", snap.Skipped(),
		"legend_entries", len(snap.Legend),
		"duration", elapsed,
	)
	return snap, nil
}

func (p *Pipeline) extract(ctx context.Context) ([]domain.Row, error) {
	fetchStart := p.clock.Now()
	data, err := p.source.Fetch(ctx)
	p.metrics.FetchDuration.WithLabelValues(sourceKind(p.source)).Observe(p.clock.Since(fetchStart).Seconds())
	if err != nil {
		p.logger.Error("sheet fetch failed", "error", err)
		p.metrics.Runs.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	rows, err := p.decode(data)
	if err != nil {
		p.logger.Error("sheet parse failed", "error", err, "bytes", len(data))
		p.metrics.Runs.WithLabelValues("parse_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	p.metrics.RowsRead.Add(float64(len(rows)))
	p.logger.Debug("sheet parsed", "rows", len(rows), "bytes", len(data))
	return rows, nil
}

// record logs and counts what the mapper dropped or defaulted.
func (p *Pipeline) record(snap domain.Snapshot) {
	if len(snap.MissingColumns) > 0 {
		p.logger.Warn("sheet is missing position columns, no markers can be placed",
			"columns", snap.MissingColumns)
	}
	for _, d := range snap.Diagnostics {
		if d.Skipped {
			p.metrics.RowsSkipped.WithLabelValues(d.Reason).Inc()
			p.logger.Debug("row skipped", "row", d.Row, "field", d.Field, "value", d.Value, "reason", d.Reason)
			continue
		}
		p.metrics.FieldDefaults.WithLabelValues(d.Field).Inc()
		p.logger.Debug("field defaulted", "row", d.Row, "field", d.Field, "value", d.Value, "reason", d.Reason)
	}
	p.metrics.PointsEmitted.Add(float64(len(snap.Points)))
	p.metrics.LegendEntries.Set(float64(len(snap.Legend)))
}

func (p *Pipeline) render(ctx context.Context, snap domain.Snapshot) error {
	var errs []error
	for _, r := range p.sinks.Points {
		errs = append(errs, p.observeSink(r, r.RenderPoints(ctx, snap.Points)))
	}
	for _, r := range p.sinks.Legend {
		errs = append(errs, p.observeSink(r, r.RenderLegend(ctx, snap.Legend)))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

func (p *Pipeline) observeSink(sink any, err error) error {
	name := sinkName(sink)
	if err != nil {
		p.metrics.SinkWrites.WithLabelValues(name, "error").Inc()
		p.logger.Error("sink failed", "sink", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	p.metrics.SinkWrites.WithLabelValues(name, "success").Inc()
	return nil
}

func sourceKind(src DocumentSource) string {
	if k, ok := src.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	return "unknown"
}

func sinkName(sink any) string {
	if n, ok := sink.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sink)
}
