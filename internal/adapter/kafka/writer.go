package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/gnss-sitemap/internal/config"
	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

// Message kinds carried in the "kind" header.
const (
	KindSite   = "site"
	KindLegend = "legend"
)

// LegendKey is the message key of the legend snapshot.
const LegendKey = "legend"

// messageWriter is the subset of kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes markers and the legend to a Kafka topic so downstream
// map front ends can subscribe to sheet changes. It implements both
// pipeline.PointRenderer and pipeline.LegendRenderer.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
	clock  clockwork.Clock
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger, clock: clockwork.NewRealClock()}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// RenderPoints publishes one message per marker in a single WriteMessages call.
// Keys are stable per sheet row so a compacted topic keeps the latest marker.
func (w *Writer) RenderPoints(ctx context.Context, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}
	publishedAt := w.clock.Now().UTC()
	msgs := make([]kafkago.Message, len(points))
	for i := range points {
		msg, err := pointMessage(points[i], publishedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish markers: %w", err)
	}
	w.logger.Debug("markers published", "count", len(msgs))
	return nil
}

// RenderLegend publishes the legend as one message.
func (w *Writer) RenderLegend(ctx context.Context, entries []domain.LegendEntry) error {
	msg, err := legendMessage(entries, w.clock.Now().UTC())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish legend: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}


func pointMessage(p domain.Point, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(domain.SiteID(p.Row)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(KindSite)},
			{Key: "category", Value: []byte(p.Category)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}

type legendPayload struct {
	Title   string               `json:"title"`
	Entries []domain.LegendEntry `json:"entries"`
}

func legendMessage(entries []domain.LegendEntry, publishedAt time.Time) (kafkago.Message, error) {
	if entries == nil {
		entries = []domain.LegendEntry{}
	}
	data, err := json.Marshal(legendPayload{Title: domain.LegendTitle, Entries: entries})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize legend: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(LegendKey),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(KindLegend)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
