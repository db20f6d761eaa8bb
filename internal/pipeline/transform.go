package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

// SiteTransformer implements Transformer using the domain mapper and legend
// extractor with optional label enrichment.
type SiteTransformer struct {
	mapper   *domain.Mapper
	legend   *domain.LegendExtractor
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a SiteTransformer. Pass a nil geocoder to disable
// label enrichment.
func NewTransformer(mapper *domain.Mapper, legend *domain.LegendExtractor, geocoder domain.Geocoder, logger *slog.Logger) *SiteTransformer {
	return &SiteTransformer{
		mapper:   mapper,
		legend:   legend,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *SiteTransformer) Transform(ctx context.Context, rows []domain.Row) domain.Snapshot {
	snap := domain.BuildSnapshot(rows, t.mapper, t.legend)
	snap.Points = domain.EnrichLabels(ctx, snap.Points, t.geocoder, t.logger)
	return snap
}
