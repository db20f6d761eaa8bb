package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/gnss-sitemap/internal/adapter/czml"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/geojson"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/kafka"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/legenddoc"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/terminal"
	"github.com/couchcryptid/gnss-sitemap/internal/config"
	"github.com/couchcryptid/gnss-sitemap/internal/pipeline"
)

type renderFlags struct {
	format        string
	output        string
	legendJSON    string
	noLegendTable bool
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the marker document and legend",
		Long: `Fetch the sheet once and write the markers as CZML or GeoJSON.

The legend is printed as a table on stderr and, with --legend-json, written as
a JSON document. When KAFKA_BROKERS is set every marker and the legend are
also published to KAFKA_TOPIC.

Nothing is written when the sheet cannot be fetched or parsed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, global)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				a.cfg.OutputFormat = flags.format
			}
			if cmd.Flags().Changed("output") {
				a.cfg.OutputPath = flags.output
			}
			if cmd.Flags().Changed("legend-json") {
				a.cfg.LegendPath = flags.legendJSON
			}
			if err := a.init(); err != nil {
				return err
			}
			return runRender(cmd, a, flags.noLegendTable)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "czml or geojson (env OUTPUT_FORMAT)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `marker document path, "-" for stdout (env OUTPUT_PATH)`)
	cmd.Flags().StringVar(&flags.legendJSON, "legend-json", "", "also write the legend as JSON to this path (env LEGEND_PATH)")
	cmd.Flags().BoolVar(&flags.noLegendTable, "no-legend-table", false, "do not print the legend table on stderr")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, noLegendTable bool) error {
	var sinks pipeline.Sinks

	out, closeOut := openOutput(a.cfg.OutputPath, cmd.OutOrStdout())
	a.onClose("output", closeOut)
	switch a.cfg.OutputFormat {
	case config.FormatGeoJSON:
		sinks.Points = append(sinks.Points, geojson.NewWriter(out))
	case config.FormatCZML:
		sinks.Points = append(sinks.Points, czml.NewWriter(out, a.cfg.RadiusScale))
	default:
		return fmt.Errorf("unsupported output format %q", a.cfg.OutputFormat)
	}

	if a.cfg.LegendPath != "" {
		legendOut, closeLegend := openOutput(a.cfg.LegendPath, cmd.OutOrStdout())
		a.onClose("legend", closeLegend)
		sinks.Legend = append(sinks.Legend, legenddoc.NewWriter(legendOut))
	}
	if !noLegendTable {
		sinks.Legend = append(sinks.Legend, terminal.NewLegendTable(cmd.ErrOrStderr()))
	}

	if a.cfg.KafkaEnabled() {
		kw := kafka.NewWriter(a.cfg, a.logger)
		a.onClose("kafka", kw.Close)
		sinks.Points = append(sinks.Points, kw)
		sinks.Legend = append(sinks.Legend, kw)
		a.logger.Info("publishing markers", "brokers", a.cfg.KafkaBrokers, "topic", a.cfg.KafkaTopic)
	}

	p, err := a.pipeline(sinks)
	if err != nil {
		return a.finish(err)
	}
	_, err = p.Run(cmd.Context())
	return a.finish(err)
}
