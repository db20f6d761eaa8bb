package main

import (
	"github.com/spf13/cobra"
)

// globalFlags override the matching environment variables when set.
type globalFlags struct {
	sheetURL    string
	logLevel    string
	logFormat   string
	metricsFile string
	colors      string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "sitemap",
		Short: "Render GNSS project sites as globe markers",
		Long: `Render GNSS project sites as globe markers.

sitemap fetches the published project sheet (CSV), places one marker per site
sized by quantity and colored by primary category, and derives the category
legend.

Settings come from the environment (SHEET_URL, OUTPUT_FORMAT, KAFKA_BROKERS,
MAPBOX_TOKEN, ...); flags override them.

Available commands:
  render   - Write the marker document and legend
  legend   - Print the category legend
  validate - Check the sheet and report dropped or defaulted cells`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.sheetURL, "url", "", "sheet address: http(s) URL, local path or go-getter source (env SHEET_URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.StringVar(&flags.logFormat, "log-format", "", "json or text (env LOG_FORMAT)")
	pf.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics here after the run (env METRICS_TEXTFILE)")
	pf.StringVar(&flags.colors, "colors", "", `palette overrides, e.g. "Seismology=#00aa00" (env CATEGORY_COLORS)`)

	root.AddCommand(
		newRenderCmd(&flags),
		newLegendCmd(&flags),
		newValidateCmd(&flags),
	)
	return root
}
