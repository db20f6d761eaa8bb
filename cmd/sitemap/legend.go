package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/gnss-sitemap/internal/adapter/legenddoc"
	"github.com/couchcryptid/gnss-sitemap/internal/adapter/terminal"
	"github.com/couchcryptid/gnss-sitemap/internal/pipeline"
)

func newLegendCmd(global *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the category legend",
		Long: `Fetch the sheet and print every category found in it, in first-seen
order, with its swatch color. Categories without a palette color are shown in
the unknown-category color.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, global)
			if err != nil {
				return err
			}
			// Labels never reach the legend.
			a.cfg.MapboxEnabled = false
			if err := a.init(); err != nil {
				return err
			}

			var sinks pipeline.Sinks
			if asJSON {
				sinks.Legend = append(sinks.Legend, legenddoc.NewWriter(cmd.OutOrStdout()))
			} else {
				sinks.Legend = append(sinks.Legend, terminal.NewLegendTable(cmd.OutOrStdout()))
			}

			p, err := a.pipeline(sinks)
			if err != nil {
				return a.finish(err)
			}
			_, err = p.Run(cmd.Context())
			return a.finish(err)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the legend as a JSON document")
	return cmd
}
