package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
	"github.com/couchcryptid/gnss-sitemap/internal/pipeline"
)

var errValidationFailed = errors.New("validation failed")

// check is one named validation step and the problems it found.
type check struct {
	name   string
	issues []string
}

func (c *check) issuef(format string, args ...any) {
	c.issues = append(c.issues, fmt.Sprintf(format, args...))
}

func (c *check) passed() bool { return len(c.issues) == 0 }

func newValidateCmd(global *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the sheet and report dropped or defaulted cells",
		Long: `Fetch and map the sheet without writing any output, then report:

  - whether the latitude and longitude columns exist
  - rows dropped for an unusable position
  - quantities that fell back to the minimum marker size
  - categories without a palette color

Only a failed fetch or parse is an error unless --strict is given, in which
case any failed check exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, global)
			if err != nil {
				return err
			}
			a.cfg.MapboxEnabled = false
			if err := a.init(); err != nil {
				return err
			}

			p, err := a.pipeline(pipeline.Sinks{})
			if err != nil {
				return a.finish(err)
			}
			snap, runErr := p.Run(cmd.Context())

			checks := validateSnapshot(snap, runErr)
			failed := printReport(cmd.OutOrStdout(), snap, checks)

			if runErr != nil {
				return a.finish(runErr)
			}
			if strict && failed > 0 {
				return a.finish(fmt.Errorf("%w: %d of %d checks", errValidationFailed, failed, len(checks)))
			}
			return a.finish(nil)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any check fails")
	return cmd
}

// validateSnapshot groups the run result into checks. A failed run yields a
// single failing check.
func validateSnapshot(snap domain.Snapshot, runErr error) []*check {
	fetched := &check{name: "Sheet fetched and parsed"}
	if runErr != nil {
		fetched.issuef("%v", runErr)
		return []*check{fetched}
	}

	columns := &check{name: "Position columns present"}
	for _, col := range snap.MissingColumns {
		columns.issuef("column %q not found in header", col)
	}

	placed := &check{name: "Every row placed on the globe"}
	sized := &check{name: "Quantities numeric"}
	mapped := &check{name: "Categories mapped to a color"}
	reported := make(map[string]bool)
	for _, d := range snap.Diagnostics {
		switch d.Reason {
		case domain.ReasonInvalidPosition:
			placed.issuef("row %d: %s %s", d.Row, d.Field, describeValue(d.Value))
		case domain.ReasonInvalidSize:
			sized.issuef("row %d: %s %s, using minimum size", d.Row, d.Field, describeValue(d.Value))
		case domain.ReasonUnmappedCategory:
			if d.Value == "" {
				mapped.issuef("row %d: no category, using the default marker color", d.Row)
				continue
			}
			mapped.issuef("row %d: category %q has no palette color", d.Row, d.Value)
			reported[d.Value] = true
		}
	}
	// The legend also carries categories of skipped rows and second tokens.
	for _, e := range snap.Legend {
		if !e.Known && !reported[e.Category] {
			mapped.issuef("category %q has no palette color", e.Category)
			reported[e.Category] = true
		}
	}

	return []*check{fetched, columns, placed, sized, mapped}
}

func describeValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "is blank"
	}
	return fmt.Sprintf("%q is not a number", v)
}

// printReport writes the summary table and per-check details, and returns the
// number of failed checks.
func printReport(w io.Writer, snap domain.Snapshot, checks []*check) int {
	data := pterm.TableData{{"Check", "Result"}}
	failed := 0
	for _, c := range checks {
		status := pterm.Green("PASS")
		if !c.passed() {
			failed++
			status = pterm.Red(fmt.Sprintf("FAIL (%d)", len(c.issues)))
		}
		data = append(data, []string{c.name, status})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		table = fmt.Sprintf("render report table: %v", err)
	}

	fmt.Fprintln(w, pterm.Bold.Sprint("GNSS sheet validation"))
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "\nRows: %d read, %d placed, %d skipped; %d legend categories\n",
		snap.Rows, len(snap.Points), snap.Skipped(), len(snap.Legend))

	for _, c := range checks {
		if c.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", c.name)
		for i, issue := range c.issues {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, issue)
		}
	}

	if failed == 0 {
		fmt.Fprintln(w, "\nAll checks passed.")
	} else {
		fmt.Fprintf(w, "\n%d check(s) failed.\n", failed)
	}
	return failed
}
