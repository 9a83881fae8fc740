package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/completeness"
	"github.com/sells-group/portfolio-cli/internal/export"
)

var (
	completenessFormat string
	completenessOutput string
)

var completenessCmd = &cobra.Command{
	Use:   "completeness",
	Short: "Report attribute completeness across the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		report, err := e.Service.ComputeCompletenessReport(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("completeness report built",
			zap.String("command", "completeness"),
			zap.Int("properties", report.Overview.TotalProperties),
			zap.Int("critical_gaps", len(report.CriticalGaps)),
		)
		return outputCompleteness(cmd.OutOrStdout(), report, completenessFormat, completenessOutput)
	},
}

func init() {
	completenessCmd.Flags().StringVar(&completenessFormat, "format", "table", "output format: table, csv, or xlsx")
	completenessCmd.Flags().StringVar(&completenessOutput, "output", "", "output file (default stdout; required for xlsx)")
	rootCmd.AddCommand(completenessCmd)
}

// outputCompleteness checks the format before touching path so a bad
// --format never leaves an empty file behind.
func outputCompleteness(stdout io.Writer, r *completeness.Report, format, path string) error {
	var write func(io.Writer, *completeness.Report) error
	switch format {
	case "xlsx":
		return saveCompletenessWorkbook(r, path)
	case "csv":
		write = writeCompletenessCSV
	case "table":
		write = writeCompletenessTable
	default:
		return eris.Errorf("completeness: unsupported format %q", format)
	}

	w, closeFn, err := openOutput(path, stdout)
	if err != nil {
		return err
	}
	defer closeFn()

	return write(w, r)
}

func saveCompletenessWorkbook(r *completeness.Report, path string) error {
	if path == "" {
		return eris.New("completeness: --output is required for xlsx")
	}
	f, err := export.CompletenessWorkbook(r)
	if err != nil {
		return err
	}
	return export.Save(f, path)
}

func writeCompletenessCSV(w io.Writer, r *completeness.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"attribute", "label", "band", "missing", "relevant", "percentage", "priority", "method", "denominator"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "completeness: write CSV header")
	}
	for _, g := range r.Fields {
		row := []string{
			g.Attribute,
			g.Label,
			g.Band,
			fmt.Sprintf("%d", g.Missing),
			fmt.Sprintf("%d", g.Relevant),
			fmt.Sprintf("%.1f", g.Percentage),
			g.Priority,
			g.Method,
			g.Denominator,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "completeness: write CSV row")
		}
	}
	return nil
}

func writeCompletenessTable(w io.Writer, r *completeness.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ATTRIBUTE\tBAND\tMISSING\tRELEVANT\tCOMPLETE\tPRIORITY")
	for _, g := range r.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			g.Label, g.Band, g.Missing, g.Relevant, g.Percentage, g.Priority)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "completeness: write table")
	}

	o := r.Overview
	_, err := fmt.Fprintf(w, "\n--- Summary ---\nProperties:        %d (%d shopping centres, %d retail parks)\nWith website:      %d\nWith coordinates:  %d\nAverage complete:  %.1f%%\nCritical gaps:     %d\n",
		o.TotalProperties, o.ShoppingCentres, o.RetailParks, o.WithWebsite, o.WithCoordinates, o.AverageCompleteness, len(r.CriticalGaps))
	return err
}
