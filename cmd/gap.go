package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/export"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

var (
	gapFlags  targetFlags
	gapBrands bool
	gapXLSX   string
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Run a full competitive gap analysis for a property",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		f := gapFlags
		ids, err := competitorIDs(ctx, e.Service, f.target, f.competitors, f.radius(), f.count())
		if err != nil {
			return err
		}
		analysis, err := e.Service.PerformGapAnalysis(ctx, f.target, ids, gapBrands)
		if err != nil {
			return err
		}
		zap.L().Info("gap analysis complete",
			zap.String("command", "gap"),
			zap.Int64("target_id", f.target),
			zap.Int("competitors", len(ids)),
			zap.Int("priorities", len(analysis.Priorities)),
		)

		if gapXLSX != "" {
			wb, err := export.GapWorkbook(analysis)
			if err != nil {
				return err
			}
			if err := export.Save(wb, gapXLSX); err != nil {
				return err
			}
		}
		if f.json {
			return writeJSON(cmd.OutOrStdout(), analysis)
		}
		return writeAnalysis(cmd.OutOrStdout(), analysis)
	},
}

func init() {
	gapFlags.register(gapCmd)
	gapCmd.Flags().BoolVar(&gapBrands, "brands", false, "include missing brands")
	gapCmd.Flags().StringVar(&gapXLSX, "xlsx", "", "also write the analysis to this XLSX file")
	rootCmd.AddCommand(gapCmd)
}

func writeAnalysis(w io.Writer, a *tenantmix.Analysis) error {
	for _, line := range a.Insights {
		fmt.Fprintf(w, "- %s\n", line)
	}
	if len(a.Priorities) == 0 {
		_, err := fmt.Fprintln(w, "\nNo category gaps found.")
		return err
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tKIND\tSCORE\tPRIORITY\tSTORES\tRECOMMENDATION")
	for _, p := range a.Priorities {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%d\t%s\n",
			p.Category, p.Kind, p.Score, p.Priority, p.SuggestedStores, p.Recommendation)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "gap: write table")
	}
	return nil
}
