package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

// Flags shared by the target/competitor commands.
type targetFlags struct {
	target      int64
	competitors string
	radiusKM    float64
	limit       int
	json        bool
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.target, "target", 0, "target property id (required)")
	cmd.Flags().StringVar(&f.competitors, "competitors", "", "comma separated competitor ids (default: nearest properties)")
	cmd.Flags().Float64Var(&f.radiusKM, "radius", 0, "search radius in km when --competitors is omitted (default from config)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "number of nearest competitors when --competitors is omitted (default from config)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("target")
}

func (f *targetFlags) radius() float64 {
	if f.radiusKM > 0 {
		return f.radiusKM
	}
	return cfg.Audit.RadiusKM
}

func (f *targetFlags) count() int {
	if f.limit > 0 {
		return f.limit
	}
	return cfg.Audit.Competitors
}

var compareFlags targetFlags

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a property's tenant categories against competitors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		f := compareFlags
		ids, err := competitorIDs(ctx, e.Service, f.target, f.competitors, f.radius(), f.count())
		if err != nil {
			return err
		}
		cmp, err := e.Service.CompareTenantCategories(ctx, f.target, ids)
		if err != nil {
			return err
		}
		if f.json {
			return writeJSON(cmd.OutOrStdout(), cmp)
		}
		return writeComparison(cmd.OutOrStdout(), cmp)
	},
}

func init() {
	compareFlags.register(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func writeComparison(w io.Writer, cmp *tenantmix.Comparison) error {
	fmt.Fprintf(w, "%s vs %d competitors (%d vs %d occupants)\n\n",
		cmp.Target.Name, len(cmp.Competitors), cmp.TargetOccupants, cmp.CompetitorOccupants)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tSTATUS\tTARGET\tCOMPETITORS\tVARIANCE\tSCORE")
	for _, m := range cmp.Missing {
		fmt.Fprintf(tw, "%s\tmissing\t-\t%.1f%%\t-\t%.1f\n", m.Category, m.CompetitorPercentage, m.Score)
	}
	for _, v := range cmp.UnderRepresented {
		fmt.Fprintf(tw, "%s\tunder\t%.1f%%\t%.1f%%\t%+.1f\t%.1f\n", v.Category, v.TargetPercentage, v.CompetitorPercentage, v.Variance, v.Score)
	}
	for _, v := range cmp.OverRepresented {
		fmt.Fprintf(tw, "%s\tover\t%.1f%%\t%.1f%%\t%+.1f\t-\n", v.Category, v.TargetPercentage, v.CompetitorPercentage, v.Variance)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "compare: write table")
	}
	return nil
}
