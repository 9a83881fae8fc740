package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/portfolio-cli/internal/audit"
	"github.com/sells-group/portfolio-cli/internal/completeness"
	"github.com/sells-group/portfolio-cli/internal/export"
	"github.com/sells-group/portfolio-cli/internal/portfolio"
	"github.com/sells-group/portfolio-cli/internal/resolve"
	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

var (
	auditTypes       []string
	auditRadius      float64
	auditCompetitors int
	auditConcurrency int
	auditXLSX        string
	auditJSON        bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run gap analyses for every property against its nearest peers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		ac := cfg.Audit
		if cmd.Flags().Changed("types") {
			ac.PropertyTypes = auditTypes
		}
		if auditRadius > 0 {
			ac.RadiusKM = auditRadius
		}
		if auditCompetitors > 0 {
			ac.Competitors = auditCompetitors
		}
		if auditConcurrency > 0 {
			ac.Concurrency = auditConcurrency
		}

		policy, err := tenantmix.PolicyFromConfig(cfg.Analysis)
		if err != nil {
			return err
		}
		runner := audit.NewRunner(e.Store, ac,
			portfolio.WithPolicy(policy),
			portfolio.WithResolverConfig(resolve.FromConfig(cfg.Resolver)),
			portfolio.WithThresholds(completeness.Thresholds{
				High:   cfg.Completeness.HighThreshold,
				Medium: cfg.Completeness.MediumThreshold,
			}),
		)

		report, runErr := runner.Run(ctx)
		if report == nil {
			return runErr
		}

		if auditXLSX != "" {
			wb, err := export.AuditWorkbook(report)
			if err != nil {
				return err
			}
			if err := export.Save(wb, auditXLSX); err != nil {
				return err
			}
		}
		if auditJSON {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else if err := writeAudit(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		return runErr
	},
}

func init() {
	auditCmd.Flags().StringSliceVar(&auditTypes, "types", nil, "property types to audit (default from config)")
	auditCmd.Flags().Float64Var(&auditRadius, "radius", 0, "competitor radius in km (default from config)")
	auditCmd.Flags().IntVar(&auditCompetitors, "competitors", 0, "competitors per property (default from config)")
	auditCmd.Flags().IntVar(&auditConcurrency, "concurrency", 0, "parallel analyses (default from config)")
	auditCmd.Flags().StringVar(&auditXLSX, "xlsx", "", "write the audit to this XLSX file")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "print the full report as JSON")
	rootCmd.AddCommand(auditCmd)
}

func writeAudit(w io.Writer, r *audit.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROPERTY\tSTATUS\tCOMPETITORS\tTOP GAP\tSCORE")
	for _, res := range r.Results {
		gap, score := "-", "-"
		if res.Analysis != nil && len(res.Analysis.Priorities) > 0 {
			top := res.Analysis.Priorities[0]
			gap, score = top.Category, fmt.Sprintf("%.1f", top.Score)
		}
		if res.Status != audit.StatusOK {
			gap = res.Error
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			res.Target.ID, res.Target.Name, res.Status, len(res.Competitors), gap, score)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "audit: write table")
	}
	_, err := fmt.Fprintf(w, "\nRun %s: %d ok, %d skipped, %d failed\n", r.RunID, r.Succeeded, r.Skipped, r.Failed)
	return err
}
