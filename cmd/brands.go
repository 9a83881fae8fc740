package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/portfolio-cli/internal/tenantmix"
)

var brandsFlags targetFlags

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List competitor brands the target property lacks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		f := brandsFlags
		ids, err := competitorIDs(ctx, e.Service, f.target, f.competitors, f.radius(), f.count())
		if err != nil {
			return err
		}
		brands, err := e.Service.FindMissingBrands(ctx, f.target, ids)
		if err != nil {
			return err
		}
		if f.json {
			return writeJSON(cmd.OutOrStdout(), brands)
		}
		return writeBrands(cmd.OutOrStdout(), brands)
	},
}

func init() {
	brandsFlags.register(brandsCmd)
	rootCmd.AddCommand(brandsCmd)
}

func writeBrands(w io.Writer, brands []tenantmix.MissingBrand) error {
	if len(brands) == 0 {
		_, err := fmt.Fprintln(w, "No missing brands.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BRAND\tCATEGORY\tCOMPETITORS")
	for _, b := range brands {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Name, b.Category, b.Prevalence)
	}
	if err := tw.Flush(); err != nil {
		return eris.Wrap(err, "brands: write table")
	}
	return nil
}
