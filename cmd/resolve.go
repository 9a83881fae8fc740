package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/portfolio-cli/internal/resolve"
)

var (
	resolveCity        string
	resolveSuggestions int
	resolveJSON        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve NAME [NAME...]",
	Short: "Resolve free-text location names to catalog properties",
	Long:  "Resolves one name strictly, failing on ambiguity. With several names each is resolved in turn and failures are listed.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := resolve.Options{City: resolveCity, MaxSuggestions: resolveSuggestions}
		out := cmd.OutOrStdout()

		if len(args) > 1 {
			batch, err := e.Service.ResolveMultipleLocationNames(ctx, args, opts)
			if batch != nil {
				if resolveJSON {
					if jerr := writeJSON(out, batch); jerr != nil {
						return jerr
					}
				} else {
					writeBatch(out, batch)
				}
			}
			return err
		}

		res, err := e.Service.ResolveLocation(ctx, args[0], opts)
		if err != nil {
			return err
		}
		if resolveJSON {
			if err := writeJSON(out, res); err != nil {
				return err
			}
		} else {
			writeResolution(out, res)
		}
		return res.Err()
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCity, "city", "", "prefer candidates in this city")
	resolveCmd.Flags().IntVar(&resolveSuggestions, "suggestions", 0, "max candidates listed on ambiguity (default from config)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func writeResolution(w io.Writer, res resolve.Result) {
	switch res.Status {
	case resolve.StatusMatched:
		m := res.Match
		fmt.Fprintf(w, "%d\t%s\t(confidence %.2f)\n", m.ID, m.Label(), m.Confidence)
	case resolve.StatusAmbiguous:
		fmt.Fprintf(w, "%q is ambiguous. Candidates:\n", res.Query)
		writeMatches(w, res.Suggestions)
	case resolve.StatusNotFound:
		if len(res.Suggestions) == 0 {
			fmt.Fprintf(w, "No match for %q.\n", res.Query)
			return
		}
		fmt.Fprintf(w, "No match for %q. Did you mean:\n", res.Query)
		writeMatches(w, res.Suggestions)
	}
}

func writeMatches(w io.Writer, matches []resolve.Match) {
	for _, m := range matches {
		fmt.Fprintf(w, "  %d\t%s\t%.2f\n", m.ID, m.Label(), m.Confidence)
	}
}

func writeBatch(w io.Writer, b *resolve.BatchResult) {
	for _, m := range b.Matches {
		fmt.Fprintf(w, "%d\t%s\t(confidence %.2f)\n", m.ID, m.Label(), m.Confidence)
	}
	for _, f := range b.Failures {
		var amb *resolve.AmbiguousError
		if errors.As(f.Err, &amb) {
			fmt.Fprintf(w, "FAILED\t%q\tambiguous\n", f.Query)
			writeMatches(w, amb.Candidates)
			continue
		}
		fmt.Fprintf(w, "FAILED\t%q\t%s\n", f.Query, f.Message())
	}
}
