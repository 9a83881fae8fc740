package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchCity  string
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search TEXT",
	Short: "Search catalog properties by approximate name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		matches, err := e.Service.SearchLocationsByName(ctx, args[0], searchLimit, searchCity)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			return writeJSON(out, matches)
		}
		if len(matches) == 0 {
			_, err := fmt.Fprintln(out, "No results.")
			return err
		}
		writeMatches(out, matches)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "max results")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "boost candidates in this city")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print results as JSON")
	rootCmd.AddCommand(searchCmd)
}
