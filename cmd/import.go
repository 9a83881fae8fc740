package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/portfolio-cli/internal/fetcher"
	"github.com/sells-group/portfolio-cli/internal/store"
)

var (
	importProperties string
	importOccupants  string
	importCategories string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load catalog records from CSV, TSV or XLSX files into the store",
	Long:  "Each source may be a local path or an http(s) URL. Categories load before properties, and properties before occupants.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if importProperties == "" && importOccupants == "" && importCategories == "" {
			return eris.New("import: pass at least one of --properties, --occupants, --categories")
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "open store")
		}
		defer func() { _ = st.Close() }()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "import: migrate")
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
		return importCatalog(ctx, st, f)
	},
}

func init() {
	importCmd.Flags().StringVar(&importProperties, "properties", "", "properties file or URL")
	importCmd.Flags().StringVar(&importOccupants, "occupants", "", "occupants file or URL")
	importCmd.Flags().StringVar(&importCategories, "categories", "", "category taxonomy file or URL")
	rootCmd.AddCommand(importCmd)
}

func importCatalog(ctx context.Context, w store.Writer, f fetcher.Fetcher) error {
	if importCategories != "" {
		t, err := fetcher.LoadTable(ctx, f, importCategories)
		if err != nil {
			return err
		}
		cats, err := fetcher.ParseCategories(t)
		if err != nil {
			return eris.Wrapf(err, "import: parse %s", importCategories)
		}
		n, err := w.InsertCategories(ctx, cats)
		if err != nil {
			return err
		}
		logImported("categories", importCategories, n)
	}

	if importProperties != "" {
		t, err := fetcher.LoadTable(ctx, f, importProperties)
		if err != nil {
			return err
		}
		props, err := fetcher.ParseProperties(t)
		if err != nil {
			return eris.Wrapf(err, "import: parse %s", importProperties)
		}
		n, err := w.InsertProperties(ctx, props)
		if err != nil {
			return err
		}
		logImported("properties", importProperties, n)
	}

	if importOccupants != "" {
		t, err := fetcher.LoadTable(ctx, f, importOccupants)
		if err != nil {
			return err
		}
		occs, err := fetcher.ParseOccupants(t)
		if err != nil {
			return eris.Wrapf(err, "import: parse %s", importOccupants)
		}
		n, err := w.InsertOccupants(ctx, occs)
		if err != nil {
			return err
		}
		logImported("occupants", importOccupants, n)
	}

	return nil
}

func logImported(kind, source string, n int64) {
	zap.L().Info("import complete",
		zap.String("command", "import"),
		zap.String("kind", kind),
		zap.String("source", source),
		zap.Int64("rows", n),
	)
}
