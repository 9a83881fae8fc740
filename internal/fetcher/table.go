package fetcher

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Table is a header row plus data rows with case-insensitive column lookup.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
	lines  []int
}

// NewTable indexes header names after lowercasing and replacing spaces
// with underscores, so "Property Type" and "property_type" both match.
func NewTable(header []string, rows [][]string) *Table {
	t := newTable(header)
	for i, r := range rows {
		if !blankRow(r) {
			t.Rows = append(t.Rows, r)
			t.lines = append(t.lines, i+2)
		}
	}
	return t
}

// tableOf builds a table from streamed records, keeping their source lines.
func tableOf(recs []Record) *Table {
	t := newTable(recs[0].Fields)
	for _, rec := range recs[1:] {
		t.Rows = append(t.Rows, rec.Fields)
		t.lines = append(t.lines, rec.Line)
	}
	return t
}

func newTable(header []string) *Table {
	t := &Table{Header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		key := columnKey(h)
		if _, dup := t.index[key]; !dup && key != "" {
			t.index[key] = i
		}
	}
	return t
}

// Line returns the source line of row i.
func (t *Table) Line(i int) int {
	if i < len(t.lines) {
		return t.lines[i]
	}
	return i + 2
}

// Has reports whether the table carries the column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[columnKey(col)]
	return ok
}

// Value returns the trimmed cell for col, or "" when the column or cell is absent.
func (t *Table) Value(row []string, col string) string {
	i, ok := t.index[columnKey(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.Join(strings.Fields(h), "_")
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadTable reads a local CSV or XLSX file, choosing the parser by extension.
// The first row is the header.
func ReadTable(ctx context.Context, p string) (*Table, error) {
	var t *Table
	switch strings.ToLower(filepath.Ext(p)) {
	case ".xlsx":
		var err error
		if t, err = ReadSheet(p, SheetOptions{}); err != nil {
			return nil, err
		}
	case ".csv", ".txt", ".tsv":
		f, err := os.Open(p)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", p)
		}
		defer f.Close() //nolint:errcheck

		var opts DelimitedOptions
		if strings.EqualFold(filepath.Ext(p), ".tsv") {
			opts.Delimiter = '\t'
		}
		recCh, errCh := StreamRecords(ctx, f, opts)
		var recs []Record
		for rec := range recCh {
			recs = append(recs, rec)
		}
		if err := <-errCh; err != nil {
			return nil, err
		}
		if len(recs) > 0 {
			t = tableOf(recs)
		}
	default:
		return nil, eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(p))
	}

	if t == nil {
		return nil, eris.Errorf("fetcher: %s has no header row", p)
	}
	zap.L().Debug("fetcher: read table",
		zap.String("path", p),
		zap.Int("rows", len(t.Rows)),
	)
	return t, nil
}

// LoadTable reads location, downloading it first with f when it is an
// http(s) URL.
func LoadTable(ctx context.Context, f Fetcher, location string) (*Table, error) {
	u, err := url.Parse(location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ReadTable(ctx, location)
	}
	if f == nil {
		return nil, eris.Errorf("fetcher: no downloader for %s", location)
	}

	dir, err := os.MkdirTemp("", "portfolio-import-")
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create temp dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	local := filepath.Join(dir, path.Base(u.Path))
	n, err := f.DownloadToFile(ctx, location, local)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: download %s", location)
	}
	zap.L().Info("fetcher: downloaded table", zap.String("url", location), zap.Int64("bytes", n))
	return ReadTable(ctx, local)
}
