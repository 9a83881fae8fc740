package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetOptions selects the sheet and header row of a workbook export.
type SheetOptions struct {
	Sheet     string // case-insensitive name; empty picks the first sheet with data
	HeaderRow int    // 1-based; 0 means the first non-blank row
}

// ReadSheet reads one sheet of an XLSX workbook as a Table. Cells are
// trimmed, blank rows are dropped, and each row keeps its spreadsheet row
// number for error messages.
func ReadSheet(path string, opts SheetOptions) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open workbook %s", path)
	}

	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return nil, err
	}

	var t *Table
	for i, row := range sheet.Rows {
		line := i + 1
		if row == nil || line < opts.HeaderRow {
			continue
		}
		cells := rowToStrings(row)
		if blankRow(cells) {
			continue
		}
		if t == nil {
			t = newTable(cells)
			continue
		}
		t.Rows = append(t.Rows, cells)
		t.lines = append(t.lines, line)
	}
	if t == nil {
		return nil, eris.Errorf("fetcher: sheet %q has no header row", sheet.Name)
	}
	return t, nil
}

func pickSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if len(f.Sheets) == 0 {
		return nil, eris.New("fetcher: workbook has no sheets")
	}

	if name == "" {
		for _, sh := range f.Sheets {
			if hasData(sh) {
				return sh, nil
			}
		}
		return f.Sheets[0], nil
	}

	names := make([]string, 0, len(f.Sheets))
	for _, sh := range f.Sheets {
		if strings.EqualFold(strings.TrimSpace(sh.Name), strings.TrimSpace(name)) {
			return sh, nil
		}
		names = append(names, sh.Name)
	}
	return nil, eris.Errorf("fetcher: sheet %q not found (have %s)", name, strings.Join(names, ", "))
}

func hasData(sh *xlsx.Sheet) bool {
	for _, row := range sh.Rows {
		if row != nil && !blankRow(rowToStrings(row)) {
			return true
		}
	}
	return false
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = strings.TrimSpace(cell.String())
	}
	return cells
}
