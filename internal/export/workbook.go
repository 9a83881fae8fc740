// Package export writes analysis results as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// sheet appends typed rows to one worksheet.
type sheet struct {
	s *xlsx.Sheet
}

func addSheet(f *xlsx.File, name string, header ...string) (*sheet, error) {
	s, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "export: add sheet %s", name)
	}
	sh := &sheet{s: s}
	if len(header) > 0 {
		values := make([]any, len(header))
		for i, h := range header {
			values[i] = h
		}
		sh.row(values...)
	}
	return sh, nil
}

func (sh *sheet) row(values ...any) {
	r := sh.s.AddRow()
	for _, v := range values {
		c := r.AddCell()
		switch x := v.(type) {
		case string:
			c.SetString(x)
		case int:
			c.SetInt(x)
		case int64:
			c.SetInt64(x)
		case float64:
			c.SetFloat(round2(x))
		case bool:
			c.SetBool(x)
		case time.Time:
			c.SetString(x.UTC().Format(time.RFC3339))
		case []string:
			c.SetString(strings.Join(x, ", "))
		case nil:
			c.SetString("")
		default:
			c.SetString(fmt.Sprint(x))
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Save writes f to path.
func Save(f *xlsx.File, path string) error {
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// Write streams f to w.
func Write(f *xlsx.File, w io.Writer) error {
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}
