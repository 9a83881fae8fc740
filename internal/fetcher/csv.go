package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Record is one non-blank row of a delimited export with its source line.
type Record struct {
	Line   int
	Fields []string
}

// DelimitedOptions configures StreamRecords.
type DelimitedOptions struct {
	Delimiter rune // default ','
	Comment   rune // 0 = none
}

// StreamRecords parses a delimited export and sends each non-blank record to
// the returned channel. Fields are trimmed and stray quotes are tolerated,
// since catalog exports are usually hand-edited spreadsheets.
// Caller must consume the record channel. Both channels are closed when
// processing completes.
func StreamRecords(ctx context.Context, r io.Reader, opts DelimitedOptions) (<-chan Record, <-chan error) {
	recCh := make(chan Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(recCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.Comment = opts.Comment
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "fetcher: context cancelled")
				return
			}

			fields, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "fetcher: read record")
				return
			}
			for i, f := range fields {
				fields[i] = strings.TrimSpace(f)
			}
			if blankRow(fields) {
				continue
			}
			line, _ := reader.FieldPos(0)

			select {
			case recCh <- Record{Line: line, Fields: fields}:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "fetcher: context cancelled")
				return
			}
		}
	}()

	return recCh, errCh
}
