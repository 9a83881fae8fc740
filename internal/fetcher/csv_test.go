package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRecords(t *testing.T, recCh <-chan Record, errCh <-chan error) ([]Record, error) {
	t.Helper()
	var recs []Record
	for rec := range recCh {
		recs = append(recs, rec)
	}
	for err := range errCh {
		if err != nil {
			return recs, err
		}
	}
	return recs, nil
}

func TestStreamRecords_Basic(t *testing.T) {
	input := "id,name,city\n1,Trafford Centre,Manchester\n2,Merseyway,Stockport\n"
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(input), DelimitedOptions{})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, Record{Line: 1, Fields: []string{"id", "name", "city"}}, recs[0])
	assert.Equal(t, []string{"2", "Merseyway", "Stockport"}, recs[2].Fields)
}

func TestStreamRecords_TabDelimited(t *testing.T) {
	input := "id\tname\n7\tWhite Rose\n"
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(input), DelimitedOptions{Delimiter: '\t'})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"7", "White Rose"}, recs[1].Fields)
}

func TestStreamRecords_SkipsBlankRowsAndKeepsLines(t *testing.T) {
	input := "id,name\n\n1,Arndale\n , \n2,Bluewater\n"
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(input), DelimitedOptions{})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 3, recs[1].Line)
	assert.Equal(t, 5, recs[2].Line)
}

func TestStreamRecords_TrimsAndToleratesQuotes(t *testing.T) {
	input := " id , name \n 1 ,The \"Mall\" Bristol\n"
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(input), DelimitedOptions{})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"id", "name"}, recs[0].Fields)
	assert.Equal(t, "1", recs[1].Fields[0])
}

func TestStreamRecords_Comment(t *testing.T) {
	input := "# exported 2024-03-01\nid,name\n1,Arndale\n"
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(input), DelimitedOptions{Comment: '#'})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"id", "name"}, recs[0].Fields)
}

func TestStreamRecords_Empty(t *testing.T) {
	recCh, errCh := StreamRecords(context.Background(), strings.NewReader(""), DelimitedOptions{})
	recs, err := collectRecords(t, recCh, errCh)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStreamRecords_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for range 10000 {
		sb.WriteString("1,Arndale,Manchester\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recCh, errCh := StreamRecords(ctx, strings.NewReader(sb.String()), DelimitedOptions{})

	count := 0
	for range recCh {
		count++
		if count == 5 {
			cancel()
			break
		}
	}
	for range recCh {
	}

	var gotErr error
	for err := range errCh {
		gotErr = err
	}
	// The reader may finish before it notices the cancellation.
	if gotErr != nil {
		assert.Contains(t, gotErr.Error(), "context cancelled")
	}
}
