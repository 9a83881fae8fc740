package resolve

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Resolution failures.
var (
	ErrEmptyInput = eris.New("empty search text")
	ErrAmbiguous  = eris.New("ambiguous location name")
	ErrNoMatch    = eris.New("no matching location")
	ErrAllFailed  = eris.New("every name in the batch failed")
)

// AmbiguousError lists the candidates a query could not choose between.
type AmbiguousError struct {
	Query      string
	Candidates []Match
}

func (e *AmbiguousError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, c.Label())
	}
	return fmt.Sprintf("resolve: %q is ambiguous between %s", e.Query, strings.Join(names, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return ErrAmbiguous
}
