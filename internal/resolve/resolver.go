// Package resolve matches free-text location names against the property
// catalog using normalized edit distance.
package resolve

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"

	"github.com/sells-group/portfolio-cli/internal/config"
)

// Config holds the resolver thresholds and boosts.
type Config struct {
	// MinConfidence is the threshold for a strict single resolution.
	MinConfidence float64
	// SearchMinConfidence is the threshold for ranked search.
	SearchMinConfidence float64
	// AmbiguityMargin is how far the top score must lead the runner-up.
	AmbiguityMargin float64
	ContainsBoost   float64
	CityBoost       float64
	MaxSuggestions  int
}

// DefaultConfig returns the standard resolver settings.
func DefaultConfig() Config {
	return Config{
		MinConfidence:       0.6,
		SearchMinConfidence: 0.3,
		AmbiguityMargin:     0.15,
		ContainsBoost:       0.2,
		CityBoost:           0.3,
		MaxSuggestions:      5,
	}
}

// FromConfig converts the resolver section of the application config.
func FromConfig(c config.ResolverConfig) Config {
	return Config{
		MinConfidence:       c.MinConfidence,
		SearchMinConfidence: c.SearchMinConfidence,
		AmbiguityMargin:     c.AmbiguityMargin,
		ContainsBoost:       c.ContainsBoost,
		CityBoost:           c.CityBoost,
		MaxSuggestions:      c.MaxSuggestions,
	}
}

// Candidate is one catalog entry a name can resolve to.
type Candidate struct {
	ID     int64
	Name   string
	City   string
	County string
}

// Match is a resolved location with its confidence in [0, 1], rounded to
// two decimals. Ranking uses the unrounded score.
type Match struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	City       string  `json:"city,omitempty"`
	County     string  `json:"county,omitempty"`
	Confidence float64 `json:"confidence"`

	score float64
}

// Label renders the match name with its city when known.
func (m Match) Label() string {
	if m.City == "" {
		return m.Name
	}
	return m.Name + " (" + m.City + ")"
}

// Status is the outcome of a strict resolution.
type Status string

// Resolution statuses.
const (
	StatusMatched    Status = "matched"
	StatusAmbiguous  Status = "ambiguous"
	StatusNotFound   Status = "not_found"
	StatusEmptyInput Status = "empty_input"
)

// Result is the outcome of Resolve. Match is set only when Status is
// StatusMatched; Suggestions carries the competing or nearest candidates otherwise.
type Result struct {
	Query       string  `json:"query"`
	Status      Status  `json:"status"`
	Match       *Match  `json:"match,omitempty"`
	Suggestions []Match `json:"suggestions,omitempty"`
}

// Err converts a non-matched result into its error.
func (r Result) Err() error {
	switch r.Status {
	case StatusMatched:
		return nil
	case StatusEmptyInput:
		return ErrEmptyInput
	case StatusAmbiguous:
		return &AmbiguousError{Query: r.Query, Candidates: r.Suggestions}
	default:
		return eris.Wrapf(ErrNoMatch, "resolve: %q", r.Query)
	}
}

// Options tune a single resolution.
type Options struct {
	// City restricts the city boost to candidates in this city. When empty,
	// a trailing catalog city in the query is used instead.
	City           string
	MaxSuggestions int
}

type entry struct {
	cand  Candidate
	norm  string
	city  string
	runes int
}

// Resolver scores queries against a fixed catalog. Normalized names are
// computed once; a Resolver is safe for concurrent use.
type Resolver struct {
	cfg     Config
	entries []entry
	// cities holds the distinct cleaned city names, longest first.
	cities []string
}

// New builds a Resolver over the given catalog.
func New(candidates []Candidate, cfg Config) *Resolver {
	r := &Resolver{cfg: cfg, entries: make([]entry, 0, len(candidates))}
	seen := make(map[string]bool)
	for _, c := range candidates {
		n := NormalizeName(c.Name)
		city := Clean(c.City)
		r.entries = append(r.entries, entry{cand: c, norm: n, city: city, runes: utf8.RuneCountInString(n)})
		if city != "" && !seen[city] {
			seen[city] = true
			r.cities = append(r.cities, city)
		}
	}
	sort.Slice(r.cities, func(i, j int) bool {
		if len(r.cities[i]) != len(r.cities[j]) {
			return len(r.cities[i]) > len(r.cities[j])
		}
		return r.cities[i] < r.cities[j]
	})
	return r
}

// Len returns the catalog size.
func (r *Resolver) Len() int { return len(r.entries) }

// Resolve returns the single best catalog entry for query, or explains why
// there is none.
func (r *Resolver) Resolve(query string, opts Options) Result {
	res := Result{Query: query}
	limit := opts.MaxSuggestions
	if limit <= 0 {
		limit = r.cfg.MaxSuggestions
	}

	cleaned := Clean(query)
	if cleaned == "" {
		res.Status = StatusEmptyInput
		return res
	}

	// A unique exact match on the whole query wins outright.
	if exact := r.exact(StripSuffix(cleaned)); len(exact) == 1 {
		m := matchOf(exact[0], 1)
		res.Status = StatusMatched
		res.Match = &m
		return res
	}

	name, city := r.split(cleaned, opts.City)
	ranked := r.rank(name, city, r.cfg.MinConfidence)

	switch {
	case len(ranked) == 0:
		res.Status = StatusNotFound
		res.Suggestions = truncate(r.rank(name, city, r.cfg.SearchMinConfidence), limit)
	case len(ranked) == 1 || ranked[0].score-ranked[1].score > r.cfg.AmbiguityMargin:
		m := ranked[0]
		res.Status = StatusMatched
		res.Match = &m
	default:
		res.Status = StatusAmbiguous
		res.Suggestions = truncate(ranked, limit)
	}
	return res
}

// Search returns up to limit candidates clearing the search threshold,
// best first. It never fails; blank input yields an empty list.
func (r *Resolver) Search(query string, limit int, city string) []Match {
	cleaned := Clean(query)
	if cleaned == "" {
		return []Match{}
	}
	if limit <= 0 {
		limit = r.cfg.MaxSuggestions
	}
	name, c := r.split(cleaned, city)
	return truncate(r.rank(name, c, r.cfg.SearchMinConfidence), limit)
}

// Failure records one name a batch could not resolve.
type Failure struct {
	Query string `json:"query"`
	Err   error  `json:"-"`
}

// Message returns the failure's error text.
func (f Failure) Message() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// BatchResult holds the resolved subset of a batch and the per-name failures.
type BatchResult struct {
	Matches  []Match   `json:"matches"`
	Failures []Failure `json:"failures"`
}

// ResolveMany resolves each query in order. Individual failures are collected;
// an error is returned only when every query failed.
func (r *Resolver) ResolveMany(queries []string, opts Options) (BatchResult, error) {
	out := BatchResult{Matches: []Match{}, Failures: []Failure{}}
	for _, q := range queries {
		res := r.Resolve(q, opts)
		if err := res.Err(); err != nil {
			out.Failures = append(out.Failures, Failure{Query: q, Err: err})
			continue
		}
		out.Matches = append(out.Matches, *res.Match)
	}
	if len(queries) > 0 && len(out.Matches) == 0 {
		return out, eris.Wrapf(ErrAllFailed, "resolve: %d of %d names failed", len(out.Failures), len(queries))
	}
	return out, nil
}

func (r *Resolver) exact(name string) []entry {
	var out []entry
	for _, e := range r.entries {
		if e.norm == name {
			out = append(out, e)
		}
	}
	return out
}

// split separates the city hint from a cleaned query. Without an explicit
// city, a trailing catalog city is taken as the hint when a name remains.
func (r *Resolver) split(cleaned, city string) (string, string) {
	if city = Clean(city); city != "" {
		return StripSuffix(cleaned), city
	}
	for _, c := range r.cities {
		if strings.HasSuffix(cleaned, " "+c) {
			if rest := strings.TrimSpace(strings.TrimSuffix(cleaned, c)); rest != "" {
				return StripSuffix(rest), c
			}
		}
	}
	return StripSuffix(cleaned), ""
}

// rank scores every entry that can clear threshold and returns them best
// first. Ties break on name then ID.
func (r *Resolver) rank(name, city string, threshold float64) []Match {
	n := utf8.RuneCountInString(name)
	var out []Match
	for _, e := range r.entries {
		boost := 0.0
		contains := name != "" && e.norm != "" && (strings.Contains(e.norm, name) || strings.Contains(name, e.norm))
		if contains {
			boost += r.cfg.ContainsBoost
		}
		if city != "" && e.city == city {
			boost += r.cfg.CityBoost
		}

		longer := max(n, e.runes)
		if longer == 0 {
			continue
		}
		// The length difference bounds the edit distance from below.
		if upper := float64(longer-absInt(n-e.runes))/float64(longer) + boost; upper < threshold {
			continue
		}

		sim := float64(longer-levenshtein.Distance(name, e.norm, nil)) / float64(longer)
		if score := sim + boost; score >= threshold {
			out = append(out, matchOf(e, score))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matchOf(e entry, score float64) Match {
	return Match{
		ID:         e.cand.ID,
		Name:       e.cand.Name,
		City:       e.cand.City,
		County:     e.cand.County,
		Confidence: math.Round(math.Min(score, 1)*100) / 100,
		score:      score,
	}
}

func truncate(ms []Match, n int) []Match {
	if ms == nil {
		return []Match{}
	}
	if n > 0 && len(ms) > n {
		return ms[:n]
	}
	return ms
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
