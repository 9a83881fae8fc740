// Package tenantmix compares a property's occupant category mix against a
// pooled set of competitors and turns the differences into ranked actions.
package tenantmix

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/portfolio-cli/internal/config"
)

// Policy holds the tunable scoring constants. The defaults are placeholders
// carried over from the dashboard and have not been calibrated.
type Policy struct {
	// VarianceThreshold is the percentage-point gap beyond which a shared
	// category counts as over- or under-represented.
	VarianceThreshold float64 `yaml:"variance_threshold"`

	ImportanceWeight float64 `yaml:"importance_weight"`
	CoverageWeight   float64 `yaml:"coverage_weight"`
	PercentageWeight float64 `yaml:"percentage_weight"`

	HighPriorityScore   float64 `yaml:"high_priority_score"`
	MediumPriorityScore float64 `yaml:"medium_priority_score"`

	// Importance maps a lower-cased category label to its customer-draw weight (0-10).
	Importance        map[string]float64 `yaml:"importance"`
	DefaultImportance float64            `yaml:"default_importance"`
}

// Default scoring constants.
const (
	DefaultVarianceThreshold   = 5.0
	DefaultImportanceWeight    = 0.4
	DefaultCoverageWeight      = 0.3
	DefaultPercentageWeight    = 0.3
	DefaultHighPriorityScore   = 8.0
	DefaultMediumPriorityScore = 5.0
	DefaultCategoryImportance  = 5.0
)

// defaultImportance reflects the typical footfall draw of each category.
var defaultImportance = map[string]float64{
	"department store":    10,
	"department stores":   10,
	"grocery":             9,
	"supermarket":         9,
	"clothing":            9,
	"fashion":             9,
	"clothing & footwear": 9,
	"fashion & clothing":  9,
	"food":                8,
	"food & beverage":     8,
	"food & drink":        8,
	"restaurants":         7,
	"health":              7,
	"health & beauty":     7,
	"leisure":             7,
	"entertainment":       7,
	"footwear":            7,
	"cafes":               6,
	"coffee":              6,
	"beauty":              6,
	"electronics":         6,
	"home":                6,
	"homeware":            6,
	"home & garden":       6,
	"sports":              6,
	"sports & outdoors":   6,
	"jewellery":           5,
	"jewellery & watches": 5,
	"toys":                5,
	"books":               4,
	"gifts":               4,
	"services":            4,
	"financial services":  3,
	"charity":             2,
	"other":               2,
	"uncategorized":       1,
}

// DefaultPolicy returns the standard scoring policy.
func DefaultPolicy() Policy {
	imp := make(map[string]float64, len(defaultImportance))
	for k, v := range defaultImportance {
		imp[k] = v
	}
	return Policy{
		VarianceThreshold:   DefaultVarianceThreshold,
		ImportanceWeight:    DefaultImportanceWeight,
		CoverageWeight:      DefaultCoverageWeight,
		PercentageWeight:    DefaultPercentageWeight,
		HighPriorityScore:   DefaultHighPriorityScore,
		MediumPriorityScore: DefaultMediumPriorityScore,
		Importance:          imp,
		DefaultImportance:   DefaultCategoryImportance,
	}
}

// PolicyFromConfig applies the analysis config on top of the default policy
// and merges the optional importance file.
func PolicyFromConfig(cfg config.AnalysisConfig) (Policy, error) {
	p := DefaultPolicy()
	p.VarianceThreshold = cfg.VarianceThreshold
	p.ImportanceWeight = cfg.ImportanceWeight
	p.CoverageWeight = cfg.CoverageWeight
	p.PercentageWeight = cfg.PercentageWeight
	p.HighPriorityScore = cfg.HighPriorityScore
	p.MediumPriorityScore = cfg.MediumPriorityScore

	if cfg.PolicyFile == "" {
		return p, nil
	}
	return LoadPolicy(cfg.PolicyFile, p)
}

// LoadPolicy reads a YAML policy file and overlays it on base. Importance
// entries are merged; scalar fields override only when present.
func LoadPolicy(path string, base Policy) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, eris.Wrapf(err, "tenantmix: read policy %s", path)
	}

	// The file has a top-level "policy" key.
	var wrapper struct {
		Policy struct {
			VarianceThreshold   *float64           `yaml:"variance_threshold"`
			ImportanceWeight    *float64           `yaml:"importance_weight"`
			CoverageWeight      *float64           `yaml:"coverage_weight"`
			PercentageWeight    *float64           `yaml:"percentage_weight"`
			HighPriorityScore   *float64           `yaml:"high_priority_score"`
			MediumPriorityScore *float64           `yaml:"medium_priority_score"`
			DefaultImportance   *float64           `yaml:"default_importance"`
			Importance          map[string]float64 `yaml:"importance"`
		} `yaml:"policy"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return base, eris.Wrap(err, "tenantmix: parse policy")
	}

	p := base
	f := wrapper.Policy
	for dst, src := range map[*float64]*float64{
		&p.VarianceThreshold:   f.VarianceThreshold,
		&p.ImportanceWeight:    f.ImportanceWeight,
		&p.CoverageWeight:      f.CoverageWeight,
		&p.PercentageWeight:    f.PercentageWeight,
		&p.HighPriorityScore:   f.HighPriorityScore,
		&p.MediumPriorityScore: f.MediumPriorityScore,
		&p.DefaultImportance:   f.DefaultImportance,
	} {
		if src != nil {
			*dst = *src
		}
	}

	merged := make(map[string]float64, len(base.Importance)+len(f.Importance))
	for k, v := range base.Importance {
		merged[k] = v
	}
	for k, v := range f.Importance {
		merged[normalizeCategory(k)] = v
	}
	p.Importance = merged

	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	var errs []string
	if p.VarianceThreshold < 0 {
		errs = append(errs, "variance_threshold must be >= 0")
	}
	if p.ImportanceWeight < 0 || p.CoverageWeight < 0 || p.PercentageWeight < 0 {
		errs = append(errs, "weights must be >= 0")
	}
	if p.MediumPriorityScore > p.HighPriorityScore {
		errs = append(errs, "medium_priority_score must be <= high_priority_score")
	}
	for k, v := range p.Importance {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("importance for %q must be >= 0", k))
		}
	}
	if len(errs) > 0 {
		return eris.Errorf("tenantmix: invalid policy: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ImportanceOf returns the category's weight, matched case-insensitively.
func (p Policy) ImportanceOf(category string) float64 {
	if w, ok := p.Importance[normalizeCategory(category)]; ok {
		return w
	}
	return p.DefaultImportance
}

// GapScore scores a category gap:
//
//	importance×ImportanceWeight + coverage×CoverageWeight + competitorPct×PercentageWeight
//
// where coverage is the average number of occupants in the category per
// competitor location, times 10.
func (p Policy) GapScore(category string, competitorPct float64, competitorCount, locationCount int) float64 {
	coverage := 0.0
	if locationCount > 0 {
		coverage = float64(competitorCount) / float64(locationCount) * 10
	}
	return p.ImportanceOf(category)*p.ImportanceWeight +
		coverage*p.CoverageWeight +
		competitorPct*p.PercentageWeight
}

// PriorityFor maps a score to high, medium or low.
func (p Policy) PriorityFor(score float64) string {
	switch {
	case score > p.HighPriorityScore:
		return PriorityHigh
	case score > p.MediumPriorityScore:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func normalizeCategory(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
