package tenantmix

import (
	"fmt"
	"strings"

	"github.com/sells-group/portfolio-cli/internal/model"
)

const maxInsightBrands = 5

// Analysis bundles a full competitive gap analysis.
type Analysis struct {
	Comparison    *Comparison    `json:"comparison"`
	MissingBrands []MissingBrand `json:"missing_brands"`
	Priorities    []PriorityItem `json:"priorities"`
	Insights      []string       `json:"insights"`
}

// Analyze runs the comparison, optional brand diff, prioritisation and
// insight generation for one target.
func Analyze(target Set, competitors []Set, tax *model.Taxonomy, policy Policy, includeBrands bool) *Analysis {
	cmp := Compare(target, competitors, tax, policy)
	a := &Analysis{
		Comparison:    cmp,
		MissingBrands: []MissingBrand{},
		Priorities:    Prioritize(cmp, policy),
	}
	if includeBrands {
		a.MissingBrands = MissingBrands(target, competitors, tax)
	}
	a.Insights = Insights(target.Property.Name, cmp, a.Priorities, a.MissingBrands)
	return a
}

// Insights composes short summary sentences from an analysis.
func Insights(targetName string, cmp *Comparison, priorities []PriorityItem, brands []MissingBrand) []string {
	var out []string

	if len(priorities) > 0 {
		top := priorities[0]
		out = append(out, fmt.Sprintf("Top priority gap: %s (%s priority, score %.1f). %s.",
			top.Category, top.Priority, top.Score, top.Recommendation))
	}

	if n := len(cmp.Missing); n > 0 {
		out = append(out, fmt.Sprintf("%s is missing %d %s found across competitors.",
			targetName, n, plural(n, "category", "categories")))
	}

	if total, cats := opportunity(priorities); total > 0 {
		out = append(out, fmt.Sprintf("Estimated opportunity: approximately %d additional %s across %d %s.",
			total, plural(total, "store", "stores"), cats, plural(cats, "category", "categories")))
	}

	if len(brands) > 0 {
		names := make([]string, 0, maxInsightBrands)
		for i := 0; i < len(brands) && i < maxInsightBrands; i++ {
			names = append(names, brands[i].Name)
		}
		out = append(out, fmt.Sprintf("Top missing brands: %s.", strings.Join(names, ", ")))
	}

	if len(cmp.TargetBreakdown) > 0 && len(cmp.CompetitorBreakdown) > 0 {
		t, c := cmp.TargetBreakdown[0], cmp.CompetitorBreakdown[0]
		if t.Category != c.Category {
			out = append(out, fmt.Sprintf("%s's largest category is %s (%.1f%%), while competitors lead with %s (%.1f%%).",
				targetName, t.Category, t.Percentage, c.Category, c.Percentage))
		}
	}

	return out
}

func opportunity(priorities []PriorityItem) (stores, categories int) {
	for _, p := range priorities {
		if p.SuggestedStores > 0 {
			stores += p.SuggestedStores
			categories++
		}
	}
	return stores, categories
}
