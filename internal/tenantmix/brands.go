package tenantmix

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// MissingBrand is a competitor occupant the target does not carry.
type MissingBrand struct {
	Name       string              `json:"name"`
	Category   string              `json:"category"`
	Properties []model.PropertyRef `json:"properties"`
	// Prevalence is the number of competitor properties carrying the brand.
	Prevalence int `json:"prevalence"`
}

// NormalizeBrand case-folds a brand name and collapses its whitespace.
func NormalizeBrand(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// MissingBrands returns competitor brands absent from the target, grouped by
// normalized name and canonical category. Anchor occupants are skipped since
// anchor deals are property-specific. Sorted by prevalence descending.
func MissingBrands(target Set, competitors []Set, tax *model.Taxonomy) []MissingBrand {
	have := make(map[string]bool, len(target.Occupants))
	for _, o := range target.Occupants {
		have[NormalizeBrand(o.Name)] = true
	}

	type key struct{ name, category string }
	groups := make(map[key]*MissingBrand)
	carriers := make(map[key]map[int64]bool)
	var order []key

	for _, c := range competitors {
		for _, o := range c.Occupants {
			norm := NormalizeBrand(o.Name)
			if o.IsAnchor || norm == "" || have[norm] {
				continue
			}
			k := key{name: norm, category: tax.Canonical(o)}
			mb, ok := groups[k]
			if !ok {
				mb = &MissingBrand{
					Name:     strings.Join(strings.Fields(o.Name), " "),
					Category: k.category,
				}
				groups[k] = mb
				carriers[k] = make(map[int64]bool)
				order = append(order, k)
			}
			if !carriers[k][c.Property.ID] {
				carriers[k][c.Property.ID] = true
				mb.Properties = append(mb.Properties, c.Property.Ref())
			}
		}
	}

	out := make([]MissingBrand, 0, len(order))
	for _, k := range order {
		mb := groups[k]
		mb.Prevalence = len(mb.Properties)
		out = append(out, *mb)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Prevalence != out[j].Prevalence {
			return out[i].Prevalence > out[j].Prevalence
		}
		return NormalizeBrand(out[i].Name) < NormalizeBrand(out[j].Name)
	})
	return out
}
