package tenantmix

import (
	"sort"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// CategoryShare is one row of a category breakdown.
type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Set is a property together with its occupants.
type Set struct {
	Property  model.Property
	Occupants []model.Occupant
}

// Breakdown counts occupants per canonical (mid-tier) category. Percentages
// are of len(occupants); the result is sorted by count descending.
func Breakdown(occupants []model.Occupant, tax *model.Taxonomy) []CategoryShare {
	counts := make(map[string]int)
	for _, o := range occupants {
		counts[tax.Canonical(o)]++
	}

	total := len(occupants)
	if total == 0 {
		total = 1
	}

	shares := make([]CategoryShare, 0, len(counts))
	for cat, n := range counts {
		shares = append(shares, CategoryShare{
			Category:   cat,
			Count:      n,
			Percentage: float64(n) / float64(total) * 100,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// pool flattens every competitor's occupants into one population.
func pool(competitors []Set) []model.Occupant {
	n := 0
	for _, c := range competitors {
		n += len(c.Occupants)
	}
	out := make([]model.Occupant, 0, n)
	for _, c := range competitors {
		out = append(out, c.Occupants...)
	}
	return out
}

func indexShares(shares []CategoryShare) map[string]CategoryShare {
	m := make(map[string]CategoryShare, len(shares))
	for _, s := range shares {
		m[s.Category] = s
	}
	return m
}
