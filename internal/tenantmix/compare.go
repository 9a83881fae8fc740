package tenantmix

import (
	"math"
	"sort"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// Kinds of category gap.
const (
	KindMissing          = "missing"
	KindUnderRepresented = "under_represented"
)

// MissingCategory is a category competitors carry and the target does not.
type MissingCategory struct {
	Category             string  `json:"category"`
	CompetitorCount      int     `json:"competitor_count"`
	CompetitorPercentage float64 `json:"competitor_percentage"`
	// Presence is the share of competitor properties with at least one
	// occupant in the category (0-100).
	Presence float64 `json:"presence"`
	Score    float64 `json:"score"`
}

// CategoryVariance is a category carried by both sides whose share differs
// by more than the policy's variance threshold.
type CategoryVariance struct {
	Category             string  `json:"category"`
	TargetCount          int     `json:"target_count"`
	CompetitorCount      int     `json:"competitor_count"`
	TargetPercentage     float64 `json:"target_percentage"`
	CompetitorPercentage float64 `json:"competitor_percentage"`
	// Variance is target minus competitor percentage.
	Variance float64 `json:"variance"`
	// Score is set for under-represented categories only.
	Score float64 `json:"score,omitempty"`
}

// Comparison is the result of comparing one target against pooled competitors.
type Comparison struct {
	Target              model.PropertyRef   `json:"target"`
	Competitors         []model.PropertyRef `json:"competitors"`
	TargetOccupants     int                 `json:"target_occupants"`
	CompetitorOccupants int                 `json:"competitor_occupants"`
	TargetBreakdown     []CategoryShare     `json:"target_breakdown"`
	CompetitorBreakdown []CategoryShare     `json:"competitor_breakdown"`
	Missing             []MissingCategory   `json:"missing"`
	OverRepresented     []CategoryVariance  `json:"over_represented"`
	UnderRepresented    []CategoryVariance  `json:"under_represented"`
}

// Compare builds the target and pooled-competitor breakdowns and derives the
// missing, over-represented and under-represented views.
func Compare(target Set, competitors []Set, tax *model.Taxonomy, policy Policy) *Comparison {
	pooled := pool(competitors)

	cmp := &Comparison{
		Target:              target.Property.Ref(),
		Competitors:         make([]model.PropertyRef, 0, len(competitors)),
		TargetOccupants:     len(target.Occupants),
		CompetitorOccupants: len(pooled),
		TargetBreakdown:     Breakdown(target.Occupants, tax),
		CompetitorBreakdown: Breakdown(pooled, tax),
		Missing:             []MissingCategory{},
		OverRepresented:     []CategoryVariance{},
		UnderRepresented:    []CategoryVariance{},
	}
	for _, c := range competitors {
		cmp.Competitors = append(cmp.Competitors, c.Property.Ref())
	}

	targetIdx := indexShares(cmp.TargetBreakdown)
	compIdx := indexShares(cmp.CompetitorBreakdown)
	presence := categoryPresence(competitors, tax)
	locations := len(competitors)
	threshold := math.Max(policy.VarianceThreshold, 0)

	for _, cs := range cmp.CompetitorBreakdown {
		ts, ok := targetIdx[cs.Category]
		if !ok {
			cmp.Missing = append(cmp.Missing, MissingCategory{
				Category:             cs.Category,
				CompetitorCount:      cs.Count,
				CompetitorPercentage: cs.Percentage,
				Presence:             presence[cs.Category],
				Score:                policy.GapScore(cs.Category, cs.Percentage, cs.Count, locations),
			})
			continue
		}
		if cs.Percentage-ts.Percentage > threshold {
			cmp.UnderRepresented = append(cmp.UnderRepresented, CategoryVariance{
				Category:             cs.Category,
				TargetCount:          ts.Count,
				CompetitorCount:      cs.Count,
				TargetPercentage:     ts.Percentage,
				CompetitorPercentage: cs.Percentage,
				Variance:             ts.Percentage - cs.Percentage,
				Score:                policy.GapScore(cs.Category, cs.Percentage, cs.Count, locations),
			})
		}
	}

	// A target-only category compares against 0%.
	for _, ts := range cmp.TargetBreakdown {
		cs := compIdx[ts.Category]
		if ts.Percentage-cs.Percentage > threshold {
			cmp.OverRepresented = append(cmp.OverRepresented, CategoryVariance{
				Category:             ts.Category,
				TargetCount:          ts.Count,
				CompetitorCount:      cs.Count,
				TargetPercentage:     ts.Percentage,
				CompetitorPercentage: cs.Percentage,
				Variance:             ts.Percentage - cs.Percentage,
			})
		}
	}

	sort.SliceStable(cmp.Missing, func(i, j int) bool {
		if cmp.Missing[i].Score != cmp.Missing[j].Score {
			return cmp.Missing[i].Score > cmp.Missing[j].Score
		}
		return cmp.Missing[i].Category < cmp.Missing[j].Category
	})
	sort.SliceStable(cmp.UnderRepresented, func(i, j int) bool {
		if cmp.UnderRepresented[i].Score != cmp.UnderRepresented[j].Score {
			return cmp.UnderRepresented[i].Score > cmp.UnderRepresented[j].Score
		}
		return cmp.UnderRepresented[i].Category < cmp.UnderRepresented[j].Category
	})
	sort.SliceStable(cmp.OverRepresented, func(i, j int) bool {
		if cmp.OverRepresented[i].Variance != cmp.OverRepresented[j].Variance {
			return cmp.OverRepresented[i].Variance > cmp.OverRepresented[j].Variance
		}
		return cmp.OverRepresented[i].Category < cmp.OverRepresented[j].Category
	})

	return cmp
}

// categoryPresence returns, per category, the percentage of competitor
// properties carrying at least one occupant in it.
func categoryPresence(competitors []Set, tax *model.Taxonomy) map[string]float64 {
	out := make(map[string]float64)
	if len(competitors) == 0 {
		return out
	}
	carriers := make(map[string]int)
	for _, c := range competitors {
		seen := make(map[string]bool)
		for _, o := range c.Occupants {
			cat := tax.Canonical(o)
			if !seen[cat] {
				seen[cat] = true
				carriers[cat]++
			}
		}
	}
	for cat, n := range carriers {
		out[cat] = float64(n) / float64(len(competitors)) * 100
	}
	return out
}
