package tenantmix

import (
	"fmt"
	"math"
	"sort"
)

// Priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityItem is one ranked recommendation.
type PriorityItem struct {
	Category             string  `json:"category"`
	Kind                 string  `json:"kind"`
	Score                float64 `json:"score"`
	Priority             string  `json:"priority"`
	TargetPercentage     float64 `json:"target_percentage"`
	CompetitorPercentage float64 `json:"competitor_percentage"`
	SuggestedStores      int     `json:"suggested_stores"`
	Recommendation       string  `json:"recommendation"`
}

// Prioritize merges missing and under-represented categories into a single
// list ranked by score.
func Prioritize(cmp *Comparison, policy Policy) []PriorityItem {
	items := make([]PriorityItem, 0, len(cmp.Missing)+len(cmp.UnderRepresented))

	for _, m := range cmp.Missing {
		n := ceil(float64(cmp.TargetOccupants) * m.CompetitorPercentage / 100)
		if n < 1 {
			n = 1
		}
		items = append(items, PriorityItem{
			Category:             m.Category,
			Kind:                 KindMissing,
			Score:                m.Score,
			Priority:             policy.PriorityFor(m.Score),
			CompetitorPercentage: m.CompetitorPercentage,
			SuggestedStores:      n,
			Recommendation: fmt.Sprintf("Consider adding %s, present in %.0f%% of competitors",
				m.Category, m.Presence),
		})
	}

	for _, u := range cmp.UnderRepresented {
		n := StoreGap(cmp.TargetOccupants, u.CompetitorPercentage, u.TargetPercentage)
		items = append(items, PriorityItem{
			Category:             u.Category,
			Kind:                 KindUnderRepresented,
			Score:                u.Score,
			Priority:             policy.PriorityFor(u.Score),
			TargetPercentage:     u.TargetPercentage,
			CompetitorPercentage: u.CompetitorPercentage,
			SuggestedStores:      n,
			Recommendation: fmt.Sprintf("Add approximately %d %s in %s to match the competitor average of %.1f%%",
				n, plural(n, "store", "stores"), u.Category, u.CompetitorPercentage),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Category < items[j].Category
	})
	return items
}

// StoreGap estimates how many stores close a share gap:
// ceil(total × (competitorPct − targetPct) / 100), never negative.
func StoreGap(total int, competitorPct, targetPct float64) int {
	n := ceil(float64(total) * (competitorPct - targetPct) / 100)
	if n < 0 {
		return 0
	}
	return n
}

// ceil rounds up after discarding float noise from percentage arithmetic.
func ceil(v float64) int {
	return int(math.Ceil(math.Round(v*1e6) / 1e6))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
