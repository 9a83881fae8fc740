package completeness

import "github.com/sells-group/portfolio-cli/internal/model"

// relevance selects the records an attribute applies to.
type relevance struct {
	label string
	keep  func(p *model.Property) bool
}

var (
	allProperties = relevance{
		label: "all properties",
		keep:  func(*model.Property) bool { return true },
	}
	withWebsite = relevance{
		label: "properties with a website",
		keep:  func(p *model.Property) bool { return p.HasWebsite() },
	}
	destinations = relevance{
		label: "shopping centres and retail parks",
		keep:  func(p *model.Property) bool { return p.IsDestination() },
	}
)

// relevanceTable is the single source of truth for completeness denominators.
// Attributes not listed apply to every property.
var relevanceTable = map[string]relevance{
	// A property without a website cannot be missing its social or review presence.
	"phone":               withWebsite,
	"instagram":           withWebsite,
	"facebook":            withWebsite,
	"twitter":             withWebsite,
	"tiktok":              withWebsite,
	"google_rating":       withWebsite,
	"google_review_count": withWebsite,

	"car_parking_spaces": destinations,
	"owner":              destinations,
	"annual_footfall":    destinations,
	"anchor_tenants":     destinations,
}

func relevanceFor(attribute string) relevance {
	if r, ok := relevanceTable[attribute]; ok {
		return r
	}
	return allProperties
}

// RelevantSubset returns the properties the attribute applies to. Unknown
// attributes apply to the whole population.
func RelevantSubset(attribute string, all []model.Property) []model.Property {
	r := relevanceFor(attribute)
	subset := make([]model.Property, 0, len(all))
	for i := range all {
		if r.keep(&all[i]) {
			subset = append(subset, all[i])
		}
	}
	return subset
}

// DenominatorLabel describes the population the attribute's percentage is computed over.
func DenominatorLabel(attribute string) string {
	return relevanceFor(attribute).label
}
