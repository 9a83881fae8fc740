package completeness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/portfolio-cli/internal/model"
)

func sampleProperties() []model.Property {
	return []model.Property{
		{
			ID: 1, Name: "The Trafford Centre", PropertyType: model.TypeShoppingCentre,
			City: model.Ptr("Manchester"), Latitude: model.Ptr(53.4668), Longitude: model.Ptr(-2.3486),
			Website: model.Ptr("https://traffordcentre.co.uk"), Instagram: model.Ptr("@traffordcentre"),
			CarParkingSpaces: model.Ptr(11500), NumberOfStores: model.Ptr(200),
		},
		{
			ID: 2, Name: "Fort Kinnaird", PropertyType: model.TypeRetailPark,
			City: model.Ptr("Edinburgh"), Latitude: model.Ptr(0.0), Longitude: model.Ptr(0.0),
			Website: model.Ptr("https://fortkinnaird.com"),
		},
		{
			ID: 3, Name: "Northgate Street", PropertyType: model.TypeHighStreet,
			City: model.Ptr("  "),
		},
	}
}

func gapFor(t *testing.T, r *Report, attr string) FieldGap {
	t.Helper()
	for _, f := range r.Fields {
		if f.Attribute == attr {
			return f
		}
	}
	require.Failf(t, "attribute not in report", "%s", attr)
	return FieldGap{}
}

func TestCalculate_CoversAnalysisSet(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())
	assert.Len(t, r.Fields, len(Attributes))
}

func TestCalculate_SocialUsesWebsiteDenominator(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())

	ig := gapFor(t, r, "instagram")
	assert.Equal(t, 2, ig.Relevant)
	assert.Equal(t, 1, ig.Missing)
	assert.InDelta(t, 50.0, ig.Percentage, 0.001)
	assert.Equal(t, "properties with a website", ig.Denominator)
}

func TestCalculate_ParkingUsesDestinationDenominator(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())

	parking := gapFor(t, r, "car_parking_spaces")
	assert.Equal(t, 2, parking.Relevant)
	assert.Equal(t, 1, parking.Missing)
	assert.Equal(t, "shopping centres and retail parks", parking.Denominator)
}

func TestCalculate_ZeroZeroIsMissing(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())

	lat := gapFor(t, r, "latitude")
	assert.Equal(t, 3, lat.Relevant)
	assert.Equal(t, 2, lat.Missing)
	assert.InDelta(t, 33.3, lat.Percentage, 0.001)
	assert.Equal(t, PriorityHigh, lat.Priority)
}

func TestCalculate_BlankStringIsMissing(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())

	city := gapFor(t, r, "city")
	assert.Equal(t, 1, city.Missing)
}

func TestCalculate_EmptyRelevantIsComplete(t *testing.T) {
	props := []model.Property{{ID: 1, Name: "Market Street", PropertyType: model.TypeHighStreet}}
	r := Calculate(props, DefaultThresholds())

	ig := gapFor(t, r, "instagram")
	assert.Equal(t, 0, ig.Relevant)
	assert.Equal(t, 100.0, ig.Percentage)
	assert.Equal(t, PriorityLow, ig.Priority)
}

func TestCalculate_EmptyPopulation(t *testing.T) {
	r := Calculate(nil, DefaultThresholds())
	for _, f := range r.Fields {
		assert.Equal(t, 100.0, f.Percentage, f.Attribute)
	}
	assert.Empty(t, r.CriticalGaps)
	assert.Equal(t, 100.0, r.Overview.AverageCompleteness)
}

func TestCalculate_PercentageAlwaysInRange(t *testing.T) {
	populations := [][]model.Property{
		nil,
		sampleProperties(),
		{{}},
		{{Website: model.Ptr("x")}, {PropertyType: model.TypeRetailPark}},
	}
	for _, props := range populations {
		r := Calculate(props, DefaultThresholds())
		for _, f := range r.Fields {
			assert.GreaterOrEqual(t, f.Percentage, 0.0, f.Attribute)
			assert.LessOrEqual(t, f.Percentage, 100.0, f.Attribute)
			if f.Relevant == 0 {
				assert.Equal(t, 100.0, f.Percentage, f.Attribute)
			}
		}
	}
}

func TestCalculate_SortedByPriorityThenPercentage(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())
	for i := 1; i < len(r.Fields); i++ {
		prev, cur := r.Fields[i-1], r.Fields[i]
		if priorityRank[prev.Priority] == priorityRank[cur.Priority] {
			assert.LessOrEqual(t, prev.Percentage, cur.Percentage)
		} else {
			assert.Less(t, priorityRank[prev.Priority], priorityRank[cur.Priority])
		}
	}
}

func TestCalculate_CriticalGapsAreHighPriority(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())
	require.NotEmpty(t, r.CriticalGaps)
	for _, g := range r.CriticalGaps {
		assert.Equal(t, PriorityHigh, g.Priority)
	}
}

func TestCalculate_Overview(t *testing.T) {
	r := Calculate(sampleProperties(), DefaultThresholds())
	assert.Equal(t, Overview{
		TotalProperties:     3,
		ShoppingCentres:     1,
		RetailParks:         1,
		WithWebsite:         2,
		WithCoordinates:     1,
		AverageCompleteness: r.Overview.AverageCompleteness,
	}, r.Overview)
	assert.Greater(t, r.Overview.AverageCompleteness, 0.0)
}

func TestPriority(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		attr string
		pct  float64
		want string
	}{
		{"website", 89.9, PriorityHigh},
		{"website", 90, PriorityLow},
		{"owner", 69.9, PriorityMedium},
		{"owner", 70, PriorityLow},
		{"median_age", 0, PriorityLow},
		{"unknown", 0, PriorityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Priority(tt.attr, tt.pct, th), "%s@%.1f", tt.attr, tt.pct)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(4, 4))
	assert.Equal(t, 75.0, Percentage(4, 1))
	assert.Equal(t, 66.7, Percentage(3, 1))
	assert.Equal(t, 0.0, Percentage(2, 5))
}

func withMissing(n, missing int, fill func(p *model.Property)) []model.Property {
	props := make([]model.Property, n)
	for i := range props {
		props[i] = model.Property{ID: int64(i + 1), Name: "Centre", PropertyType: model.TypeShoppingCentre}
		if i >= missing {
			fill(&props[i])
		}
	}
	return props
}

func TestAnalyze_PriorityUsesUnroundedShare(t *testing.T) {
	website, ok := Lookup("website")
	require.True(t, ok)
	fill := func(p *model.Property) { p.Website = model.Ptr("https://example.co.uk") }

	// 1799/1999 sits just under the 90% cut-off.
	g := Analyze(website, withMissing(1999, 200, fill), DefaultThresholds())
	assert.Less(t, g.Percentage, 90.01)
	assert.Equal(t, PriorityHigh, g.Priority)

	// 8997/10000 = 89.97% displays as 90.0 but is still under the cut-off.
	g = Analyze(website, withMissing(10000, 1003, fill), DefaultThresholds())
	assert.Equal(t, 90.0, g.Percentage)
	assert.Equal(t, PriorityHigh, g.Priority)
}

func TestAnalyze_MediumBoundaryUsesUnroundedShare(t *testing.T) {
	county, ok := Lookup("county")
	require.True(t, ok)

	// 6997/10000 = 69.97%.
	g := Analyze(county, withMissing(10000, 3003, func(p *model.Property) { p.County = model.Ptr("Greater Manchester") }), DefaultThresholds())
	assert.Equal(t, 70.0, g.Percentage)
	assert.Equal(t, PriorityMedium, g.Priority)
}
