package tenantmix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_WorkedExample(t *testing.T) {
	target, competitors := exampleSets()
	a := Analyze(target, competitors, nil, DefaultPolicy(), true)

	require.NotNil(t, a.Comparison)
	require.Len(t, a.Priorities, 1)
	require.Len(t, a.MissingBrands, 1)
	assert.Equal(t, []string{
		"Top priority gap: Health (high priority, score 14.8). Consider adding Health, present in 67% of competitors.",
		"Target Centre is missing 1 category found across competitors.",
		"Estimated opportunity: approximately 1 additional store across 1 category.",
		"Top missing brands: Boots.",
	}, a.Insights)
}

func TestAnalyze_WithoutBrands(t *testing.T) {
	target, competitors := exampleSets()
	a := Analyze(target, competitors, nil, DefaultPolicy(), false)

	assert.NotNil(t, a.MissingBrands)
	assert.Empty(t, a.MissingBrands)
	for _, s := range a.Insights {
		assert.NotContains(t, s, "missing brands")
	}
}

func TestInsights_LargestCategoryDiffers(t *testing.T) {
	target := set(1, "Riverside", occ(1, "a", "Food"), occ(1, "b", "Food"), occ(1, "c", "Clothing"))
	competitors := []Set{
		set(2, "C", occ(2, "a", "Clothing"), occ(2, "b", "Clothing"), occ(2, "c", "Food")),
	}
	cmp := Compare(target, competitors, nil, DefaultPolicy())
	out := Insights("Riverside", cmp, nil, nil)

	require.Len(t, out, 1)
	assert.Equal(t, "Riverside's largest category is Food (66.7%), while competitors lead with Clothing (66.7%).", out[0])
}

func TestInsights_CapsBrandList(t *testing.T) {
	brands := []MissingBrand{
		{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"}, {Name: "F"},
	}
	out := Insights("T", &Comparison{}, nil, brands)
	require.Len(t, out, 1)
	assert.Equal(t, "Top missing brands: A, B, C, D, E.", out[0])
}

func TestInsights_Empty(t *testing.T) {
	assert.Empty(t, Insights("T", &Comparison{}, nil, nil))
}

func TestOpportunity(t *testing.T) {
	stores, cats := opportunity([]PriorityItem{
		{SuggestedStores: 2},
		{SuggestedStores: 0},
		{SuggestedStores: 3},
	})
	assert.Equal(t, 5, stores)
	assert.Equal(t, 2, cats)
}
