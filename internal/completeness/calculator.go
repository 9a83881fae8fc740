package completeness

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// Priorities, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{PriorityHigh: 0, PriorityMedium: 1, PriorityLow: 2}

// Thresholds holds the percentage cut-offs below which important attributes
// are flagged.
type Thresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
}

// DefaultThresholds returns the standard 90/70 cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 90, Medium: 70}
}

// FieldGap is one report row.
type FieldGap struct {
	Attribute   string  `json:"attribute"`
	Label       string  `json:"label"`
	Band        string  `json:"band"`
	Missing     int     `json:"missing"`
	Relevant    int     `json:"relevant"`
	Percentage  float64 `json:"percentage"`
	Priority    string  `json:"priority"`
	Method      string  `json:"method"`
	Denominator string  `json:"denominator"`
}

// Overview summarises the analysed population.
type Overview struct {
	TotalProperties     int     `json:"total_properties"`
	ShoppingCentres     int     `json:"shopping_centres"`
	RetailParks         int     `json:"retail_parks"`
	WithWebsite         int     `json:"with_website"`
	WithCoordinates     int     `json:"with_coordinates"`
	AverageCompleteness float64 `json:"average_completeness"`
}

// Report is the full completeness report.
type Report struct {
	Fields       []FieldGap `json:"fields"`
	Overview     Overview   `json:"overview"`
	CriticalGaps []FieldGap `json:"critical_gaps"`
	GeneratedAt  time.Time  `json:"generated_at"`
}

// Calculate builds the report for every attribute in the analysis set. It is
// a pure function of the supplied population.
func Calculate(properties []model.Property, th Thresholds) *Report {
	fields := make([]FieldGap, 0, len(Attributes))
	var sum float64
	for _, attr := range Attributes {
		gap := Analyze(attr, properties, th)
		sum += gap.Percentage
		fields = append(fields, gap)
	}

	SortGaps(fields)

	r := &Report{
		Fields:   fields,
		Overview: overview(properties),
	}
	if len(fields) > 0 {
		r.Overview.AverageCompleteness = round1(sum / float64(len(fields)))
	}
	for _, f := range fields {
		if f.Priority == PriorityHigh {
			r.CriticalGaps = append(r.CriticalGaps, f)
		}
	}
	return r
}

// Analyze computes a single attribute's gap over its relevant subset.
func Analyze(attr Attribute, properties []model.Property, th Thresholds) FieldGap {
	relevant := RelevantSubset(attr.ID, properties)

	missing := 0
	for i := range relevant {
		if attr.Missing(&relevant[i]) {
			missing++
		}
	}

	exact := completeShare(len(relevant), missing)
	return FieldGap{
		Attribute:   attr.ID,
		Label:       attr.Label,
		Band:        attr.Band,
		Missing:     missing,
		Relevant:    len(relevant),
		Percentage:  round1(exact),
		Priority:    Priority(attr.ID, exact, th),
		Method:      attr.Method,
		Denominator: DenominatorLabel(attr.ID),
	}
}

// Percentage returns the complete share of a relevant population, rounded to
// one decimal. An empty population is vacuously complete.
func Percentage(relevant, missing int) float64 {
	return round1(completeShare(relevant, missing))
}

// completeShare is the unrounded complete percentage. Priorities compare
// against it so a value just under a threshold is never rounded up past it.
func completeShare(relevant, missing int) float64 {
	if relevant <= 0 {
		return 100
	}
	if missing < 0 {
		missing = 0
	}
	if missing > relevant {
		missing = relevant
	}
	return float64(relevant-missing) / float64(relevant) * 100
}

// Priority assigns the report priority for an attribute at a given percentage.
func Priority(attribute string, pct float64, th Thresholds) string {
	switch {
	case highImportance[attribute] && pct < th.High:
		return PriorityHigh
	case mediumImportance[attribute] && pct < th.Medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// SortGaps orders rows high→low priority, then by ascending percentage.
func SortGaps(gaps []FieldGap) {
	sort.SliceStable(gaps, func(i, j int) bool {
		ri, rj := priorityRank[gaps[i].Priority], priorityRank[gaps[j].Priority]
		if ri != rj {
			return ri < rj
		}
		if gaps[i].Percentage != gaps[j].Percentage {
			return gaps[i].Percentage < gaps[j].Percentage
		}
		return gaps[i].Attribute < gaps[j].Attribute
	})
}

func overview(properties []model.Property) Overview {
	o := Overview{TotalProperties: len(properties)}
	for i := range properties {
		p := &properties[i]
		switch p.PropertyType {
		case model.TypeShoppingCentre:
			o.ShoppingCentres++
		case model.TypeRetailPark:
			o.RetailParks++
		}
		if p.HasWebsite() {
			o.WithWebsite++
		}
		if p.HasCoordinates() {
			o.WithCoordinates++
		}
	}
	return o
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
