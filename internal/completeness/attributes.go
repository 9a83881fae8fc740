// Package completeness reports how complete the property catalog is, per
// attribute, against the population each attribute actually applies to.
package completeness

import "github.com/sells-group/portfolio-cli/internal/model"

// Attribute bands.
const (
	BandCore        = "core"
	BandGeographic  = "geographic"
	BandOperational = "operational"
	BandCommercial  = "commercial"
	BandDigital     = "digital"
	BandDemographic = "demographic"
)

// Enrichment methods.
const (
	MethodAPI        = "api"
	MethodScraping   = "scraping"
	MethodManual     = "manual"
	MethodCalculated = "calculated"
)

// Attribute describes one analysed property attribute.
type Attribute struct {
	ID      string
	Label   string
	Band    string
	Method  string
	Missing func(p *model.Property) bool
}

func missingStr(get func(p *model.Property) *string) func(p *model.Property) bool {
	return func(p *model.Property) bool { return model.BlankString(get(p)) }
}

func missingNum[T int | float64](get func(p *model.Property) *T) func(p *model.Property) bool {
	return func(p *model.Property) bool { return get(p) == nil }
}

// missingGeo treats the 0,0 sentinel as missing for either coordinate.
func missingGeo(get func(p *model.Property) *float64) func(p *model.Property) bool {
	return func(p *model.Property) bool {
		v := get(p)
		return v == nil || (*v == 0 && zeroOrNil(p.Latitude) && zeroOrNil(p.Longitude))
	}
}

func zeroOrNil(v *float64) bool {
	return v == nil || *v == 0
}

// Attributes is the analysis set, in band order.
var Attributes = []Attribute{
	{"name", "Name", BandCore, MethodManual, func(p *model.Property) bool { return model.BlankString(&p.Name) }},
	{"property_type", "Property type", BandCore, MethodManual, func(p *model.Property) bool { return model.BlankString(&p.PropertyType) }},
	{"address", "Address", BandCore, MethodAPI, missingStr(func(p *model.Property) *string { return p.Address })},
	{"city", "City", BandCore, MethodAPI, missingStr(func(p *model.Property) *string { return p.City })},
	{"county", "County", BandCore, MethodAPI, missingStr(func(p *model.Property) *string { return p.County })},
	{"postcode", "Postcode", BandCore, MethodAPI, missingStr(func(p *model.Property) *string { return p.Postcode })},

	{"latitude", "Latitude", BandGeographic, MethodAPI, missingGeo(func(p *model.Property) *float64 { return p.Latitude })},
	{"longitude", "Longitude", BandGeographic, MethodAPI, missingGeo(func(p *model.Property) *float64 { return p.Longitude })},

	{"number_of_stores", "Number of stores", BandOperational, MethodScraping, missingNum(func(p *model.Property) *int { return p.NumberOfStores })},
	{"total_floor_area", "Total floor area", BandOperational, MethodScraping, missingNum(func(p *model.Property) *float64 { return p.TotalFloorArea })},
	{"car_parking_spaces", "Car parking spaces", BandOperational, MethodScraping, missingNum(func(p *model.Property) *int { return p.CarParkingSpaces })},
	{"opening_year", "Opening year", BandOperational, MethodScraping, missingNum(func(p *model.Property) *int { return p.OpeningYear })},
	{"annual_footfall", "Annual footfall", BandOperational, MethodManual, missingNum(func(p *model.Property) *float64 { return p.AnnualFootfall })},
	{"owner", "Owner", BandOperational, MethodScraping, missingStr(func(p *model.Property) *string { return p.Owner })},
	{"anchor_tenants", "Anchor tenants", BandOperational, MethodManual, missingNum(func(p *model.Property) *int { return p.AnchorTenants })},

	{"vacancy_rate", "Vacancy rate", BandCommercial, MethodManual, missingNum(func(p *model.Property) *float64 { return p.VacancyRate })},
	{"health_index", "Health index", BandCommercial, MethodCalculated, missingNum(func(p *model.Property) *float64 { return p.HealthIndex })},
	{"dominant_category", "Dominant category", BandCommercial, MethodCalculated, missingStr(func(p *model.Property) *string { return p.DominantCategory })},

	{"website", "Website", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.Website })},
	{"phone", "Phone", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.Phone })},
	{"instagram", "Instagram", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.Instagram })},
	{"facebook", "Facebook", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.Facebook })},
	{"twitter", "Twitter / X", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.Twitter })},
	{"tiktok", "TikTok", BandDigital, MethodScraping, missingStr(func(p *model.Property) *string { return p.TikTok })},
	{"google_rating", "Google rating", BandDigital, MethodAPI, missingNum(func(p *model.Property) *float64 { return p.GoogleRating })},
	{"google_review_count", "Google review count", BandDigital, MethodAPI, missingNum(func(p *model.Property) *int { return p.GoogleReviewCount })},

	{"population", "Catchment population", BandDemographic, MethodAPI, missingNum(func(p *model.Property) *int { return p.Population })},
	{"median_income", "Median income", BandDemographic, MethodAPI, missingNum(func(p *model.Property) *float64 { return p.MedianIncome })},
	{"median_age", "Median age", BandDemographic, MethodAPI, missingNum(func(p *model.Property) *float64 { return p.MedianAge })},
}

var attributeByID = func() map[string]Attribute {
	m := make(map[string]Attribute, len(Attributes))
	for _, a := range Attributes {
		m[a.ID] = a
	}
	return m
}()

// Lookup returns the attribute with the given ID.
func Lookup(id string) (Attribute, bool) {
	a, ok := attributeByID[id]
	return a, ok
}

// highImportance and mediumImportance drive report priorities.
var (
	highImportance = map[string]bool{
		"name": true, "property_type": true, "address": true, "city": true, "postcode": true,
		"latitude": true, "longitude": true, "website": true, "number_of_stores": true,
	}
	mediumImportance = map[string]bool{
		"county": true, "total_floor_area": true, "car_parking_spaces": true, "owner": true,
		"annual_footfall": true, "opening_year": true, "anchor_tenants": true, "phone": true,
		"instagram": true, "facebook": true, "google_rating": true, "vacancy_rate": true,
		"population": true, "median_income": true,
	}
)
