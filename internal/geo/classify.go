// Package geo measures distances between properties and picks nearby
// competitors for a target.
package geo

// Catchment bands, nearest first.
const (
	BandLocal    = "local"
	BandDistrict = "district"
	BandRegional = "regional"
	BandRemote   = "remote"
)

// Band thresholds (kilometers).
const (
	localThreshold    = 8.0
	districtThreshold = 20.0
	regionalThreshold = 40.0
)

// Classify returns the catchment band for a distance from the target.
// Rules:
//   - local: <= 8km, shares the target's primary catchment
//   - district: <= 20km
//   - regional: <= 40km
//   - remote: anything further
func Classify(distanceKM float64) string {
	switch {
	case distanceKM <= localThreshold:
		return BandLocal
	case distanceKM <= districtThreshold:
		return BandDistrict
	case distanceKM <= regionalThreshold:
		return BandRegional
	default:
		return BandRemote
	}
}
