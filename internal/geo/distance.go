package geo

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/portfolio-cli/internal/model"
)

const earthRadiusKM = 6371.0

// PointOf returns the property's location, or nil when it has no usable
// coordinates.
func PointOf(p model.Property) *geom.Point {
	return p.Location()
}

// DistanceKM returns the great-circle distance between two lon/lat points.
// A nil point yields +Inf.
func DistanceKM(a, b *geom.Point) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	return haversineKM(a.Y(), a.X(), b.Y(), b.X())
}

func haversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
