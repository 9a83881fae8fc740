package geo

import (
	"sort"

	"github.com/sells-group/portfolio-cli/internal/model"
)

// Neighbour is a candidate competitor with its distance from the target.
type Neighbour struct {
	Property   model.Property `json:"property"`
	DistanceKM float64        `json:"distance_km"`
	Band       string         `json:"band"`
}

// Nearest returns the candidates within radiusKM of target, closest first.
// The target itself and candidates without coordinates are skipped. A
// radius <= 0 disables the radius filter; limit <= 0 returns every match.
func Nearest(target model.Property, candidates []model.Property, radiusKM float64, limit int) []Neighbour {
	origin := PointOf(target)
	if origin == nil {
		return []Neighbour{}
	}

	out := make([]Neighbour, 0)
	for _, c := range candidates {
		if c.ID == target.ID {
			continue
		}
		pt := PointOf(c)
		if pt == nil {
			continue
		}
		d := DistanceKM(origin, pt)
		if radiusKM > 0 && d > radiusKM {
			continue
		}
		out = append(out, Neighbour{Property: c, DistanceKM: d, Band: Classify(d)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKM != out[j].DistanceKM {
			return out[i].DistanceKM < out[j].DistanceKM
		}
		return out[i].Property.ID < out[j].Property.ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
