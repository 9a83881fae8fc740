package tenantmix

import "github.com/sells-group/portfolio-cli/internal/model"

func occ(propertyID int64, name, category string) model.Occupant {
	return model.Occupant{PropertyID: propertyID, Name: name, Category: category}
}

func anchor(propertyID int64, name, category string) model.Occupant {
	o := occ(propertyID, name, category)
	o.IsAnchor = true
	return o
}

func set(id int64, name string, occupants ...model.Occupant) Set {
	return Set{Property: model.Property{ID: id, Name: name}, Occupants: occupants}
}

// exampleSets is the worked example: target carries Zara and Greggs; three
// competitors pool to Zara×3, Greggs×1, Boots×2.
func exampleSets() (Set, []Set) {
	target := set(1, "Target Centre",
		occ(1, "Zara", "Clothing"),
		occ(1, "Greggs", "Food"),
	)
	competitors := []Set{
		set(2, "North Mall", occ(2, "Zara", "Clothing"), occ(2, "Greggs", "Food"), occ(2, "Boots", "Health")),
		set(3, "East Park", occ(3, "Zara", "Clothing"), occ(3, "Boots", "Health")),
		set(4, "West Plaza", occ(4, "Zara", "Clothing")),
	}
	return target, competitors
}

func shareOf(shares []CategoryShare, category string) (CategoryShare, bool) {
	for _, s := range shares {
		if s.Category == category {
			return s, true
		}
	}
	return CategoryShare{}, false
}
