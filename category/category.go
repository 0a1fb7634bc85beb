// Package category maps free-text labels to the closed set of grievance
// categories. The mapping is advisory only: callers apply it before intake,
// the server never rewrites a stored category with it.
package category

import "strings"

// Category is one of the closed set of grievance categories
type Category string

const (
	RoadsAndStreetlights Category = "Roads & Streetlights"
	WaterSupply          Category = "Water Supply"
	GarbageOrSanitation  Category = "Garbage / Sanitation"
	Electricity          Category = "Electricity"
	HealthOrSafety       Category = "Health / Safety"
	Others               Category = "Others"
)

// All lists every category in display order
var All = []Category{
	RoadsAndStreetlights,
	WaterSupply,
	GarbageOrSanitation,
	Electricity,
	HealthOrSafety,
	Others,
}

type keywordRule struct {
	keywords []string
	category Category
}

// Rules are ordered; the first matching rule wins.
var rules = []keywordRule{
	{[]string{"road", "pothole", "street"}, RoadsAndStreetlights},
	{[]string{"water", "pipe"}, WaterSupply},
	{[]string{"garbage", "trash", "waste"}, GarbageOrSanitation},
	{[]string{"electricity", "pole", "wire"}, Electricity},
	{[]string{"health", "stray"}, HealthOrSafety},
}

// MapLabel maps a free-text label to a grievance category by keyword
// matching. Unknown labels map to Others.
func MapLabel(label string) Category {
	normalized := strings.ToLower(label)
	for _, rule := range rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.category
			}
		}
	}
	return Others
}
