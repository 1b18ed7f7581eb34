package catalog

import "strings"

// OptionAll disables a filter dimension
const OptionAll = "All"

// Filter option lists, in display order
var (
	AreaOptions  = []string{OptionAll, "Europe", "Asia", "North America", "Eurasia"}
	SizeOptions  = []string{OptionAll, "Tiny", "Small", "Medium", "Large"}
	PlaceOptions = []string{OptionAll, "Forest", "Coast", "Field", "Garden", "Water"}
)

// Filter narrows the catalog. Empty fields behave like OptionAll.
type Filter struct {
	Area  string
	Size  string
	Place string
}

// IsZero reports whether the filter lets every bird through
func (f Filter) IsZero() bool {
	return isAll(f.Area) && isAll(f.Size) && isAll(f.Place)
}

// Matches reports whether b passes every active dimension. Area is matched
// against the region text as written; size and place against the derived
// lowercase descriptors.
func (f Filter) Matches(b *Bird) bool {
	if !isAll(f.Area) && !strings.Contains(b.Region, f.Area) {
		return false
	}
	if !isAll(f.Size) && !strings.Contains(Size(b), strings.ToLower(f.Size)) {
		return false
	}
	if !isAll(f.Place) && !strings.Contains(Places(b), strings.ToLower(f.Place)) {
		return false
	}
	return true
}

func isAll(option string) bool {
	return option == "" || option == OptionAll
}

// Size derives a size class from the descriptive text: tiny, small, large
// or medium.
func Size(b *Bird) string {
	appearance := strings.ToLower(b.Appearance)
	behavior := strings.ToLower(b.Behavior)
	name := strings.ToLower(b.Name)

	switch {
	case strings.Contains(appearance, "tiny"):
		return "tiny"
	case strings.Contains(appearance, "small") || strings.Contains(behavior, "small size"):
		return "small"
	case strings.Contains(appearance, "large") || strings.Contains(name, "great"):
		return "large"
	default:
		return "medium"
	}
}

// Places derives the space separated habitats mentioned for b
func Places(b *Bird) string {
	region := strings.ToLower(b.Region)
	behavior := strings.ToLower(b.Behavior)

	var places []string
	if strings.Contains(region, "forest") || strings.Contains(behavior, "forest") {
		places = append(places, "forest")
	}
	if strings.Contains(region, "coast") || strings.Contains(behavior, "coast") {
		places = append(places, "coast")
	}
	if strings.Contains(region, "field") || strings.Contains(region, "meadow") {
		places = append(places, "field")
	}
	if strings.Contains(region, "garden") {
		places = append(places, "garden")
	}
	if strings.Contains(region, "water") || strings.Contains(behavior, "water") {
		places = append(places, "water")
	}
	return strings.Join(places, " ")
}
