// Package aqi maps air-quality indices to categories and keeps the bounded
// reading history of a view.
package aqi

// Category labels.
const (
	LabelGood                        = "Good"
	LabelModerate                    = "Moderate"
	LabelUnhealthyForSensitiveGroups = "Unhealthy for Sensitive Groups"
	LabelUnhealthy                   = "Unhealthy"
	LabelVeryUnhealthy               = "Very Unhealthy"
	LabelHazardous                   = "Hazardous"
)

// Display colors, one per category.
const (
	ColorGood                        = "#10B981"
	ColorModerate                    = "#F59E0B"
	ColorUnhealthyForSensitiveGroups = "#EF4444"
	ColorUnhealthy                   = "#DC2626"
	ColorVeryUnhealthy               = "#7C2D12"
	ColorHazardous                   = "#450A0A"
)

// Category is the label/color pair derived from an index.
type Category struct {
	Label string `json:"category"`
	Color string `json:"color"`
}

// band is an inclusive upper bound; bands are ascending and contiguous.
type band struct {
	upper int
	Category
}

var bands = []band{
	{upper: 50, Category: Category{Label: LabelGood, Color: ColorGood}},
	{upper: 100, Category: Category{Label: LabelModerate, Color: ColorModerate}},
	{upper: 150, Category: Category{Label: LabelUnhealthyForSensitiveGroups, Color: ColorUnhealthyForSensitiveGroups}},
	{upper: 200, Category: Category{Label: LabelUnhealthy, Color: ColorUnhealthy}},
	{upper: 300, Category: Category{Label: LabelVeryUnhealthy, Color: ColorVeryUnhealthy}},
}

// hazardous catches everything above the last band.
var hazardous = Category{Label: LabelHazardous, Color: ColorHazardous}

// Classify returns the category for index. Every integer maps to exactly one category.
func Classify(index int) Category {
	for _, b := range bands {
		if index <= b.upper {
			return b.Category
		}
	}
	return hazardous
}

// Band describes one row of the classification table. Min and Max are
// inclusive; nil means the range is open on that side.
type Band struct {
	Category
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// Categories returns the classification table in ascending order.
func Categories() []Band {
	out := make([]Band, 0, len(bands)+1)
	var lower *int
	for _, b := range bands {
		upper := b.upper
		out = append(out, Band{Category: b.Category, Min: lower, Max: &upper})
		next := upper + 1
		lower = &next
	}
	return append(out, Band{Category: hazardous, Min: lower})
}
