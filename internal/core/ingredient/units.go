package ingredient

import "strings"

// unitOfMeasure describes one canonical unit: its id, the short form used
// when normalizing, and the spellings that match it.
type unitOfMeasure struct {
	ID         string
	Short      string
	Plural     string
	Alternates []string
}

// unitTable lists the units recognized ahead of the description. Matching is
// case-insensitive and ignores a trailing period ("Tbsp." == "tbsp").
var unitTable = []unitOfMeasure{
	{ID: "bag", Short: "bag", Plural: "bags"},
	{ID: "box", Short: "box", Plural: "boxes"},
	{ID: "bunch", Short: "bunch", Plural: "bunches"},
	{ID: "can", Short: "can", Plural: "cans"},
	{ID: "carton", Short: "carton", Plural: "cartons"},
	{ID: "centimeter", Short: "cm", Plural: "centimeters", Alternates: []string{"centimeter", "centimetre", "centimetres"}},
	{ID: "clove", Short: "clove", Plural: "cloves"},
	{ID: "container", Short: "container", Plural: "containers"},
	{ID: "cup", Short: "cup", Plural: "cups", Alternates: []string{"c"}},
	{ID: "dash", Short: "dash", Plural: "dashes"},
	{ID: "drop", Short: "drop", Plural: "drops"},
	{ID: "ear", Short: "ear", Plural: "ears"},
	{ID: "fluid ounce", Short: "fl oz", Plural: "fluid ounces", Alternates: []string{"fluid ounce", "fl oz", "fl. oz.", "floz"}},
	{ID: "foot", Short: "ft", Plural: "feet", Alternates: []string{"foot"}},
	{ID: "gallon", Short: "gal", Plural: "gallons", Alternates: []string{"gallon"}},
	{ID: "gram", Short: "g", Plural: "grams", Alternates: []string{"gram", "gramme", "grammes"}},
	{ID: "head", Short: "head", Plural: "heads"},
	{ID: "inch", Short: "in", Plural: "inches", Alternates: []string{"inch"}},
	{ID: "kilogram", Short: "kg", Plural: "kilograms", Alternates: []string{"kilogram", "kilogramme", "kilogrammes"}},
	{ID: "large", Short: "large"},
	{ID: "liter", Short: "l", Plural: "liters", Alternates: []string{"liter", "litre", "litres"}},
	{ID: "medium", Short: "medium", Alternates: []string{"med"}},
	{ID: "milligram", Short: "mg", Plural: "milligrams", Alternates: []string{"milligram", "milligramme", "milligrammes"}},
	{ID: "milliliter", Short: "ml", Plural: "milliliters", Alternates: []string{"milliliter", "millilitre", "millilitres", "mL"}},
	{ID: "ounce", Short: "oz", Plural: "ounces", Alternates: []string{"ounce"}},
	{ID: "package", Short: "pkg", Plural: "packages", Alternates: []string{"package", "pkgs"}},
	{ID: "packet", Short: "packet", Plural: "packets"},
	{ID: "piece", Short: "piece", Plural: "pieces", Alternates: []string{"pcs", "pcs."}},
	{ID: "pinch", Short: "pinch", Plural: "pinches"},
	{ID: "pint", Short: "pt", Plural: "pints", Alternates: []string{"pint"}},
	{ID: "pound", Short: "lb", Plural: "pounds", Alternates: []string{"pound", "lbs"}},
	{ID: "quart", Short: "qt", Plural: "quarts", Alternates: []string{"quart", "qts"}},
	{ID: "slice", Short: "slice", Plural: "slices"},
	{ID: "small", Short: "small"},
	{ID: "sprig", Short: "sprig", Plural: "sprigs"},
	{ID: "stick", Short: "stick", Plural: "sticks"},
	{ID: "tablespoon", Short: "tbsp", Plural: "tablespoons", Alternates: []string{"tablespoon", "tbs", "T"}},
	{ID: "teaspoon", Short: "tsp", Plural: "teaspoons", Alternates: []string{"teaspoon", "t"}},
	{ID: "whole", Short: "whole"},
}

// unitIndex maps every accepted spelling to its unit. Keys are lowercase
// except the single-letter T/t pair, which is case-sensitive in recipes
// (T = tablespoon, t = teaspoon) and handled separately.
var unitIndex = buildUnitIndex()

func buildUnitIndex() map[string]*unitOfMeasure {
	idx := make(map[string]*unitOfMeasure)
	for i := range unitTable {
		u := &unitTable[i]
		idx[strings.ToLower(u.Short)] = u
		if u.Plural != "" {
			idx[strings.ToLower(u.Plural)] = u
		}
		for _, alt := range u.Alternates {
			if alt == "T" || alt == "t" {
				continue
			}
			idx[strings.ToLower(alt)] = u
		}
	}
	return idx
}

// lookupUnit resolves a candidate token to a unit, or nil. The token arrives
// as written; a trailing period is ignored.
func lookupUnit(token string) *unitOfMeasure {
	token = strings.TrimSuffix(token, ".")
	if token == "" {
		return nil
	}
	// Single-letter tablespoon/teaspoon shorthand is case-sensitive.
	if token == "T" {
		return unitIndex["tbsp"]
	}
	if token == "t" {
		return unitIndex["tsp"]
	}
	return unitIndex[strings.ToLower(token)]
}
