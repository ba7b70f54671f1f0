package usecase

// categoryAffinity lists, per category, the categories that trade well with it.
// Every known category includes itself. Unknown categories have no partners.
var categoryAffinity = map[string][]string{
	"Electronics":         {"Electronics", "Musical Instruments", "Art & Crafts"},
	"Musical Instruments": {"Electronics", "Musical Instruments", "Art & Crafts"},
	"Kitchen":             {"Kitchen", "Home & Garden"},
	"Sports":              {"Sports", "Electronics"},
	"Home & Garden":       {"Home & Garden", "Kitchen", "Art & Crafts"},
	"Art & Crafts":        {"Art & Crafts", "Musical Instruments", "Electronics"},
}

const categoryBonus = 10

func compatibleCategories(category string) []string {
	return categoryAffinity[category]
}

func categoryAffinityBonus(userCategory, itemCategory string) float64 {
	for _, c := range compatibleCategories(userCategory) {
		if c == itemCategory {
			return categoryBonus
		}
	}
	return 0
}
