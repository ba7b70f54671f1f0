package usecase

import (
	"math"
	"strings"

	"ecobarter-backend/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type keywordGroup struct {
	category string
	keywords []string
}

// filenameCategories is scanned in order; the first keyword found in the
// filename decides the category.
var filenameCategories = []keywordGroup{
	{"Electronics", []string{"phone", "laptop", "computer", "tablet", "camera", "headphones", "speaker", "tv", "monitor", "iphone", "android", "samsung", "apple", "sony", "canon", "nikon"}},
	{"Musical Instruments", []string{"guitar", "piano", "violin", "drum", "bass", "trumpet", "saxophone", "flute", "keyboard", "acoustic", "electric"}},
	{"Kitchen", []string{"coffee", "blender", "toaster", "microwave", "oven", "pot", "pan", "knife", "mixer", "kettle", "cuisinart", "kitchenaid"}},
	{"Sports", []string{"bike", "bicycle", "ball", "gym", "fitness", "tennis", "soccer", "basketball", "football", "golf", "running", "shoes", "nike", "adidas"}},
	{"Home & Garden", []string{"chair", "table", "lamp", "sofa", "bed", "desk", "plant", "vase", "mirror", "shelf", "ikea", "furniture"}},
	{"Art & Crafts", []string{"paint", "brush", "canvas", "easel", "pencil", "marker", "craft", "art", "drawing", "sketch"}},
	{"Books", []string{"book", "novel", "textbook", "magazine", "journal", "diary", "guide", "manual"}},
	{"Clothing", []string{"shirt", "pants", "dress", "jacket", "shoes", "hat", "bag", "purse", "belt", "watch"}},
	{"Tools", []string{"hammer", "drill", "saw", "wrench", "screwdriver", "toolbox", "dewalt", "craftsman"}},
	{"Toys & Games", []string{"toy", "game", "puzzle", "doll", "action", "board", "card", "lego", "nintendo", "playstation"}},
}

// filenameValues holds base estimates per category and keyword. Anything
// missing is worth defaultEstimate.
var filenameValues = map[string]map[string]float64{
	"Electronics":         {"phone": 300, "laptop": 500, "computer": 400, "tablet": 200, "camera": 350, "headphones": 150, "speaker": 100, "tv": 300, "monitor": 200},
	"Musical Instruments": {"guitar": 300, "piano": 800, "violin": 400, "drum": 250, "bass": 350, "trumpet": 200, "keyboard": 300},
	"Kitchen":             {"coffee": 80, "blender": 60, "toaster": 40, "microwave": 120, "oven": 200, "mixer": 150, "kettle": 50},
	"Sports":              {"bike": 400, "bicycle": 400, "ball": 25, "gym": 200, "fitness": 150, "tennis": 100, "shoes": 80},
	"Home & Garden":       {"chair": 150, "table": 200, "lamp": 80, "sofa": 400, "bed": 300, "desk": 180, "plant": 30},
	"Art & Crafts":        {"paint": 50, "brush": 20, "canvas": 40, "easel": 100, "pencil": 15, "craft": 60},
	"Books":               {"book": 15, "novel": 12, "textbook": 80, "magazine": 5, "journal": 25, "guide": 20},
	"Clothing":            {"shirt": 25, "pants": 35, "dress": 45, "jacket": 60, "shoes": 70, "hat": 20, "bag": 50, "watch": 150},
	"Tools":               {"hammer": 30, "drill": 80, "saw": 60, "wrench": 20, "screwdriver": 15, "toolbox": 100},
	"Toys & Games":        {"toy": 25, "game": 40, "puzzle": 20, "doll": 30, "board": 35, "lego": 50},
}

const defaultEstimate = 100

var filenameBrands = []string{"apple", "samsung", "sony", "canon", "nikon", "nike", "adidas", "ikea", "kitchenaid", "dewalt", "nintendo"}

// filenameConditions maps condition words to the condition they imply.
var filenameConditions = []struct{ keyword, condition string }{
	{"new", model.ConditionExcellent},
	{"mint", model.ConditionExcellent},
	{"excellent", model.ConditionExcellent},
	{"good", model.ConditionGood},
	{"fair", model.ConditionFair},
	{"poor", model.ConditionPoor},
	{"used", model.ConditionGood},
	{"vintage", "vintage"},
	{"refurbished", "refurbished"},
}

var conditionMultiplier = map[string]float64{
	model.ConditionExcellent: 1.2,
	model.ConditionFair:      0.8,
	model.ConditionPoor:      0.6,
}

type fallbackGuess struct {
	title    string
	category string
	value    float64
}

var fallbackCatalog = []fallbackGuess{
	{"Smartphone", "Electronics", 250},
	{"Acoustic Guitar", "Musical Instruments", 300},
	{"Coffee Maker", "Kitchen", 150},
	{"Novel Book", "Books", 15},
	{"Running Shoes", "Sports", 80},
	{"Desk Lamp", "Home & Garden", 45},
	{"Art Supplies", "Art & Crafts", 60},
	{"Board Game", "Toys & Games", 30},
}

const (
	filenameConfidence = 65
	randomConfidence   = 50

	filenameNote = "Analysis based on filename. Please verify and update details as needed."
	randomNote   = "Random suggestion. Please update with actual item details."
)

var titleCaser = cases.Title(language.English)

// analyzeFilename guesses item attributes from the declared file name.
func (u *AIUsecase) analyzeFilename(name string) model.ImageAnalysisResult {
	lower := strings.ToLower(name)

	category, keyword, found := matchCategory(lower)
	if !found {
		return u.randomGuess()
	}

	value, ok := filenameValues[category][keyword]
	if !ok {
		value = defaultEstimate
	}

	title := titleCaser.String(keyword)
	for _, brand := range filenameBrands {
		if strings.Contains(lower, brand) {
			title = titleCaser.String(brand) + " " + title
			break
		}
	}

	condition := model.ConditionGood
	for _, c := range filenameConditions {
		if strings.Contains(lower, c.keyword) {
			if m, ok := conditionMultiplier[c.condition]; ok {
				value *= m
			}
			if model.ValidCondition(c.condition) {
				condition = c.condition
			}
			break
		}
	}

	return model.ImageAnalysisResult{
		Title:       title,
		Description: title + " uploaded via image. Please add more details about condition, features, and specifications.",
		Category:    category,
		Condition:   condition,
		Value:       math.Round(value),
		Confidence:  filenameConfidence,
		Note:        filenameNote,
	}
}

func matchCategory(lower string) (category, keyword string, ok bool) {
	for _, group := range filenameCategories {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category, kw, true
			}
		}
	}
	return "", "", false
}

func (u *AIUsecase) randomGuess() model.ImageAnalysisResult {
	g := fallbackCatalog[u.intn(len(fallbackCatalog))]
	return model.ImageAnalysisResult{
		Title:       g.title,
		Description: "Please add a detailed description for this item including brand, model, and condition.",
		Category:    g.category,
		Condition:   model.ConditionGood,
		Value:       g.value,
		Confidence:  randomConfidence,
		Note:        randomNote,
	}
}
