package usecase

import (
	"context"
	"fmt"
	"math"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"
)

const addOnBaseline = 100

var addOnCatalog = []struct {
	name        string
	share       float64
	description string
}{
	{"Cash", 0.1, "Small cash amount to balance values"},
	{"Gift Card", 0.15, "Popular retailer gift card"},
	{"Small Electronics", 0.2, "Phone accessories, cables, etc."},
}

// AddOns suggests extras that can close a value gap on an item worth value.
func (u *AIUsecase) AddOns(value float64) []model.AddOnSuggestion {
	base := model.NonNegative(value)
	if base == 0 {
		base = addOnBaseline
	}
	out := make([]model.AddOnSuggestion, 0, len(addOnCatalog))
	for _, a := range addOnCatalog {
		out = append(out, model.AddOnSuggestion{
			Name:        a.name,
			Value:       math.Round(base * a.share),
			Description: a.description,
		})
	}
	return out
}

// DescribeItem writes a short listing blurb for a title in category.
func (u *AIUsecase) DescribeItem(ctx context.Context, s llm.Settings, title, category string) string {
	text, ok := u.complete(ctx, s, llm.ChatRequest{
		Model:       s.ChatModel,
		System:      "You are an expert at writing compelling, accurate descriptions for items being traded on a bartering platform. Write descriptions that highlight key features, condition, and appeal to potential traders.",
		User:        fmt.Sprintf("Write a brief, appealing description for a %s in the %s category. Keep it under 50 words and focus on key features that would interest someone looking to trade.", title, category),
		MaxTokens:   80,
		Temperature: 0.7,
	}, "describe item")
	if !ok {
		return defaultDescription(title, category)
	}
	return text
}

var categoryBlurbs = map[string]string{
	"Electronics":         "High-quality %s in excellent working condition. Perfect for tech enthusiasts looking for reliable equipment.",
	"Musical Instruments": "Beautiful %s with rich sound quality. Ideal for musicians of all skill levels.",
	"Kitchen":             "Premium %s that makes cooking a joy. Great for food lovers and home chefs.",
	"Sports":              "Professional-grade %s perfect for active individuals. Well-maintained and ready for action.",
	"Home & Garden":       "Stylish %s that enhances any living space. Functional and aesthetically pleasing.",
	"Art & Crafts":        "Creative %s perfect for artistic projects. High-quality materials for best results.",
}

func defaultDescription(title, category string) string {
	if tmpl, ok := categoryBlurbs[category]; ok {
		return fmt.Sprintf(tmpl, title)
	}
	return fmt.Sprintf("Quality %s in great condition, perfect for trade.", title)
}
