package usecase

import (
	"context"
	"fmt"
	"math"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"
)

// Advise gives short advice on trading userItem for targetItem.
func (u *AIUsecase) Advise(ctx context.Context, s llm.Settings, userItem, targetItem model.Item) string {
	advice, ok := u.complete(ctx, s, llm.ChatRequest{
		Model:  s.ChatModel,
		System: "You are a trading advisor for a bartering platform. Provide brief, practical advice for successful trades.",
		User: fmt.Sprintf("Give trading advice for someone wanting to trade their %s (value: $%s) for a %s (value: $%s). Keep it under 60 words.",
			userItem.Title, money(userItem.Value), targetItem.Title, money(targetItem.Value)),
		MaxTokens:   100,
		Temperature: 0.7,
	}, "trade advice")
	if !ok {
		return defaultTradeAdvice(userItem, targetItem)
	}
	return advice
}

func defaultTradeAdvice(userItem, targetItem model.Item) string {
	userValue := model.NonNegative(userItem.Value)
	targetValue := model.NonNegative(targetItem.Value)
	diff := math.Abs(userValue - targetValue)

	higher := targetItem
	if userValue > targetValue {
		higher = userItem
	}

	switch {
	case diff < 50:
		return "Values are well-matched! This should be a straightforward trade. Focus on condition and timing."
	case diff < 150:
		return fmt.Sprintf("Consider adding $%s or a small item to balance the trade values fairly.", money(diff))
	default:
		return fmt.Sprintf("Significant value difference. The %s owner might need to add cash or additional items.", higher.Title)
	}
}
