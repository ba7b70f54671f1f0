package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"
)

// Respond answers a negotiation message about item. The reply comes from the
// remote model when possible and from the keyword rules otherwise.
func (u *AIUsecase) Respond(ctx context.Context, s llm.Settings, message string, item model.Item) string {
	reply, ok := u.complete(ctx, s, llm.ChatRequest{
		Model:            s.ChatModel,
		System:           negotiationSystemPrompt(item),
		User:             message,
		MaxTokens:        150,
		Temperature:      0.7,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
	}, "negotiate")
	if !ok {
		return fallbackResponse(message, item)
	}
	return reply
}

func negotiationSystemPrompt(item model.Item) string {
	return fmt.Sprintf(`You are a friendly and helpful bartering assistant for EcoBarter AI, a sustainable trading platform.

Current item context: %s (Value: $%s, Category: %s, Condition: %s)

Your role:
- Help users negotiate fair and mutually beneficial trades
- Be encouraging and positive about sustainable bartering
- Suggest reasonable counter-offers based on item values
- Keep responses conversational and under 100 words
- Focus on finding win-win solutions
- Consider environmental benefits of reusing items
- Be knowledgeable about item values and market trends

Guidelines:
- Always be friendly and professional
- Ask clarifying questions when needed
- Suggest creative trade combinations
- Mention sustainability benefits when appropriate
- Help bridge value gaps with add-ons or cash adjustments`,
		item.Title, money(item.Value), item.Category, item.Condition)
}

type replyRule struct {
	name     string
	keywords []string
	reply    func(item model.Item) string
}

// replyRules are checked in order against the lowercased message; the first
// rule with a matching keyword wins. Acceptance is checked ahead of the
// negotiate words so "I accept the deal" reads as agreement.
var replyRules = []replyRule{
	{
		name:     "value",
		keywords: []string{"value", "price", "worth", "cost"},
		reply: func(item model.Item) string {
			return fmt.Sprintf("My %s is valued at $%s. What's the estimated value of your item? I'm open to discussing trades with similar values or adding something to balance the difference.",
				item.Title, money(item.Value))
		},
	},
	{
		name:     "trade",
		keywords: []string{"trade", "swap", "exchange"},
		reply: func(item model.Item) string {
			return fmt.Sprintf("That sounds like a great trade opportunity! I'd love to learn more about what you're offering for my %s. What items do you have available for trade?", item.Title)
		},
	},
	{
		name:     "condition",
		keywords: []string{"condition", "quality", "state"},
		reply: func(item model.Item) string {
			return fmt.Sprintf("The %s is in %s condition. I can provide more detailed photos if you'd like to see specific aspects. What's the condition of your item?", item.Title, item.Condition)
		},
	},
	{
		name:     "accept",
		keywords: []string{"accept", "agree", "yes"},
		reply: func(model.Item) string {
			return "Fantastic! I'm excited about this trade. Let's finalize the details and arrange a safe meeting location for the exchange. This is going to be great for both of us!"
		},
	},
	{
		name:     "negotiate",
		keywords: []string{"negotiate", "offer", "deal"},
		reply: func(model.Item) string {
			return "I'm definitely open to negotiating! Let's work together to find a fair trade that benefits both of us. What are you thinking in terms of the trade structure?"
		},
	},
	{
		name:     "cash",
		keywords: []string{"cash", "money", "add"},
		reply: func(item model.Item) string {
			return fmt.Sprintf("Adding some cash to balance the trade values is totally reasonable! Based on the values, maybe around $%s could work? What do you think?",
				money(suggestedCash(item.Value)))
		},
	},
	{
		name:     "decline",
		keywords: []string{"decline", "not interested", "no"},
		reply: func(model.Item) string {
			return "No worries at all! Thanks for considering the trade. Feel free to reach out if you change your mind or if you have other items you'd like to discuss. Happy bartering!"
		},
	},
}

func fallbackResponse(message string, item model.Item) string {
	lower := strings.ToLower(message)
	for _, rule := range replyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply(item)
			}
		}
	}
	return fmt.Sprintf("Thanks for your message! I'm interested in discussing this trade further. Could you tell me more about what you're offering for my %s? I'm looking for fair trades that work well for both of us.", item.Title)
}

// suggestedCash is 10% of the item value, or 50 when that rounds to nothing.
func suggestedCash(value float64) float64 {
	if cash := math.Round(model.NonNegative(value) * 0.1); cash > 0 {
		return cash
	}
	return 50
}

func money(v float64) string {
	return strconv.FormatFloat(model.NonNegative(v), 'f', -1, 64)
}
