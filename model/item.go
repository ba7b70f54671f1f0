package model

import "time"

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

const (
	StatusAvailable = "available"
	StatusTrading   = "trading"
	StatusTraded    = "traded"
)

type Item struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Value       float64   `json:"value"`
	Images      []string  `json:"images"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompatibilityResult is an Item annotated with a transient match score.
type CompatibilityResult struct {
	Item
	Compatibility int `json:"compatibility"`
}

func ValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

// NonNegative returns v, or 0 when v is negative or not a number.
func NonNegative(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	return v
}
