package model

import "time"

const (
	TradePending   = "pending"
	TradeAccepted  = "accepted"
	TradeDeclined  = "declined"
	TradeCompleted = "completed"
	TradeCancelled = "cancelled"
)

type Trade struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requester_id"`
	OwnerID         string    `json:"owner_id"`
	RequesterItemID *string   `json:"requester_item_id,omitempty"` // Nullable
	OwnerItemID     string    `json:"owner_item_id"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
