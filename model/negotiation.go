package model

import "time"

const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

const (
	TurnMessage  = "message"
	TurnProposal = "proposal"
	TurnCounter  = "counter"
)

// NegotiationTurn is one entry of an append-only negotiation transcript.
type NegotiationTurn struct {
	ID        string    `json:"id"`
	TradeID   string    `json:"trade_id"`
	SenderID  string    `json:"sender_id"`
	Sender    string    `json:"sender"` // user or agent
	Content   string    `json:"content"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidTurnKind(k string) bool {
	return k == TurnMessage || k == TurnProposal || k == TurnCounter
}
