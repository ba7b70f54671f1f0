package dao

import (
	"context"
	"database/sql"
	"time"

	"ecobarter-backend/db"
	"ecobarter-backend/model"
)

type MessageRepository struct {
	conn *db.Conn
	q    db.Querier
}

func NewMessageRepository(conn *db.Conn) *MessageRepository {
	return &MessageRepository{conn: conn, q: conn}
}

// WithTx returns a copy of the repository that runs its statements in tx.
func (r *MessageRepository) WithTx(tx *sql.Tx) *MessageRepository {
	return &MessageRepository{conn: r.conn, q: tx}
}

func (r *MessageRepository) CreateTurn(ctx context.Context, turn *model.NegotiationTurn) error {
	query := `INSERT INTO negotiation_turns (id, trade_id, sender_id, sender, content, kind, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, r.conn.Rebind(query),
		turn.ID, turn.TradeID, turn.SenderID, turn.Sender, turn.Content, turn.Kind, turn.CreatedAt.UnixMilli())
	return err
}

// GetTurnsByTradeID returns the transcript in the order it was written.
func (r *MessageRepository) GetTurnsByTradeID(ctx context.Context, tradeID string) ([]model.NegotiationTurn, error) {
	query := `SELECT id, trade_id, sender_id, sender, content, kind, created_at
              FROM negotiation_turns
              WHERE trade_id = ?
              ORDER BY created_at ASC, id ASC`

	rows, err := r.q.QueryContext(ctx, r.conn.Rebind(query), tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := []model.NegotiationTurn{}
	for rows.Next() {
		var turn model.NegotiationTurn
		var createdAt int64
		if err := rows.Scan(&turn.ID, &turn.TradeID, &turn.SenderID, &turn.Sender, &turn.Content, &turn.Kind, &createdAt); err != nil {
			return nil, err
		}
		turn.CreatedAt = time.UnixMilli(createdAt)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
