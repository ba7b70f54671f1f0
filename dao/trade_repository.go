package dao

import (
	"context"
	"database/sql"
	"time"

	"ecobarter-backend/db"
	"ecobarter-backend/model"
)

type TradeRepository struct {
	conn *db.Conn
	q    db.Querier
}

func NewTradeRepository(conn *db.Conn) *TradeRepository {
	return &TradeRepository{conn: conn, q: conn}
}

// WithTx returns a copy of the repository that runs its statements in tx.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{conn: r.conn, q: tx}
}

func (r *TradeRepository) Insert(ctx context.Context, trade *model.Trade) error {
	query := `INSERT INTO trades (id, requester_id, owner_id, requester_item_id, owner_item_id, status, message, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var requesterItemID sql.NullString
	if trade.RequesterItemID != nil {
		requesterItemID = sql.NullString{String: *trade.RequesterItemID, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, r.conn.Rebind(query),
		trade.ID, trade.RequesterID, trade.OwnerID, requesterItemID, trade.OwnerItemID,
		trade.Status, trade.Message, trade.CreatedAt.UnixMilli(), trade.UpdatedAt.UnixMilli())
	return err
}

func (r *TradeRepository) GetByID(ctx context.Context, id string) (*model.Trade, error) {
	query := `SELECT id, requester_id, owner_id, requester_item_id, owner_item_id, status, message, created_at, updated_at
              FROM trades WHERE id = ?`

	var trade model.Trade
	var requesterItemID, message sql.NullString
	var createdAt, updatedAt int64
	err := r.q.QueryRowContext(ctx, r.conn.Rebind(query), id).Scan(&trade.ID, &trade.RequesterID, &trade.OwnerID,
		&requesterItemID, &trade.OwnerItemID, &trade.Status, &message, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}
	if requesterItemID.Valid {
		trade.RequesterItemID = &requesterItemID.String
	}
	trade.Message = message.String
	trade.CreatedAt = time.UnixMilli(createdAt)
	trade.UpdatedAt = time.UnixMilli(updatedAt)
	return &trade, nil
}

// TransitionStatus moves a trade out of the from status. It reports false
// when the trade has already left it.
func (r *TradeRepository) TransitionStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	query := `UPDATE trades SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	return affectedOne(r.q.ExecContext(ctx, r.conn.Rebind(query), to, at.UnixMilli(), id, from))
}
