package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"ecobarter-backend/db"
	"ecobarter-backend/model"
)

const itemColumns = `id, user_id, title, description, category, item_condition, item_value, images, status, created_at, updated_at`

type ItemRepository struct {
	conn *db.Conn
	q    db.Querier
}

func NewItemRepository(conn *db.Conn) *ItemRepository {
	return &ItemRepository{conn: conn, q: conn}
}

// WithTx returns a copy of the repository that runs its statements in tx.
func (r *ItemRepository) WithTx(tx *sql.Tx) *ItemRepository {
	return &ItemRepository{conn: r.conn, q: tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	var item model.Item
	var images string
	var createdAt, updatedAt int64
	if err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.Category,
		&item.Condition, &item.Value, &images, &item.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if images != "" {
		if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
			return nil, err
		}
	}
	item.CreatedAt = time.UnixMilli(createdAt)
	item.UpdatedAt = time.UnixMilli(updatedAt)
	return &item, nil
}

func (r *ItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.q.QueryContext(ctx, r.conn.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetAll returns the available listings, newest first.
func (r *ItemRepository) GetAll(ctx context.Context) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = ? ORDER BY created_at DESC, id DESC`
	return r.queryItems(ctx, query, model.StatusAvailable)
}

// ListCandidates returns available items a user could trade for: everything
// not owned by excludeUserID, minus excludeItemID.
func (r *ItemRepository) ListCandidates(ctx context.Context, excludeUserID, excludeItemID string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = ? AND user_id <> ? AND id <> ? ORDER BY created_at DESC, id DESC`
	return r.queryItems(ctx, query, model.StatusAvailable, excludeUserID, excludeItemID)
}

func (r *ItemRepository) GetByUser(ctx context.Context, userID string) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.queryItems(ctx, query, userID)
}

func (r *ItemRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	item, err := scanItem(r.q.QueryRowContext(ctx, r.conn.Rebind(query), id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) Insert(ctx context.Context, item *model.Item) error {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return err
	}
	query := `INSERT INTO items (` + itemColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.q.ExecContext(ctx, r.conn.Rebind(query),
		item.ID, item.UserID, item.Title, item.Description, item.Category, item.Condition,
		item.Value, string(encoded), item.Status, item.CreatedAt.UnixMilli(), item.UpdatedAt.UnixMilli())
	return err
}

func (r *ItemRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	query := `UPDATE items SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, r.conn.Rebind(query), status, at.UnixMilli(), id)
	return err
}

// TransitionStatus moves an item from one status to another and reports
// whether it was still in the from status. Concurrent transitions of the same
// item cannot both succeed.
func (r *ItemRepository) TransitionStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	query := `UPDATE items SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	return affectedOne(r.q.ExecContext(ctx, r.conn.Rebind(query), to, at.UnixMilli(), id, from))
}

func affectedOne(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
