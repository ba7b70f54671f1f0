package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
)

// Migrate creates the tables used by the marketplace store. Statements are
// idempotent so it can run on every start.
func Migrate(ctx context.Context, c *Conn) error {
	float := "DOUBLE"
	switch c.Driver {
	case DriverPostgres:
		float = "DOUBLE PRECISION"
	case DriverSQLite:
		float = "REAL"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(64) NOT NULL,
			item_condition VARCHAR(16) NOT NULL,
			item_value ` + float + ` NOT NULL DEFAULT 0,
			images TEXT NOT NULL,
			status VARCHAR(16) NOT NULL,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id VARCHAR(64) PRIMARY KEY,
			requester_id VARCHAR(64) NOT NULL,
			owner_id VARCHAR(64) NOT NULL,
			requester_item_id VARCHAR(64),
			owner_item_id VARCHAR(64) NOT NULL,
			status VARCHAR(16) NOT NULL,
			message TEXT,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS negotiation_turns (
			id VARCHAR(64) PRIMARY KEY,
			trade_id VARCHAR(64) NOT NULL,
			sender_id VARCHAR(64) NOT NULL,
			sender VARCHAR(16) NOT NULL,
			content TEXT NOT NULL,
			kind VARCHAR(16) NOT NULL,
			created_at BIGINT NOT NULL
		)`,
	}
	// MySQL has no CREATE INDEX IF NOT EXISTS
	if c.Driver != DriverMySQL {
		queries = append(queries,
			`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
			`CREATE INDEX IF NOT EXISTS idx_turns_trade_id ON negotiation_turns(trade_id)`,
		)
	}

	for _, q := range queries {
		if _, err := c.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate %q: %w", firstLine(q), err)
		}
		logx.Infof("Executed successfully: %s ...", firstLine(q))
	}
	return nil
}

func firstLine(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		q = q[:i]
	}
	return strings.TrimSuffix(strings.TrimSpace(q), "(")
}
