package usecase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecobarter-backend/dao"
	"ecobarter-backend/db"
	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

// fakeChat serves chat completions. reply receives the requested model and
// returns a status and the assistant content.
func fakeChat(t *testing.T, reply func(model string) (int, string)) (llm.Settings, *[]string) {
	t.Helper()
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m := gjson.GetBytes(body, "model").String()
		models = append(models, m)
		status, content := reply(m)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_, _ = w.Write([]byte(completionBody(content)))
	}))
	t.Cleanup(srv.Close)
	return llm.Settings{APIKey: "gsk_test", BaseURL: srv.URL + "/", Timeout: 2 * time.Second}, &models
}

func newTestAI() *AIUsecase {
	u := NewAIUsecase()
	u.intn = func(int) int { return 0 }
	u.newGemini = nil
	return u
}

type testStore struct {
	conn   *db.Conn
	items  *dao.ItemRepository
	trades *dao.TradeRepository
	turns  *dao.MessageRepository
}

func newTestStore(t *testing.T) testStore {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn))
	return testStore{
		conn:   conn,
		items:  dao.NewItemRepository(conn),
		trades: dao.NewTradeRepository(conn),
		turns:  dao.NewMessageRepository(conn),
	}
}

func (s testStore) addItem(t *testing.T, id, owner, title, category string, value float64) model.Item {
	t.Helper()
	now := time.UnixMilli(time.Now().UnixMilli())
	item := model.Item{
		ID:          id,
		UserID:      owner,
		Title:       title,
		Description: title + " for trade",
		Category:    category,
		Condition:   model.ConditionGood,
		Value:       value,
		Images:      []string{},
		Status:      model.StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.items.Insert(context.Background(), &item))
	return item
}
