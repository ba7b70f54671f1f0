package dao

import (
	"context"
	"testing"
	"time"

	"ecobarter-backend/db"
	"ecobarter-backend/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(t *testing.T) *db.Conn {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	return conn
}

func newItem(id, owner string, value float64, created time.Time) *model.Item {
	return &model.Item{
		ID:          id,
		UserID:      owner,
		Title:       "Item " + id,
		Description: "desc",
		Category:    "Electronics",
		Condition:   model.ConditionGood,
		Value:       value,
		Images:      []string{"a.jpg", "b.jpg"},
		Status:      model.StatusAvailable,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestItemRepository_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestConn(t))
	now := time.UnixMilli(time.Now().UnixMilli())

	require.NoError(t, repo.Insert(ctx, newItem("i1", "alice", 120.5, now)))

	got, err := repo.GetByID(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, 120.5, got.Value)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
	assert.True(t, now.Equal(got.CreatedAt))

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemRepository_ListCandidates(t *testing.T) {
	ctx := context.Background()
	repo := NewItemRepository(newTestConn(t))
	base := time.Now()

	require.NoError(t, repo.Insert(ctx, newItem("mine", "alice", 100, base)))
	require.NoError(t, repo.Insert(ctx, newItem("b1", "bob", 100, base.Add(time.Second))))
	require.NoError(t, repo.Insert(ctx, newItem("b2", "bob", 100, base.Add(2*time.Second))))
	require.NoError(t, repo.Insert(ctx, newItem("c1", "carol", 100, base.Add(3*time.Second))))
	require.NoError(t, repo.UpdateStatus(ctx, "b1", model.StatusTrading, time.Now()))

	got, err := repo.ListCandidates(ctx, "alice", "mine")
	require.NoError(t, err)
	var ids []string
	for _, it := range got {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"c1", "b2"}, ids)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	bobs, err := repo.GetByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bobs, 2)

	ok, err := repo.TransitionStatus(ctx, "b1", model.StatusAvailable, model.StatusTraded, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.TransitionStatus(ctx, "b1", model.StatusTrading, model.StatusTraded, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTradeRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTradeRepository(newTestConn(t))
	now := time.UnixMilli(time.Now().UnixMilli())

	offered := "i1"
	trade := &model.Trade{
		ID:              "t1",
		RequesterID:     "alice",
		OwnerID:         "bob",
		RequesterItemID: &offered,
		OwnerItemID:     "i2",
		Status:          model.TradePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.Insert(ctx, trade))
	ok, err := repo.TransitionStatus(ctx, "t1", model.TradePending, model.TradeAccepted, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.TransitionStatus(ctx, "t1", model.TradePending, model.TradeDeclined, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.TradeAccepted, got.Status)
	require.NotNil(t, got.RequesterItemID)
	assert.Equal(t, "i1", *got.RequesterItemID)
	assert.True(t, now.Add(time.Minute).Equal(got.UpdatedAt))

	missing, err := repo.GetByID(ctx, "t2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMessageRepository_TurnsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(newTestConn(t))
	base := time.Now()

	turns := []model.NegotiationTurn{
		{ID: "m2", TradeID: "t1", SenderID: "bob", Sender: model.SenderAgent, Content: "reply", Kind: model.TurnMessage, CreatedAt: base.Add(time.Second)},
		{ID: "m1", TradeID: "t1", SenderID: "alice", Sender: model.SenderUser, Content: "hello", Kind: model.TurnProposal, CreatedAt: base},
		{ID: "m3", TradeID: "t2", SenderID: "carol", Sender: model.SenderUser, Content: "other", Kind: model.TurnMessage, CreatedAt: base},
	}
	for i := range turns {
		require.NoError(t, repo.CreateTurn(ctx, &turns[i]))
	}

	got, err := repo.GetTurnsByTradeID(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, model.TurnProposal, got[0].Kind)
	assert.Equal(t, "m2", got[1].ID)
}
