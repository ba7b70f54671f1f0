package usecase

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"ecobarter-backend/dao"
	"ecobarter-backend/db"
	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"

	"github.com/zeromicro/go-zero/core/logx"
)

type NegotiationUsecase struct {
	conn      *db.Conn
	itemRepo  *dao.ItemRepository
	tradeRepo *dao.TradeRepository
	msgRepo   *dao.MessageRepository
	ai        *AIUsecase
	now       func() time.Time
}

func NewNegotiationUsecase(conn *db.Conn, itemRepo *dao.ItemRepository, tradeRepo *dao.TradeRepository, msgRepo *dao.MessageRepository, ai *AIUsecase) *NegotiationUsecase {
	return &NegotiationUsecase{
		conn:      conn,
		itemRepo:  itemRepo,
		tradeRepo: tradeRepo,
		msgRepo:   msgRepo,
		ai:        ai,
		now:       time.Now,
	}
}

type StartTradeInput struct {
	RequesterID     string
	OwnerItemID     string
	RequesterItemID string
	Message         string
}

// StartTrade opens a pending trade on someone else's available item. An
// opening message is stored as the first proposal turn.
func (u *NegotiationUsecase) StartTrade(ctx context.Context, in StartTradeInput) (*model.Trade, error) {
	if strings.TrimSpace(in.RequesterID) == "" {
		return nil, invalidInput("requester_id is required")
	}
	ownerItem, err := u.loadItem(ctx, in.OwnerItemID)
	if err != nil {
		return nil, err
	}
	if ownerItem.UserID == in.RequesterID {
		return nil, ErrSelfTrade
	}
	if ownerItem.Status != model.StatusAvailable {
		return nil, ErrItemUnavailable
	}

	var requesterItemID *string
	if in.RequesterItemID != "" {
		offered, err := u.loadItem(ctx, in.RequesterItemID)
		if err != nil {
			return nil, err
		}
		if offered.UserID != in.RequesterID {
			return nil, ErrUnauthorized
		}
		if offered.Status != model.StatusAvailable {
			return nil, ErrItemUnavailable
		}
		requesterItemID = &offered.ID
	}

	now := u.now()
	trade := &model.Trade{
		ID:              model.NewID(),
		RequesterID:     in.RequesterID,
		OwnerID:         ownerItem.UserID,
		RequesterItemID: requesterItemID,
		OwnerItemID:     ownerItem.ID,
		Status:          model.TradePending,
		Message:         strings.TrimSpace(in.Message),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = u.conn.InTx(ctx, func(tx *sql.Tx) error {
		if err := u.tradeRepo.WithTx(tx).Insert(ctx, trade); err != nil {
			return err
		}
		if trade.Message == "" {
			return nil
		}
		return u.msgRepo.WithTx(tx).CreateTurn(ctx, &model.NegotiationTurn{
			ID:        model.NewID(),
			TradeID:   trade.ID,
			SenderID:  trade.RequesterID,
			Sender:    model.SenderUser,
			Content:   trade.Message,
			Kind:      model.TurnProposal,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	logx.WithContext(ctx).Infof("trade %s opened by %s on item %s", trade.ID, trade.RequesterID, trade.OwnerItemID)
	return trade, nil
}

func (u *NegotiationUsecase) GetTrade(ctx context.Context, tradeID, userID string) (*model.Trade, error) {
	trade, err := u.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade == nil {
		return nil, ErrTradeNotFound
	}
	if userID != trade.RequesterID && userID != trade.OwnerID {
		return nil, ErrUnauthorized
	}
	return trade, nil
}

// SendMessage appends a user turn. When the requester writes, the negotiation
// agent answers on the owner's behalf and its reply is stored as well.
func (u *NegotiationUsecase) SendMessage(ctx context.Context, s llm.Settings, tradeID, senderID, content, kind string) (*model.NegotiationTurn, *model.NegotiationTurn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, invalidInput("content is required")
	}
	if kind == "" {
		kind = model.TurnMessage
	}
	if !model.ValidTurnKind(kind) {
		return nil, nil, invalidInput("kind must be one of message, proposal, counter")
	}

	trade, err := u.GetTrade(ctx, tradeID, senderID)
	if err != nil {
		return nil, nil, err
	}
	if trade.Status != model.TradePending && trade.Status != model.TradeAccepted {
		return nil, nil, ErrTradeClosed
	}

	now := u.now()
	userTurn := &model.NegotiationTurn{
		ID:        model.NewID(),
		TradeID:   trade.ID,
		SenderID:  senderID,
		Sender:    model.SenderUser,
		Content:   content,
		Kind:      kind,
		CreatedAt: now,
	}
	if err := u.msgRepo.CreateTurn(ctx, userTurn); err != nil {
		return nil, nil, err
	}

	if senderID != trade.RequesterID {
		return userTurn, nil, nil
	}

	ownerItem, err := u.loadItem(ctx, trade.OwnerItemID)
	if err != nil {
		return userTurn, nil, err
	}
	agentTurn := &model.NegotiationTurn{
		ID:        model.NewID(),
		TradeID:   trade.ID,
		SenderID:  trade.OwnerID,
		Sender:    model.SenderAgent,
		Content:   u.ai.Respond(ctx, s, content, *ownerItem),
		Kind:      model.TurnMessage,
		CreatedAt: now.Add(time.Millisecond),
	}
	if err := u.msgRepo.CreateTurn(ctx, agentTurn); err != nil {
		return userTurn, nil, err
	}
	return userTurn, agentTurn, nil
}

// ListMessages returns the transcript oldest first. Only the two parties may
// read it.
func (u *NegotiationUsecase) ListMessages(ctx context.Context, tradeID, userID string) ([]model.NegotiationTurn, error) {
	if _, err := u.GetTrade(ctx, tradeID, userID); err != nil {
		return nil, err
	}
	return u.msgRepo.GetTurnsByTradeID(ctx, tradeID)
}

// UpdateTradeStatus applies a trade transition and moves the items involved:
// accepted puts them in trading, completed marks them traded and a
// cancellation after acceptance releases them. The trade row and its items
// change together or not at all.
func (u *NegotiationUsecase) UpdateTradeStatus(ctx context.Context, tradeID, userID, status string) (*model.Trade, error) {
	trade, err := u.GetTrade(ctx, tradeID, userID)
	if err != nil {
		return nil, err
	}
	if err := checkTradeTransition(trade, userID, status); err != nil {
		return nil, err
	}

	now := u.now()
	from, to := itemMove(trade.Status, status)
	err = u.conn.InTx(ctx, func(tx *sql.Tx) error {
		ok, err := u.tradeRepo.WithTx(tx).TransitionStatus(ctx, trade.ID, trade.Status, status, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidTransition
		}
		if to == "" {
			return nil
		}
		items := u.itemRepo.WithTx(tx)
		for _, id := range tradeItemIDs(trade) {
			ok, err := items.TransitionStatus(ctx, id, from, to, now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrItemUnavailable
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Infof("trade %s: %s -> %s by %s", trade.ID, trade.Status, status, userID)
	trade.Status = status
	trade.UpdatedAt = now
	return trade, nil
}

// itemMove returns the item status change that goes with a trade moving from
// one status to another, or empty strings when the items stay put.
func itemMove(from, to string) (string, string) {
	switch {
	case to == model.TradeAccepted:
		return model.StatusAvailable, model.StatusTrading
	case from == model.TradeAccepted && to == model.TradeCompleted:
		return model.StatusTrading, model.StatusTraded
	case from == model.TradeAccepted:
		return model.StatusTrading, model.StatusAvailable
	}
	return "", ""
}

func checkTradeTransition(trade *model.Trade, userID, to string) error {
	isOwner := userID == trade.OwnerID
	switch trade.Status {
	case model.TradePending:
		switch to {
		case model.TradeAccepted, model.TradeDeclined:
			if !isOwner {
				return ErrUnauthorized
			}
			return nil
		case model.TradeCancelled:
			return nil
		}
	case model.TradeAccepted:
		if to == model.TradeCompleted || to == model.TradeCancelled {
			return nil
		}
	case model.TradeDeclined, model.TradeCompleted, model.TradeCancelled:
		return ErrTradeClosed
	}
	return ErrInvalidTransition
}

func tradeItemIDs(trade *model.Trade) []string {
	ids := []string{trade.OwnerItemID}
	if trade.RequesterItemID != nil {
		ids = append(ids, *trade.RequesterItemID)
	}
	return ids
}

func (u *NegotiationUsecase) loadItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := u.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}
