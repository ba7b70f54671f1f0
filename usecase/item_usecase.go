package usecase

import (
	"context"
	"strings"
	"time"

	"ecobarter-backend/dao"
	"ecobarter-backend/model"

	"github.com/zeromicro/go-zero/core/logx"
)

type ItemUsecase struct {
	itemRepo *dao.ItemRepository
	now      func() time.Time
}

func NewItemUsecase(itemRepo *dao.ItemRepository) *ItemUsecase {
	return &ItemUsecase{itemRepo: itemRepo, now: time.Now}
}

func (u *ItemUsecase) GetAllItems(ctx context.Context) ([]model.Item, error) {
	return u.itemRepo.GetAll(ctx)
}

// GetItemsByUser returns every listing of one user, whatever its status.
func (u *ItemUsecase) GetItemsByUser(ctx context.Context, userID string) ([]model.Item, error) {
	return u.itemRepo.GetByUser(ctx, userID)
}

func (u *ItemUsecase) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	item, err := u.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

type CreateItemInput struct {
	UserID      string
	Title       string
	Description string
	Category    string
	Condition   string
	Value       float64
	Images      []string
}

func (u *ItemUsecase) CreateItem(ctx context.Context, in CreateItemInput) (*model.Item, error) {
	title := strings.TrimSpace(in.Title)
	switch {
	case strings.TrimSpace(in.UserID) == "":
		return nil, invalidInput("user_id is required")
	case title == "":
		return nil, invalidInput("title is required")
	case strings.TrimSpace(in.Category) == "":
		return nil, invalidInput("category is required")
	}
	condition := in.Condition
	if condition == "" {
		condition = model.ConditionGood
	}
	if !model.ValidCondition(condition) {
		return nil, invalidInput("condition must be one of excellent, good, fair, poor")
	}
	if in.Value < 0 || in.Value != in.Value {
		return nil, invalidInput("value must be a non-negative number")
	}

	now := u.now()
	item := &model.Item{
		ID:          model.NewID(),
		UserID:      in.UserID,
		Title:       title,
		Description: in.Description,
		Category:    in.Category,
		Condition:   condition,
		Value:       in.Value,
		Images:      in.Images,
		Status:      model.StatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if item.Images == nil {
		item.Images = []string{}
	}
	if err := u.itemRepo.Insert(ctx, item); err != nil {
		return nil, err
	}
	logx.WithContext(ctx).Infof("item %s created by %s", item.ID, item.UserID)
	return item, nil
}

var itemTransitions = map[string][]string{
	model.StatusAvailable: {model.StatusTrading},
	model.StatusTrading:   {model.StatusTraded, model.StatusAvailable},
}

func canMoveItem(from, to string) bool {
	for _, s := range itemTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UpdateStatus moves an item through available -> trading -> traded. Only the
// owner may do so.
func (u *ItemUsecase) UpdateStatus(ctx context.Context, itemID, userID, status string) (*model.Item, error) {
	item, err := u.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrUnauthorized
	}
	if !canMoveItem(item.Status, status) {
		return nil, ErrInvalidTransition
	}
	now := u.now()
	if err := u.itemRepo.UpdateStatus(ctx, item.ID, status, now); err != nil {
		return nil, err
	}
	item.Status = status
	item.UpdatedAt = now
	return item, nil
}

// FindMatches scores the stored candidates for a listed item. limit <= 0
// returns every candidate.
func (u *ItemUsecase) FindMatches(ctx context.Context, itemID string, limit int) ([]model.CompatibilityResult, error) {
	item, err := u.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return u.Match(ctx, *item, nil, limit)
}

// Match scores candidates against item. When candidates is nil they are
// loaded from the store.
func (u *ItemUsecase) Match(ctx context.Context, item model.Item, candidates []model.Item, limit int) ([]model.CompatibilityResult, error) {
	var results []model.CompatibilityResult
	if candidates == nil {
		var err error
		if results, err = FindMatches(ctx, u.itemRepo, item); err != nil {
			return nil, err
		}
	} else {
		results = Score(item, candidates)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
