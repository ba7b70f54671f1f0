package usecase

import (
	"net/http"

	"github.com/zeromicro/x/errors"
)

// Errors carry the HTTP status the controller should answer with.
var (
	ErrItemNotFound      = errors.New(http.StatusNotFound, "item not found")
	ErrTradeNotFound     = errors.New(http.StatusNotFound, "trade not found")
	ErrUnauthorized      = errors.New(http.StatusForbidden, "unauthorized")
	ErrSelfTrade         = errors.New(http.StatusBadRequest, "cannot trade for your own item")
	ErrItemUnavailable   = errors.New(http.StatusConflict, "item is not available for trade")
	ErrInvalidTransition = errors.New(http.StatusConflict, "invalid status transition")
	ErrTradeClosed       = errors.New(http.StatusConflict, "trade is closed")
)

func invalidInput(msg string) error {
	return errors.New(http.StatusBadRequest, msg)
}
