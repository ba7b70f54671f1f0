package controller

import (
	"net/http"

	"ecobarter-backend/model"
	"ecobarter-backend/usecase"

	"github.com/gorilla/mux"
)

type TradeController struct {
	usecase  *usecase.NegotiationUsecase
	settings SettingsSource
}

func NewTradeController(usecase *usecase.NegotiationUsecase, settings SettingsSource) *TradeController {
	return &TradeController{usecase: usecase, settings: settings}
}

type startTradeRequest struct {
	UserID          string `json:"user_id"`
	OwnerItemID     string `json:"owner_item_id"`
	RequesterItemID string `json:"requester_item_id"`
	Message         string `json:"message"`
}

func (c *TradeController) StartTrade(w http.ResponseWriter, r *http.Request) {
	var req startTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trade, err := c.usecase.StartTrade(r.Context(), usecase.StartTradeInput{
		RequesterID:     actingUser(r, req.UserID),
		OwnerItemID:     req.OwnerItemID,
		RequesterItemID: req.RequesterItemID,
		Message:         req.Message,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, trade)
}

func (c *TradeController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	trade, err := c.usecase.UpdateTradeStatus(r.Context(), mux.Vars(r)["id"], actingUser(r, req.UserID), req.Status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, trade)
}

func (c *TradeController) GetMessages(w http.ResponseWriter, r *http.Request) {
	turns, err := c.usecase.ListMessages(r.Context(), mux.Vars(r)["id"], actingUser(r, ""))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, turns)
}

type sendMessageRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
	Kind    string `json:"kind"`
}

type sendMessageResponse struct {
	Message *model.NegotiationTurn `json:"message"`
	Reply   *model.NegotiationTurn `json:"reply,omitempty"`
}

func (c *TradeController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userTurn, agentTurn, err := c.usecase.SendMessage(r.Context(), c.settings.AISettings(),
		mux.Vars(r)["id"], actingUser(r, req.UserID), req.Content, req.Kind)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, sendMessageResponse{Message: userTurn, Reply: agentTurn})
}
