package controller

import (
	"net/http"
	"strconv"

	"ecobarter-backend/model"
	"ecobarter-backend/usecase"

	"github.com/gorilla/mux"
)

type ItemController struct {
	usecase *usecase.ItemUsecase
}

func NewItemController(usecase *usecase.ItemUsecase) *ItemController {
	return &ItemController{usecase: usecase}
}

// GetItems lists the available listings, or all of one user's listings
// when user_id is given.
func (c *ItemController) GetItems(w http.ResponseWriter, r *http.Request) {
	var items []model.Item
	var err error
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		items, err = c.usecase.GetItemsByUser(r.Context(), userID)
	} else {
		items, err = c.usecase.GetAllItems(r.Context())
	}
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (c *ItemController) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := c.usecase.GetItemByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

type createItemRequest struct {
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Value       float64  `json:"value"`
	Images      []string `json:"images"`
}

func (c *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := c.usecase.CreateItem(r.Context(), usecase.CreateItemInput{
		UserID:      actingUser(r, req.UserID),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		Value:       req.Value,
		Images:      req.Images,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

type statusRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

func (c *ItemController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := c.usecase.UpdateStatus(r.Context(), mux.Vars(r)["id"], actingUser(r, req.UserID), req.Status)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// GetMatches ranks stored listings against one item. ?limit=N caps the list.
func (c *ItemController) GetMatches(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, err := c.usecase.FindMatches(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
