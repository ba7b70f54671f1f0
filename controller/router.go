package controller

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type Router struct {
	AI      *AIController
	Items   *ItemController
	Trades  *TradeController
	Limiter *rate.Limiter
}

// SetupRoutes wires every endpoint. CORS wraps the router so preflight
// requests are answered even for routes that only accept POST or PUT.
func (rt *Router) SetupRoutes() http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(loggingMiddleware)

	router.HandleFunc("/health", HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(rt.Limiter))
	api.HandleFunc("/negotiate", rt.AI.Negotiate).Methods(http.MethodPost)
	api.HandleFunc("/trade-advice", rt.AI.TradeAdvice).Methods(http.MethodPost)
	api.HandleFunc("/matches", rt.AI.Matches).Methods(http.MethodPost)
	api.HandleFunc("/analyze-image", rt.AI.AnalyzeImage).Methods(http.MethodPost)
	api.HandleFunc("/add-ons", rt.AI.AddOns).Methods(http.MethodPost)
	api.HandleFunc("/describe", rt.AI.Describe).Methods(http.MethodPost)

	router.HandleFunc("/items", rt.Items.GetItems).Methods(http.MethodGet)
	router.HandleFunc("/items", rt.Items.CreateItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", rt.Items.GetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/status", rt.Items.UpdateStatus).Methods(http.MethodPut)
	router.HandleFunc("/items/{id}/matches", rt.Items.GetMatches).Methods(http.MethodGet)

	router.HandleFunc("/trades", rt.Trades.StartTrade).Methods(http.MethodPost)
	router.HandleFunc("/trades/{id}/status", rt.Trades.UpdateStatus).Methods(http.MethodPut)
	router.HandleFunc("/trades/{id}/messages", rt.Trades.GetMessages).Methods(http.MethodGet)
	router.HandleFunc("/trades/{id}/messages", rt.Trades.SendMessage).Methods(http.MethodPost)

	return corsMiddleware(router)
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "ecobarter-backend",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
