package controller

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"ecobarter-backend/model"
	"ecobarter-backend/pkg/llm"
	"ecobarter-backend/usecase"

	"github.com/zeromicro/go-zero/core/logx"
)

// SettingsSource hands out the remote-model settings for one request.
type SettingsSource interface {
	AISettings() llm.Settings
}

type AIController struct {
	ai       *usecase.AIUsecase
	items    *usecase.ItemUsecase
	settings SettingsSource
	now      func() time.Time
}

func NewAIController(ai *usecase.AIUsecase, items *usecase.ItemUsecase, settings SettingsSource) *AIController {
	return &AIController{ai: ai, items: items, settings: settings, now: time.Now}
}

type negotiateRequest struct {
	Message     string      `json:"message"`
	ItemContext itemPayload `json:"itemContext"`
}

func (c *AIController) Negotiate(w http.ResponseWriter, r *http.Request) {
	var req negotiateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	response := c.ai.Respond(r.Context(), c.settings.AISettings(), req.Message, req.ItemContext.item)
	respondJSON(w, http.StatusOK, map[string]string{
		"response":  response,
		"timestamp": c.now().UTC().Format(time.RFC3339),
	})
}

type tradeAdviceRequest struct {
	UserItem   itemPayload `json:"userItem"`
	TargetItem itemPayload `json:"targetItem"`
}

func (c *AIController) TradeAdvice(w http.ResponseWriter, r *http.Request) {
	var req tradeAdviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.UserItem.present || !req.TargetItem.present {
		respondError(w, http.StatusBadRequest, "Both userItem and targetItem are required")
		return
	}

	advice := c.ai.Advise(r.Context(), c.settings.AISettings(), req.UserItem.item, req.TargetItem.item)
	respondJSON(w, http.StatusOK, map[string]string{
		"advice":    advice,
		"timestamp": c.now().UTC().Format(time.RFC3339),
	})
}

type matchesRequest struct {
	Item       itemPayload `json:"item"`
	Candidates itemList    `json:"candidates"`
	Limit      int         `json:"limit"`
}

// Matches ranks the given candidates, or the stored listings when none are
// sent, against item.
func (c *AIController) Matches(w http.ResponseWriter, r *http.Request) {
	var req matchesRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Item.present {
		respondError(w, http.StatusBadRequest, "item is required")
		return
	}

	results, err := c.items.Match(r.Context(), req.Item.item, req.Candidates, req.Limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

// maxUploadBytes bounds the multipart body. Images above usecase.MaxImageSize
// but below this still reach the descriptor, which falls back to the file name.
const maxUploadBytes = 4 * usecase.MaxImageSize

func (c *AIController) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		respondError(w, http.StatusBadRequest, "multipart form with an image field is required")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	blob := model.ImageBlob{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
	}
	logx.WithContext(r.Context()).Infof("analyze image %q (%s, %d bytes)", blob.Name, blob.MediaType, blob.Size())
	respondJSON(w, http.StatusOK, c.ai.Analyze(r.Context(), c.settings.AISettings(), blob))
}

type addOnsRequest struct {
	Value float64 `json:"value"`
}

func (c *AIController) AddOns(w http.ResponseWriter, r *http.Request) {
	var req addOnsRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	respondJSON(w, http.StatusOK, c.ai.AddOns(req.Value))
}

type describeRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

func (c *AIController) Describe(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	description := c.ai.DescribeItem(r.Context(), c.settings.AISettings(), req.Title, req.Category)
	respondJSON(w, http.StatusOK, map[string]string{"description": description})
}
