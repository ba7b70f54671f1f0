package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	xerrors "github.com/zeromicro/x/errors"
)

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondErr answers with the status carried by a coded error, or 500.
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var codeMsg *xerrors.CodeMsg
	if errors.As(err, &codeMsg) {
		respondError(w, codeMsg.Code, codeMsg.Msg)
		return
	}
	logx.WithContext(r.Context()).Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// actingUser identifies the caller. Authentication happens upstream; the
// verified id arrives in X-User-ID or, failing that, the user_id query value.
func actingUser(r *http.Request, bodyUserID string) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	if bodyUserID != "" {
		return bodyUserID
	}
	return r.URL.Query().Get("user_id")
}
