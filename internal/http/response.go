package http

import (
	"encoding/json"
	"net/http"

	"rupeetrack/internal/log"
	"rupeetrack/internal/middleware/trace"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Encode response failed", log.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, RequestID: trace.GetRequestID(r.Context())})
}
