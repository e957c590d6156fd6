package handlers

import (
	"GophTodo/internal/service"
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor сопоставляет вид ошибки сервиса с HTTP-статусом
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает клиенту по виду ошибки. Детали сбоев хранилища остаются в логах.
func (h *TodoHandler) writeError(w http.ResponseWriter, op, userID string, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		h.Logger.Errorw(op+": service error", "user_id", userID, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	h.Logger.Warnw(op+": request rejected", "user_id", userID, "kind", kind.String(), "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
